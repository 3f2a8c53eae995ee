package lang

//go:generate go tool stringer --linecomment --type TokenKind --output token_string.go

import (
	"strconv"
)

// Position is a 1-based location in program text.
type Position struct {
	Line   int
	Column int
}

// String returns the position as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// TokenKind identifies the lexical class of a [Token].
type TokenKind int

const (
	TokenEOF TokenKind = iota // EOF

	TokenNumber  // NUMBER
	TokenBoolean // BOOLEAN
	TokenIdent   // ID

	// Operators and punctuation.
	TokenPlus    // PLUS
	TokenMinus   // MINUS
	TokenTimes   // TIMES
	TokenDivide  // DIVIDE
	TokenGreater // GREATER
	TokenLess    // LESS
	TokenEqual   // EQUAL
	TokenLParen  // LPAREN
	TokenRParen  // RPAREN

	// Reserved words.
	TokenMod       // MOD
	TokenAnd       // AND
	TokenOr        // OR
	TokenNot       // NOT
	TokenDefine    // DEFINE
	TokenFun       // FUN
	TokenIf        // IF
	TokenPrintNum  // PRINTNUM
	TokenPrintBool // PRINTBOOL
)

// keywords maps reserved words to their token kinds.
var keywords = map[string]TokenKind{
	"mod":        TokenMod,
	"and":        TokenAnd,
	"or":         TokenOr,
	"not":        TokenNot,
	"define":     TokenDefine,
	"fun":        TokenFun,
	"if":         TokenIf,
	"print-num":  TokenPrintNum,
	"print-bool": TokenPrintBool,
}

// Keywords returns the reserved words of the language.
func Keywords() []string {
	return sortedKeys(keywords)
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool {
	_, ok := keywords[s]

	return ok
}

// Token is a single lexical unit.
// Int is set for TokenNumber and Bool for TokenBoolean.
type Token struct {
	Kind TokenKind
	Text string
	Int  int64
	Bool bool
	Pos  Position
}

// String returns the source text of the token, or "EOF".
func (t Token) String() string {
	if t.Kind == TokenEOF {
		return "EOF"
	}

	return t.Text
}
