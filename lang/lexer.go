package lang

import (
	"log/slog"
	"strconv"
	"unicode/utf8"
)

// Lex converts program text into a token sequence terminated by a
// [TokenEOF] token. It fails on the first character that starts no token,
// and never returns a partial sequence.
func Lex(src string) ([]Token, error) {
	l := &lexer{input: src, line: 1, col: 1}

	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}

		l.tokens = append(l.tokens, tok)

		if tok.Kind == TokenEOF {
			return l.tokens, nil
		}
	}
}

// lexer holds the scanning state.
type lexer struct {
	input  string
	pos    int
	line   int
	col    int
	tokens []Token
}

func (l *lexer) eof() bool { return l.pos >= len(l.input) }

func (l *lexer) peek() byte {
	if l.eof() {
		return 0
	}

	return l.input[l.pos]
}

func (l *lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}

	return l.input[l.pos+offset]
}

func (l *lexer) position() Position {
	return Position{Line: l.line, Column: l.col}
}

// advance consumes n bytes on the current line.
func (l *lexer) advance(n int) {
	l.pos += n
	l.col += n
}

// skipSpace discards spaces, tabs, carriage returns and newlines.
// Only newlines advance the line counter.
func (l *lexer) skipSpace() {
	for !l.eof() {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance(1)

		case '\n':
			l.pos++
			l.line++
			l.col = 1

		default:
			return
		}
	}
}

var punctuation = map[byte]TokenKind{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenTimes,
	'/': TokenDivide,
	'>': TokenGreater,
	'<': TokenLess,
	'=': TokenEqual,
	'(': TokenLParen,
	')': TokenRParen,
}

func (l *lexer) next() (Token, error) {
	l.skipSpace()

	pos := l.position()

	if l.eof() {
		return Token{Kind: TokenEOF, Pos: pos}, nil
	}

	c := l.peek()

	switch {
	case isDigit(c), c == '-' && isDigit(l.peekAt(1)):
		return l.scanNumber(pos)

	case c == '#' && (l.peekAt(1) == 't' || l.peekAt(1) == 'f'):
		text := l.input[l.pos : l.pos+2]
		l.advance(2)

		return Token{
			Kind: TokenBoolean,
			Text: text,
			Bool: text == "#t",
			Pos:  pos,
		}, nil

	case isLower(c):
		return l.scanIdent(pos), nil
	}

	if kind, ok := punctuation[c]; ok {
		l.advance(1)

		return Token{Kind: kind, Text: string(c), Pos: pos}, nil
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])

	return Token{}, ErrLex.
		Msgf("Illegal character '%c'", r).
		At(pos)
}

// scanNumber scans -?(0|[1-9][0-9]*). A leading zero ends the literal, so
// "007" scans as three separate numbers.
func (l *lexer) scanNumber(pos Position) (Token, error) {
	start := l.pos
	if l.peek() == '-' {
		l.advance(1)
	}

	if l.peek() == '0' {
		l.advance(1)
	} else {
		for isDigit(l.peek()) {
			l.advance(1)
		}
	}

	text := l.input[start:l.pos]

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, ErrLex.
			Msgf("Integer literal out of range '%s'", text).
			At(pos).
			Wrap(err)
	}

	return Token{Kind: TokenNumber, Text: text, Int: n, Pos: pos}, nil
}

// scanIdent scans [a-z][a-z0-9-]* and classifies reserved words.
func (l *lexer) scanIdent(pos Position) Token {
	start := l.pos
	for isLower(l.peek()) || isDigit(l.peek()) || l.peek() == '-' {
		l.advance(1)
	}

	text := l.input[start:l.pos]

	kind, ok := keywords[text]
	if !ok {
		kind = TokenIdent
	}

	return Token{Kind: kind, Text: text, Pos: pos}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

// tokenAttrs describes a token for structured logging.
func tokenAttrs(t Token) []slog.Attr {
	return []slog.Attr{
		slog.String("token", t.String()),
		slog.String("kind", t.Kind.String()),
		slog.Int("line", t.Pos.Line),
		slog.Int("column", t.Pos.Column),
	}
}
