package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/minilisp/pkg"
)

// Parse lexes and parses src into a [Program].
// Empty or whitespace-only input yields a program with no statements.
//
// Arity is validated while parsing, so a returned Program is always
// well-formed; on error no Program is returned.
func Parse(ctx context.Context, src string, opts ...Option) (*Program, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}

	return ParseTokens(ctx, tokens, opts...)
}

// ParseReader parses a program read from r.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pkg.ErrReadInput.Wrap(err)
	}

	return Parse(ctx, string(data), opts...)
}

// ParseTokens parses a token sequence produced by [Lex].
// A missing trailing [TokenEOF] is implied.
func ParseTokens(
	ctx context.Context,
	tokens []Token,
	opts ...Option,
) (*Program, error) {
	c := makeConfig(opts...)

	p := &parser{tokens: tokens}

	prog, err := p.parseProgram()
	if err != nil {
		c.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	c.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(tokens)),
		slog.Int("statement_count", len(prog.Statements)))

	return prog, nil
}

// parser holds the parser state.
type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peekAt(offset int) Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		var pos Position
		if n := len(p.tokens); n > 0 {
			pos = p.tokens[n-1].Pos
		}

		return Token{Kind: TokenEOF, Pos: pos}
	}

	return p.tokens[i]
}

func (p *parser) peek() Token { return p.peekAt(0) }

func (p *parser) advance() Token {
	t := p.peek()
	if t.Kind != TokenEOF {
		p.pos++
	}

	return t
}

// unexpected reports t as a token no production accepts.
func unexpected(t Token) *Error {
	if t.Kind == TokenEOF {
		return ErrUnexpectedEOF.At(t.Pos)
	}

	return ErrGrammar.
		Msgf("Syntax error at '%s'", t.Text).
		At(t.Pos).
		With(tokenAttrs(t)...)
}

// expect consumes a token of the given kind.
func (p *parser) expect(kind TokenKind) (Token, error) {
	t := p.peek()
	if t.Kind != kind {
		return t, unexpected(t)
	}

	return p.advance(), nil
}

// parseProgram parses: statement*.
func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{Statements: make([]Node, 0)}

	for p.peek().Kind != TokenEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		prog.Statements = append(prog.Statements, stmt)
	}

	return prog, nil
}

// parseStatement parses: expression | define_stmt | print_stmt.
func (p *parser) parseStatement() (Node, error) {
	if p.peek().Kind == TokenLParen {
		switch p.peekAt(1).Kind {
		case TokenDefine:
			return p.parseDefine()

		case TokenPrintNum, TokenPrintBool:
			return p.parsePrint()
		}
	}

	return p.parseExpression()
}

// parseDefine parses: "(" "define" IDENT expression ")".
func (p *parser) parseDefine() (Node, error) {
	open := p.advance()
	p.advance()

	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	return &Define{Name: name.Text, Value: value, Start: open.Pos}, nil
}

// parsePrint parses: "(" ("print-num" | "print-bool") expression ")".
func (p *parser) parsePrint() (Node, error) {
	open := p.advance()
	head := p.advance()

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	form := PrintNum
	if head.Kind == TokenPrintBool {
		form = PrintBool
	}

	return &Print{Form: form, Value: value, Start: open.Pos}, nil
}

// parseExpression parses: NUMBER | BOOLEAN | IDENT | "(" form ")".
func (p *parser) parseExpression() (Node, error) {
	t := p.peek()

	switch t.Kind {
	case TokenNumber:
		p.advance()

		return &Number{Value: t.Int, Start: t.Pos}, nil

	case TokenBoolean:
		p.advance()

		return &Boolean{Value: t.Bool, Start: t.Pos}, nil

	case TokenIdent:
		p.advance()

		return &Variable{Name: t.Text, Start: t.Pos}, nil

	case TokenLParen:
		return p.parseForm()

	default:
		return nil, unexpected(t)
	}
}

// parseForm parses a parenthesised expression, dispatching on the token
// after the opening parenthesis.
func (p *parser) parseForm() (Node, error) {
	open := p.advance()
	head := p.peek()

	switch head.Kind {
	case TokenPlus, TokenTimes:
		return p.parseArithmetic(open, 2, -1)

	case TokenMinus, TokenDivide, TokenMod:
		return p.parseArithmetic(open, 2, 2)

	case TokenAnd, TokenOr:
		return p.parseLogical(open)

	case TokenNot:
		p.advance()

		args, err := p.parseClosedList(head, 1, 1)
		if err != nil {
			return nil, err
		}

		return &Not{Operand: args[0], Start: open.Pos}, nil

	case TokenGreater, TokenLess:
		p.advance()

		args, err := p.parseClosedList(head, 2, 2)
		if err != nil {
			return nil, err
		}

		op := OpGreater
		if head.Kind == TokenLess {
			op = OpLess
		}

		return &Comparison{
			Op:    op,
			Left:  args[0],
			Right: args[1],
			Start: open.Pos,
		}, nil

	case TokenEqual:
		p.advance()

		args, err := p.parseClosedList(head, 2, -1)
		if err != nil {
			return nil, err
		}

		return &Equal{Operands: args, Start: open.Pos}, nil

	case TokenIf:
		return p.parseIf(open)

	case TokenFun:
		return p.parseFunction(open)

	case TokenIdent:
		p.advance()

		target := &Variable{Name: head.Text, Start: head.Pos}

		return p.parseCall(open, target)

	case TokenLParen:
		// Only an inline function literal may be called.
		if p.peekAt(1).Kind != TokenFun {
			return nil, unexpected(p.peekAt(1))
		}

		fn, err := p.parseFunction(p.advance())
		if err != nil {
			return nil, err
		}

		return p.parseCall(open, fn)

	default:
		return nil, unexpected(head)
	}
}

// parseIf parses the remainder of: "(" "if" expression expression
// expression ")". A wrong operand count is a grammar error.
func (p *parser) parseIf(open Token) (Node, error) {
	p.advance()

	var args [3]Node

	for i := range args {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		args[i] = e
	}

	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	return &If{
		Cond:  args[0],
		Then:  args[1],
		Else:  args[2],
		Start: open.Pos,
	}, nil
}

var arithmeticOps = map[TokenKind]Operator{
	TokenPlus:   OpAdd,
	TokenMinus:  OpSub,
	TokenTimes:  OpMul,
	TokenDivide: OpDiv,
	TokenMod:    OpMod,
}

func (p *parser) parseArithmetic(open Token, lo, hi int) (Node, error) {
	head := p.advance()

	args, err := p.parseClosedList(head, lo, hi)
	if err != nil {
		return nil, err
	}

	return &Arithmetic{
		Op:       arithmeticOps[head.Kind],
		Operands: args,
		Start:    open.Pos,
	}, nil
}

func (p *parser) parseLogical(open Token) (Node, error) {
	head := p.advance()

	args, err := p.parseClosedList(head, 2, -1)
	if err != nil {
		return nil, err
	}

	op := OpAnd
	if head.Kind == TokenOr {
		op = OpOr
	}

	return &Logical{Op: op, Operands: args, Start: open.Pos}, nil
}

// parseFunction parses the remainder of:
// "(" "fun" "(" expr_list ")" expr_list ")".
// open is the already consumed opening parenthesis.
func (p *parser) parseFunction(open Token) (*FunctionLiteral, error) {
	head := p.advance() // fun

	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	params, err := p.parseList()
	if err != nil {
		return nil, err
	}

	body, err := p.parseClosedList(head, 1, -1)
	if err != nil {
		return nil, err
	}

	return &FunctionLiteral{Params: params, Body: body, Start: open.Pos}, nil
}

// parseCall parses the argument list of a call whose target has been
// consumed.
func (p *parser) parseCall(open Token, target Node) (Node, error) {
	args, err := p.parseList()
	if err != nil {
		return nil, err
	}

	return &Call{Target: target, Args: args, Start: open.Pos}, nil
}

// parseList parses: expr_list ")". The closing parenthesis is consumed.
func (p *parser) parseList() ([]Node, error) {
	list := make([]Node, 0)

	for p.peek().Kind != TokenRParen {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		list = append(list, e)
	}

	p.advance()

	return list, nil
}

// parseClosedList parses an operand list and checks its size against the
// bounds of the form introduced by head.
func (p *parser) parseClosedList(head Token, lo, hi int) ([]Node, error) {
	list, err := p.parseList()
	if err != nil {
		return nil, err
	}

	if err := checkArity(head, list, lo, hi); err != nil {
		return nil, err
	}

	return list, nil
}

// checkArity requires lo <= len(args), and len(args) <= hi unless hi < 0.
func checkArity(head Token, args []Node, lo, hi int) error {
	n := len(args)

	var err *Error

	switch {
	case n < lo:
		err = ErrArity.Msgf("Need %d arguments, but got %d.", lo, n)

	case hi >= 0 && n > hi:
		err = ErrArity.Msgf("Expected %d arguments, but got %d.", hi, n)

	default:
		return nil
	}

	return err.At(head.Pos).With(
		slog.String("form", head.Text),
		slog.Int("got", n),
	)
}
