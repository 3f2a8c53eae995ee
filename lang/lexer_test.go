package lang

import (
	"errors"
	"testing"
)

func TestLex_Tokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenKind
		texts []string
	}{
		{
			name:  "empty",
			input: "",
			want:  []TokenKind{TokenEOF},
		},
		{
			name:  "whitespace only",
			input: " \t\r\n\n ",
			want:  []TokenKind{TokenEOF},
		},
		{
			name:  "print statement",
			input: "(print-num (+ 1 2))",
			want: []TokenKind{
				TokenLParen, TokenPrintNum, TokenLParen, TokenPlus,
				TokenNumber, TokenNumber, TokenRParen, TokenRParen, TokenEOF,
			},
		},
		{
			name:  "negative number versus minus",
			input: "-5 - 5",
			want:  []TokenKind{TokenNumber, TokenMinus, TokenNumber, TokenEOF},
			texts: []string{"-5", "-", "5"},
		},
		{
			name:  "leading zeros split",
			input: "007",
			want:  []TokenKind{TokenNumber, TokenNumber, TokenNumber, TokenEOF},
			texts: []string{"0", "0", "7"},
		},
		{
			name:  "number then identifier",
			input: "12abc",
			want:  []TokenKind{TokenNumber, TokenIdent, TokenEOF},
			texts: []string{"12", "abc"},
		},
		{
			name:  "booleans",
			input: "#t #f",
			want:  []TokenKind{TokenBoolean, TokenBoolean, TokenEOF},
		},
		{
			name:  "keywords",
			input: "mod and or not define fun if print-num print-bool",
			want: []TokenKind{
				TokenMod, TokenAnd, TokenOr, TokenNot, TokenDefine, TokenFun,
				TokenIf, TokenPrintNum, TokenPrintBool, TokenEOF,
			},
		},
		{
			name:  "identifiers with digits and hyphens",
			input: "a1 foo-bar modx print-numx",
			want: []TokenKind{
				TokenIdent, TokenIdent, TokenIdent, TokenIdent, TokenEOF,
			},
		},
		{
			name:  "operators",
			input: "+-*/><=()",
			want: []TokenKind{
				TokenPlus, TokenMinus, TokenTimes, TokenDivide, TokenGreater,
				TokenLess, TokenEqual, TokenLParen, TokenRParen, TokenEOF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex(%q) error: %v", tt.input, err)
			}

			if len(tokens) != len(tt.want) {
				t.Fatalf("expected %d tokens, got %d: %v",
					len(tt.want), len(tokens), tokens)
			}

			for i, tok := range tokens {
				if tok.Kind != tt.want[i] {
					t.Errorf("token %d: expected %v, got %v", i, tt.want[i], tok.Kind)
				}

				if i < len(tt.texts) && tok.Text != tt.texts[i] {
					t.Errorf("token %d: expected text %q, got %q",
						i, tt.texts[i], tok.Text)
				}
			}
		})
	}
}

func TestLex_Values(t *testing.T) {
	tokens, err := Lex("-42 0 #t #f 9223372036854775807")
	if err != nil {
		t.Fatalf("Lex error: %v", err)
	}

	if tokens[0].Int != -42 {
		t.Errorf("expected -42, got %d", tokens[0].Int)
	}

	if tokens[1].Int != 0 {
		t.Errorf("expected 0, got %d", tokens[1].Int)
	}

	if !tokens[2].Bool || tokens[3].Bool {
		t.Errorf("expected #t then #f, got %v %v", tokens[2].Bool, tokens[3].Bool)
	}

	if tokens[4].Int != 9223372036854775807 {
		t.Errorf("expected max int64, got %d", tokens[4].Int)
	}
}

func TestLex_Positions(t *testing.T) {
	tokens, err := Lex("(define x\n  10)")
	if err != nil {
		t.Fatalf("Lex error: %v", err)
	}

	want := []Position{
		{Line: 1, Column: 1},
		{Line: 1, Column: 2},
		{Line: 1, Column: 9},
		{Line: 2, Column: 3},
		{Line: 2, Column: 5},
	}

	for i, pos := range want {
		if tokens[i].Pos != pos {
			t.Errorf("token %d (%s): expected %s, got %s",
				i, tokens[i], pos, tokens[i].Pos)
		}
	}
}

func TestLex_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"uppercase", "(define X 1)", "Illegal character 'X'"},
		{"bracket", "[1]", "Illegal character '['"},
		{"hash alone", "#", "Illegal character '#'"},
		{"hash other", "#x", "Illegal character '#'"},
		{"semicolon", "1 ; 2", "Illegal character ';'"},
		{"unicode", "λ", "Illegal character 'λ'"},
		{"out of range", "99999999999999999999", "Integer literal out of range '99999999999999999999'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(tt.input)
			if err == nil {
				t.Fatalf("expected error, got tokens %v", tokens)
			}

			if tokens != nil {
				t.Errorf("expected no partial tokens, got %v", tokens)
			}

			if !errors.Is(err, ErrLex) {
				t.Errorf("expected LexError, got %v", err)
			}

			var le *Error
			if !errors.As(err, &le) || le.Message() != tt.message {
				t.Errorf("expected message %q, got %v", tt.message, err)
			}
		})
	}
}

func TestKeywords(t *testing.T) {
	kws := Keywords()
	if len(kws) != 9 {
		t.Fatalf("expected 9 keywords, got %d: %v", len(kws), kws)
	}

	for _, kw := range kws {
		if !IsKeyword(kw) {
			t.Errorf("IsKeyword(%q) = false", kw)
		}
	}

	if IsKeyword("x") {
		t.Error("IsKeyword(\"x\") = true")
	}
}

func TestTokenKind_String(t *testing.T) {
	tests := []struct {
		kind TokenKind
		want string
	}{
		{TokenEOF, "EOF"},
		{TokenIdent, "ID"},
		{TokenLParen, "LPAREN"},
		{TokenPrintBool, "PRINTBOOL"},
		{TokenPrintBool + 1, "TokenKind(22)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("TokenKind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}
