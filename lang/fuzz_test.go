package lang

import (
	"bytes"
	"errors"
	"testing"
	"unicode/utf8"
)

var fuzzSeeds = []string{
	"",
	"42",
	"(print-num (+ 1 2))",
	"(define x 5) (print-bool (> x 3))",
	"(define f (fun (a b) (+ a b))) (print-num (f 1 2))",
	"((fun (x) (* x x)) 9)",
	"(if (and #t (not #f)) (mod -7 2) (/ 1 0))",
	"(= 1 #t (- 2 1))",
	"(+ 1",
	")(",
	"#t#f",
	"007",
	"(define loop (fun (n) (loop n))) (loop 1)",
}

// FuzzLex checks that the lexer never panics, and that successful scans end
// with exactly one EOF token at non-decreasing positions.
func FuzzLex(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		tokens, err := Lex(input)
		if err != nil {
			if !errors.Is(err, ErrLex) {
				t.Errorf("lexer returned a non-lex error: %v", err)
			}

			return
		}

		if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenEOF {
			t.Fatalf("token stream does not end with EOF: %v", tokens)
		}

		for i := 1; i < len(tokens); i++ {
			prev, cur := tokens[i-1].Pos, tokens[i].Pos
			if cur.Line < prev.Line || (cur.Line == prev.Line && cur.Column < prev.Column) {
				t.Errorf("token %d at %s precedes token %d at %s", i, cur, i-1, prev)
			}

			if tokens[i-1].Kind == TokenEOF {
				t.Errorf("EOF before end of stream at %d", i-1)
			}
		}
	})
}

// FuzzParse checks that every parsed program formats to text that parses
// back to the same canonical form.
func FuzzParse(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		prog, err := Parse(t.Context(), input)
		if err != nil {
			if KindOf(err) == KindUnknown {
				t.Errorf("parse failed without a language error: %v", err)
			}

			return
		}

		var first bytes.Buffer
		if err := prog.Format(t.Context(), &first, 2); err != nil {
			t.Fatal(err)
		}

		again, err := Parse(t.Context(), first.String())
		if err != nil {
			t.Fatalf("formatted program does not parse: %v\n%s", err, first.String())
		}

		var second bytes.Buffer
		if err := again.Format(t.Context(), &second, 2); err != nil {
			t.Fatal(err)
		}

		if first.String() != second.String() {
			t.Errorf("format is not stable:\n%s\n---\n%s", first.String(), second.String())
		}
	})
}

// FuzzEngines checks that both engines agree on output and error.
func FuzzEngines(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		tree, treeErr := run(t, EngineTree, input, WithMaxDepth(64))
		vm, vmErr := run(t, EngineVM, input, WithMaxDepth(64))

		if tree != vm {
			t.Errorf("output differs:\ntree %q\nvm   %q", tree, vm)
		}

		if (treeErr == nil) != (vmErr == nil) {
			t.Fatalf("error differs: tree %v, vm %v", treeErr, vmErr)
		}

		if treeErr != nil && Report(treeErr) != Report(vmErr) {
			t.Errorf("report differs:\ntree %s\nvm   %s", Report(treeErr), Report(vmErr))
		}
	})
}
