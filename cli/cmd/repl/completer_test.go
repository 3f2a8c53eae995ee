package repl

import (
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/minilisp/lang"
)

func testEnv(t *testing.T, src string) *lang.Env {
	t.Helper()

	in := lang.New(io.Discard)
	if err := in.ExecString(t.Context(), src); err != nil {
		t.Fatal(err)
	}

	return in.Env()
}

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_paren", "(pri", 4, "pri", 1, 4},
		{"operand", "(+ 1 fo", 7, "fo", 5, 7},
		{"nested", "(print-num (sq", 14, "sq", 12, 14},
		{"empty_after_space", "(+ ", 3, "", 3, 3},
		{"empty_after_paren", "(", 1, "", 1, 1},
		{"empty_after_close", "(f x)", 5, "", 5, 5},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"cursor_past_end", "foo", 10, "foo", 0, 3},
		{"operator", "(<", 2, "<", 1, 2},
		// Hyphens are part of identifiers, not word boundaries.
		{"hyphenated", "(print-bool", 11, "print-bool", 1, 11},
		{"hyphenated_partial", "(print-b x)", 8, "print-b", 1, 8},
		{"command", ":re", 3, ":re", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestEvalCandidates(t *testing.T) {
	env := testEnv(t, "(define zeta 1)\n(define alpha (fun (x) x))")

	got := evalCandidates(env, "pr")
	want := append(lang.Keywords(), "alpha", "zeta")

	if !slices.Equal(got, want) {
		t.Errorf("evalCandidates() = %q, want %q", got, want)
	}

	got = evalCandidates(nil, ":q")
	want = []string{":help", ":env", ":reset", ":clear", ":quit"}

	if !slices.Equal(got, want) {
		t.Errorf("evalCandidates(:q) = %q, want %q", got, want)
	}

	if got := evalCandidates(nil, "x"); !slices.Equal(got, lang.Keywords()) {
		t.Errorf("evalCandidates(nil env) = %q", got)
	}
}

func TestEvalCandidatesFuzzy(t *testing.T) {
	env := testEnv(t, "(define print-all 1)")

	matches := fuzzy.Find("prn", evalCandidates(env, "prn"))
	if len(matches) == 0 {
		t.Fatal("expected matches")
	}

	var names []string
	for _, m := range matches {
		names = append(names, m.Str)
	}

	for _, want := range []string{"print-num", "print-bool"} {
		if !slices.Contains(names, want) {
			t.Errorf("matches %q missing %q", names, want)
		}
	}
}

func TestArity(t *testing.T) {
	env := testEnv(t, `
		(define n 3)
		(define id (fun (x) x))
		(define dist (fun (ax ay bx by) (+ (- ax bx) (- ay by))))
		(define thunk (fun () 7))`)

	tests := []struct {
		name string
		want int
	}{
		{"n", -1},
		{"id", 1},
		{"dist", 4},
		{"thunk", 0},
		{"missing", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := arity(env, tt.name); got != tt.want {
				t.Errorf("arity(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}

	if got := arity(nil, "id"); got != -1 {
		t.Errorf("arity(nil env) = %d, want -1", got)
	}
}

func TestFormatPreview(t *testing.T) {
	env := testEnv(t, `
		(define n -12)
		(define b #f)
		(define long (fun (alpha beta gamma) (+ alpha beta gamma alpha beta gamma)))`)

	tests := []struct {
		name string
		want string
	}{
		{"n", "-12"},
		{"b", "#f"},
	}

	for _, tt := range tests {
		v, _ := env.Lookup(tt.name)
		if got := formatPreview(v); got != tt.want {
			t.Errorf("formatPreview(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}

	v, _ := env.Lookup("long")

	got := formatPreview(v)
	if len(got) != previewWidth || !strings.HasSuffix(got, "...") ||
		!strings.HasPrefix(got, "(fun (alpha beta gamma)") {
		t.Errorf("formatPreview(long) = %q", got)
	}

	if got := formatPreview(nil); got != "<nil>" {
		t.Errorf("formatPreview(nil) = %q", got)
	}
}

func TestRenderCandidateBar(t *testing.T) {
	env := testEnv(t, "(define square (fun (x) (* x x)))")
	matches := fuzzy.Find("s", []string{"square", "sum", "second"})

	if got := renderCandidateBar(nil, 0, false, 80, env); got != "" {
		t.Errorf("empty matches rendered %q", got)
	}

	if got := renderCandidateBar(matches, 0, false, 0, env); got != "" {
		t.Errorf("zero width rendered %q", got)
	}

	bar := renderCandidateBar(matches, 0, true, 80, env)

	for _, want := range []string{"s", "q", "u", "/1"} {
		if !strings.Contains(bar, want) {
			t.Errorf("bar %q missing %q", bar, want)
		}
	}

	narrow := renderCandidateBar(matches, 0, false, 12, env)
	if !strings.Contains(narrow, "...") {
		t.Errorf("narrow bar %q not ellipsized", narrow)
	}
}
