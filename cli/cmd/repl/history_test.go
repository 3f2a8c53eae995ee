package repl

import (
	"errors"
	"slices"
	"strconv"
	"testing"
)

func lines(h *History) []string {
	var out []string

	for _, e := range h.Entries() {
		out = append(out, e.Line)
	}

	return out
}

func TestHistoryWrite(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		write []string
		want  []string
	}{
		{
			name:  "in order",
			write: []string{"(define x 1)", "(print-num x)"},
			want:  []string{"(define x 1)", "(print-num x)"},
		},
		{
			name:  "blank lines ignored",
			write: []string{"  ", "(+ 1 2)", ""},
			want:  []string{"(+ 1 2)"},
		},
		{
			name:  "surrounding space trimmed",
			write: []string{"  (+ 1 2)\t"},
			want:  []string{"(+ 1 2)"},
		},
		{
			name:  "duplicate moves to end",
			write: []string{"a", "b", "a"},
			want:  []string{"b", "a"},
		},
		{
			name:  "oldest dropped past limit",
			limit: 2,
			write: []string{"a", "b", "c"},
			want:  []string{"b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory(tt.limit)

			for _, line := range tt.write {
				h.Write(line)
			}

			if got := lines(h); !slices.Equal(got, tt.want) {
				t.Errorf("entries = %q, want %q", got, tt.want)
			}

			if h.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", h.Len(), len(tt.want))
			}
		})
	}
}

func TestHistoryModes(t *testing.T) {
	h := NewHistory(0)

	h.WriteWithMode("env", modeCtrl)
	h.Write("env")

	if n := h.WriteWithMode("env", modeCtrl); n != 2 {
		t.Errorf("WriteWithMode() = %d, want 2", n)
	}

	first, err := h.GetEntry(0)
	if err != nil {
		t.Fatal(err)
	}

	last, err := h.GetEntry(1)
	if err != nil {
		t.Fatal(err)
	}

	if first.Mode != modeEval || last.Mode != modeCtrl {
		t.Errorf("modes = %v, %v, want eval then ctrl", first.Mode, last.Mode)
	}

	for _, i := range []int{-1, 2} {
		if _, err := h.GetEntry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("GetEntry(%d) error = %v, want ErrOutOfBounds", i, err)
		}
	}
}

func TestHistoryDefaultLimit(t *testing.T) {
	h := NewHistory(-5)

	for i := range defaultHistoryLimit + 10 {
		h.Write(strconv.Itoa(i))
	}

	if h.Len() != defaultHistoryLimit {
		t.Errorf("Len() = %d, want %d", h.Len(), defaultHistoryLimit)
	}

	if e, _ := h.GetEntry(0); e.Line != "10" {
		t.Errorf("oldest entry = %q, want %q", e.Line, "10")
	}
}
