package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/minilisp/lang"
	"github.com/ardnew/minilisp/pkg"
)

// TestRunGolden runs the interpreter's testdata programs through the run
// command on every engine.
func TestRunGolden(t *testing.T) {
	sources, err := filepath.Glob(filepath.Join("..", "..", "lang", "testdata", "*.lisp"))
	if err != nil {
		t.Fatal(err)
	}

	if len(sources) == 0 {
		t.Fatal("no testdata programs")
	}

	for _, src := range sources {
		want, err := os.ReadFile(strings.TrimSuffix(src, ".lisp") + ".out")
		if err != nil {
			t.Fatal(err)
		}

		for _, engine := range lang.Engines() {
			t.Run(engine+"/"+filepath.Base(src), func(t *testing.T) {
				var out bytes.Buffer

				run := &Run{
					Engine:   engine,
					MaxDepth: lang.DefaultMaxDepth,
					Sources:  []string{src},
					stdin:    strings.NewReader(""),
					stdout:   &out,
				}

				err := run.Run(t.Context())

				failed := strings.Contains(string(want), "syntax error: ")
				if failed != errors.Is(err, ErrProgramFailed) {
					t.Errorf("Run() error = %v, program failure expected: %v", err, failed)
				}

				if out.String() != string(want) {
					t.Errorf("output:\n%s\nwant:\n%s", out.String(), want)
				}
			})
		}
	}
}

func TestRun(t *testing.T) {
	lib := t.TempDir()
	writeFile(t, lib, "square.lsp", "(define square (fun (x) (* x x)))")

	tests := []struct {
		name    string
		run     Run
		stdin   string
		want    string
		wantErr error
	}{
		{
			name:  "stdin program",
			run:   Run{Engine: "tree"},
			stdin: "(print-num (+ 1 2))",
			want:  "3\n",
		},
		{
			name: "include directory",
			run: Run{
				Engine:  "vm",
				Include: []string{lib},
				Sources: []string{"square.lsp", "-"},
			},
			stdin: "(print-num (square 9))",
			want:  "81\n",
		},
		{
			name:    "error after output",
			run:     Run{Engine: "tree"},
			stdin:   "(print-num 1)\n(print-num (/ 1 0))\n(print-num 2)",
			want:    "1\nsyntax error: Division by zero\n",
			wantErr: ErrProgramFailed,
		},
		{
			name:    "unbounded recursion",
			run:     Run{Engine: "tree", MaxDepth: 50},
			stdin:   "(define f (fun (x) (f x)))\n(f 1)",
			want:    "syntax error: Maximum call depth exceeded (50)\n",
			wantErr: ErrProgramFailed,
		},
		{
			name:  "wide expression on vm",
			run:   Run{Engine: "vm"},
			stdin: "(print-num 7)\n(print-num (+" + strings.Repeat(" 1", 20000) + "))",
			want:  "7\n20000\n",
		},
		{
			name:    "invalid engine",
			run:     Run{Engine: "jit"},
			wantErr: pkg.ErrInvalidFormat,
		},
		{
			name:    "missing source",
			run:     Run{Engine: "tree", Sources: []string{"nowhere.lsp"}},
			wantErr: pkg.ErrSourceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			run := tt.run
			run.stdin = strings.NewReader(tt.stdin)
			run.stdout = &out

			err := run.Run(t.Context())
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}
