package lang

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/minilisp/log"
)

func TestEvaluator_Eval(t *testing.T) {
	env := NewEnv()
	env.Define("k", Int(6))
	env.Define("sq", &FunctionLiteral{
		Params: []Node{&Variable{Name: "x"}},
		Body: []Node{&Arithmetic{
			Op:       OpMul,
			Operands: []Node{&Variable{Name: "x"}, &Variable{Name: "x"}},
		}},
	})

	e := NewEvaluator(env)

	call := &Call{
		Target: &Variable{Name: "sq"},
		Args:   []Node{&Variable{Name: "k"}},
	}

	v, err := e.Eval(t.Context(), call)
	if err != nil {
		t.Fatal(err)
	}

	if v != Int(36) {
		t.Errorf("expected 36, got %v", v)
	}

	if e.Depth() != 0 {
		t.Errorf("expected depth to unwind to 0, got %d", e.Depth())
	}

	if env.Len() != 2 {
		t.Errorf("evaluation changed the environment: %v", env.Names())
	}
}

func TestEvaluator_StatementNodes(t *testing.T) {
	e := NewEvaluator(nil)

	_, err := e.Eval(t.Context(), &Define{Name: "x", Value: &Number{Value: 1}})
	if !errors.Is(err, ErrGrammar) {
		t.Errorf("expected grammar error for define in expression position, got %v", err)
	}
}

func TestEvaluator_ErrorPositions(t *testing.T) {
	prog, err := Parse(t.Context(), "(define d 0)\n\n  (print-num (/ 1 d))")
	if err != nil {
		t.Fatal(err)
	}

	for _, engine := range engines {
		err := New(nil, WithEngine(engine)).Exec(t.Context(), prog)

		var le *Error
		if !errors.As(err, &le) {
			t.Fatalf("%s: expected *Error, got %v", engine, err)
		}

		pos, ok := le.Position()
		if !ok || pos != (Position{Line: 3, Column: 14}) {
			t.Errorf("%s: expected error at 3:14, got %v %v", engine, pos, ok)
		}
	}
}

func TestInterpreter_TraceLogging(t *testing.T) {
	var logs bytes.Buffer

	logger := log.Make(&logs, log.WithLevel(log.LevelTrace), log.WithFormat(log.FormatText))

	for _, engine := range engines {
		logs.Reset()

		in := New(nil, WithEngine(engine), WithLogger(logger))

		err := in.ExecString(t.Context(), "(define f (fun (x) x))\n(f 1)")
		if err != nil {
			t.Fatal(err)
		}

		for _, want := range []string{"parse complete", "statement_count=2", "define", "name=f", "call"} {
			if !strings.Contains(logs.String(), want) {
				t.Errorf("%s: expected %q in logs:\n%s", engine, want, logs.String())
			}
		}
	}
}
