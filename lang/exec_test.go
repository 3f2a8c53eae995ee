package lang

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

var engines = []Engine{EngineTree, EngineVM}

// run executes src on a fresh interpreter and returns its output.
func run(t *testing.T, engine Engine, src string, opts ...Option) (string, error) {
	t.Helper()

	var out bytes.Buffer

	in := New(&out, append([]Option{WithEngine(engine)}, opts...)...)
	err := in.ExecString(t.Context(), src)

	return out.String(), err
}

func TestExec_Output(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace", "\n  \t\n", ""},
		{"add", "(print-num (+ 1 2))", "3\n"},
		{"add many", "(print-num (+ 1 2 3 4))", "10\n"},
		{"sub", "(print-num (- 10 4))", "6\n"},
		{"mul", "(print-num (* 2 3 4))", "24\n"},
		{"floor div", "(print-num (/ -7 2))", "-4\n"},
		{"div exact", "(print-num (/ 8 2))", "4\n"},
		{"div negative divisor", "(print-num (/ 7 -2))", "-4\n"},
		{"mod sign of divisor", "(print-num (mod -7 2))", "1\n"},
		{"mod negative divisor", "(print-num (mod 7 -2))", "-1\n"},
		{"greater", "(print-bool (> 3 2))", "#t\n"},
		{"less", "(print-bool (< 3 2))", "#f\n"},
		{"equal all", "(print-bool (= 2 2 2))", "#t\n"},
		{"equal mismatch", "(print-bool (= 2 2 3))", "#f\n"},
		{"and", "(print-bool (and #t #t #f))", "#f\n"},
		{"or", "(print-bool (or #f #f #t))", "#t\n"},
		{"not", "(print-bool (not #f))", "#t\n"},
		{"truthy integers", "(print-bool (and 1 -1))\n(print-bool (or 0 #f))", "#t\n#f\n"},
		{"not zero", "(print-bool (not 0))", "#t\n"},
		{"if true", "(print-num (if #t 1 2))", "1\n"},
		{"if false", "(print-num (if #f 1 2))", "2\n"},
		{"if integer condition", "(print-num (if 0 1 2))", "2\n"},
		{"redefinition", "(define x 1)\n(define x 2)\n(print-num x)", "2\n"},
		{"named call", "(define inc (fun (n) (+ n 1)))\n(print-num (inc 4))", "5\n"},
		{"inline call", "(print-num ((fun (a b) (* a b)) 6 7))", "42\n"},
		{"zero parameter call", "(define k (fun () 9))\n(print-num (k))", "9\n"},
		{"bare expression discarded", "(+ 1 2)\n42\n(print-num 1)", "1\n"},
		{"function value statement", "(fun (x) x)", ""},
		{"print-num boolean", "(print-num #t)\n(print-num (> 1 2))", "1\n0\n"},
		{"print-bool integer", "(print-bool 5)\n(print-bool 0)", "#t\n#f\n"},
		{"boolean arithmetic", "(print-num (+ #t #t 1))", "3\n"},
		{"equal across types", "(print-bool (= 1 #t))", "#t\n"},
		{
			name: "recursion",
			input: `(define fact (fun (n) (if (< n 2) 1 (* n (fact (- n 1))))))
(print-num (fact 10))`,
			want: "3628800\n",
		},
		{
			name: "higher order",
			input: `(define twice (fun (f x) (f (f x))))
(define dbl (fun (x) (* x 2)))
(print-num (twice dbl 5))`,
			want: "20\n",
		},
		{
			name:  "parameter shadows global",
			input: "(define x 100)\n(define f (fun (x) (+ x 1)))\n(print-num (f 1))\n(print-num x)",
			want:  "2\n100\n",
		},
		{
			name: "global visible at call time",
			input: `(define f (fun () y))
(define y 7)
(print-num (f))
(define y 8)
(print-num (f))`,
			want: "7\n8\n",
		},
		{
			name:  "only first body expression runs",
			input: "(define f (fun (x) x (undefined-var)))\n(print-num (f 3))",
			want:  "3\n",
		},
		{
			name:  "duplicate parameter last wins",
			input: "(print-num ((fun (a a) a) 1 2))",
			want:  "2\n",
		},
		{
			name: "nested call scope",
			input: `(define g (fun (y) (+ y 1)))
(define f (fun (x) (g (* x 10))))
(print-num (f 2))`,
			want: "21\n",
		},
		{
			name:  "function equality",
			input: "(define f (fun (x) x))\n(define g (fun (x) x))\n(print-bool (= f g))\n(print-bool (= f (fun (y) y)))",
			want:  "#t\n#f\n",
		},
		{
			name:  "functions are truthy",
			input: "(print-bool (fun () 0))",
			want:  "#t\n",
		},
	}

	for _, engine := range engines {
		for _, tt := range tests {
			t.Run(engine.String()+"/"+tt.name, func(t *testing.T) {
				got, err := run(t, engine, tt.input)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				if got != tt.want {
					t.Errorf("output:\n got %q\nwant %q", got, tt.want)
				}
			})
		}
	}
}

func TestExec_Sum(t *testing.T) {
	pairs := [][2]int64{
		{0, 0}, {1, 2}, {-5, 3}, {1000000, -1}, {-9, -9}, {123456789, 987654321},
	}

	for _, engine := range engines {
		for _, p := range pairs {
			src := fmt.Sprintf("(print-num (+ %d %d))", p[0], p[1])

			got, err := run(t, engine, src)
			if err != nil {
				t.Fatalf("%s: %v", src, err)
			}

			if want := fmt.Sprintf("%d\n", p[0]+p[1]); got != want {
				t.Errorf("%s %s: got %q, want %q", engine, src, got, want)
			}
		}
	}
}

func TestExec_FloorDivision(t *testing.T) {
	for _, engine := range engines {
		for a := int64(-9); a <= 9; a++ {
			for _, b := range []int64{-4, -3, -1, 1, 2, 5} {
				src := fmt.Sprintf("(print-num (/ %d %d))\n(print-num (mod %d %d))", a, b, a, b)

				got, err := run(t, engine, src)
				if err != nil {
					t.Fatalf("%s: %v", src, err)
				}

				q, r := floorDiv(a, b), floorMod(a, b)
				if want := fmt.Sprintf("%d\n%d\n", q, r); got != want {
					t.Errorf("%s: got %q, want %q", src, got, want)
				}

				if q*b+r != a {
					t.Errorf("%d = %d*%d + %d does not hold", a, q, b, r)
				}

				if r != 0 && (r < 0) != (b < 0) {
					t.Errorf("mod %d %d = %d has the wrong sign", a, b, r)
				}
			}
		}
	}
}

func TestExec_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    error
		message string
		output  string
	}{
		{
			name:    "division by zero",
			input:   "(print-num (/ 1 0))",
			kind:    ErrDivisionByZero,
			message: "Division by zero",
		},
		{
			name:    "modulo by zero",
			input:   "(print-num (mod 1 0))",
			kind:    ErrModuloByZero,
			message: "Division by zero in modulo",
		},
		{
			name:    "undefined variable",
			input:   "(print-num y)",
			kind:    ErrUndefinedVariable,
			message: "Variable y not defined",
		},
		{
			name:    "function arity",
			input:   "(define f (fun (a b) (+ a b)))\n(f 1)",
			kind:    ErrFunctionArity,
			message: "Function expects 2 arguments, but got 1",
		},
		{
			name:    "invalid call target",
			input:   "(define x 5)\n(x 1)",
			kind:    ErrInvalidCallTarget,
			message: "Invalid function call: (x 1)",
		},
		{
			name:    "call target before arguments",
			input:   "(define x 5)\n(x (undefined))",
			kind:    ErrInvalidCallTarget,
			message: "Invalid function call: (x (undefined))",
		},
		{
			name:    "arity before arguments",
			input:   "(define f (fun (a) a))\n(f 1 (undefined))",
			kind:    ErrFunctionArity,
			message: "Function expects 1 arguments, but got 2",
		},
		{
			name:    "undefined call target",
			input:   "(g 1)",
			kind:    ErrUndefinedVariable,
			message: "Variable g not defined",
		},
		{
			name:    "invalid parameter",
			input:   "((fun (1) 1) 2)",
			kind:    ErrInvalidParameter,
			message: "Invalid parameter: 1",
		},
		{
			name:    "invalid parameter before arguments",
			input:   "((fun (1) 1) (/ 1 0))",
			kind:    ErrInvalidParameter,
			message: "Invalid parameter: 1",
		},
		{
			name:    "function in arithmetic",
			input:   "(print-num (+ 1 (fun () 1)))",
			kind:    ErrTypeMismatch,
			message: "Unsupported operand type(s) for +: 'int' and 'function'",
		},
		{
			name:    "print-num of function",
			input:   "(print-num (fun () 1))",
			kind:    ErrTypeMismatch,
			message: "Unsupported operand type for print-num: 'function'",
		},
		{
			name:    "stops at first failure",
			input:   "(print-num 1)\n(print-num (/ 1 0))\n(print-num 2)",
			kind:    ErrDivisionByZero,
			message: "Division by zero",
			output:  "1\n",
		},
		{
			name:    "define failure leaves binding",
			input:   "(define x 1)\n(define x (/ 1 0))",
			kind:    ErrDivisionByZero,
			message: "Division by zero",
		},
		{
			name:    "parse failure runs nothing",
			input:   "(print-num 1)\n(print-num (+ 1))",
			kind:    ErrArity,
			message: "Need 2 arguments, but got 1.",
		},
		{
			name:    "lex failure runs nothing",
			input:   "(print-num 1)\n@",
			kind:    ErrLex,
			message: "Illegal character '@'",
		},
	}

	for _, engine := range engines {
		for _, tt := range tests {
			t.Run(engine.String()+"/"+tt.name, func(t *testing.T) {
				got, err := run(t, engine, tt.input)
				if err == nil {
					t.Fatalf("expected error, got output %q", got)
				}

				if !errors.Is(err, tt.kind) {
					t.Errorf("expected %v, got %v (%v)", KindOf(tt.kind), KindOf(err), err)
				}

				if want := "syntax error: " + tt.message; Report(err) != want {
					t.Errorf("report:\n got %q\nwant %q", Report(err), want)
				}

				if got != tt.output {
					t.Errorf("output before failure: got %q, want %q", got, tt.output)
				}
			})
		}
	}
}

func TestExec_ShortCircuit(t *testing.T) {
	tests := []string{
		"(print-bool (and (> 1 2) (undefined-var)))",
		"(print-bool (or #t (undefined-var)))",
		"(print-num (if #t 1 (undefined-var)))",
		"(print-num (if #f (/ 1 0) 2))",
	}

	for _, engine := range engines {
		for _, src := range tests {
			t.Run(engine.String()+"/"+src, func(t *testing.T) {
				if _, err := run(t, engine, src); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			})
		}
	}
}

func TestExec_EqualEvaluatesAll(t *testing.T) {
	for _, engine := range engines {
		_, err := run(t, engine, "(= 1 2 (undefined-var))")
		if !errors.Is(err, ErrUndefinedVariable) {
			t.Errorf("%s: expected every operand of = to be evaluated, got %v", engine, err)
		}
	}
}

func TestExec_MaxDepth(t *testing.T) {
	loop := "(define loop (fun (n) (loop (+ n 1))))\n(loop 0)"

	for _, engine := range engines {
		t.Run(engine.String(), func(t *testing.T) {
			_, err := run(t, engine, loop, WithMaxDepth(50))
			if !errors.Is(err, ErrDepthExceeded) {
				t.Fatalf("expected DepthExceededError, got %v", err)
			}

			if want := "syntax error: Maximum call depth exceeded (50)"; Report(err) != want {
				t.Errorf("got %q, want %q", Report(err), want)
			}

			count := "(define down (fun (n) (if (= n 0) 0 (down (- n 1)))))\n(print-num (down 50))"

			got, err := run(t, engine, count, WithMaxDepth(51))
			if err != nil || got != "0\n" {
				t.Errorf("expected depth 51 to suffice, got %q %v", got, err)
			}

			_, err = run(t, engine, count, WithMaxDepth(50))
			if !errors.Is(err, ErrDepthExceeded) {
				t.Errorf("expected depth 50 to overflow, got %v", err)
			}

			got, err = run(t, engine, count, WithMaxDepth(0))
			if err != nil || got != "0\n" {
				t.Errorf("expected unbounded depth to succeed, got %q %v", got, err)
			}
		})
	}
}

func TestInterpreter_EnvPersistsAcrossExec(t *testing.T) {
	var out bytes.Buffer

	in := New(&out)

	if err := in.ExecString(t.Context(), "(define x 41)"); err != nil {
		t.Fatal(err)
	}

	if err := in.ExecString(t.Context(), "(print-num (+ x 1))"); err != nil {
		t.Fatal(err)
	}

	if out.String() != "42\n" {
		t.Errorf("expected 42, got %q", out.String())
	}

	if names := in.Env().Names(); len(names) != 1 || names[0] != "x" {
		t.Errorf("unexpected bindings %v", names)
	}

	in.Reset()

	if in.Env().Len() != 0 {
		t.Errorf("expected empty environment after reset, got %v", in.Env().Names())
	}
}

func TestInterpreter_Isolation(t *testing.T) {
	a := New(nil)
	b := New(nil)

	if err := a.ExecString(t.Context(), "(define x 1)"); err != nil {
		t.Fatal(err)
	}

	if _, ok := b.Env().Lookup("x"); ok {
		t.Error("definition leaked between interpreters")
	}

	if err := b.ExecString(t.Context(), "x"); !errors.Is(err, ErrUndefinedVariable) {
		t.Errorf("expected undefined variable, got %v", err)
	}
}

func TestInterpreter_ExecReader(t *testing.T) {
	var out bytes.Buffer

	err := New(&out, WithEngine(EngineVM)).
		ExecReader(t.Context(), strings.NewReader("(print-bool (= 3 (+ 1 2)))"))
	if err != nil {
		t.Fatal(err)
	}

	if out.String() != "#t\n" {
		t.Errorf("expected #t, got %q", out.String())
	}
}

func TestInterpreter_Evaluate(t *testing.T) {
	prog, err := Parse(t.Context(), "(define sq (fun (x) (* x x)))\n(sq 12)")
	if err != nil {
		t.Fatal(err)
	}

	for _, engine := range engines {
		in := New(nil, WithEngine(engine))

		if err := in.ExecStatement(t.Context(), prog.Statements[0]); err != nil {
			t.Fatal(err)
		}

		v, err := in.Evaluate(t.Context(), prog.Statements[1])
		if err != nil {
			t.Fatal(err)
		}

		if v != Int(144) {
			t.Errorf("%s: expected 144, got %v", engine, v)
		}

		if in.Engine() != engine {
			t.Errorf("expected engine %s, got %s", engine, in.Engine())
		}
	}
}

func TestInterpreter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	for _, engine := range engines {
		in := New(nil, WithEngine(engine))

		err := in.ExecString(ctx, "(define f (fun () 1))\n(f)")
		if !errors.Is(err, ctx.Err()) {
			t.Errorf("%s: expected context error, got %v", engine, err)
		}
	}
}

func TestParseEngine(t *testing.T) {
	tests := []struct {
		input string
		want  Engine
		ok    bool
	}{
		{"tree", EngineTree, true},
		{"VM", EngineVM, true},
		{" expr ", EngineVM, true},
		{"", EngineTree, true},
		{"jit", EngineTree, false},
	}

	for _, tt := range tests {
		got, ok := ParseEngine(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseEngine(%q) = %v, %v; want %v, %v",
				tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
