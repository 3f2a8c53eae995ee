package lang

//go:generate go tool stringer --linecomment --type Engine --output exec_string.go

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/minilisp/log"
	"github.com/ardnew/minilisp/pkg"
)

// Engine selects how expressions are evaluated.
type Engine int

const (
	// EngineTree walks the syntax tree directly.
	EngineTree Engine = iota // tree
	// EngineVM compiles expressions to expr-lang programs and runs them on
	// the expr virtual machine.
	EngineVM // vm
)

// Engines returns the names of the available engines.
func Engines() []string { return []string{EngineTree.String(), EngineVM.String()} }

// ParseEngine returns the engine with the given name.
func ParseEngine(s string) (Engine, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tree", "":
		return EngineTree, true

	case "vm", "expr":
		return EngineVM, true

	default:
		return EngineTree, false
	}
}

type config struct {
	engine   Engine
	maxDepth int
	logger   log.Logger
}

// Option configures parsing and execution.
type Option = pkg.Option[config]

func makeConfig(opts ...Option) config {
	return pkg.Wrap(config{maxDepth: DefaultMaxDepth}, opts...)
}

// WithEngine selects the evaluation engine.
func WithEngine(engine Engine) Option {
	return func(c config) config {
		c.engine = engine

		return c
	}
}

// WithMaxDepth bounds the number of nested function calls.
// A value of zero or less removes the bound.
func WithMaxDepth(depth int) Option {
	return func(c config) config {
		c.maxDepth = depth

		return c
	}
}

// WithLogger sets the logger used for trace records.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}

// Interpreter executes programs statement by statement against one global
// environment. Output of print statements goes to the writer given to
// [New], one line per statement.
//
// Each Interpreter owns its environment, so separate Interpreters never
// share state. An Interpreter is not safe for concurrent use.
type Interpreter struct {
	out  io.Writer
	cfg  config
	opts []Option
	env  *Env
	tree *Evaluator
	vm   *machine
}

// New returns an Interpreter with an empty environment that writes program
// output to w. A nil w discards output.
func New(w io.Writer, opts ...Option) *Interpreter {
	if w == nil {
		w = io.Discard
	}

	in := &Interpreter{out: w, cfg: makeConfig(opts...), opts: opts}
	in.Reset()

	return in
}

// Reset discards every binding.
func (in *Interpreter) Reset() {
	in.env = NewEnv()
	in.tree = NewEvaluator(in.env, in.opts...)
	in.vm = newMachine(in.env, in.cfg)
}

// Env returns the interpreter's global environment.
func (in *Interpreter) Env() *Env { return in.env }

// Engine returns the configured evaluation engine.
func (in *Interpreter) Engine() Engine { return in.cfg.engine }

// ExecString parses and executes src.
// Nothing executes when src fails to parse.
func (in *Interpreter) ExecString(ctx context.Context, src string) error {
	prog, err := Parse(ctx, src, in.opts...)
	if err != nil {
		return err
	}

	return in.Exec(ctx, prog)
}

// ExecReader reads all of r and executes it as one program.
func (in *Interpreter) ExecReader(ctx context.Context, r io.Reader) error {
	prog, err := ParseReader(ctx, r, in.opts...)
	if err != nil {
		return err
	}

	return in.Exec(ctx, prog)
}

// Exec runs the statements of prog in order, stopping at the first error.
// Output already written by earlier statements is kept.
func (in *Interpreter) Exec(ctx context.Context, prog *Program) error {
	for _, stmt := range prog.All() {
		if err := in.ExecStatement(ctx, stmt); err != nil {
			in.cfg.logger.DebugContext(ctx, "statement failed",
				append(nodeAttrs(stmt), slog.Any("error", err))...)

			return err
		}
	}

	return nil
}

// ExecStatement runs one top-level statement. Bare expressions are
// evaluated and their value discarded.
func (in *Interpreter) ExecStatement(ctx context.Context, stmt Node) error {
	switch n := stmt.(type) {
	case *Define:
		v, err := in.Evaluate(ctx, n.Value)
		if err != nil {
			return err
		}

		in.env.Define(n.Name, v)

		in.cfg.logger.TraceContext(ctx, "define",
			slog.String("name", n.Name),
			slog.String("type", v.Type()),
		)

		return nil

	case *Print:
		v, err := in.Evaluate(ctx, n.Value)
		if err != nil {
			return err
		}

		return in.print(n, v)

	default:
		_, err := in.Evaluate(ctx, stmt)

		return err
	}
}

// Evaluate computes the value of an expression in the global scope using
// the configured engine.
func (in *Interpreter) Evaluate(ctx context.Context, n Node) (Value, error) {
	if in.cfg.engine == EngineVM {
		return in.vm.run(ctx, n)
	}

	return in.tree.Eval(ctx, n)
}

func (in *Interpreter) print(n *Print, v Value) error {
	var line string

	switch n.Form {
	case PrintBool:
		line = Bool(Truthy(v)).String()

	default:
		x, err := unaryOperand(n.Form.String(), v)
		if err != nil {
			return locate(err, n.Start)
		}

		line = Int(x).String()
	}

	_, err := fmt.Fprintln(in.out, line)

	return err
}
