package lang

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// machine evaluates expressions on the expr-lang virtual machine.
//
// Each expression is translated to expr source in which every language
// operation is a call to a function registered by the machine. Nodes are
// referenced by index into the machine's node table, and the current scope
// travels through the run environment as "scope". and, or and if map to
// expr's &&, || and ?: over opTruthy, so short-circuit and branch laziness
// are preserved.
//
// Programs are compiled once per node and cached: top-level expressions
// when first run, function bodies when first called.
type machine struct {
	env      *Env
	maxDepth int
	depth    int
	cfg      config

	ctx   context.Context
	err   error // first language error of the current run
	nodes []Node
	cache map[Node]*vm.Program
	funcs []expr.Option
}

func newMachine(env *Env, cfg config) *machine {
	m := &machine{
		env:      env,
		maxDepth: cfg.maxDepth,
		cfg:      cfg,
		cache:    make(map[Node]*vm.Program),
	}

	m.funcs = m.functions()

	return m
}

// run evaluates n in the global scope.
func (m *machine) run(ctx context.Context, n Node) (Value, error) {
	m.ctx, m.err, m.depth = ctx, nil, 0
	defer func() { m.ctx = nil }()

	return m.exec(n, scope{global: m.env})
}

// exec runs the cached program of n against s.
func (m *machine) exec(n Node, s scope) (Value, error) {
	prog, err := m.program(n)
	if err != nil {
		return nil, err
	}

	out, err := vm.Run(prog, map[string]any{"scope": s})
	if err != nil {
		if m.err != nil {
			return nil, m.err
		}

		return nil, engineError(err)
	}

	return toValue(out), nil
}

// fail records the first error of a run and returns it.
func (m *machine) fail(err error) error {
	if m.err == nil {
		m.err = err
	}

	return err
}

// program returns the compiled program of n, compiling it on first use.
func (m *machine) program(n Node) (*vm.Program, error) {
	if prog, ok := m.cache[n]; ok {
		return prog, nil
	}

	var sb strings.Builder
	if err := m.translate(&sb, n); err != nil {
		return nil, err
	}

	source := sb.String()

	opts := append([]expr.Option{
		expr.Env(map[string]any{"scope": scope{}}),
		expr.DisableAllBuiltins(),
		expr.MaxNodes(0),
	}, m.funcs...)

	prog, err := expr.Compile(source, opts...)
	if err != nil {
		return nil, engineError(err).With(slog.String("source", source))
	}

	m.cache[n] = prog

	m.cfg.logger.TraceContext(m.context(), "compile",
		append(nodeAttrs(n), slog.Int("source_len", len(source)))...)

	return prog, nil
}

func (m *machine) context() context.Context {
	if m.ctx == nil {
		return context.Background()
	}

	return m.ctx
}

// ref registers n in the node table and returns its index.
func (m *machine) ref(n Node) string {
	m.nodes = append(m.nodes, n)

	return strconv.Itoa(len(m.nodes) - 1)
}

var opNames = map[Operator]string{
	OpAdd:     "opAdd",
	OpSub:     "opSub",
	OpMul:     "opMul",
	OpDiv:     "opDiv",
	OpMod:     "opMod",
	OpGreater: "opGt",
	OpLess:    "opLt",
}

// translate writes the expr source of n to sb.
func (m *machine) translate(sb *strings.Builder, n Node) error {
	switch n := n.(type) {
	case *Number, *Boolean, *FunctionLiteral:
		sb.WriteString("opConst(" + m.ref(n) + ")")

	case *Variable:
		sb.WriteString("opLoad(scope, " + m.ref(n) + ")")

	case *Arithmetic:
		return m.fold(sb, opNames[n.Op], m.ref(n), n.Operands)

	case *Comparison:
		return m.fold(sb, opNames[n.Op], m.ref(n), []Node{n.Left, n.Right})

	case *Logical:
		join := " && "
		if n.Op == OpOr {
			join = " || "
		}

		sb.WriteString("(")

		for i, operand := range n.Operands {
			if i > 0 {
				sb.WriteString(join)
			}

			if err := m.truthy(sb, operand); err != nil {
				return err
			}
		}

		sb.WriteString(")")

	case *Not:
		sb.WriteString("opNot(")

		if err := m.translate(sb, n.Operand); err != nil {
			return err
		}

		sb.WriteString(")")

	case *Equal:
		return m.call(sb, "opEq(", n.Operands)

	case *If:
		sb.WriteString("(")

		if err := m.truthy(sb, n.Cond); err != nil {
			return err
		}

		sb.WriteString(" ? ")

		if err := m.translate(sb, n.Then); err != nil {
			return err
		}

		sb.WriteString(" : ")

		if err := m.translate(sb, n.Else); err != nil {
			return err
		}

		sb.WriteString(")")

	case *Call:
		// opCheck runs before any argument is evaluated.
		sb.WriteString("opApply(scope, opCheck(")

		if err := m.translate(sb, n.Target); err != nil {
			return err
		}

		sb.WriteString(", " + m.ref(n) + ")")

		for _, arg := range n.Args {
			sb.WriteString(", ")

			if err := m.translate(sb, arg); err != nil {
				return err
			}
		}

		sb.WriteString(")")

	default:
		return ErrGrammar.Msgf(errUnsupportedNodeFmt, n)
	}

	return nil
}

// fold writes a left fold of a binary operator over operands. Every call
// head is written up front so the source grows linearly with the operands.
func (m *machine) fold(
	sb *strings.Builder,
	name, id string,
	operands []Node,
) error {
	for range operands[1:] {
		sb.WriteString(name + "(" + id + ", ")
	}

	if err := m.translate(sb, operands[0]); err != nil {
		return err
	}

	for _, operand := range operands[1:] {
		sb.WriteString(", ")

		if err := m.translate(sb, operand); err != nil {
			return err
		}

		sb.WriteString(")")
	}

	return nil
}

// call writes prefix followed by the comma-separated operands and ")".
func (m *machine) call(sb *strings.Builder, prefix string, args []Node) error {
	sb.WriteString(prefix)

	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}

		if err := m.translate(sb, arg); err != nil {
			return err
		}
	}

	sb.WriteString(")")

	return nil
}

func (m *machine) truthy(sb *strings.Builder, n Node) error {
	return m.call(sb, "opTruthy(", []Node{n})
}

// functions returns the expr functions implementing each operation.
func (m *machine) functions() []expr.Option {
	fns := []expr.Option{
		expr.Function("opConst", m.opConst),
		expr.Function("opLoad", m.opLoad),
		expr.Function("opNot", func(params ...any) (any, error) {
			return Bool(!Truthy(toValue(params[0]))), nil
		}),
		expr.Function("opTruthy", func(params ...any) (any, error) {
			return Truthy(toValue(params[0])), nil
		}, new(func(any) bool)),
		expr.Function("opEq", func(params ...any) (any, error) {
			first := toValue(params[0])
			for _, p := range params[1:] {
				if !ValuesEqual(first, toValue(p)) {
					return Bool(false), nil
				}
			}

			return Bool(true), nil
		}),
		expr.Function("opCheck", m.opCheck),
		expr.Function("opApply", m.opApply),
	}

	for op, name := range opNames {
		fns = append(fns, expr.Function(name, m.binary(op)))
	}

	return fns
}

func (m *machine) node(param any) Node {
	i, _ := param.(int)

	return m.nodes[i]
}

func (m *machine) opConst(params ...any) (any, error) {
	switch n := m.node(params[0]).(type) {
	case *Number:
		return Int(n.Value), nil

	case *Boolean:
		return Bool(n.Value), nil

	default:
		return n, nil
	}
}

func (m *machine) opLoad(params ...any) (any, error) {
	s, _ := params[0].(scope)
	n, _ := m.node(params[1]).(*Variable)

	v, ok := s.lookup(n.Name)
	if !ok {
		return nil, m.fail(undefined(n))
	}

	return v, nil
}

func (m *machine) binary(op Operator) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		v, err := apply(op, toValue(params[1]), toValue(params[2]))
		if err != nil {
			return nil, m.fail(locate(err, m.node(params[0]).Pos()))
		}

		return v, nil
	}
}

func (m *machine) opCheck(params ...any) (any, error) {
	n, _ := m.node(params[1]).(*Call)

	fn, _, err := resolveCall(n, toValue(params[0]))
	if err != nil {
		return nil, m.fail(err)
	}

	return fn, nil
}

func (m *machine) opApply(params ...any) (any, error) {
	if err := m.context().Err(); err != nil {
		return nil, m.fail(err)
	}

	s, _ := params[0].(scope)
	fn, _ := params[1].(*FunctionLiteral)
	args := params[2:]

	names, err := paramNames(fn)
	if err != nil {
		return nil, m.fail(err)
	}

	bound := make(map[string]Value, len(names))
	for i, name := range names {
		bound[name] = toValue(args[i])
	}

	if m.maxDepth > 0 && m.depth >= m.maxDepth {
		return nil, m.fail(ErrDepthExceeded.
			Msgf("Maximum call depth exceeded (%d)", m.maxDepth).
			At(fn.Start).
			With(slog.Int("max_depth", m.maxDepth)))
	}

	m.depth++
	defer func() { m.depth-- }()

	m.cfg.logger.TraceContext(m.context(), "call",
		slog.Any("target", sourceText{fn}),
		slog.Int("args", len(args)),
		slog.Int("depth", m.depth),
	)

	return m.exec(fn.Body[0], s.overlay(bound))
}

// toValue converts a result of the expr machine to a [Value].
func toValue(v any) Value {
	switch v := v.(type) {
	case Value:
		return v

	case bool:
		return Bool(v)

	case int:
		return Int(v)

	case int64:
		return Int(v)

	default:
		return nil
	}
}
