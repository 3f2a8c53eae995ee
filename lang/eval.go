package lang

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/minilisp/log"
)

// DefaultMaxDepth is the default bound on nested function calls.
const DefaultMaxDepth = 10000

// Evaluator computes the value of expression nodes by walking the tree.
// It reads the global [Env] but never writes to it.
//
// An Evaluator is not safe for concurrent use.
type Evaluator struct {
	env      *Env
	maxDepth int
	depth    int
	logger   log.Logger
}

// NewEvaluator returns an Evaluator reading from env.
// Only [WithMaxDepth] and [WithLogger] affect it.
func NewEvaluator(env *Env, opts ...Option) *Evaluator {
	c := makeConfig(opts...)

	if env == nil {
		env = NewEnv()
	}

	return &Evaluator{env: env, maxDepth: c.maxDepth, logger: c.logger}
}

// Eval evaluates n in the global scope.
func (e *Evaluator) Eval(ctx context.Context, n Node) (Value, error) {
	return e.eval(ctx, n, scope{global: e.env})
}

// Depth returns the number of calls currently being evaluated.
func (e *Evaluator) Depth() int { return e.depth }

func (e *Evaluator) eval(ctx context.Context, n Node, s scope) (Value, error) {
	switch n := n.(type) {
	case *Number:
		return Int(n.Value), nil

	case *Boolean:
		return Bool(n.Value), nil

	case *Variable:
		v, ok := s.lookup(n.Name)
		if !ok {
			return nil, undefined(n)
		}

		return v, nil

	case *Arithmetic:
		return e.evalArithmetic(ctx, n, s)

	case *Logical:
		return e.evalLogical(ctx, n, s)

	case *Not:
		v, err := e.eval(ctx, n.Operand, s)
		if err != nil {
			return nil, err
		}

		return Bool(!Truthy(v)), nil

	case *Comparison:
		l, err := e.eval(ctx, n.Left, s)
		if err != nil {
			return nil, err
		}

		r, err := e.eval(ctx, n.Right, s)
		if err != nil {
			return nil, err
		}

		v, err := apply(n.Op, l, r)

		return v, locate(err, n.Start)

	case *Equal:
		return e.evalEqual(ctx, n, s)

	case *FunctionLiteral:
		return n, nil

	case *Call:
		return e.call(ctx, n, s)

	case *If:
		cond, err := e.eval(ctx, n.Cond, s)
		if err != nil {
			return nil, err
		}

		if Truthy(cond) {
			return e.eval(ctx, n.Then, s)
		}

		return e.eval(ctx, n.Else, s)

	default:
		return nil, ErrGrammar.Msgf(errUnsupportedNodeFmt, n)
	}
}

// evalArithmetic folds the operands left to right.
func (e *Evaluator) evalArithmetic(
	ctx context.Context,
	n *Arithmetic,
	s scope,
) (Value, error) {
	var acc Value

	for i, operand := range n.Operands {
		v, err := e.eval(ctx, operand, s)
		if err != nil {
			return nil, err
		}

		if i == 0 {
			acc = v

			continue
		}

		acc, err = apply(n.Op, acc, v)
		if err != nil {
			return nil, locate(err, n.Start)
		}
	}

	return acc, nil
}

// evalLogical short-circuits: and stops at the first falsy operand, or at
// the first truthy one.
func (e *Evaluator) evalLogical(
	ctx context.Context,
	n *Logical,
	s scope,
) (Value, error) {
	stop := n.Op == OpOr

	for _, operand := range n.Operands {
		v, err := e.eval(ctx, operand, s)
		if err != nil {
			return nil, err
		}

		if Truthy(v) == stop {
			return Bool(stop), nil
		}
	}

	return Bool(!stop), nil
}

// evalEqual evaluates every operand before comparing against the first.
func (e *Evaluator) evalEqual(
	ctx context.Context,
	n *Equal,
	s scope,
) (Value, error) {
	values := make([]Value, len(n.Operands))

	for i, operand := range n.Operands {
		v, err := e.eval(ctx, operand, s)
		if err != nil {
			return nil, err
		}

		values[i] = v
	}

	for _, v := range values[1:] {
		if !ValuesEqual(values[0], v) {
			return Bool(false), nil
		}
	}

	return Bool(true), nil
}

// call applies a function. The arguments are evaluated in the caller's
// scope; only the first body expression is evaluated, against a snapshot
// of the global bindings overlaid with the parameters.
func (e *Evaluator) call(ctx context.Context, n *Call, s scope) (Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, err := e.eval(ctx, n.Target, s)
	if err != nil {
		return nil, err
	}

	fn, names, err := resolveCall(n, target)
	if err != nil {
		return nil, err
	}

	params := make(map[string]Value, len(names))

	for i, arg := range n.Args {
		v, err := e.eval(ctx, arg, s)
		if err != nil {
			return nil, err
		}

		params[names[i]] = v
	}

	if err := e.enter(); err != nil {
		return nil, locate(err, n.Start)
	}
	defer e.leave()

	e.logger.TraceContext(ctx, "call",
		slog.Any("target", sourceText{n.Target}),
		slog.Int("args", len(n.Args)),
		slog.Int("depth", e.depth),
	)

	return e.eval(ctx, fn.Body[0], s.overlay(params))
}

func (e *Evaluator) enter() error {
	if e.maxDepth > 0 && e.depth >= e.maxDepth {
		return ErrDepthExceeded.
			Msgf("Maximum call depth exceeded (%d)", e.maxDepth).
			With(slog.Int("max_depth", e.maxDepth))
	}

	e.depth++

	return nil
}

func (e *Evaluator) leave() { e.depth-- }

// resolveCall checks that target is a function accepting the call's
// arguments and returns its parameter names.
func resolveCall(n *Call, target Value) (*FunctionLiteral, []string, error) {
	fn, ok := target.(*FunctionLiteral)
	if !ok {
		return nil, nil, ErrInvalidCallTarget.
			Msgf("Invalid function call: %s", FormatNode(n)).
			At(n.Start).
			With(slog.String("target", typeName(target)))
	}

	if len(fn.Params) != len(n.Args) {
		return nil, nil, ErrFunctionArity.
			Msgf("Function expects %d arguments, but got %d",
				len(fn.Params), len(n.Args)).
			At(n.Start).
			With(
				slog.Int("expected", len(fn.Params)),
				slog.Int("got", len(n.Args)),
			)
	}

	names, err := paramNames(fn)
	if err != nil {
		return nil, nil, err
	}

	return fn, names, nil
}

// paramNames validates that every parameter is a bare identifier.
func paramNames(fn *FunctionLiteral) ([]string, error) {
	names := make([]string, len(fn.Params))

	for i, p := range fn.Params {
		v, ok := p.(*Variable)
		if !ok {
			return nil, ErrInvalidParameter.
				Msgf("Invalid parameter: %s", FormatNode(p)).
				At(p.Pos())
		}

		names[i] = v.Name
	}

	return names, nil
}

func undefined(n *Variable) error {
	return ErrUndefinedVariable.
		Msgf("Variable %s not defined", n.Name).
		At(n.Start).
		With(slog.String("name", n.Name))
}

// locate attaches pos to a language error that has no position yet.
func locate(err error, pos Position) error {
	if err == nil {
		return nil
	}

	var ee *Error
	if !errors.As(err, &ee) {
		return err
	}

	if _, ok := ee.Position(); ok {
		return err
	}

	return ee.At(pos)
}
