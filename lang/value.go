package lang

import (
	"log/slog"
	"strconv"
)

// Value is the result of evaluating an expression: an [Int], a [Bool] or a
// function ([*FunctionLiteral]).
type Value interface {
	// Type returns the name of the value's type as used in diagnostics.
	Type() string
	// String returns the value as it would be written in source.
	String() string
}

// Int is a 64-bit signed integer value.
type Int int64

// Bool is a boolean value.
type Bool bool

func (Int) Type() string  { return "int" }
func (Bool) Type() string { return "bool" }

// Type implements [Value].
func (*FunctionLiteral) Type() string { return "function" }

func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }

func (v Bool) String() string {
	if v {
		return "#t"
	}

	return "#f"
}

// String returns the canonical source text of the function.
func (f *FunctionLiteral) String() string { return FormatNode(f) }

// Truthy reports whether v counts as true in a condition.
// Int 0 and Bool false are falsy; everything else, functions included, is
// truthy.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Int:
		return v != 0

	case Bool:
		return bool(v)

	default:
		return v != nil
	}
}

// Equal reports whether two values are equal under the = operator.
// Integers and booleans compare numerically, functions compare by canonical
// text, and a function never equals a number.
func ValuesEqual(a, b Value) bool {
	fa, aFunc := a.(*FunctionLiteral)
	fb, bFunc := b.(*FunctionLiteral)

	switch {
	case aFunc && bFunc:
		return fa == fb || FormatNode(fa) == FormatNode(fb)

	case aFunc || bFunc:
		return false
	}

	x, _ := numeric(a)
	y, _ := numeric(b)

	return x == y
}

// numeric returns the integer meaning of v. Booleans count as 0 or 1.
func numeric(v Value) (int64, bool) {
	switch v := v.(type) {
	case Int:
		return int64(v), true

	case Bool:
		if v {
			return 1, true
		}

		return 0, true

	default:
		return 0, false
	}
}

// typeName returns the diagnostic type name of v, tolerating nil.
func typeName(v Value) string {
	if v == nil {
		return "none"
	}

	return v.Type()
}

// binaryOperands converts both operands of op to integers.
func binaryOperands(op string, a, b Value) (int64, int64, error) {
	x, okA := numeric(a)
	y, okB := numeric(b)

	if !okA || !okB {
		return 0, 0, ErrTypeMismatch.
			Msgf("Unsupported operand type(s) for %s: '%s' and '%s'",
				op, typeName(a), typeName(b)).
			With(slog.String("op", op))
	}

	return x, y, nil
}

// unaryOperand converts the single operand of op to an integer.
func unaryOperand(op string, v Value) (int64, error) {
	x, ok := numeric(v)
	if !ok {
		return 0, ErrTypeMismatch.
			Msgf("Unsupported operand type for %s: '%s'", op, typeName(v)).
			With(slog.String("op", op))
	}

	return x, nil
}

// apply computes a binary arithmetic or comparison operator.
// Division and modulo round toward negative infinity.
func apply(op Operator, a, b Value) (Value, error) {
	x, y, err := binaryOperands(op.String(), a, b)
	if err != nil {
		return nil, err
	}

	switch op {
	case OpAdd:
		return Int(x + y), nil

	case OpSub:
		return Int(x - y), nil

	case OpMul:
		return Int(x * y), nil

	case OpDiv:
		if y == 0 {
			return nil, ErrDivisionByZero
		}

		return Int(floorDiv(x, y)), nil

	case OpMod:
		if y == 0 {
			return nil, ErrModuloByZero
		}

		return Int(floorMod(x, y)), nil

	case OpGreater:
		return Bool(x > y), nil

	case OpLess:
		return Bool(x < y), nil

	default:
		return nil, ErrTypeMismatch.
			Msgf("Unsupported operator %s", op).
			With(slog.String("op", op.String()))
	}
}

func floorDiv(x, y int64) int64 {
	q := x / y
	if x%y != 0 && (x < 0) != (y < 0) {
		q--
	}

	return q
}

func floorMod(x, y int64) int64 {
	r := x % y
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}

	return r
}
