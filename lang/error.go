package lang

//go:generate go tool stringer --linecomment --type Kind --output error_string.go

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Kind distinguishes the failure classes of the interpreter. All kinds are
// reported to users through the same "syntax error" channel.
type Kind int

const (
	KindUnknown           Kind = iota // Error
	KindLex                           // LexError
	KindGrammar                       // GrammarError
	KindArity                         // ArityError
	KindUndefinedVariable             // UndefinedVariableError
	KindDivisionByZero                // DivisionByZeroError
	KindModuloByZero                  // ModuloByZeroError
	KindInvalidCallTarget             // InvalidCallTargetError
	KindFunctionArity                 // FunctionArityMismatchError
	KindTypeMismatch                  // TypeMismatchError
	KindInvalidParameter              // InvalidParameterError
	KindDepthExceeded                 // DepthExceededError
	KindEngine                        // EngineError
)

// Predefined errors (sentinel values), one per kind.
// errors.Is matches any error of the same kind against these.
var (
	ErrLex                = NewError(KindLex, "illegal character")
	ErrGrammar            = NewError(KindGrammar, "syntax error")
	ErrArity              = NewError(KindArity, "wrong number of operands")
	ErrUndefinedVariable  = NewError(KindUndefinedVariable, "undefined variable")
	ErrDivisionByZero     = NewError(KindDivisionByZero, "Division by zero")
	ErrModuloByZero       = NewError(KindModuloByZero, "Division by zero in modulo")
	ErrInvalidCallTarget  = NewError(KindInvalidCallTarget, "invalid function call")
	ErrFunctionArity      = NewError(KindFunctionArity, "wrong number of arguments")
	ErrTypeMismatch       = NewError(KindTypeMismatch, "unsupported operand type")
	ErrInvalidParameter   = NewError(KindInvalidParameter, "invalid parameter")
	ErrDepthExceeded      = NewError(KindDepthExceeded, "maximum call depth exceeded")
	ErrEngine             = NewError(KindEngine, "engine failure")
	ErrUnexpectedEOF      = ErrGrammar.Msgf("Unexpected end of file")
	errUnsupportedNodeFmt = "unsupported node %T"
)

// Error represents an interpreter failure with optional structured logging
// attributes. It implements both error and slog.LogValuer interfaces.
type Error struct {
	kind  Kind
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	pos   *Position   // Source position, when known
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error of the given kind with a message.
func NewError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// WrapError wraps a standard error into an Error.
// An error that already is (or wraps) an *Error is returned as that Error.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// engineError wraps a failure of the expr machine that is not already a
// language error, so it is still reported to users.
func engineError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{kind: KindEngine, err: err}
}

// Kind returns the error kind.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the user-facing message without any wrapped cause.
func (e *Error) Message() string {
	if e.msg == "" && e.err != nil {
		return e.err.Error()
	}

	return e.msg
}

// Position returns the source position of the error, if known.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.kind != KindUnknown && t.kind == e.kind
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)

	attrs = append(attrs, slog.String("kind", e.kind.String()))

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.pos != nil {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

func (e *Error) clone() *Error {
	c := *e
	c.attrs = append([]slog.Attr(nil), e.attrs...)

	return &c
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = append(c.attrs, attrs...)

	return c
}

// Msgf returns a copy of the error with a formatted message.
func (e *Error) Msgf(format string, args ...any) *Error {
	c := e.clone()
	c.msg = fmt.Sprintf(format, args...)

	return c
}

// At returns a copy of the error located at pos.
func (e *Error) At(pos Position) *Error {
	c := e.clone()
	c.pos = &pos

	return c
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.kind
	}

	return KindUnknown
}

// Report renders err as the single line shown to users, without a trailing
// newline: "syntax error: <message>".
func Report(err error) string {
	var ee *Error
	if errors.As(err, &ee) {
		return "syntax error: " + ee.Message()
	}

	return "syntax error: " + err.Error()
}

// Incomplete reports whether err is the parse failure of input that ended
// inside an unclosed form.
func Incomplete(err error) bool {
	var ee *Error
	if !errors.As(err, &ee) {
		return false
	}

	return ee.kind == KindGrammar && ee.msg == ErrUnexpectedEOF.msg
}
