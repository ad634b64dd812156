package interpreter

import (
	"errors"
	"fmt"
)

var (
	ErrUndefinedFunction    = errors.New("undefined function")
	ErrArityMismatch        = errors.New("arity mismatch")
	ErrUndefinedVariable    = errors.New("undefined variable")
	ErrNotSubscriptable     = errors.New("not subscriptable")
	ErrIndexOutOfBounds     = errors.New("index out of bounds")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrDivisionByZero       = errors.New("division by zero")
	ErrNonBooleanCondition  = errors.New("non-boolean condition")
	ErrInvalidSleepDuration = errors.New("invalid sleep duration")
	ErrNotAList             = errors.New("not a list")
	ErrStackOverflow        = errors.New("stack overflow")
	ErrMaxStepsExceeded     = errors.New("maximum steps exceeded")
	ErrStackUnderflow       = errors.New("operand stack underflow")
	ErrInvalidInstruction   = errors.New("invalid instruction")
)

// RuntimeError is a fatal error raised while executing a program. Kind is
// one of the Err* sentinels and is what errors.Is matches against.
type RuntimeError struct {
	Kind  error
	Msg   string
	Func  string   // function executing when the error was raised
	Line  int      // source line of the failing instruction
	Trace []string // call trace at the time the run stopped
}

func (e *RuntimeError) Error() string {
	if e.Func == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s (in %s, line %d)", e.Kind, e.Msg, e.Func, e.Line)
}

func (e *RuntimeError) Unwrap() error {
	return e.Kind
}

// newError creates an unlocated runtime error; the executing frame fills in
// the location when the error leaves it.
func newError(kind error, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// typeMismatch reports operand kinds not accepted by an operator
func typeMismatch(symbol string, operands ...Value) *RuntimeError {
	if len(operands) == 1 {
		return newError(ErrTypeMismatch, "unsupported operand type for %s: %s", symbol, operands[0].Kind)
	}
	return newError(ErrTypeMismatch, "unsupported operand types for %s: %s and %s", symbol, operands[0].Kind, operands[1].Kind)
}
