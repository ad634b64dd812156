package interpreter

import (
	"math"

	"ripple/pkg/parser/codegen"
)

// symbols maps operations to the operator text shown in type errors
var symbols = map[codegen.Operation]string{
	codegen.OpAdd:          "+",
	codegen.OpSub:          "-",
	codegen.OpMul:          "*",
	codegen.OpDiv:          "/",
	codegen.OpMod:          "%",
	codegen.OpNegate:       "-",
	codegen.OpNot:          "not",
	codegen.OpAnd:          "and",
	codegen.OpOr:           "or",
	codegen.OpEqual:        "==",
	codegen.OpNotEqual:     "!=",
	codegen.OpGreater:      ">",
	codegen.OpGreaterEqual: ">=",
	codegen.OpLess:         "<",
	codegen.OpLessEqual:    "<=",
}

// evalBinary applies a binary operation to a (left) and b (right)
func evalBinary(op codegen.Operation, a, b Value) (Value, error) {
	switch op {
	case codegen.OpEqual:
		return NewBool(a.Equal(b)), nil
	case codegen.OpNotEqual:
		return NewBool(!a.Equal(b)), nil

	case codegen.OpAnd, codegen.OpOr:
		if a.Kind != KindBool || b.Kind != KindBool {
			return Null(), typeMismatch(symbols[op], a, b)
		}
		if op == codegen.OpAnd {
			return NewBool(a.Bool && b.Bool), nil
		}
		return NewBool(a.Bool || b.Bool), nil

	case codegen.OpAdd:
		if a.Kind == KindString && b.Kind == KindString {
			return NewString(a.Str + b.Str), nil
		}
	}

	if a.Kind != KindNumber || b.Kind != KindNumber {
		return Null(), typeMismatch(symbols[op], a, b)
	}
	x, y := a.Num, b.Num

	switch op {
	case codegen.OpAdd:
		return NewNumber(x + y), nil
	case codegen.OpSub:
		return NewNumber(x - y), nil
	case codegen.OpMul:
		return NewNumber(x * y), nil
	case codegen.OpDiv:
		if y == 0 {
			return Null(), newError(ErrDivisionByZero, "%s / 0", formatNumber(x))
		}
		return NewNumber(x / y), nil
	case codegen.OpMod:
		if y == 0 {
			return Null(), newError(ErrDivisionByZero, "%s %% 0", formatNumber(x))
		}
		return NewNumber(floorMod(x, y)), nil
	case codegen.OpGreater:
		return NewBool(x > y), nil
	case codegen.OpGreaterEqual:
		return NewBool(x >= y), nil
	case codegen.OpLess:
		return NewBool(x < y), nil
	case codegen.OpLessEqual:
		return NewBool(x <= y), nil
	default:
		return Null(), newError(ErrInvalidInstruction, "`%s` is not a binary operation", op)
	}
}

// evalUnary applies `neg` or `not`
func evalUnary(op codegen.Operation, a Value) (Value, error) {
	switch op {
	case codegen.OpNegate:
		if a.Kind != KindNumber {
			return Null(), typeMismatch(symbols[op], a)
		}
		return NewNumber(-a.Num), nil
	case codegen.OpNot:
		if a.Kind != KindBool {
			return Null(), typeMismatch(symbols[op], a)
		}
		return NewBool(!a.Bool), nil
	default:
		return Null(), newError(ErrInvalidInstruction, "`%s` is not a unary operation", op)
	}
}

// floorMod returns the remainder with the sign of the divisor
func floorMod(x, y float64) float64 {
	r := math.Mod(x, y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return r
}

// element checks that idx addresses an item of container and returns the
// backing list and integer position
func element(container, idx Value) (*List, int, error) {
	if container.Kind != KindList {
		return nil, 0, newError(ErrNotSubscriptable, "value of type %s is not subscriptable", container.Kind)
	}
	if idx.Kind != KindNumber || idx.Num != math.Trunc(idx.Num) {
		return nil, 0, newError(ErrIndexOutOfBounds, "index must be a whole number, got %s", idx.Repr())
	}
	if idx.Num < 0 || idx.Num >= float64(len(container.List.Items)) {
		return nil, 0, newError(ErrIndexOutOfBounds, "index %g out of bounds for list of length %d", idx.Num, len(container.List.Items))
	}
	return container.List, int(idx.Num), nil
}
