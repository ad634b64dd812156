package interpreter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"ripple/pkg/parser/codegen"
)

// cancelCheckInterval is how many steps run between context checks
const cancelCheckInterval = 1024

// execute runs the frame until it returns or falls off the end of its code,
// which yields null
func (i *Interpreter) execute(ctx context.Context, f *Frame) (Value, error) {
	for f.IP < len(f.Code) {
		if i.maxSteps > 0 && i.steps >= i.maxSteps {
			return Null(), locate(f, newError(ErrMaxStepsExceeded, "limit of %d steps reached", i.maxSteps))
		}
		i.steps++
		if i.steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Null(), err
			}
		}

		in := f.Code[f.IP]
		f.IP++

		result, returned, err := i.step(ctx, f, in)
		if err != nil {
			return Null(), locate(f, err)
		}

		if returned {
			return result, nil
		}
	}

	return Null(), nil
}

// locate stamps the frame's function and line on an error raised inside it.
// Errors raised by a callee keep the location of the callee.
func locate(f *Frame, err error) error {
	var rerr *RuntimeError
	if errors.As(err, &rerr) && rerr.Func == "" {
		rerr.Func = f.FuncName
		rerr.Line = f.line()
	}
	return err
}

// step executes a single instruction, returning (result, returned, error)
func (i *Interpreter) step(ctx context.Context, f *Frame, in codegen.Instruction) (Value, bool, error) {
	switch in.Op {
	case codegen.OpNumber:
		f.push(NewNumber(in.Number))
	case codegen.OpString:
		f.push(NewString(in.Name))
	case codegen.OpTrue:
		f.push(NewBool(true))
	case codegen.OpFalse:
		f.push(NewBool(false))
	case codegen.OpNull:
		f.push(Null())

	case codegen.OpList:
		items, err := f.popN(in.Count)
		if err != nil {
			return Null(), false, err
		}
		f.push(NewList(items...))

	case codegen.OpAdd, codegen.OpSub, codegen.OpMul, codegen.OpDiv, codegen.OpMod,
		codegen.OpAnd, codegen.OpOr,
		codegen.OpEqual, codegen.OpNotEqual,
		codegen.OpGreater, codegen.OpGreaterEqual, codegen.OpLess, codegen.OpLessEqual:
		operands, err := f.popN(2)
		if err != nil {
			return Null(), false, err
		}
		res, err := evalBinary(in.Op, operands[0], operands[1])
		if err != nil {
			return Null(), false, err
		}
		f.push(res)

	case codegen.OpNegate, codegen.OpNot:
		a, err := f.pop()
		if err != nil {
			return Null(), false, err
		}
		res, err := evalUnary(in.Op, a)
		if err != nil {
			return Null(), false, err
		}
		f.push(res)

	case codegen.OpResolve:
		return Null(), false, i.resolve(f, in.Name)

	case codegen.OpAssign:
		return Null(), false, i.assign(f, in.Name)

	case codegen.OpSubscript:
		// markers are consumed by the resolve or assign they follow
		return Null(), false, newError(ErrInvalidInstruction, "subscript marker without a variable")

	case codegen.OpJumpFalse:
		cond, err := f.pop()
		if err != nil {
			return Null(), false, err
		}
		if cond.Kind != KindBool {
			return Null(), false, newError(ErrNonBooleanCondition, "condition must be a boolean, got %s", cond.Kind)
		}
		if !cond.Bool {
			f.IP += in.Offset
		}

	case codegen.OpJump:
		f.IP += in.Offset

	case codegen.OpLoop:
		f.IP -= in.Offset

	case codegen.OpCall:
		args, err := f.pop()
		if err != nil {
			return Null(), false, err
		}
		if args.Kind != KindList {
			return Null(), false, newError(ErrInvalidInstruction, "call to `%s` without an argument list", in.Name)
		}
		res, err := i.Call(ctx, in.Name, args.List.Items)
		if err != nil {
			return Null(), false, err
		}
		f.push(res)

	case codegen.OpReturn:
		v, err := f.pop()
		if err != nil {
			return Null(), false, err
		}
		return v, true, nil

	case codegen.OpPop:
		if _, err := f.pop(); err != nil {
			return Null(), false, err
		}

	case codegen.OpPrint, codegen.OpPrintln:
		v, err := f.pop()
		if err != nil {
			return Null(), false, err
		}
		text := v.String()
		if in.Op == codegen.OpPrintln {
			text += "\n"
		}
		if _, err := fmt.Fprint(i.out, text); err != nil {
			return Null(), false, err
		}

	case codegen.OpSleep:
		v, err := f.pop()
		if err != nil {
			return Null(), false, err
		}
		if v.Kind != KindNumber || v.Num < 0 || math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return Null(), false, newError(ErrInvalidSleepDuration, "sleep needs a non-negative number of seconds, got %s", v.Repr())
		}
		if err := i.sleep(ctx, seconds(v.Num)); err != nil {
			return Null(), false, err
		}

	case codegen.OpAppend:
		v, err := f.pop()
		if err != nil {
			return Null(), false, err
		}
		target, ok := f.Locals[in.Name]
		if !ok {
			return Null(), false, newError(ErrUndefinedVariable, "variable `%s` is not defined", in.Name)
		}
		if target.Kind != KindList {
			return Null(), false, newError(ErrNotAList, "cannot append to `%s` of type %s", in.Name, target.Kind)
		}
		target.List.Items = append(target.List.Items, v)

	case codegen.OpClearScreen:
		i.term.ClearScreen()

	default:
		return Null(), false, newError(ErrInvalidInstruction, "unknown operation `%s`", in.Op)
	}

	return Null(), false, nil
}

// resolve pushes the value of a local, descending one list level per
// trailing subscript marker. Indices sit on the stack in source order.
func (i *Interpreter) resolve(f *Frame, name string) error {
	indices, err := f.popN(f.subscripts())
	if err != nil {
		return err
	}

	v, ok := f.Locals[name]
	if !ok {
		return newError(ErrUndefinedVariable, "variable `%s` is not defined", name)
	}

	for _, idx := range indices {
		list, n, err := element(v, idx)
		if err != nil {
			return err
		}
		v = list.Items[n]
	}

	f.push(v)
	return nil
}

// assign binds a local, or with trailing subscript markers stores the value
// into the addressed list element. The stack holds the indices followed by
// the value.
func (i *Interpreter) assign(f *Frame, name string) error {
	depth := f.subscripts()
	value, err := f.pop()
	if err != nil {
		return err
	}

	indices, err := f.popN(depth)
	if err != nil {
		return err
	}

	if depth == 0 {
		f.Locals[name] = value
		return nil
	}

	target, ok := f.Locals[name]
	if !ok {
		return newError(ErrUndefinedVariable, "variable `%s` is not defined", name)
	}

	for _, idx := range indices[:depth-1] {
		list, n, err := element(target, idx)
		if err != nil {
			return err
		}
		target = list.Items[n]
	}

	list, n, err := element(target, indices[depth-1])
	if err != nil {
		return err
	}
	list.Items[n] = value
	return nil
}

// seconds converts a non-negative number of seconds to a Duration,
// saturating at the largest representable one
func seconds(n float64) time.Duration {
	ns := n * float64(time.Second)
	if ns >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ns)
}
