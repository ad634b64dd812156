package interpreter

import (
	"ripple/pkg/parser/codegen"
	"ripple/pkg/stack"
)

// Frame represents a function call frame.
type Frame struct {
	FuncName string                // function name for this frame
	Code     []codegen.Instruction // code segment of the function
	IP       int                   // index of the next instruction in Code
	Locals   map[string]Value      // local variables (name -> value)
	Stack    *stack.Stack[Value]   // operand stack
}

func newFrame(fn *codegen.Function, locals map[string]Value) *Frame {
	if locals == nil {
		locals = make(map[string]Value)
	}

	return &Frame{
		FuncName: fn.Name,
		Code:     fn.Code,
		Locals:   locals,
		Stack:    stack.New[Value](),
	}
}

func (f *Frame) push(v Value) {
	f.Stack.Push(v)
}

func (f *Frame) pop() (Value, error) {
	v, ok := f.Stack.Pop()
	if !ok {
		return Null(), newError(ErrStackUnderflow, "no operand left in `%s`", f.FuncName)
	}
	return v, nil
}

// popN pops n values and returns them in the order they were pushed
func (f *Frame) popN(n int) ([]Value, error) {
	if f.Stack.Size() < n {
		return nil, newError(ErrStackUnderflow, "need %d operands in `%s`, have %d", n, f.FuncName, f.Stack.Size())
	}

	items := make([]Value, n)
	for k := n - 1; k >= 0; k-- {
		items[k], _ = f.Stack.Pop()
	}
	return items, nil
}

// subscripts consumes the run of subscript markers following the current
// instruction and returns its length
func (f *Frame) subscripts() int {
	n := 0
	for f.IP < len(f.Code) && f.Code[f.IP].Op == codegen.OpSubscript {
		n++
		f.IP++
	}
	return n
}

// line returns the source line of the instruction last fetched
func (f *Frame) line() int {
	if f.IP == 0 || f.IP > len(f.Code) {
		return 0
	}
	return f.Code[f.IP-1].Line
}
