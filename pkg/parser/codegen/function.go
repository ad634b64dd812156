package codegen

import "fmt"

// Function is a compiled top-level declaration.
type Function struct {
	Name   string        // key in the function table
	Params []string      // parameter names, in call order
	Code   []Instruction // code segment
	Line   int           // line of the func keyword
}

// Arity returns the number of declared parameters
func (f *Function) Arity() int {
	return len(f.Params)
}

// FunctionTable maps function names to their declarations. It is filled once
// by the compiler and only read afterwards.
type FunctionTable struct {
	funcs map[string]*Function
	order []string
}

// NewFunctionTable creates an empty table
func NewFunctionTable() *FunctionTable {
	return &FunctionTable{
		funcs: make(map[string]*Function),
	}
}

// Define adds a declaration. Names must be unique.
func (t *FunctionTable) Define(fn *Function) error {
	if prev, ok := t.funcs[fn.Name]; ok {
		return fmt.Errorf("function `%s` already declared on line %d", fn.Name, prev.Line)
	}

	t.funcs[fn.Name] = fn
	t.order = append(t.order, fn.Name)
	return nil
}

// Lookup finds a function by name
func (t *FunctionTable) Lookup(name string) (*Function, bool) {
	fn, ok := t.funcs[name]
	return fn, ok
}

// Names returns the function names in declaration order
func (t *FunctionTable) Names() []string {
	return append([]string(nil), t.order...)
}

// Len returns the number of declared functions
func (t *FunctionTable) Len() int {
	return len(t.order)
}
