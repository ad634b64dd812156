package codegen

import (
	"fmt"
	"io"
	"strings"
)

// Disassemble writes a readable listing of every function in the table, in
// declaration order.
func Disassemble(w io.Writer, table *FunctionTable) error {
	for n, name := range table.Names() {
		fn, _ := table.Lookup(name)
		if n > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := DisassembleFunction(w, fn); err != nil {
			return err
		}
	}
	return nil
}

// DisassembleFunction writes the listing of a single function
func DisassembleFunction(w io.Writer, fn *Function) error {
	if _, err := fmt.Fprintf(w, "func %s(%s) line=%d\n", fn.Name, strings.Join(fn.Params, ", "), fn.Line); err != nil {
		return err
	}

	for idx, in := range fn.Code {
		detail := in.Operand()
		if in.IsJump() {
			detail = fmt.Sprintf("%s -> %04d", detail, in.Target(idx))
		}
		line := strings.TrimRight(fmt.Sprintf("  %04d %4d  %-10s %s", idx, in.Line, in.Op, detail), " ")
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
