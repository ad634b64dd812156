package codegen_test

import (
	"bytes"
	"testing"

	"ripple/pkg/lexer"
	"ripple/pkg/parser/codegen"

	"github.com/stretchr/testify/require"
)

func TestPatchJumpForward(t *testing.T) {
	c := codegen.NewCodegen()
	c.EmitOp(codegen.OpTrue)
	jf := c.EmitJump(codegen.OpJumpFalse)
	require.Equal(t, -1, c.GetProgram()[jf].Offset)

	c.EmitNumber(1)
	c.EmitOp(codegen.OpPrint)
	c.PatchJump(jf)

	in := c.GetProgram()[jf]
	require.Equal(t, 2, in.Offset)
	require.Equal(t, c.Len(), in.Target(jf))
}

func TestPatchJumpToNextSlot(t *testing.T) {
	c := codegen.NewCodegen()
	j := c.EmitJump(codegen.OpJump)
	c.PatchJump(j)
	require.Equal(t, 0, c.GetProgram()[j].Offset)
}

func TestEmitLoop(t *testing.T) {
	c := codegen.NewCodegen()
	c.EmitOp(codegen.OpNull)
	cond := c.EmitOp(codegen.OpTrue)
	jf := c.EmitJump(codegen.OpJumpFalse)
	c.EmitOp(codegen.OpNull)
	c.EmitOp(codegen.OpPop)
	loop := c.EmitLoop(cond)
	c.PatchJump(jf)

	code := c.GetProgram()
	require.Equal(t, codegen.OpLoop, code[loop].Op)
	require.Equal(t, 5, code[loop].Offset)
	require.Equal(t, cond, code[loop].Target(loop))
	require.Equal(t, loop+1, code[jf].Target(jf))
}

func TestLinesAreStamped(t *testing.T) {
	c := codegen.NewCodegen()
	c.SetLine(3)
	c.EmitNumber(1)
	c.SetLine(7)
	c.EmitNamed(codegen.OpResolve, "x")
	c.EmitSubscripts(2)

	code := c.GetProgram()
	require.Len(t, code, 4)
	require.Equal(t, 3, code[0].Line)
	require.Equal(t, 7, code[1].Line)
	require.Equal(t, codegen.OpSubscript, code[3].Op)

	c.Reset()
	require.Equal(t, 0, c.Len())
}

func TestFunctionTable(t *testing.T) {
	table := codegen.NewFunctionTable()
	require.NoError(t, table.Define(&codegen.Function{Name: "main", Line: 1}))
	require.NoError(t, table.Define(&codegen.Function{Name: "add", Params: []string{"a", "b"}, Line: 5}))

	err := table.Define(&codegen.Function{Name: "main", Line: 9})
	require.EqualError(t, err, "function `main` already declared on line 1")

	fn, ok := table.Lookup("add")
	require.True(t, ok)
	require.Equal(t, 2, fn.Arity())

	_, ok = table.Lookup("missing")
	require.False(t, ok)

	require.Equal(t, []string{"main", "add"}, table.Names())
	require.Equal(t, 2, table.Len())
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		in       codegen.Instruction
		expected string
	}{
		{codegen.Instruction{Op: codegen.OpNumber, Number: 2.5}, "(num 2.5)"},
		{codegen.Instruction{Op: codegen.OpString, Name: "hi"}, `(str "hi")`},
		{codegen.Instruction{Op: codegen.OpCall, Name: "add"}, "(call add)"},
		{codegen.Instruction{Op: codegen.OpList, Count: 0}, "(list 0)"},
		{codegen.Instruction{Op: codegen.OpLoop, Offset: 4}, "(loop 4)"},
		{codegen.Instruction{Op: codegen.OpAdd}, "(add)"},
	}

	for _, test := range tests {
		require.Equal(t, test.expected, test.in.String())
	}
}

func TestGetLexOperation(t *testing.T) {
	op, ok := codegen.GetLexOperation(lexer.GE)
	require.True(t, ok)
	require.Equal(t, codegen.OpGreaterEqual, op)

	_, ok = codegen.GetLexOperation(lexer.COMMA)
	require.False(t, ok)
}

func TestDisassemble(t *testing.T) {
	table := codegen.NewFunctionTable()
	require.NoError(t, table.Define(&codegen.Function{
		Name:   "f",
		Params: []string{"a"},
		Line:   1,
		Code: []codegen.Instruction{
			{Op: codegen.OpResolve, Name: "a", Line: 2},
			{Op: codegen.OpJumpFalse, Offset: 1, Line: 2},
			{Op: codegen.OpNull, Line: 2},
			{Op: codegen.OpReturn, Line: 3},
		},
	}))
	require.NoError(t, table.Define(&codegen.Function{Name: "main", Line: 5}))

	var buf bytes.Buffer
	require.NoError(t, codegen.Disassemble(&buf, table))
	expected := "func f(a) line=1\n" +
		"  0000    2  resolve    a\n" +
		"  0001    2  jmpf       1 -> 0003\n" +
		"  0002    2  null\n" +
		"  0003    3  ret\n" +
		"\n" +
		"func main() line=5\n"
	require.Equal(t, expected, buf.String())
}
