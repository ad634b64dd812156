package codegen

import (
	"fmt"
	"strconv"

	"ripple/pkg/lexer"
)

type Operation string

// List of VM operations
const (
	OpNumber Operation = "num"   // push Number
	OpString Operation = "str"   // push Name as a string value
	OpTrue   Operation = "true"  // push true
	OpFalse  Operation = "false" // push false
	OpNull   Operation = "null"  // push null
	OpList   Operation = "list"  // pop Count values into a new list

	OpAdd          Operation = "add"
	OpSub          Operation = "sub"
	OpMul          Operation = "mul"
	OpDiv          Operation = "div"
	OpMod          Operation = "mod"
	OpNegate       Operation = "neg"
	OpNot          Operation = "not"
	OpAnd          Operation = "and"
	OpOr           Operation = "or"
	OpEqual        Operation = "eq"
	OpNotEqual     Operation = "ne"
	OpGreater      Operation = "gt"
	OpGreaterEqual Operation = "ge"
	OpLess         Operation = "lt"
	OpLessEqual    Operation = "le"

	OpResolve   Operation = "resolve" // push local Name, descending trailing subscripts
	OpAssign    Operation = "assign"  // bind local Name, or mutate through trailing subscripts
	OpSubscript Operation = "subscript"

	OpJumpFalse Operation = "jmpf" // pop condition, skip Offset slots forward when false
	OpJump      Operation = "jmp"  // skip Offset slots forward
	OpLoop      Operation = "loop" // step Offset slots backward

	OpCall   Operation = "call" // pop argument list, call Name
	OpReturn Operation = "ret"
	OpPop    Operation = "pop"

	OpPrint       Operation = "print"
	OpPrintln     Operation = "println"
	OpSleep       Operation = "sleep"
	OpAppend      Operation = "append" // pop value, append to list bound to Name
	OpClearScreen Operation = "clrscrn"
)

// Instruction is one slot of a code segment. Only the operand field that
// matches Op is meaningful.
type Instruction struct {
	Op Operation

	Number float64 // OpNumber
	Name   string  // OpString text; identifier for OpResolve, OpAssign, OpCall, OpAppend
	Count  int     // OpList
	Offset int     // OpJumpFalse, OpJump, OpLoop

	Line int // source line that produced the instruction
}

// IsJump reports whether the instruction carries a jump offset
func (i Instruction) IsJump() bool {
	switch i.Op {
	case OpJumpFalse, OpJump, OpLoop:
		return true
	default:
		return false
	}
}

// Target returns the absolute index a jump at index at lands on
func (i Instruction) Target(at int) int {
	if i.Op == OpLoop {
		return at + 1 - i.Offset
	}
	return at + 1 + i.Offset
}

// Operand renders the immediate operand, or "" if the operation has none
func (i Instruction) Operand() string {
	switch i.Op {
	case OpNumber:
		return strconv.FormatFloat(i.Number, 'g', -1, 64)
	case OpString:
		return strconv.Quote(i.Name)
	case OpResolve, OpAssign, OpCall, OpAppend:
		return i.Name
	case OpList:
		return strconv.Itoa(i.Count)
	case OpJumpFalse, OpJump, OpLoop:
		return strconv.Itoa(i.Offset)
	default:
		return ""
	}
}

// String returns a string representation of the instruction
func (i Instruction) String() string {
	if operand := i.Operand(); operand != "" {
		return fmt.Sprintf("(%s %s)", i.Op, operand)
	}
	return fmt.Sprintf("(%s)", i.Op)
}

// GetLexOperation maps an operator token to the operation it compiles to
func GetLexOperation(t lexer.TokenType) (Operation, bool) {
	switch t {
	case lexer.PLUS:
		return OpAdd, true
	case lexer.MINUS:
		return OpSub, true
	case lexer.MULT:
		return OpMul, true
	case lexer.DIV:
		return OpDiv, true
	case lexer.MOD:
		return OpMod, true
	case lexer.AND:
		return OpAnd, true
	case lexer.OR:
		return OpOr, true
	case lexer.EQ:
		return OpEqual, true
	case lexer.NE:
		return OpNotEqual, true
	case lexer.LT:
		return OpLess, true
	case lexer.LE:
		return OpLessEqual, true
	case lexer.GT:
		return OpGreater, true
	case lexer.GE:
		return OpGreaterEqual, true
	default:
		return "", false
	}
}
