package codegen

const placeholder = -1

// Codegen builds the code segment of one function declaration.
type Codegen struct {
	pb   []Instruction // Program block of the function being compiled
	line int           // Source line stamped on emitted instructions
}

// NewCodegen creates a new Codegen instance
func NewCodegen() *Codegen {
	return &Codegen{
		pb: make([]Instruction, 0, 32),
	}
}

// Reset starts a fresh code segment
func (c *Codegen) Reset() {
	c.pb = make([]Instruction, 0, 32)
	c.line = 0
}

// SetLine sets the source line recorded on subsequently emitted instructions
func (c *Codegen) SetLine(line int) {
	c.line = line
}

// Len returns the number of instructions emitted so far
func (c *Codegen) Len() int {
	return len(c.pb)
}

// GetProgram returns the generated code segment
func (c *Codegen) GetProgram() []Instruction {
	return c.pb
}

// Emit appends an instruction and returns its index
func (c *Codegen) Emit(in Instruction) int {
	in.Line = c.line
	c.pb = append(c.pb, in)
	return len(c.pb) - 1
}

// EmitOp appends an operand-less instruction
func (c *Codegen) EmitOp(op Operation) int {
	return c.Emit(Instruction{Op: op})
}

// EmitNumber appends a number literal
func (c *Codegen) EmitNumber(n float64) int {
	return c.Emit(Instruction{Op: OpNumber, Number: n})
}

// EmitNamed appends an instruction whose operand is a name or string literal
func (c *Codegen) EmitNamed(op Operation, name string) int {
	return c.Emit(Instruction{Op: op, Name: name})
}

// EmitList appends a list construction of count values
func (c *Codegen) EmitList(count int) int {
	return c.Emit(Instruction{Op: OpList, Count: count})
}

// EmitSubscripts appends n SUBSCRIPT markers
func (c *Codegen) EmitSubscripts(n int) {
	for range n {
		c.EmitOp(OpSubscript)
	}
}

// EmitJump appends a forward jump with a placeholder offset and returns its
// index for PatchJump.
func (c *Codegen) EmitJump(op Operation) int {
	return c.Emit(Instruction{Op: op, Offset: placeholder})
}

// PatchJump points the jump at index at to the next instruction to be emitted.
// The offset is counted from the slot after the jump.
func (c *Codegen) PatchJump(at int) {
	c.pb[at].Offset = len(c.pb) - (at + 1)
}

// EmitLoop appends a backward jump landing on index target
func (c *Codegen) EmitLoop(target int) int {
	return c.Emit(Instruction{Op: OpLoop, Offset: len(c.pb) + 1 - target})
}
