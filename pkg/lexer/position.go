package lexer

import "fmt"

// Position locates a token in the source. Line and Column are 1-based, Offset is a byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String renders the position as line:column
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
