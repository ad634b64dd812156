package parser

import "ripple/pkg/lexer"

// Binary operator precedence, lowest first
const (
	_ int = iota
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:    precOr,
	lexer.AND:   precAnd,
	lexer.EQ:    precEquality,
	lexer.NE:    precEquality,
	lexer.GT:    precComparison,
	lexer.GE:    precComparison,
	lexer.LT:    precComparison,
	lexer.LE:    precComparison,
	lexer.PLUS:  precTerm,
	lexer.MINUS: precTerm,
	lexer.MULT:  precFactor,
	lexer.DIV:   precFactor,
	lexer.MOD:   precFactor,
}
