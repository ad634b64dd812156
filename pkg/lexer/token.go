package lexer

import (
	"fmt"
)

type TokenType int

type Token struct {
	Type    TokenType // Type of the token
	Lexeme  string    // Actual string from source code
	Literal string    // Literal value (string contents without quotes), empty if not applicable
	Number  float64   // Numeric payload for NUMBER tokens
	Pos     Position  // Position in source code
}

// NewToken creates a new Token instance
func NewToken(tokenType TokenType, lexeme string, literal string, pos Position) Token {
	return Token{
		Type:    tokenType,
		Lexeme:  lexeme,
		Literal: literal,
		Pos:     pos,
	}
}

// Line returns the 1-based source line of the token
func (t Token) Line() int {
	return t.Pos.Line
}

const (
	EOF TokenType = iota // End of file

	PRINT   // print
	PRINTLN // println
	IF      // if
	ELSE    // else
	WHILE   // while
	FUNC    // func
	RETURN  // return
	NULL    // null
	TRUE    // true
	FALSE   // false
	NOT     // not
	AND     // and
	OR      // or
	SLEEP   // sleep
	APPEND  // append
	CLRSCRN // clrscrn

	ID     // identifier
	NUMBER // number literal
	STRING // string literal

	ASSIGN // =
	PLUS   // +
	MINUS  // -
	MULT   // *
	DIV    // /
	MOD    // %
	LT     // <
	GT     // >
	LE     // <=
	GE     // >=
	EQ     // ==
	NE     // !=

	NEWLINE // newline or ;
	COMMA   // ,
	LPAREN  // (
	RPAREN  // )
	LBRACE  // {
	RBRACE  // }
	LSBRACE // [
	RSBRACE // ]

	ILLEGAL // illegal token
)

var Keywords = map[string]TokenType{
	"print":   PRINT,
	"println": PRINTLN,
	"if":      IF,
	"else":    ELSE,
	"while":   WHILE,
	"func":    FUNC,
	"return":  RETURN,
	"null":    NULL,
	"true":    TRUE,
	"false":   FALSE,
	"not":     NOT,
	"and":     AND,
	"or":      OR,
	"sleep":   SLEEP,
	"append":  APPEND,
	"clrscrn": CLRSCRN,
}

var tokenNames = map[TokenType]string{
	EOF:     "end of input",
	PRINT:   "print",
	PRINTLN: "println",
	IF:      "if",
	ELSE:    "else",
	WHILE:   "while",
	FUNC:    "func",
	RETURN:  "return",
	NULL:    "null",
	TRUE:    "true",
	FALSE:   "false",
	NOT:     "not",
	AND:     "and",
	OR:      "or",
	SLEEP:   "sleep",
	APPEND:  "append",
	CLRSCRN: "clrscrn",
	ID:      "identifier",
	NUMBER:  "number",
	STRING:  "string",
	ASSIGN:  "=",
	PLUS:    "+",
	MINUS:   "-",
	MULT:    "*",
	DIV:     "/",
	MOD:     "%",
	LT:      "<",
	GT:      ">",
	LE:      "<=",
	GE:      ">=",
	EQ:      "==",
	NE:      "!=",
	NEWLINE: "newline",
	COMMA:   ",",
	LPAREN:  "(",
	RPAREN:  ")",
	LBRACE:  "{",
	RBRACE:  "}",
	LSBRACE: "[",
	RSBRACE: "]",
	ILLEGAL: "illegal",
}

// String returns a string representation of the Token
func (t Token) String() string {
	if t.Literal == "" {
		return fmt.Sprintf("T_{%s, %q, nil, %s}", t.Type, t.Lexeme, t.Pos)
	}

	return fmt.Sprintf("T_{%s, %q, %q, %s}", t.Type, t.Lexeme, t.Literal, t.Pos)
}

// String returns a string representation of the TokenType
func (t TokenType) String() string {
	if str, ok := tokenNames[t]; ok {
		return str
	}

	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// IsKeyword checks if the given identifier is a keyword and returns its TokenType if it is
func IsKeyword(identifier string) (TokenType, bool) {
	tokenType, ok := Keywords[identifier]
	return tokenType, ok
}
