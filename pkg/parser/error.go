package parser

import (
	"fmt"
	"strings"

	"ripple/pkg/lexer"

	"github.com/hashicorp/go-multierror"
)

// Error is a syntax error tied to the token where it was detected.
type Error struct {
	Pos    lexer.Position
	Lexeme string
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Pos.Line, e.Msg)
}

// Line returns the source line of the error
func (e *Error) Line() int {
	return e.Pos.Line
}

// errorAt builds an error located at tok
func (p *Parser) errorAt(tok lexer.Token, msg string) error {
	return &Error{Pos: tok.Pos, Lexeme: tok.Lexeme, Msg: msg}
}

// errorAtCurrent builds an error located at the lookahead token
func (p *Parser) errorAtCurrent(msg string) error {
	return p.errorAt(p.peek(), msg)
}

// unexpected reports the lookahead as not being what was expected
func (p *Parser) unexpected(expected string) error {
	return p.errorAtCurrent(fmt.Sprintf("Unexpected %s, expected %s", describe(p.peek()), expected))
}

// addError records a parsing error
func (p *Parser) addError(err error) {
	p.errors = multierror.Append(p.errors, err)
}

// Errors returns the list of parsing errors
func (p *Parser) Errors() []error {
	if p.errors == nil {
		return nil
	}
	return p.errors.Errors
}

// Err returns every recorded error as one, or nil
func (p *Parser) Err() error {
	if p.errors == nil {
		return nil
	}
	p.errors.ErrorFormat = listFormat
	return p.errors.ErrorOrNil()
}

// listFormat prints one error per line
func listFormat(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}

// describe names a token for error messages
func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.NEWLINE:
		if tok.Lexeme == ";" {
			return "`;`"
		}
		return "newline"
	case lexer.ILLEGAL:
		if strings.HasPrefix(tok.Lexeme, `"`) {
			return fmt.Sprintf("unterminated string %s", tok.Lexeme)
		}
		return fmt.Sprintf("character `%s`", tok.Lexeme)
	default:
		return fmt.Sprintf("token `%s`", tok.Lexeme)
	}
}
