package lexer

import (
	"strconv"
)

type Lexer struct {
	input    string // input string to be tokenized
	length   int    // length of the input string
	position int    // current position in the input string
	line     int    // current line number for error reporting
	column   int    // current column number for error reporting
	done     bool   // EOF already handed out
}

// NewLexer creates a new lexer instance
func NewLexer(s string) *Lexer {
	return &Lexer{
		input:    s,
		length:   len(s),
		position: 0,
		line:     1,
		column:   1,
	}
}

// Tokenize scans the whole input. The result always ends with an EOF token.
func Tokenize(s string) []Token {
	l := NewLexer(s)
	tokens := make([]Token, 0, len(s)/3+1)
	for l.HasMore() {
		tokens = append(tokens, l.NextToken())
	}
	return tokens
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.position >= l.length {
		l.done = true
		return NewToken(EOF, "", "", l.currentPosition())
	}

	pos := l.currentPosition()
	remaining := l.input[l.position:]
	tokenType, lexeme, matched := MatchToken(remaining)

	if !matched {
		// an opening quote with no closing quote swallows the rest of the line
		if remaining[0] == '"' {
			lexeme = remaining
			for i := 1; i < len(remaining); i++ {
				if remaining[i] == '\n' {
					lexeme = remaining[:i]
					break
				}
			}
		}
		l.advance(len(lexeme))
		return NewToken(ILLEGAL, lexeme, "", pos)
	}

	tok := NewToken(tokenType, lexeme, "", pos)
	switch tokenType {
	case NUMBER:
		// the pattern only admits valid float syntax
		tok.Number, _ = strconv.ParseFloat(lexeme, 64)
		tok.Literal = lexeme
	case STRING:
		tok.Literal = lexeme[1 : len(lexeme)-1]
	}

	l.advance(len(lexeme))
	return tok
}

// HasMore reports whether NextToken can still produce tokens (including the final EOF)
func (l *Lexer) HasMore() bool {
	return !l.done
}

// skipWhitespace skips blanks and comments but not newlines, which are tokens
func (l *Lexer) skipWhitespace() {
	for l.position < l.length {
		tokenType, lexeme, matched := MatchToken(l.input[l.position:])
		if !matched || tokenType != EOF || lexeme == "" {
			return
		}
		l.advance(len(lexeme))
	}
}

// advance moves the lexer position forward by n bytes
func (l *Lexer) advance(n int) {
	for range n {
		if l.position >= l.length {
			break
		}

		if l.input[l.position] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}

		l.position++
	}
}

// currentPosition returns the current position of the lexer
func (l *Lexer) currentPosition() Position {
	return Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}
}
