package lexer

import (
	"regexp"
)

type tokenRegex struct {
	Type    TokenType
	Pattern *regexp.Regexp
}

// Token patterns, tried in order. Two-character operators come before
// their one-character prefixes.
var tokenRegexes = []tokenRegex{
	{LE, regexp.MustCompile(`^<=`)},
	{GE, regexp.MustCompile(`^>=`)},
	{EQ, regexp.MustCompile(`^==`)},
	{NE, regexp.MustCompile(`^!=`)},

	{ASSIGN, regexp.MustCompile(`^=`)},
	{PLUS, regexp.MustCompile(`^\+`)},
	{MINUS, regexp.MustCompile(`^-`)},
	{MULT, regexp.MustCompile(`^\*`)},
	{DIV, regexp.MustCompile(`^/`)},
	{MOD, regexp.MustCompile(`^%`)},
	{LT, regexp.MustCompile(`^<`)},
	{GT, regexp.MustCompile(`^>`)},

	{NEWLINE, regexp.MustCompile(`^[\n;]`)},
	{COMMA, regexp.MustCompile(`^,`)},
	{LPAREN, regexp.MustCompile(`^\(`)},
	{RPAREN, regexp.MustCompile(`^\)`)},
	{LBRACE, regexp.MustCompile(`^\{`)},
	{RBRACE, regexp.MustCompile(`^\}`)},
	{LSBRACE, regexp.MustCompile(`^\[`)},
	{RSBRACE, regexp.MustCompile(`^\]`)},

	{NUMBER, regexp.MustCompile(`^\d+(\.\d+)?([eE][+-]?\d+)?`)},
	{STRING, regexp.MustCompile(`^"[^"]*"`)},
	{ID, regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*`)},
}

var (
	whitespaceRegex = regexp.MustCompile(`^[ \t\r]+`)
	commentRegex    = regexp.MustCompile(`^//[^\n]*`)
)

// MatchToken matches the token at the start of s. Identifiers that spell a
// keyword come back as that keyword. Skippable text (whitespace, comments)
// is reported as EOF with a non-empty lexeme.
func MatchToken(s string) (TokenType, string, bool) {
	if s == "" {
		return EOF, "", false
	} else if match := whitespaceRegex.FindString(s); match != "" {
		return EOF, match, true
	} else if match := commentRegex.FindString(s); match != "" {
		return EOF, match, true
	}

	for _, tr := range tokenRegexes {
		if match := tr.Pattern.FindString(s); match != "" {
			if tr.Type == ID {
				if kw, ok := IsKeyword(match); ok {
					return kw, match, true
				}
			}
			return tr.Type, match, true
		}
	}

	return ILLEGAL, string(s[0]), false
}
