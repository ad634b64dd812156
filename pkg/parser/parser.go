package parser

import (
	"ripple/pkg/lexer"
	"ripple/pkg/parser/codegen"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"
)

// Parser is a single-pass compiler: it reads tokens left to right with one
// token of lookahead and emits code straight into the current function's
// segment. No syntax tree is built.
type Parser struct {
	tokens  []lexer.Token          // token stream, always EOF-terminated
	current int                    // index of the lookahead token
	cg      *codegen.Codegen       // code generator for the declaration being compiled
	table   *codegen.FunctionTable // compiled declarations
	errors  *multierror.Error      // recorded syntax errors
}

// NewParser creates a parser over a token sequence
func NewParser(tokens []lexer.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.EOF {
		var pos lexer.Position
		if len(tokens) > 0 {
			pos = tokens[len(tokens)-1].Pos
		}
		tokens = append(tokens[:len(tokens):len(tokens)], lexer.NewToken(lexer.EOF, "", "", pos))
	}

	return &Parser{
		tokens: tokens,
		cg:     codegen.NewCodegen(),
		table:  codegen.NewFunctionTable(),
	}
}

// Compile turns a token sequence into a function table. If any syntax error
// was recorded the table is nil and the error lists every one of them.
func Compile(tokens []lexer.Token) (*codegen.FunctionTable, error) {
	p := NewParser(tokens)
	p.Parse()
	if err := p.Err(); err != nil {
		return nil, err
	}
	return p.Functions(), nil
}

// CompileSource tokenizes and compiles source text
func CompileSource(src string) (*codegen.FunctionTable, error) {
	return Compile(lexer.Tokenize(src))
}

// Parse compiles every top-level declaration. A declaration containing an
// error is dropped and parsing resumes at the next `func` keyword.
func (p *Parser) Parse() {
	for !p.atEnd() {
		if p.match(lexer.NEWLINE) {
			continue
		}

		start := p.current
		if err := p.functionDeclaration(); err != nil {
			p.addError(err)
			p.synchronize(start)
		}
	}

	log.Debug("Parsing finished", "functions", p.table.Len(), "errors", len(p.Errors()))
}

// Functions returns the compiled declarations
func (p *Parser) Functions() *codegen.FunctionTable {
	return p.table
}

// synchronize skips to the next `func` keyword. The declaration that failed
// started at index start and is always skipped.
func (p *Parser) synchronize(start int) {
	if p.current == start {
		p.advance()
	}

	for !p.atEnd() && !p.check(lexer.FUNC) {
		p.advance()
	}
}

// atEnd reports whether the lookahead is EOF
func (p *Parser) atEnd() bool {
	return p.peek().Type == lexer.EOF
}

// peek returns the lookahead token
func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

// previous returns the most recently consumed token
func (p *Parser) previous() lexer.Token {
	return p.tokens[p.current-1]
}

// advance consumes the lookahead token and returns it
func (p *Parser) advance() lexer.Token {
	if !p.atEnd() {
		p.current++
	}

	tok := p.previous()
	p.cg.SetLine(tok.Line())
	return tok
}

// check reports whether the lookahead has type t
func (p *Parser) check(t lexer.TokenType) bool {
	return p.peek().Type == t
}

// match consumes the lookahead if it has any of the given types
func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}

	return false
}

// consume requires the lookahead to have type t
func (p *Parser) consume(t lexer.TokenType, msg string) (lexer.Token, error) {
	if !p.check(t) {
		return lexer.Token{}, p.errorAtCurrent(msg)
	}

	return p.advance(), nil
}

// skipNewlines consumes any run of statement terminators
func (p *Parser) skipNewlines() {
	for p.match(lexer.NEWLINE) {
	}
}
