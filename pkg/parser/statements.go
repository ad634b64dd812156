package parser

import (
	"fmt"
	"slices"

	"ripple/pkg/lexer"
	"ripple/pkg/parser/codegen"

	"github.com/charmbracelet/log"
)

// functionDeclaration compiles `func name(params) { block }` into the table
func (p *Parser) functionDeclaration() error {
	funcTok, err := p.consume(lexer.FUNC, "Expect all top-level code to be function declarations")
	if err != nil {
		return err
	}

	name, err := p.consume(lexer.ID, "Expect function name after `func` keyword")
	if err != nil {
		return err
	}

	params, err := p.parameters()
	if err != nil {
		return err
	}

	if _, err := p.consume(lexer.LBRACE, fmt.Sprintf("Expect `{` before body of `%s`", name.Lexeme)); err != nil {
		return err
	}

	p.cg.Reset()
	if err := p.block(); err != nil {
		return err
	}

	fn := &codegen.Function{
		Name:   name.Lexeme,
		Params: params,
		Code:   p.cg.GetProgram(),
		Line:   funcTok.Line(),
	}
	if err := p.table.Define(fn); err != nil {
		return p.errorAt(name, err.Error())
	}

	log.Debug("Compiled function", "name", fn.Name, "params", fn.Arity(), "instructions", len(fn.Code))
	return nil
}

// parameters parses `( [id {, id}] )`
func (p *Parser) parameters() ([]string, error) {
	if _, err := p.consume(lexer.LPAREN, "Expect `(` after function name"); err != nil {
		return nil, err
	}

	params := []string{}
	if p.match(lexer.RPAREN) {
		return params, nil
	}

	for {
		tok, err := p.consume(lexer.ID, "Malformed parameter list: expect parameter name")
		if err != nil {
			return nil, err
		}
		if slices.Contains(params, tok.Lexeme) {
			return nil, p.errorAt(tok, fmt.Sprintf("Duplicate parameter `%s`", tok.Lexeme))
		}
		params = append(params, tok.Lexeme)

		if p.match(lexer.COMMA) {
			continue
		}
		if p.match(lexer.RPAREN) {
			return params, nil
		}
		return nil, p.errorAtCurrent("Malformed parameter list: expect `,` or `)`")
	}
}

// block compiles statements up to and including the closing brace
func (p *Parser) block() error {
	for !p.atEnd() && !p.check(lexer.RBRACE) {
		if err := p.statement(); err != nil {
			return err
		}
	}

	_, err := p.consume(lexer.RBRACE, "Expect `}` to close block")
	return err
}

// statement compiles one statement and its terminator
func (p *Parser) statement() error {
	if p.match(lexer.NEWLINE) {
		return nil
	}

	var err error
	switch {
	case p.match(lexer.IF):
		err = p.ifStatement()
	case p.match(lexer.PRINT, lexer.PRINTLN):
		err = p.printStatement()
	case p.match(lexer.WHILE):
		err = p.whileStatement()
	case p.match(lexer.ID):
		name := p.previous()
		if p.match(lexer.LPAREN) {
			if err = p.call(name); err == nil {
				p.cg.EmitOp(codegen.OpPop)
			}
		} else {
			err = p.assignment(name)
		}
	case p.match(lexer.RETURN):
		err = p.returnStatement()
	case p.match(lexer.SLEEP):
		err = p.sleepStatement()
	case p.match(lexer.APPEND):
		err = p.appendStatement()
	case p.match(lexer.CLRSCRN):
		p.cg.EmitOp(codegen.OpClearScreen)
	default:
		return p.unexpected("statement")
	}

	if err != nil {
		return err
	}
	return p.terminator()
}

// terminator requires a newline or `;` unless the block or input ends here
func (p *Parser) terminator() error {
	if p.atEnd() || p.check(lexer.RBRACE) || p.match(lexer.NEWLINE) {
		return nil
	}

	return p.errorAtCurrent(fmt.Sprintf("Expect newline after statement, not %s", describe(p.peek())))
}

// ifStatement compiles
//
//	cond; jmpf -> else; then-block; jmp -> end; else: [else-part]; end:
func (p *Parser) ifStatement() error {
	if err := p.expression(); err != nil {
		return err
	}
	if _, err := p.consume(lexer.LBRACE, "Expect `{` after if condition"); err != nil {
		return err
	}

	elseJump := p.cg.EmitJump(codegen.OpJumpFalse)
	if err := p.block(); err != nil {
		return err
	}
	endJump := p.cg.EmitJump(codegen.OpJump)
	p.cg.PatchJump(elseJump)

	if p.match(lexer.ELSE) {
		switch {
		case p.match(lexer.LBRACE):
			if err := p.block(); err != nil {
				return err
			}
		case p.match(lexer.IF):
			if err := p.ifStatement(); err != nil {
				return err
			}
		default:
			return p.unexpected("`{` or `if` after else")
		}
	}

	p.cg.PatchJump(endJump)
	return nil
}

// whileStatement compiles
//
//	cond: cond; jmpf -> end; body; loop -> cond; end:
func (p *Parser) whileStatement() error {
	condition := p.cg.Len()
	if err := p.expression(); err != nil {
		return err
	}
	if _, err := p.consume(lexer.LBRACE, "Expect `{` after while condition"); err != nil {
		return err
	}

	exitJump := p.cg.EmitJump(codegen.OpJumpFalse)
	if err := p.block(); err != nil {
		return err
	}
	p.cg.EmitLoop(condition)
	p.cg.PatchJump(exitJump)
	return nil
}

// printStatement compiles `print e` and `println e`
func (p *Parser) printStatement() error {
	op := codegen.OpPrint
	if p.previous().Type == lexer.PRINTLN {
		op = codegen.OpPrintln
	}

	if err := p.expression(); err != nil {
		return err
	}
	p.cg.EmitOp(op)
	return nil
}

// assignment compiles `name[i]...[j] = e`. Index expressions come first
// because they precede `=` in the token stream.
func (p *Parser) assignment(name lexer.Token) error {
	depth := 0
	for p.match(lexer.LSBRACE) {
		if err := p.subscript(); err != nil {
			return err
		}
		depth++
	}

	if _, err := p.consume(lexer.ASSIGN, fmt.Sprintf("Expect `=` after identifier `%s`", name.Lexeme)); err != nil {
		return err
	}
	if err := p.expression(); err != nil {
		return err
	}

	p.cg.SetLine(name.Line())
	p.cg.EmitNamed(codegen.OpAssign, name.Lexeme)
	p.cg.EmitSubscripts(depth)
	return nil
}

// returnStatement compiles `return` and `return e`
func (p *Parser) returnStatement() error {
	if p.atEnd() || p.check(lexer.NEWLINE) || p.check(lexer.RBRACE) {
		p.cg.EmitOp(codegen.OpNull)
	} else if err := p.expression(); err != nil {
		return err
	}

	p.cg.EmitOp(codegen.OpReturn)
	return nil
}

// sleepStatement compiles `sleep e`
func (p *Parser) sleepStatement() error {
	if err := p.expression(); err != nil {
		return err
	}
	p.cg.EmitOp(codegen.OpSleep)
	return nil
}

// appendStatement compiles `append name e` (a comma after name is allowed)
func (p *Parser) appendStatement() error {
	name, err := p.consume(lexer.ID, "Expect identifier after append")
	if err != nil {
		return err
	}
	p.match(lexer.COMMA)

	if err := p.expression(); err != nil {
		return err
	}
	p.cg.SetLine(name.Line())
	p.cg.EmitNamed(codegen.OpAppend, name.Lexeme)
	return nil
}
