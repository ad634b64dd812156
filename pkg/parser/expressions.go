package parser

import (
	"ripple/pkg/lexer"
	"ripple/pkg/parser/codegen"
)

// expression compiles a full expression
func (p *Parser) expression() error {
	return p.binary(precOr)
}

// binary climbs precedence levels. Every operator binds left to right and
// is emitted after both of its operands.
func (p *Parser) binary(minPrec int) error {
	if err := p.unary(); err != nil {
		return err
	}

	for {
		operator := p.peek()
		prec, ok := precedences[operator.Type]
		if !ok || prec < minPrec {
			return nil
		}
		p.advance()

		if err := p.binary(prec + 1); err != nil {
			return err
		}

		op, _ := codegen.GetLexOperation(operator.Type)
		p.cg.SetLine(operator.Line())
		p.cg.EmitOp(op)
	}
}

// unary compiles prefix `-` and `not`
func (p *Parser) unary() error {
	if p.match(lexer.MINUS, lexer.NOT) {
		operator := p.previous()
		if err := p.unary(); err != nil {
			return err
		}

		p.cg.SetLine(operator.Line())
		if operator.Type == lexer.MINUS {
			p.cg.EmitOp(codegen.OpNegate)
		} else {
			p.cg.EmitOp(codegen.OpNot)
		}
		return nil
	}

	return p.primary()
}

// primary compiles literals, grouping, lists, variables and calls
func (p *Parser) primary() error {
	switch {
	case p.match(lexer.LPAREN):
		if err := p.expression(); err != nil {
			return err
		}
		_, err := p.consume(lexer.RPAREN, "Expect `)` after grouping")
		return err
	case p.match(lexer.TRUE):
		p.cg.EmitOp(codegen.OpTrue)
	case p.match(lexer.FALSE):
		p.cg.EmitOp(codegen.OpFalse)
	case p.match(lexer.NULL):
		p.cg.EmitOp(codegen.OpNull)
	case p.match(lexer.NUMBER):
		p.cg.EmitNumber(p.previous().Number)
	case p.match(lexer.STRING):
		p.cg.EmitNamed(codegen.OpString, p.previous().Literal)
	case p.match(lexer.LSBRACE):
		return p.list()
	case p.match(lexer.ID):
		name := p.previous()
		if p.match(lexer.LPAREN) {
			return p.call(name)
		}
		return p.resolve(name)
	default:
		return p.unexpected("expression")
	}

	return nil
}

// list compiles `[e, e, ...]`. Items may span lines and a trailing comma is allowed.
func (p *Parser) list() error {
	open := p.previous()
	count := 0

	for {
		p.skipNewlines()
		if p.match(lexer.RSBRACE) {
			break
		}
		if p.atEnd() {
			return p.errorAt(open, "Unterminated list literal")
		}

		if err := p.expression(); err != nil {
			return err
		}
		count++

		p.skipNewlines()
		if p.match(lexer.COMMA) {
			continue
		}
		if p.match(lexer.RSBRACE) {
			break
		}
		if p.atEnd() {
			return p.errorAt(open, "Unterminated list literal")
		}
		return p.unexpected("`,` or `]` in list literal")
	}

	p.cg.EmitList(count)
	return nil
}

// call compiles the argument list of name( ... ). The opening parenthesis
// has been consumed.
func (p *Parser) call(name lexer.Token) error {
	count := 0
	for !p.check(lexer.RPAREN) {
		if err := p.expression(); err != nil {
			return err
		}
		count++

		if p.match(lexer.COMMA) {
			continue
		}
		if !p.check(lexer.RPAREN) {
			return p.unexpected("`,` to separate arguments")
		}
	}

	if _, err := p.consume(lexer.RPAREN, "Expect `)` after arguments"); err != nil {
		return err
	}

	p.cg.SetLine(name.Line())
	p.cg.EmitList(count)
	p.cg.EmitNamed(codegen.OpCall, name.Lexeme)
	return nil
}

// resolve compiles a variable read with an optional subscript chain
func (p *Parser) resolve(name lexer.Token) error {
	depth := 0
	for p.match(lexer.LSBRACE) {
		if err := p.subscript(); err != nil {
			return err
		}
		depth++
	}

	p.cg.SetLine(name.Line())
	p.cg.EmitNamed(codegen.OpResolve, name.Lexeme)
	p.cg.EmitSubscripts(depth)
	return nil
}

// subscript compiles the index inside `[ ]`. The `[` has been consumed.
func (p *Parser) subscript() error {
	if err := p.expression(); err != nil {
		return err
	}
	_, err := p.consume(lexer.RSBRACE, "Expect `]` after subscript")
	return err
}
