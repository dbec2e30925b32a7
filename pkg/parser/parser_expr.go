package parser

import "github.com/leapstack-labs/minilang/pkg/token"

// Expression parsing uses one function per precedence level:
//
//	expr   → term (("+" | "-") term)*
//	term   → factor (("*" | "/") factor)*
//	factor → STRING | NUMBER | IDENT | "(" expr ")"

// parseExpr parses an additive expression.
func (p *Parser) parseExpr() *Node {
	left := p.parseTerm()
	for !p.failed() && (p.check(token.PLUS) || p.check(token.MINUS)) {
		left = p.parseBinary(left, p.parseTerm)
	}
	if p.failed() {
		return nil
	}
	return left
}

// parseTerm parses a multiplicative expression.
func (p *Parser) parseTerm() *Node {
	left := p.parseFactor()
	for !p.failed() && (p.check(token.STAR) || p.check(token.SLASH)) {
		left = p.parseBinary(left, p.parseFactor)
	}
	if p.failed() {
		return nil
	}
	return left
}

// parseBinary consumes the operator at the current token and folds left
// with the operand produced by next.
func (p *Parser) parseBinary(left *Node, next func() *Node) *Node {
	op := p.advance()
	right := next()
	if p.failed() {
		return nil
	}
	return &Node{Kind: binaryKinds[op.Kind], Children: []*Node{left, right}}
}

// parseFactor parses a literal, a variable reference or a parenthesized
// expression.
func (p *Parser) parseFactor() *Node {
	switch p.token.Kind {
	case token.STRING:
		return NewLeaf(KindString, p.advance())
	case token.NUMBER:
		return NewLeaf(KindNumber, p.advance())
	case token.IDENT:
		return NewLeaf(KindVar, p.advance())
	case token.LPAREN:
		p.nextToken() // consume (
		inner := p.parseExpr()
		if p.failed() {
			return nil
		}
		if _, ok := p.expectAfterExpr(token.RPAREN); !ok {
			return nil
		}
		return inner
	default:
		p.fail(exprStart...)
		return nil
	}
}
