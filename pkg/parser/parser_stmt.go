package parser

import "github.com/leapstack-labs/minilang/pkg/token"

// parseStatement parses one statement. end is the kind that may close the
// enclosing statement list (EOF at top level, RBRACE inside a block) and
// only widens the expected set on error.
func (p *Parser) parseStatement(end token.Kind) *Node {
	switch p.token.Kind {
	case token.PRINT:
		return p.parsePrint()
	case token.INT:
		return p.parseDecl()
	case token.IDENT:
		return p.parseInput()
	case token.IF:
		return p.parseBlockStmt(KindIf)
	case token.WHILE:
		return p.parseBlockStmt(KindWhile)
	default:
		p.fail(append(append([]token.Kind{}, statementStart...), end)...)
		return nil
	}
}

// parsePrint parses: print "(" expr ")" ";"
func (p *Parser) parsePrint() *Node {
	p.nextToken() // consume print
	if _, ok := p.expect(token.LPAREN); !ok {
		return nil
	}
	expr := p.parseExpr()
	if p.failed() {
		return nil
	}
	if _, ok := p.expectAfterExpr(token.RPAREN); !ok {
		return nil
	}
	if _, ok := p.expect(token.SEMICOLON); !ok {
		return nil
	}
	return &Node{Kind: KindPrint, Children: []*Node{expr}}
}

// parseDecl parses: int IDENT "=" expr ";"
func (p *Parser) parseDecl() *Node {
	p.nextToken() // consume int
	name, ok := p.expect(token.IDENT)
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.ASSIGN); !ok {
		return nil
	}
	expr := p.parseExpr()
	if p.failed() {
		return nil
	}
	if _, ok := p.expectAfterExpr(token.SEMICOLON); !ok {
		return nil
	}
	return &Node{Kind: KindDecl, Children: []*Node{NewLeaf(KindName, name), expr}}
}

// parseInput parses: IDENT "=" input "(" STRING ")" ";"
func (p *Parser) parseInput() *Node {
	name := p.advance()
	if _, ok := p.expect(token.ASSIGN); !ok {
		return nil
	}
	if _, ok := p.expect(token.INPUT); !ok {
		return nil
	}
	if _, ok := p.expect(token.LPAREN); !ok {
		return nil
	}
	prompt, ok := p.expect(token.STRING)
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.RPAREN); !ok {
		return nil
	}
	if _, ok := p.expect(token.SEMICOLON); !ok {
		return nil
	}
	return &Node{Kind: KindInput, Children: []*Node{NewLeaf(KindName, name), NewLeaf(KindString, prompt)}}
}

// parseBlockStmt parses if and while, which share a shape:
// keyword "(" condition ")" "{" stmt* "}"
func (p *Parser) parseBlockStmt(kind NodeKind) *Node {
	p.nextToken() // consume keyword
	if _, ok := p.expect(token.LPAREN); !ok {
		return nil
	}
	cond := p.parseCondition()
	if p.failed() {
		return nil
	}
	if _, ok := p.expectAfterExpr(token.RPAREN); !ok {
		return nil
	}
	if _, ok := p.expect(token.LBRACE); !ok {
		return nil
	}

	node := &Node{Kind: kind, Children: []*Node{cond}}
	for !p.check(token.RBRACE) {
		stmt := p.parseStatement(token.RBRACE)
		if p.failed() {
			return nil
		}
		node.Children = append(node.Children, stmt)
	}
	p.nextToken() // consume }
	return node
}

// parseCondition parses: expr "==" expr
func (p *Parser) parseCondition() *Node {
	left := p.parseExpr()
	if p.failed() {
		return nil
	}
	if _, ok := p.expectAfterExpr(token.EQEQ); !ok {
		return nil
	}
	right := p.parseExpr()
	if p.failed() {
		return nil
	}
	return &Node{Kind: KindCondition, Children: []*Node{left, right}}
}
