// Package parser provides the strict minilang parser.
//
// # Usage
//
//	tree, err := parser.Parse(`print("hi");`)
//	if err != nil {
//	    var perr *parser.ParseError
//	    if errors.As(err, &perr) {
//	        // perr.Pos, perr.Found, perr.Expected
//	    }
//	}
//	fmt.Print(tree.Pretty())
//
// The parser is a single-pass LL(1) recursive descent parser. It never
// backtracks: the first token that cannot be consumed ends the parse with
// a *ParseError. The grammar is documented in grammar.go.
package parser

import (
	"github.com/leapstack-labs/minilang/pkg/token"
)

// TokenVisitor rewrites tokens as the parser reads them.
type TokenVisitor interface {
	VisitToken(tok token.Token) token.Token
}

// Option configures a Parser.
type Option func(*Parser)

// WithTokenVisitor installs a visitor applied to every token before the
// parser inspects it.
func WithTokenVisitor(v TokenVisitor) Option {
	return func(p *Parser) {
		p.visitor = v
	}
}

// Parser parses minilang source into a parse tree.
type Parser struct {
	lexer   *Lexer
	token   token.Token // current token
	peek    token.Token // lookahead token
	visitor TokenVisitor
	err     *ParseError
}

// NewParser creates a new parser for the given input.
func NewParser(src string, opts ...Option) *Parser {
	p := &Parser{
		lexer: NewLexer(src),
	}
	for _, opt := range opts {
		opt(p)
	}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses src and returns the complete tree, or the first error.
func Parse(src string, opts ...Option) (*Node, error) {
	p := NewParser(src, opts...)
	tree := p.ParseProgram()
	if p.err != nil {
		return nil, p.err
	}
	return tree, nil
}

// ParseProgram parses the whole input. Check Err afterwards.
func (p *Parser) ParseProgram() *Node {
	program := &Node{Kind: KindProgram}
	for !p.check(token.EOF) {
		stmt := p.parseStatement(token.EOF)
		if p.failed() {
			return nil
		}
		program.Children = append(program.Children, stmt)
	}
	return program
}

// Err returns the parse error, if any.
func (p *Parser) Err() *ParseError {
	return p.err
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.peek
	next := p.lexer.NextToken()
	if p.visitor != nil {
		next = p.visitor.VisitToken(next)
	}
	p.peek = next
}

// check returns true if the current token is of the given kind.
func (p *Parser) check(k token.Kind) bool {
	return p.token.Kind == k
}

// failed reports whether an error has been recorded.
func (p *Parser) failed() bool {
	return p.err != nil
}

// expect consumes the current token if it matches, otherwise records an
// error listing k as the only acceptable kind.
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	return p.expectOneOf(k)
}

// expectAfterExpr is expect for positions that directly follow an
// expression, where any binary operator would also have been accepted.
func (p *Parser) expectAfterExpr(k token.Kind) (token.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	p.fail(append([]token.Kind{k}, binaryOperators...)...)
	return token.Token{}, false
}

// expectOneOf consumes the current token if it is accepted; the first
// kind is the one being expected, the rest only widen the error.
func (p *Parser) expectOneOf(k token.Kind, alsoValid ...token.Kind) (token.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	p.fail(append([]token.Kind{k}, alsoValid...)...)
	return token.Token{}, false
}

// advance consumes and returns the current token.
func (p *Parser) advance() token.Token {
	tok := p.token
	p.nextToken()
	return tok
}

// fail records the first parse error at the current token.
func (p *Parser) fail(expected ...token.Kind) {
	if p.err != nil {
		return
	}
	p.err = &ParseError{
		Pos:      p.token.Pos,
		Found:    p.token,
		Expected: expected,
	}
}
