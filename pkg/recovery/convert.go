package recovery

import (
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/leapstack-labs/minilang/pkg/parser"
	"github.com/leapstack-labs/minilang/pkg/token"
)

// Placeholder details.
const (
	missingExpr      = "expr"
	missingName      = "name"
	missingPrompt    = "prompt"
	missingCondition = "condition"
	missingBlock     = "block"
)

func convertProgram(prog *tProgram) *parser.Node {
	root := &parser.Node{Kind: parser.KindProgram}
	for _, item := range prog.Items {
		switch {
		case item.Stmt != nil:
			root.Children = append(root.Children, convertStmt(item.Stmt))
		case item.Stray != nil:
			root.Children = append(root.Children, skipped(item.Stray.Value))
		}
	}
	return root
}

func convertStmt(s *tStmt) *parser.Node {
	switch {
	case s.Print != nil:
		return &parser.Node{Kind: parser.KindPrint, Children: []*parser.Node{convertExpr(s.Print.Expr)}}
	case s.Decl != nil:
		name := parser.NewPlaceholder(missingName)
		if s.Decl.Name != nil {
			name = leaf(parser.KindName, token.IDENT, s.Decl.Name.Value, s.Decl.Name.Pos)
		}
		return &parser.Node{Kind: parser.KindDecl, Children: []*parser.Node{name, convertExpr(s.Decl.Expr)}}
	case s.Input != nil:
		prompt := parser.NewPlaceholder(missingPrompt)
		if s.Input.Prompt != nil {
			prompt = leaf(parser.KindString, token.STRING, s.Input.Prompt.Value, s.Input.Prompt.Pos)
		}
		name := leaf(parser.KindName, token.IDENT, s.Input.Name, s.Input.Pos)
		return &parser.Node{Kind: parser.KindInput, Children: []*parser.Node{name, prompt}}
	case s.Block != nil:
		return convertBlock(s.Block)
	case s.Junk != nil:
		return skipped(s.Junk.Value)
	}
	return parser.NewPlaceholder(missingExpr)
}

func convertBlock(b *tBlock) *parser.Node {
	kind := parser.KindIf
	if b.Keyword == "while" {
		kind = parser.KindWhile
	}

	cond := parser.NewPlaceholder(missingCondition)
	if b.Cond != nil && (b.Cond.Left != nil || b.Cond.Eq || b.Cond.Right != nil) {
		cond = &parser.Node{
			Kind:     parser.KindCondition,
			Children: []*parser.Node{convertExpr(b.Cond.Left), convertExpr(b.Cond.Right)},
		}
	}

	node := &parser.Node{Kind: kind, Children: []*parser.Node{cond}}
	if b.Body == nil {
		node.Children = append(node.Children, parser.NewPlaceholder(missingBlock))
		return node
	}
	for _, s := range b.Body.Stmts {
		node.Children = append(node.Children, convertStmt(s))
	}
	return node
}

func convertExpr(e *tExpr) *parser.Node {
	if e == nil {
		return parser.NewPlaceholder(missingExpr)
	}
	node := convertTerm(e.Left)
	for _, r := range e.Rest {
		kind := parser.KindAdd
		if r.Op == "-" {
			kind = parser.KindSub
		}
		node = &parser.Node{Kind: kind, Children: []*parser.Node{node, convertTerm(r.Term)}}
	}
	return node
}

func convertTerm(t *tTerm) *parser.Node {
	if t == nil {
		return parser.NewPlaceholder(missingExpr)
	}
	node := convertFactor(t.Left)
	for _, r := range t.Rest {
		kind := parser.KindMul
		if r.Op == "/" {
			kind = parser.KindDiv
		}
		node = &parser.Node{Kind: kind, Children: []*parser.Node{node, convertFactor(r.Factor)}}
	}
	return node
}

func convertFactor(f *tFactor) *parser.Node {
	switch {
	case f == nil:
		return parser.NewPlaceholder(missingExpr)
	case f.String != nil:
		return leaf(parser.KindString, token.STRING, *f.String, f.Pos)
	case f.Number != nil:
		return leaf(parser.KindNumber, token.NUMBER, *f.Number, f.Pos)
	case f.Var != nil:
		return leaf(parser.KindVar, token.IDENT, *f.Var, f.Pos)
	case f.Sub != nil:
		return convertExpr(f.Sub.Expr)
	}
	return parser.NewPlaceholder(missingExpr)
}

func leaf(kind parser.NodeKind, tk token.Kind, lit string, pos lexer.Position) *parser.Node {
	return parser.NewLeaf(kind, token.Token{
		Kind:    tk,
		Literal: lit,
		Pos:     token.Position{Line: pos.Line, Column: pos.Column, Offset: pos.Offset},
	})
}

// skipped stands for a token that starts no statement.
func skipped(lit string) *parser.Node {
	return parser.NewPlaceholder("skipped " + strconv.Quote(lit))
}
