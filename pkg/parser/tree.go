package parser

import (
	"strings"

	"github.com/leapstack-labs/minilang/pkg/token"
)

// NodeKind labels a parse tree node with its production or token kind.
type NodeKind string

// Production labels.
const (
	KindProgram   NodeKind = "program"
	KindPrint     NodeKind = "print_stmt"
	KindDecl      NodeKind = "decl_stmt"
	KindInput     NodeKind = "input_stmt"
	KindIf        NodeKind = "if_stmt"
	KindWhile     NodeKind = "while_stmt"
	KindCondition NodeKind = "condition"
	KindAdd       NodeKind = "add"
	KindSub       NodeKind = "sub"
	KindMul       NodeKind = "mul"
	KindDiv       NodeKind = "div"
)

// Token (leaf) labels.
const (
	KindString NodeKind = "string"
	KindNumber NodeKind = "number"
	KindVar    NodeKind = "var"
	KindName   NodeKind = "name"
)

// KindPlaceholder marks an element the recovery parser could not resolve.
// Detail says what was expected (or, for a skipped token, what was found).
const KindPlaceholder NodeKind = "placeholder"

// Node is a parse tree node. Leaves carry their token; inner nodes carry
// children in source order.
type Node struct {
	Kind     NodeKind
	Token    *token.Token
	Detail   string
	Children []*Node
}

// NewLeaf creates a token leaf.
func NewLeaf(kind NodeKind, tok token.Token) *Node {
	return &Node{Kind: kind, Token: &tok}
}

// NewPlaceholder creates a placeholder node.
func NewPlaceholder(detail string) *Node {
	return &Node{Kind: KindPlaceholder, Detail: detail}
}

// IsLeaf reports whether the node is a token leaf.
func (n *Node) IsLeaf() bool {
	return n.Token != nil
}

// Pretty renders the tree one node per line, two spaces of indent per
// level. Leaves render as "kind<TAB>literal".
func (n *Node) Pretty() string {
	var sb strings.Builder
	n.pretty(&sb, 0)
	return sb.String()
}

func (n *Node) pretty(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(string(n.Kind))
	switch {
	case n.Token != nil:
		sb.WriteString("\t")
		sb.WriteString(n.Token.Literal)
	case n.Kind == KindPlaceholder:
		sb.WriteString("\t<")
		sb.WriteString(n.Detail)
		sb.WriteString(">")
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		c.pretty(sb, depth+1)
	}
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// CountPlaceholders returns the number of placeholder nodes under n.
func CountPlaceholders(n *Node) int {
	count := 0
	Walk(n, func(node *Node) bool {
		if node.Kind == KindPlaceholder {
			count++
		}
		return true
	})
	return count
}
