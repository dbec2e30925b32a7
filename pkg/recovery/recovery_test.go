package recovery_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/leapstack-labs/minilang/internal/testutil"
	"github.com/leapstack-labs/minilang/pkg/parser"
	"github.com/leapstack-labs/minilang/pkg/recovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shape(n *parser.Node) string {
	label := string(n.Kind)
	if n.Kind == parser.KindPlaceholder {
		label = "<" + n.Detail + ">"
	}
	if len(n.Children) == 0 {
		return label
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = shape(c)
	}
	return label + "(" + strings.Join(parts, ", ") + ")"
}

func TestParseCompleteInput(t *testing.T) {
	inputs := []string{
		`print("hi");`,
		"int x = 1 + 2 * 3;",
		`name = input("who?");`,
		"while (i == 0) { if (i == 1) { print(i); } }",
		"print((1 - 2) / 3);",
	}
	for _, in := range inputs {
		strict, err := parser.Parse(in)
		require.NoError(t, err)

		tree, ok := recovery.Parse(context.Background(), in)
		require.True(t, ok, "input %q", in)
		assert.Equal(t, shape(strict), shape(tree), "input %q", in)
		assert.Zero(t, parser.CountPlaceholders(tree))
	}
}

func TestParsePlaceholders(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing expression", "print(;", "program(print_stmt(<expr>))"},
		{"missing name", "int = 5;", "program(decl_stmt(<name>, number))"},
		{"missing everything after int", "int", "program(decl_stmt(<name>, <expr>))"},
		{"missing prompt", "x = input();", "program(input_stmt(name, <prompt>))"},
		{"missing operand", "print(1 +);", "program(print_stmt(add(number, <expr>)))"},
		{"missing condition", "if () { }", "program(if_stmt(<condition>))"},
		{"missing block", "while (a == b)", "program(while_stmt(condition(var, var), <block>))"},
		{"half condition", "if (x ==) {}", "program(if_stmt(condition(var, <expr>)))"},
		{
			"unclosed block",
			"if (x == 1) {\n  print(x);",
			"program(if_stmt(condition(var, number), print_stmt(var)))",
		},
		{
			"missing terminators",
			"print(1)\nprint(2)",
			"program(print_stmt(number), print_stmt(number))",
		},
		{
			"junk tokens",
			"foo 5;",
			`program(<skipped "foo">, <skipped "5">, <skipped ";">)`,
		},
		{
			"stray close brace",
			"} print(1);",
			`program(<skipped "}">, print_stmt(number))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, ok := recovery.Parse(context.Background(), tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, shape(tree))
		})
	}
}

func TestParseLeafPositions(t *testing.T) {
	tree, ok := recovery.Parse(context.Background(), "int\n  x = 5")
	require.True(t, ok)
	require.Len(t, tree.Children, 1)

	name := tree.Children[0].Children[0]
	require.True(t, name.IsLeaf())
	assert.Equal(t, "x", name.Token.Literal)
	assert.Equal(t, 2, name.Token.Pos.Line)
	assert.Equal(t, 3, name.Token.Pos.Column)
}

func TestParseLexicalDefects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unterminated string", `print("hi`, "program(print_stmt(string))"},
		{"unterminated prompt", `x = input("name`, "program(input_stmt(name, string))"},
		{"stray character", "print(1 @ 2);", `program(print_stmt(number), <skipped "@">, <skipped "2">, <skipped ")">, <skipped ";">)`},
		{"comment marker", "print(x) # y", `program(print_stmt(var), <skipped "#">, <skipped "y">)`},
		{"unknown operator", "int x = 5 % 2;", `program(decl_stmt(name, number), <skipped "%">, <skipped "2">, <skipped ";">)`},
		{"non-ascii identifier", "não = 1;", `program(<skipped "n">, <skipped "ã">, input_stmt(name, <prompt>), <skipped "1">, <skipped ";">)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, ok := recovery.Parse(context.Background(), tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, shape(tree))
		})
	}
}

func TestParseUnterminatedStringLiteral(t *testing.T) {
	tree, ok := recovery.Parse(context.Background(), `print("hi`)
	require.True(t, ok)

	str := tree.Children[0].Children[0]
	require.True(t, str.IsLeaf())
	assert.Equal(t, `"hi`, str.Token.Literal)
	assert.Equal(t, 7, str.Token.Pos.Column)
}

func TestParseBounds(t *testing.T) {
	logger := testutil.NewTestLogger(t)

	t.Run("token budget", func(t *testing.T) {
		p := recovery.New(recovery.WithMaxTokens(3), recovery.WithLogger(logger))
		tree, ok := p.Parse(context.Background(), "print(1);")
		assert.False(t, ok)
		assert.Nil(t, tree)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		tree, ok := recovery.New(recovery.WithLogger(logger)).Parse(ctx, "print(1);")
		assert.False(t, ok)
		assert.Nil(t, tree)
	})

	t.Run("deadline", func(t *testing.T) {
		src := strings.Repeat("print(1 + 2 * x);\n", 1000)
		p := recovery.New(recovery.WithTimeout(time.Microsecond), recovery.WithLogger(logger))
		tree, ok := p.Parse(context.Background(), src)
		assert.False(t, ok)
		assert.Nil(t, tree)

		_, ok = recovery.New(recovery.WithTimeout(30*time.Second)).Parse(context.Background(), src)
		assert.True(t, ok, "the same input parses within a generous bound")
	})

	t.Run("generous limits", func(t *testing.T) {
		p := recovery.New(recovery.WithMaxTokens(100), recovery.WithTimeout(recovery.DefaultTimeout*4))
		_, ok := p.Parse(context.Background(), "print(1);")
		assert.True(t, ok)
	})
}
