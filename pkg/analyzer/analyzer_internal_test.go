package analyzer

import (
	"context"
	"testing"

	"github.com/leapstack-labs/minilang/pkg/parser"
	"github.com/stretchr/testify/assert"
)

func TestAnalyzeRecoversFromPanic(t *testing.T) {
	a := New(nil)
	a.parse = func(string, ...parser.Option) (*parser.Node, error) {
		panic("boom")
	}

	var res *Result
	assert.NotPanics(t, func() {
		res = a.Analyze(context.Background(), "int x = 5;", false)
	})
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "internal error during analysis: boom", res.ParserError)
	assert.Empty(t, res.ParseTree)
	assert.Equal(t, "int x = 5;", res.OriginalInput)
}
