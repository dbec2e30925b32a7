package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/minilang/pkg/token"
)

// ParseError is the strict parser's positional error. It names the token
// that could not be consumed and the token kinds that would have been
// accepted at that point.
type ParseError struct {
	Pos      token.Position
	Found    token.Token
	Expected []token.Kind
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected %s at line %d, column %d; expected %s",
		describeFound(e.Found), e.Pos.Line, e.Pos.Column, describeExpected(e.Expected))
}

// ExpectedNames returns the expected kinds rendered as strings.
func (e *ParseError) ExpectedNames() []string {
	names := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		names[i] = k.String()
	}
	return names
}

func describeFound(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.ILLEGAL:
		if strings.HasPrefix(tok.Literal, `"`) {
			return fmt.Sprintf("unterminated string %s", abbreviate(tok.Literal))
		}
		return fmt.Sprintf("character %q", tok.Literal)
	default:
		return fmt.Sprintf("token %q", tok.Literal)
	}
}

func describeExpected(kinds []token.Kind) string {
	if len(kinds) == 1 {
		return kinds[0].String()
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return "one of: " + strings.Join(names, ", ")
}

// abbreviate shortens long literals in messages.
func abbreviate(s string) string {
	const maxLen = 24
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
