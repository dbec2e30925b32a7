package typo

import (
	"log/slog"
	"strings"

	"github.com/leapstack-labs/minilang/pkg/token"
)

// Correction records one rewritten word. Pos is its position in the text
// before rewriting.
type Correction struct {
	Original  string         `json:"original" yaml:"original"`
	Suggested string         `json:"suggested" yaml:"suggested"`
	Pos       token.Position `json:"pos" yaml:"pos"`
}

// RewriteText replaces every whole-word occurrence of a misspelling with
// its canonical form in a single pass. The result contains no dictionary
// key, so rewriting it again is a no-op.
func (s *Snapshot) RewriteText(text string) (string, []Correction) {
	if s.pattern == nil {
		return text, nil
	}
	matches := s.pattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var sb strings.Builder
	sb.Grow(len(text))
	corrections := make([]Correction, 0, len(matches))

	// Positions are computed incrementally from the previous match.
	line, col, last := 1, 1, 0
	for _, m := range matches {
		start, end := m[0], m[1]
		for i := last; i < start; i++ {
			if text[i] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		word := text[start:end]
		suggested := s.resolved[word]
		corrections = append(corrections, Correction{
			Original:  word,
			Suggested: suggested,
			Pos:       token.Position{Line: line, Column: col, Offset: start},
		})

		sb.WriteString(text[last:start])
		sb.WriteString(suggested)
		col += end - start
		last = end
	}
	sb.WriteString(text[last:])
	return sb.String(), corrections
}

// Corrector is a parser token visitor that rewrites misspelled
// identifiers as they are read.
type Corrector struct {
	snap   *Snapshot
	logger *slog.Logger
	hits   []Correction
}

// NewCorrector returns a token visitor over snap. A nil logger discards.
func NewCorrector(snap *Snapshot, logger *slog.Logger) *Corrector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Corrector{snap: snap, logger: logger}
}

// VisitToken rewrites IDENT tokens found in the dictionary and re-kinds
// them, so a corrected keyword is parsed as that keyword.
func (c *Corrector) VisitToken(tok token.Token) token.Token {
	if tok.Kind != token.IDENT {
		return tok
	}
	suggested, ok := c.snap.Lookup(tok.Literal)
	if !ok {
		return tok
	}
	c.logger.Warn("typo detected in parse",
		"original", tok.Literal,
		"suggested", suggested,
		"pos", tok.Pos.String())
	c.hits = append(c.hits, Correction{Original: tok.Literal, Suggested: suggested, Pos: tok.Pos})

	tok.Literal = suggested
	tok.Kind = token.LookupIdent(suggested)
	return tok
}

// Hits returns the tokens rewritten so far.
func (c *Corrector) Hits() []Correction {
	return c.hits
}
