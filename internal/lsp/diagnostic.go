package lsp

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/minilang/pkg/analyzer"
	"github.com/leapstack-labs/minilang/pkg/repair"
	"github.com/leapstack-labs/minilang/pkg/typo"
)

// diagnosticSource is reported as the source of every diagnostic.
const diagnosticSource = "minilang"

// Diagnostic codes.
const (
	CodeUnbalancedBraces = "S001"
	CodeUnbalancedParens = "S002"
	CodeUnbalancedQuotes = "S003"
	CodeParseError       = "P001"
	CodeTypo             = "T001"
)

var structuralCodes = map[string]string{
	repair.MsgUnbalancedBraces: CodeUnbalancedBraces,
	repair.MsgUnbalancedParens: CodeUnbalancedParens,
	repair.MsgUnbalancedQuotes: CodeUnbalancedQuotes,
}

// publishDiagnostics analyzes the document and publishes its diagnostics.
func (s *Server) publishDiagnostics(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	// Analyze without repair so parser positions stay close to the
	// document; typo rewrites are mapped back below.
	res := s.analyzer.Analyze(s.ctx, doc.Content, false)
	diagnostics, fixes := diagnose(doc, res)
	s.fixes.set(uri, fixes)

	s.logger.Debug("publishing diagnostics", "uri", uri, "count", len(diagnostics), "status", res.Status)
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Version:     doc.Version,
		Diagnostics: diagnostics,
	})
}

// diagnose converts an analysis of doc into diagnostics, plus the quick
// fixes for its typo warnings.
func diagnose(doc *Document, res *analyzer.Result) ([]Diagnostic, []fix) {
	diagnostics := []Diagnostic{}
	var fixes []fix

	for _, msg := range res.StructuralErrors {
		diagnostics = append(diagnostics, Diagnostic{
			Range:    structuralRange(doc, msg),
			Severity: DiagnosticSeverityError,
			Code:     structuralCodes[msg],
			Source:   diagnosticSource,
			Message:  msg,
		})
	}

	if res.ParserError != "" {
		rng := doc.RangeOf(len(doc.Content), 0)
		if perr := res.ParseErr; perr != nil {
			offset := originalOffset(res.Corrections, perr.Pos.Offset)
			rng = doc.RangeOf(offset, max(1, len(perr.Found.Literal)))
		}
		diagnostics = append(diagnostics, Diagnostic{
			Range:    rng,
			Severity: DiagnosticSeverityError,
			Code:     CodeParseError,
			Source:   diagnosticSource,
			Message:  res.ParserError,
		})
	}

	for _, c := range res.Corrections {
		rng := doc.RangeOf(c.Pos.Offset, len(c.Original))
		diagnostics = append(diagnostics, Diagnostic{
			Range:    rng,
			Severity: DiagnosticSeverityWarning,
			Code:     CodeTypo,
			Source:   diagnosticSource,
			Message:  fmt.Sprintf("%q looks like a misspelling of %q", c.Original, c.Suggested),
		})
		fixes = append(fixes, fix{
			title: fmt.Sprintf("Replace '%s' with '%s'", c.Original, c.Suggested),
			code:  CodeTypo,
			rng:   rng,
			edit:  TextEdit{Range: rng, NewText: c.Suggested},
		})
	}

	return diagnostics, fixes
}

// originalOffset maps an offset in the typo-corrected text back to the
// document. Offsets inside a rewritten word map to the word's start.
func originalOffset(corrections []typo.Correction, offset int) int {
	delta := 0
	for _, c := range corrections {
		start := c.Pos.Offset + delta
		if offset < start {
			break
		}
		if offset < start+len(c.Suggested) {
			return c.Pos.Offset
		}
		delta += len(c.Suggested) - len(c.Original)
	}
	return offset - delta
}

// structuralRange points a balance error at the offending character: the
// first unmatched closer, else the last unmatched opener, else the last
// quote. It falls back to the end of the document.
func structuralRange(doc *Document, msg string) Range {
	offset := -1
	switch msg {
	case repair.MsgUnbalancedBraces:
		offset = unmatched(doc.Content, '{', '}')
	case repair.MsgUnbalancedParens:
		offset = unmatched(doc.Content, '(', ')')
	case repair.MsgUnbalancedQuotes:
		offset = strings.LastIndexByte(doc.Content, '"')
	}
	if offset < 0 {
		return doc.RangeOf(len(doc.Content), 0)
	}
	return doc.RangeOf(offset, 1)
}

func unmatched(text string, open, close byte) int {
	var stack []int
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case open:
			stack = append(stack, i)
		case close:
			if len(stack) == 0 {
				return i
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return stack[len(stack)-1]
	}
	return -1
}
