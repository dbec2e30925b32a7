package analyzer

import (
	"github.com/leapstack-labs/minilang/pkg/parser"
	"github.com/leapstack-labs/minilang/pkg/typo"
)

// Status is the overall outcome of an analysis.
type Status string

// Status values.
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the diagnostic report for one analysis.
//
// Status is success only when StructuralErrors is empty and the strict
// parser accepted CorrectedText. ParserError and ParseTree are empty when
// absent. Tree and ParseErr carry the structured forms of ParseTree and
// ParserError for in-process callers.
type Result struct {
	Status           Status            `json:"status" yaml:"status"`
	StructuralErrors []string          `json:"structural_errors" yaml:"structural_errors"`
	ParserError      string            `json:"parser_error,omitempty" yaml:"parser_error,omitempty"`
	OriginalInput    string            `json:"original_input" yaml:"original_input"`
	CorrectedText    string            `json:"corrected_text" yaml:"corrected_text"`
	ParseTree        string            `json:"parse_tree,omitempty" yaml:"parse_tree,omitempty"`
	Corrections      []typo.Correction `json:"corrections" yaml:"corrections"`
	Fallback         bool              `json:"fallback" yaml:"fallback"`
	AutoCorrect      bool              `json:"auto_correct" yaml:"auto_correct"`

	Tree     *parser.Node       `json:"-" yaml:"-"`
	ParseErr *parser.ParseError `json:"-" yaml:"-"`
}

// OK reports whether the analysis succeeded.
func (r *Result) OK() bool {
	return r.Status == StatusSuccess
}

// Details returns the structural errors followed by the parser error.
func (r *Result) Details() []string {
	details := make([]string, 0, len(r.StructuralErrors)+1)
	details = append(details, r.StructuralErrors...)
	if r.ParserError != "" {
		details = append(details, r.ParserError)
	}
	return details
}

// failed turns r into an error result carrying msg.
func (r *Result) failed(msg string) *Result {
	r.Status = StatusError
	r.ParserError = msg
	r.ParseErr = nil
	r.Tree = nil
	r.ParseTree = ""
	r.Fallback = false
	return r
}
