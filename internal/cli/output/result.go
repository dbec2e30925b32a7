package output

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/minilang/pkg/analyzer"
	"github.com/leapstack-labs/minilang/pkg/typo"
)

// Report is the machine readable form of one analysis.
type Report struct {
	File             string            `json:"file,omitempty" yaml:"file,omitempty"`
	Status           analyzer.Status   `json:"status" yaml:"status"`
	StructuralErrors []string          `json:"structural_errors" yaml:"structural_errors"`
	ParserError      string            `json:"parser_error,omitempty" yaml:"parser_error,omitempty"`
	OriginalInput    string            `json:"original_input" yaml:"original_input"`
	CorrectedText    string            `json:"corrected_text" yaml:"corrected_text"`
	ParseTree        string            `json:"parse_tree,omitempty" yaml:"parse_tree,omitempty"`
	Fallback         bool              `json:"fallback" yaml:"fallback"`
	Corrections      []typo.Correction `json:"corrections" yaml:"corrections"`
}

// NewReport builds the report for res, read from file.
func NewReport(file string, res *analyzer.Result) Report {
	return Report{
		File:             file,
		Status:           res.Status,
		StructuralErrors: res.StructuralErrors,
		ParserError:      res.ParserError,
		OriginalInput:    res.OriginalInput,
		CorrectedText:    res.CorrectedText,
		ParseTree:        res.ParseTree,
		Fallback:         res.Fallback,
		Corrections:      res.Corrections,
	}
}

// Results renders analysis reports in the effective mode. JSON and YAML
// emit a single document: an object for one report, a list otherwise.
func (r *Renderer) Results(reports []Report) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		if len(reports) == 1 {
			return r.JSON(reports[0])
		}
		return r.JSON(reports)
	case ModeYAML:
		if len(reports) == 1 {
			return r.YAML(reports[0])
		}
		return r.YAML(reports)
	case ModeMarkdown:
		for _, rep := range reports {
			r.resultMarkdown(rep)
		}
	default:
		for i, rep := range reports {
			if i > 0 {
				r.Println("")
			}
			r.resultText(rep)
		}
	}
	return nil
}

func title(s string) string {
	return cases.Title(language.English).String(s)
}

func (r *Renderer) resultText(rep Report) {
	s := r.styles
	name := rep.File
	if name == "" {
		name = "input"
	}
	r.StatusLine(s.Bold.Render(name), string(rep.Status), title(string(rep.Status)))

	if len(rep.StructuralErrors) > 0 {
		r.Println(s.Header2.Render("Structural errors"))
		for _, e := range rep.StructuralErrors {
			r.Println("  " + s.Error.Render("- "+e))
		}
	}
	if rep.ParserError != "" {
		r.Println(s.Header2.Render("Parser error"))
		r.Println("  " + s.Error.Render(rep.ParserError))
	}
	if len(rep.Corrections) > 0 {
		r.Println(s.Header2.Render("Corrections"))
		for _, c := range rep.Corrections {
			r.Printf("  %s %s -> %s\n", s.Muted.Render(c.Pos.String()), c.Original, s.Success.Render(c.Suggested))
		}
	}
	if rep.CorrectedText != rep.OriginalInput {
		r.Println(s.Header2.Render("Corrected text"))
		r.Println(indentStyled(rep.CorrectedText, func(line string) string { return s.Code.Render(line) }))
	}
	if rep.ParseTree != "" {
		heading := "Parse tree"
		if rep.Fallback {
			heading += " " + s.Muted.Render("(partial)")
		}
		r.Println(s.Header2.Render(heading))
		r.Println(indentStyled(rep.ParseTree, func(line string) string {
			if strings.Contains(line, "placeholder\t") {
				return s.Placeholder.Render(line)
			}
			return line
		}))
	}
}

func (r *Renderer) resultMarkdown(rep Report) {
	name := rep.File
	if name == "" {
		name = "input"
	}
	r.Println(FormatHeader(1, name))
	r.Println(FormatKeyValue("Status", title(string(rep.Status))))
	r.Println(FormatKeyValue("Structural Errors", fmt.Sprintf("%d", len(rep.StructuralErrors))))
	r.Println(FormatKeyValue("Corrections", fmt.Sprintf("%d", len(rep.Corrections))))
	r.Println("")

	if len(rep.StructuralErrors) > 0 {
		r.Println(FormatHeader(2, "Structural Errors"))
		for _, e := range rep.StructuralErrors {
			r.Println("- " + e)
		}
		r.Println("")
	}
	if rep.ParserError != "" {
		r.Println(FormatHeader(2, "Parser Error"))
		r.Println(FormatCodeBlock("text", rep.ParserError))
	}
	if len(rep.Corrections) > 0 {
		r.Println(FormatHeader(2, "Corrections"))
		rows := make([][]string, len(rep.Corrections))
		for i, c := range rep.Corrections {
			rows[i] = []string{c.Pos.String(), c.Original, c.Suggested}
		}
		r.Table([]string{"Position", "Original", "Suggested"}, rows)
		r.Println("")
	}
	r.Println(FormatHeader(2, "Corrected Text"))
	r.Println(FormatCodeBlock("mini", rep.CorrectedText))
	if rep.ParseTree != "" {
		heading := "Parse Tree"
		if rep.Fallback {
			heading += " (partial)"
		}
		r.Println(FormatHeader(2, heading))
		r.Println(FormatCodeBlock("text", rep.ParseTree))
	}
}

// indentStyled styles each line on its own, since lipgloss pads
// multi-line blocks to a common width.
func indentStyled(text string, style func(string) string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "  " + style(line)
	}
	return strings.Join(lines, "\n")
}
