package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header1       lipgloss.Style
	Header2       lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Success       lipgloss.Style
	Warning       lipgloss.Style
	Error         lipgloss.Style
	Code          lipgloss.Style
	Placeholder   lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header1:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:       r.NewStyle().Bold(true),
		Bold:          r.NewStyle().Bold(true),
		Muted:         r.NewStyle().Foreground(lipgloss.Color("8")),
		Success:       r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:       r.NewStyle().Foreground(lipgloss.Color("11")),
		Error:         r.NewStyle().Foreground(lipgloss.Color("9")),
		Code:          r.NewStyle().Foreground(lipgloss.Color("14")).TabWidth(lipgloss.NoTabConversion),
		Placeholder:   r.NewStyle().Italic(true).Foreground(lipgloss.Color("13")).TabWidth(lipgloss.NoTabConversion),
		StatusSuccess: r.NewStyle().Foreground(lipgloss.Color("10")).SetString("✓"),
		StatusFailed:  r.NewStyle().Foreground(lipgloss.Color("9")).SetString("✗"),
	}
}
