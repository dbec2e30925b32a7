package output

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// Table renders rows under headers: a light box table for text, a
// markdown table otherwise.
func (r *Renderer) Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		r.Muted("(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}
