// Package output renders command results for terminals, markdown
// consumers and machines.
package output

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Mode selects how results are rendered.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto" // text on a TTY, markdown otherwise
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
	ModeYAML     Mode = "yaml"
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// resolve turns ModeAuto into a concrete mode.
func resolve(mode Mode, tty bool) Mode {
	switch mode {
	case ModeText, ModeMarkdown, ModeJSON, ModeYAML:
		return mode
	}
	if tty {
		return ModeText
	}
	return ModeMarkdown
}
