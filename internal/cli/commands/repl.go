package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/minilang/internal/cli/output"
	"github.com/leapstack-labs/minilang/internal/history"
	"github.com/leapstack-labs/minilang/pkg/token"
)

const (
	replPrompt         = "minilang> "
	replContinuePrompt = "     ...> "
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Analyze programs interactively",
		Long: `Start an interactive session. Each entered program is analyzed as soon as
its braces are closed; a blank line analyzes whatever has been typed.

Type .help for commands, .quit to exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}
}

func runREPL(cmd *cobra.Command) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := cc.OpenHistory(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".minilang_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	session := newREPLSession(cc, store, cmd.OutOrStdout(), cmd.ErrOrStderr())

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "minilang REPL")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	return session.run(ctx, rl)
}

// lineReader is the part of *readline.Instance the session loop uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// run reads lines until .quit, end of input, or a read error. An interrupt
// discards the pending program.
func (s *replSession) run(ctx context.Context, rl lineReader) error {
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if s.handleLine(ctx, line) {
			return nil
		}
		rl.SetPrompt(s.prompt())
	}
}

// replSession holds the state of one interactive session.
type replSession struct {
	cc          *CommandContext
	store       *history.Store
	out, errOut io.Writer
	autoCorrect bool
	buf         strings.Builder
}

func newREPLSession(cc *CommandContext, store *history.Store, out, errOut io.Writer) *replSession {
	return &replSession{
		cc:          cc,
		store:       store,
		out:         out,
		errOut:      errOut,
		autoCorrect: cc.Cfg.AutoCorrect,
	}
}

func (s *replSession) reset() {
	s.buf.Reset()
}

func (s *replSession) prompt() string {
	if s.buf.Len() > 0 {
		return replContinuePrompt
	}
	return replPrompt
}

// handleLine feeds one input line to the session and reports whether the
// session should end.
func (s *replSession) handleLine(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)

	if s.buf.Len() == 0 {
		if trimmed == "" {
			return false
		}
		if strings.HasPrefix(trimmed, ".") {
			return s.handleDotCommand(ctx, trimmed)
		}
	}

	if trimmed == "" {
		s.flush(ctx)
		return false
	}

	s.buf.WriteString(line)
	s.buf.WriteString("\n")
	src := s.buf.String()
	if strings.Count(src, "{") > strings.Count(src, "}") {
		return false
	}
	s.flush(ctx)
	return false
}

func (s *replSession) flush(ctx context.Context) {
	src := strings.TrimSuffix(s.buf.String(), "\n")
	s.buf.Reset()
	if strings.TrimSpace(src) == "" {
		return
	}

	res := s.cc.Analyzer.Analyze(ctx, src, s.autoCorrect)
	if s.store != nil {
		if _, err := s.store.Record(ctx, history.SourceREPL, res); err != nil {
			s.cc.Logger.Warn("failed to record analysis", "error", err)
		}
	}
	if err := s.cc.Renderer.Results([]output.Report{output.NewReport("", res)}); err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
	}
	_, _ = fmt.Fprintln(s.out)
}

func (s *replSession) handleDotCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".typos":
		entries := s.cc.Analyzer.Dictionary().Entries()
		rows := make([][]string, len(entries))
		for i, e := range entries {
			rows[i] = []string{e.Typo, e.Correction}
		}
		s.cc.Renderer.Table([]string{"Typo", "Correction"}, rows)

	case ".add":
		if len(parts) != 3 {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .add <typo> <correction>")
			return false
		}
		if !s.cc.Analyzer.AddTypo(parts[1], parts[2]) {
			_, _ = fmt.Fprintln(s.errOut, "Invalid input.")
			return false
		}
		_, _ = fmt.Fprintf(s.out, "Added typo '%s' with correction '%s'.\n", parts[1], parts[2])

	case ".auto":
		if len(parts) > 1 {
			switch strings.ToLower(parts[1]) {
			case "on", "true":
				s.autoCorrect = true
			case "off", "false":
				s.autoCorrect = false
			default:
				_, _ = fmt.Fprintln(s.errOut, "Usage: .auto [on|off]")
				return false
			}
		}
		state := "off"
		if s.autoCorrect {
			state = "on"
		}
		_, _ = fmt.Fprintf(s.out, "auto-correct is %s\n", state)

	case ".history":
		s.showHistory(ctx, parts[1:])

	case ".clear":
		_, _ = fmt.Fprint(s.out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func (s *replSession) showHistory(ctx context.Context, args []string) {
	if s.store == nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", errHistoryDisabled)
		return
	}
	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .history [n]")
			return
		}
		limit = n
	}
	records, err := s.store.List(ctx, limit)
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = []string{shortID(rec.ID), rec.Source, rec.Status, preview(rec.Input)}
	}
	s.cc.Renderer.Table([]string{"ID", "Source", "Status", "Input"}, rows)
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help                     Show this help message
  .typos                    List the typo dictionary
  .add <typo> <correction>  Add a typo for this session
  .auto [on|off]            Show or toggle punctuation repair
  .history [n]              Show recent analyses (needs --history)
  .clear                    Clear the screen
  .quit / .exit             Exit the REPL

Tips:
  - A program is analyzed once its braces are closed
  - An empty line analyzes a pending multi-line program
  - Use arrow keys to navigate history
  - Tab completion works for keywords and commands
`
	_, _ = fmt.Fprintln(w, help)
}

// newREPLCompleter completes keywords and dot-commands.
func newREPLCompleter() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, kw := range token.Keywords() {
		items = append(items, readline.PcItem(kw))
	}
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".typos"),
		readline.PcItem(".add"),
		readline.PcItem(".auto", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem(".history"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}
