package commands

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/minilang/internal/cli/output"
	"github.com/leapstack-labs/minilang/internal/history"
)

const inputPreviewLen = 40

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded analyses",
		Long: `List the most recent analyses recorded by serve and repl.

History is kept only when a history database is configured with --history
or history_path.`,
		Example: `  minilang history --history ./minilang-history.db --limit 5`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "Number of records to show")
	return cmd
}

func runHistory(cmd *cobra.Command, limit int) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := cc.OpenHistory(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errHistoryDisabled
	}
	defer func() { _ = store.Close() }()

	records, err := store.List(ctx, limit)
	if err != nil {
		return err
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(records)
	case output.ModeYAML:
		return r.YAML(records)
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = []string{
			shortID(rec.ID),
			rec.CreatedAt.Local().Format(time.DateTime),
			rec.Source,
			rec.Status,
			strconv.Itoa(rec.StructuralErrors),
			preview(rec.Input),
		}
	}
	r.Table([]string{"ID", "Time", "Source", "Status", "Structural", "Input"}, rows)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// preview flattens s to one line of at most inputPreviewLen runes.
func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > inputPreviewLen {
		return string(runes[:inputPreviewLen-1]) + "…"
	}
	return s
}
