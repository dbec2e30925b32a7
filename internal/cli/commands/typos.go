package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/minilang/internal/cli/output"
)

// NewTyposCommand creates the typos command group.
func NewTyposCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "typos",
		Short: "Inspect the typo dictionary",
	}
	cmd.AddCommand(newTyposListCommand())
	return cmd
}

func newTyposListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known misspellings and their corrections",
		Long: `List the typo dictionary: the built-in entries plus any seeded from the
typos section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			entries := cc.Analyzer.Dictionary().Entries()
			r := cc.Renderer
			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(entries)
			case output.ModeYAML:
				return r.YAML(entries)
			}

			r.Header(1, fmt.Sprintf("Typos (%d total)", len(entries)))
			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{e.Typo, e.Correction}
			}
			r.Table([]string{"Typo", "Correction"}, rows)
			return nil
		},
	}
}
