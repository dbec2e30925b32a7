package commands

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/minilang/internal/cli/output"
	"github.com/leapstack-labs/minilang/pkg/analyzer"
)

// stdinName is the argument that reads the program from standard input.
const stdinName = "-"

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file...]",
		Short: "Analyze programs and report diagnostics",
		Long: `Analyze one or more programs: correct keyword typos, optionally repair
missing punctuation, parse, and report structural and parser errors.

With no arguments, or with "-", the program is read from standard input.
The command exits with a non-zero status when any input has errors.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json, yaml`,
		Example: `  # Analyze a file
  minilang analyze hello.mini

  # Analyze from standard input without punctuation repair
  echo 'pritn("hi")' | minilang analyze --auto-correct=false

  # Analyze several files as JSON
  minilang analyze -o json a.mini b.mini`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args)
		},
	}
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{stdinName}
	}

	// Standard input is read once; every "-" analyzes the same program.
	sources := make([]string, len(args))
	if slices.Contains(args, stdinName) {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		for i, name := range args {
			if name == stdinName {
				sources[i] = string(data)
			}
		}
	}

	ctx := cmd.Context()
	reports := make([]output.Report, len(args))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range args {
		g.Go(func() error {
			src := sources[i]
			if name != stdinName {
				data, err := os.ReadFile(name)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", name, err)
				}
				src = string(data)
			}
			res := cc.Analyzer.Analyze(gctx, src, cc.Cfg.AutoCorrect)
			cc.Logger.Debug("analyzed", "file", name, "status", res.Status)
			reports[i] = output.NewReport(name, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := cc.Renderer.Results(reports); err != nil {
		return err
	}

	failed := 0
	for _, rep := range reports {
		if rep.Status != analyzer.StatusSuccess {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs: %w", failed, len(reports), ErrAnalysisFailed)
	}
	return nil
}
