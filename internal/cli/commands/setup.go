// Package commands implements the minilang subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/minilang/internal/cli/output"
	"github.com/leapstack-labs/minilang/internal/config"
	"github.com/leapstack-labs/minilang/internal/history"
	"github.com/leapstack-labs/minilang/pkg/analyzer"
	"github.com/leapstack-labs/minilang/pkg/typo"
)

// ErrAnalysisFailed is returned by commands when at least one input did
// not analyze cleanly.
var ErrAnalysisFailed = errors.New("analysis reported errors")

// errHistoryDisabled is returned when a command needs the history store
// but no path is configured.
var errHistoryDisabled = errors.New("history is disabled: set --history or history_path")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Analyzer *analyzer.Analyzer
}

// NewCommandContext builds the dependencies for cmd from the config and
// logger stored in its context.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.FromContext(ctx)
	logger := config.GetLogger(ctx)

	a, err := newAnalyzer(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
		Analyzer: a,
	}, nil
}

// OpenHistory opens the configured history store. It returns nil and no
// error when history is disabled.
func (c *CommandContext) OpenHistory(ctx context.Context) (*history.Store, error) {
	if c.Cfg.HistoryPath == "" {
		return nil, nil
	}
	if dir := filepath.Dir(c.Cfg.HistoryPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	store, err := history.Open(ctx, c.Cfg.HistoryPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("history enabled", "path", c.Cfg.HistoryPath)
	return store, nil
}

func newAnalyzer(cfg *config.Config, logger *slog.Logger) (*analyzer.Analyzer, error) {
	dict := typo.NewDefault()
	if err := dict.Seed(cfg.Typos); err != nil {
		return nil, fmt.Errorf("failed to seed typo dictionary: %w", err)
	}
	return analyzer.New(dict,
		analyzer.WithLogger(logger),
		analyzer.WithFallbackTimeout(cfg.Analysis.FallbackTimeout),
		analyzer.WithMaxInputBytes(cfg.Analysis.MaxInputBytes),
	), nil
}
