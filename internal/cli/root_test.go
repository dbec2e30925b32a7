package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/minilang/internal/cli/commands"
	"github.com/leapstack-labs/minilang/internal/cli/output"
	"github.com/leapstack-labs/minilang/internal/config"
	"github.com/leapstack-labs/minilang/internal/testutil"
	"github.com/leapstack-labs/minilang/pkg/analyzer"
	"github.com/leapstack-labs/minilang/pkg/typo"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRootVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "minilang v"+Version)

	out, _, err = execute(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "minilang "+Version)
	assert.Contains(t, out, "commit "+GitCommit)
}

func TestRootAnalyze(t *testing.T) {
	path := testutil.WriteFile(t, "hello.mini", "int x = 1;\npritn(x);")

	out, _, err := execute(t, "", "analyze", "-o", "json", path)
	require.NoError(t, err)

	var rep output.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, analyzer.StatusSuccess, rep.Status)
	assert.Equal(t, path, rep.File)
	require.Len(t, rep.Corrections, 1)
	assert.Equal(t, "print", rep.Corrections[0].Suggested)
}

func TestRootAnalyzeFlagsOverrideDefaults(t *testing.T) {
	out, _, err := execute(t, "print(1)", "analyze", "-o", "json", "--auto-correct=false")
	require.ErrorIs(t, err, commands.ErrAnalysisFailed)

	var rep output.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, analyzer.StatusError, rep.Status)
	assert.Equal(t, "print(1)", rep.CorrectedText)
	assert.NotEmpty(t, rep.ParserError)
}

func TestRootAnalyzeMaxInputBytes(t *testing.T) {
	out, _, err := execute(t, "print(12345);", "analyze", "-o", "json", "--max-input-bytes", "4")
	require.ErrorIs(t, err, commands.ErrAnalysisFailed)
	assert.Contains(t, out, "exceeds the limit")
}

func TestRootConfigFileTypos(t *testing.T) {
	cfgPath := testutil.WriteFile(t, "minilang.yaml", "output: json\ntypos:\n  prnit: print\n")

	out, _, err := execute(t, "", "--config", cfgPath, "typos", "list")
	require.NoError(t, err)

	var entries []typo.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Contains(t, entries, typo.Entry{Typo: "prnit", Correction: "print"})
}

func TestRootVerboseLogsToStderr(t *testing.T) {
	_, stderr, err := execute(t, "print(1);", "-v", "analyze", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
}

func TestRootInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "", "--log-level", "loud", "version")
	require.Error(t, err)
}

func TestRootHistoryDisabled(t *testing.T) {
	_, _, err := execute(t, "", "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history is disabled")
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := execute(t, "", "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "minilang")
		})
	}

	_, _, err := execute(t, "", "completion", "tcsh")
	require.Error(t, err)
}

func TestContextAccessorsFallBack(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, config.Default(), GetConfig(ctx))
	assert.Equal(t, output.ModeAuto, GetRenderer(ctx).Mode())
}
