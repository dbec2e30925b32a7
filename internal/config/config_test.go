package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches into a fresh directory for the duration of the test.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.BoolP("verbose", "v", false, "")
	fs.String("log-level", "", "")
	fs.StringP("output", "o", "", "")
	fs.Bool("auto-correct", true, "")
	fs.String("history", "", "")
	fs.String("addr", "", "")
	fs.Duration("fallback-timeout", 0, "")
	fs.Int("limit", 20, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, want.Output, cfg.Output)
	assert.Equal(t, want.LogLevel, cfg.LogLevel)
	assert.True(t, cfg.AutoCorrect)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultReadHeaderTimeout, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, int64(DefaultMaxBodyBytes), cfg.Server.MaxBodyBytes)
	assert.Equal(t, DefaultFallbackTimeout, cfg.Analysis.FallbackTimeout)
	assert.Equal(t, DefaultMaxInputBytes, cfg.Analysis.MaxInputBytes)
	assert.Empty(t, cfg.File)
}

func TestLoadConfigFile(t *testing.T) {
	dir := chdir(t)
	content := `
output: json
auto_correct: false
history_path: .minilang/history.db
server:
  addr: ":8080"
  read_header_timeout: 2s
analysis:
  fallback_timeout: 100ms
typos:
  prnt: print
  wile: while
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "minilang.yaml"), []byte(content), 0600))

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "minilang.yaml", cfg.File)
	assert.Equal(t, "json", cfg.Output)
	assert.False(t, cfg.AutoCorrect)
	assert.Equal(t, ".minilang/history.db", cfg.HistoryPath)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Analysis.FallbackTimeout)
	assert.Equal(t, map[string]string{"prnt": "print", "wile": "while"}, cfg.Typos)
	// Unset keys keep their defaults.
	assert.Equal(t, int64(DefaultMaxBodyBytes), cfg.Server.MaxBodyBytes)
}

func TestLoadExplicitConfigFile(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("output: markdown\n"), 0600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.Output)
	assert.Equal(t, path, cfg.File)

	_, err = Load(filepath.Join(dir, "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadPrecedence(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "minilang.yml"),
		[]byte("output: json\nlog_level: info\nserver:\n  addr: file:1\n"), 0600))

	t.Setenv("MINILANG_OUTPUT", "yaml")
	t.Setenv("MINILANG_SERVER__ADDR", "env:2")
	t.Setenv("MINILANG_ANALYSIS__MAX_INPUT_BYTES", "1024")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--output", "text", "--limit", "5"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Output, "flag beats env and file")
	assert.Equal(t, "env:2", cfg.Server.Addr, "env beats file")
	assert.Equal(t, "info", cfg.LogLevel, "file beats default")
	assert.Equal(t, 1024, cfg.Analysis.MaxInputBytes)
}

func TestLoadFlagMapping(t *testing.T) {
	chdir(t)
	flags := newFlags()
	require.NoError(t, flags.Parse([]string{
		"--history", "h.db",
		"--addr", ":9000",
		"--fallback-timeout", "50ms",
		"--auto-correct=false",
		"-v",
	}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "h.db", cfg.HistoryPath)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 50*time.Millisecond, cfg.Analysis.FallbackTimeout)
	assert.False(t, cfg.AutoCorrect)
	assert.True(t, cfg.Verbose)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad output", func(c *Config) { c.Output = "html" }, "invalid output"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log_level"},
		{"upper case log level", func(c *Config) { c.LogLevel = "DEBUG" }, ""},
		{"zero body limit", func(c *Config) { c.Server.MaxBodyBytes = 0 }, "max_body_bytes"},
		{"zero fallback timeout", func(c *Config) { c.Analysis.FallbackTimeout = 0 }, "fallback_timeout"},
		{"negative input limit", func(c *Config) { c.Analysis.MaxInputBytes = -1 }, "max_input_bytes"},
		{"bad typo", func(c *Config) { c.Typos = map[string]string{"pr nt": "print"} }, "invalid typo entry"},
		{"self typo", func(c *Config) { c.Typos = map[string]string{"print": "print"} }, ""},
		{"good typo", func(c *Config) { c.Typos = map[string]string{"prnt": "print"} }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	chdir(t)
	t.Setenv("MINILANG_OUTPUT", "html")
	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output")
}

func TestLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := slog.Default()
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestConfigContext(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))

	cfg := Default()
	cfg.Output = "json"
	ctx := WithConfig(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
