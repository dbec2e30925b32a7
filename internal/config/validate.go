package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/minilang/pkg/token"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(OutputModes, c.Output) {
		return fmt.Errorf("invalid output %q (want one of: %s)", c.Output, strings.Join(OutputModes, ", "))
	}
	if !slices.Contains(LogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log_level %q (want one of: %s)", c.LogLevel, strings.Join(LogLevels, ", "))
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	if c.Analysis.FallbackTimeout <= 0 {
		return fmt.Errorf("analysis.fallback_timeout must be positive")
	}
	if c.Analysis.MaxInputBytes < 0 {
		return fmt.Errorf("analysis.max_input_bytes must not be negative")
	}
	for typo, correction := range c.Typos {
		if !token.IsIdentifier(typo) || !token.IsIdentifier(correction) {
			return fmt.Errorf("invalid typo entry %q -> %q", typo, correction)
		}
	}
	return nil
}
