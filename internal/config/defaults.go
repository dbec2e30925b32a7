package config

import "time"

// Default configuration values.
const (
	DefaultLogLevel          = "warn"
	DefaultOutput            = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultAutoCorrect       = true
	DefaultServerAddr        = "127.0.0.1:5000"
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultMaxBodyBytes      = 1 << 20
	DefaultFallbackTimeout   = 250 * time.Millisecond
	DefaultMaxInputBytes     = 256 << 10
)

// Output modes accepted by --output.
var OutputModes = []string{"auto", "text", "markdown", "json", "yaml"}

// LogLevels accepted by --log-level.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		LogLevel:    DefaultLogLevel,
		Output:      DefaultOutput,
		AutoCorrect: DefaultAutoCorrect,
		Server: ServerConfig{
			Addr:              DefaultServerAddr,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			MaxBodyBytes:      DefaultMaxBodyBytes,
		},
		Analysis: AnalysisConfig{
			FallbackTimeout: DefaultFallbackTimeout,
			MaxInputBytes:   DefaultMaxInputBytes,
		},
	}
}

func defaultMap() map[string]interface{} {
	return map[string]interface{}{
		"verbose":                    false,
		"log_level":                  DefaultLogLevel,
		"output":                     DefaultOutput,
		"auto_correct":               DefaultAutoCorrect,
		"history_path":               "",
		"server.addr":                DefaultServerAddr,
		"server.read_header_timeout": DefaultReadHeaderTimeout,
		"server.max_body_bytes":      DefaultMaxBodyBytes,
		"analysis.fallback_timeout":  DefaultFallbackTimeout,
		"analysis.max_input_bytes":   DefaultMaxInputBytes,
	}
}
