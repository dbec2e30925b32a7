// Package config provides configuration management for minilang.
//
// Configuration is layered with koanf. Precedence, highest first: command
// line flags, MINILANG_ environment variables, the config file
// (minilang.yaml or minilang.yml, or --config), built-in defaults.
package config

import "time"

// Config holds all configuration options.
type Config struct {
	Verbose     bool              `koanf:"verbose"`
	LogLevel    string            `koanf:"log_level"`
	Output      string            `koanf:"output"`
	AutoCorrect bool              `koanf:"auto_correct"`
	HistoryPath string            `koanf:"history_path"`
	Server      ServerConfig      `koanf:"server"`
	Analysis    AnalysisConfig    `koanf:"analysis"`
	Typos       map[string]string `koanf:"typos"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// ServerConfig holds configuration for the HTTP service.
type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	MaxBodyBytes      int64         `koanf:"max_body_bytes"`
}

// AnalysisConfig tunes the analysis pipeline.
type AnalysisConfig struct {
	FallbackTimeout time.Duration `koanf:"fallback_timeout"`
	MaxInputBytes   int           `koanf:"max_input_bytes"`
}
