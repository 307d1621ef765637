// Package config handles all configuration management for gocommitlint.
//
// Configuration is loaded from multiple sources in order of precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables (GOCOMMITLINT_*)
// 3. Configuration file (.gocommitlint.yaml)
// 4. Default values (lowest priority)
package config

import (
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/JNZader/gocommitlint/internal/logger"
	"github.com/JNZader/gocommitlint/internal/parser"
	"github.com/JNZader/gocommitlint/internal/report"
	"github.com/JNZader/gocommitlint/internal/rules"
)

// Config is the main configuration structure for gocommitlint.
type Config struct {
	// Lint selects and adjusts the rule set
	Lint LintConfig `mapstructure:"lint" yaml:"lint"`

	// Parser overrides the preset's commit parser
	Parser ParserConfig `mapstructure:"parser" yaml:"parser"`

	// Git configures where messages are read from
	Git GitConfig `mapstructure:"git" yaml:"git"`

	// Output configures output formatting
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// Cache configures report caching
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	// Worker configures batch linting
	Worker WorkerConfig `mapstructure:"worker" yaml:"worker"`

	// Log configures diagnostic logging
	Log LogConfig `mapstructure:"log" yaml:"log"`

	// History configures the lint history database
	History HistoryConfig `mapstructure:"history" yaml:"history"`
}

// LintConfig configures the rule set.
type LintConfig struct {
	// Preset is a built-in preset name, a preset file or an HTTPS URL
	Preset string `mapstructure:"preset" yaml:"preset"`

	// PresetFile is a local preset file. It takes precedence over Preset.
	PresetFile string `mapstructure:"preset_file" yaml:"preset_file,omitempty"`

	// Locale overrides the preset's message locale (BCP 47 tag)
	Locale string `mapstructure:"locale" yaml:"locale,omitempty"`

	// Strict makes warnings fail the run with their own exit status
	Strict bool `mapstructure:"strict" yaml:"strict"`

	// HelpURL is printed under failing reports
	HelpURL string `mapstructure:"help_url" yaml:"help_url,omitempty"`

	// Rules overrides rules as name: [severity, when, value]
	Rules map[string][]any `mapstructure:"rules" yaml:"rules,omitempty"`

	// Disable turns rules off by name
	Disable []string `mapstructure:"disable" yaml:"disable,omitempty"`
}

// Source returns the preset source to load.
func (c LintConfig) Source() string {
	if c.PresetFile != "" {
		return c.PresetFile
	}
	return c.Preset
}

// Overrides returns the rule adjustments as rules.Overrides.
func (c LintConfig) Overrides() rules.Overrides {
	return rules.Overrides{Rules: c.Rules, Disable: c.Disable}
}

// ParserConfig configures commit parsing.
type ParserConfig struct {
	// Preset is a parser preset name (empty = the rule set's own)
	Preset string `mapstructure:"preset" yaml:"preset,omitempty"`
}

// GitConfig configures git-related settings.
type GitConfig struct {
	// RepoPath is the path to the git repository (default: current directory)
	RepoPath string `mapstructure:"repo_path" yaml:"repo_path"`

	// EditFile is the message file read by lint --edit
	EditFile string `mapstructure:"edit_file" yaml:"edit_file"`
}

// OutputConfig configures output formatting.
type OutputConfig struct {
	// Format is the output format: "text", "json", "markdown", "sarif"
	Format string `mapstructure:"format" yaml:"format"`

	// File is the output file path (empty = stdout)
	File string `mapstructure:"file" yaml:"file,omitempty"`

	// Color enables colored output (for terminal)
	Color bool `mapstructure:"color" yaml:"color"`

	// Verbose also reports valid messages
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`

	// Quiet suppresses all output except errors
	Quiet bool `mapstructure:"quiet" yaml:"quiet"`
}

// CacheConfig configures report caching.
type CacheConfig struct {
	// Enabled enables caching
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Dir persists reports between runs (empty = in-memory only)
	Dir string `mapstructure:"dir" yaml:"dir,omitempty"`

	// TTL is the cache entry time-to-live (0 = no expiry)
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`

	// MaxEntries bounds the in-memory cache
	MaxEntries int `mapstructure:"max_entries" yaml:"max_entries"`
}

// WorkerConfig configures the batch worker pool.
type WorkerConfig struct {
	// MaxConcurrency is the number of workers (0 = GOMAXPROCS)
	MaxConcurrency int `mapstructure:"max_concurrency" yaml:"max_concurrency"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `mapstructure:"level" yaml:"level"`

	// File writes logs to a rotated file instead of stderr
	File string `mapstructure:"file" yaml:"file,omitempty"`

	// MaxSizeMB is the size at which the log file is rotated
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
}

// HistoryConfig configures the SQLite lint history.
type HistoryConfig struct {
	// Enabled records every lint run
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Path is the database file
	Path string `mapstructure:"path" yaml:"path"`
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if err := rules.ValidateSource(c.Lint.Source()); err != nil {
		return &ValidationError{Field: "lint.preset", Message: err.Error()}
	}

	if c.Lint.Locale != "" {
		if _, err := language.Parse(c.Lint.Locale); err != nil {
			return &ValidationError{Field: "lint.locale", Message: fmt.Sprintf("invalid language tag %q", c.Lint.Locale)}
		}
	}

	for name, list := range c.Lint.Rules {
		if _, err := rules.NewEntryFromList(name, list); err != nil {
			return &ValidationError{Field: "lint.rules." + name, Message: err.Error()}
		}
	}
	for _, name := range c.Lint.Disable {
		if _, ok := rules.Lookup(name); !ok {
			return &ValidationError{Field: "lint.disable", Message: "unknown rule " + name}
		}
	}

	if c.Parser.Preset != "" {
		if _, err := parser.LoadPreset(c.Parser.Preset); err != nil {
			return &ValidationError{Field: "parser.preset", Message: err.Error()}
		}
	}

	if _, err := report.NewReporter(c.Output.Format, report.Options{}); err != nil {
		return &ValidationError{Field: "output.format", Message: err.Error()}
	}

	if c.Cache.MaxEntries < 0 {
		return &ValidationError{Field: "cache.max_entries", Message: "must not be negative"}
	}
	if c.Cache.TTL < 0 {
		return &ValidationError{Field: "cache.ttl", Message: "must not be negative"}
	}

	if c.Worker.MaxConcurrency < 0 {
		return &ValidationError{Field: "worker.max_concurrency", Message: "must not be negative"}
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return &ValidationError{Field: "log.level", Message: err.Error()}
	}

	if c.History.Enabled && c.History.Path == "" {
		return &ValidationError{Field: "history.path", Message: "history path is required when history is enabled"}
	}

	return nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "config validation error: " + e.Field + ": " + e.Message
}
