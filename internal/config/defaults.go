package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/JNZader/gocommitlint/internal/git"
	"github.com/JNZader/gocommitlint/internal/rules"
)

const appName = "gocommitlint"

// DefaultConfig returns a Config with the values used when nothing is
// configured: the conventional-ptbr preset, text output and an in-memory
// report cache.
func DefaultConfig() *Config {
	return &Config{
		Lint:    LintConfig{Preset: rules.DefaultPreset},
		Git:     defaultGitConfig(),
		Output:  defaultOutputConfig(),
		Cache:   defaultCacheConfig(),
		Worker:  WorkerConfig{MaxConcurrency: 0},
		Log:     defaultLogConfig(),
		History: HistoryConfig{
			Path: filepath.Join(xdg.DataHome, appName, "history.db"),
		},
	}
}

// DefaultCacheDir is the XDG cache location "config init" persists
// reports to.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, appName)
}

func defaultGitConfig() GitConfig {
	return GitConfig{
		RepoPath: ".",
		EditFile: git.DefaultEditFile,
	}
}

func defaultOutputConfig() OutputConfig {
	return OutputConfig{
		Format: "text",
		Color:  true,
	}
}

func defaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:    true,
		TTL:        24 * time.Hour,
		MaxEntries: 1000,
	}
}

func defaultLogConfig() LogConfig {
	return LogConfig{
		Level:      "warn",
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
}
