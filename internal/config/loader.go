package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configName     = ".gocommitlint"
	configFileName = configName + ".yaml"
	envPrefix      = "GOCOMMITLINT"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v  *viper.Viper
	fs afero.Fs
}

// NewLoader creates a loader that reads config files from fs. The search
// path is the current directory, $HOME and the XDG config directory.
func NewLoader(fs afero.Fs) *Loader {
	v := viper.New()
	v.SetFs(fs)

	v.SetConfigName(configName)
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))

	// GOCOMMITLINT_LINT_PRESET -> lint.preset
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v, fs: fs}
}

// SetConfigFile sets a specific config file to use. A missing explicit
// file is an error, unlike a missing file on the search path.
func (l *Loader) SetConfigFile(path string) {
	l.v.SetConfigFile(path)
}

// Viper returns the underlying viper instance so commands can bind flags.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads the configuration from all sources and validates it.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()
	l.setDefaults(cfg)

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers every scalar key so that environment variables
// are picked up by Unmarshal.
func (l *Loader) setDefaults(cfg *Config) {
	l.v.SetDefault("lint.preset", cfg.Lint.Preset)
	l.v.SetDefault("lint.preset_file", cfg.Lint.PresetFile)
	l.v.SetDefault("lint.locale", cfg.Lint.Locale)
	l.v.SetDefault("lint.strict", cfg.Lint.Strict)
	l.v.SetDefault("lint.help_url", cfg.Lint.HelpURL)

	l.v.SetDefault("parser.preset", cfg.Parser.Preset)

	l.v.SetDefault("git.repo_path", cfg.Git.RepoPath)
	l.v.SetDefault("git.edit_file", cfg.Git.EditFile)

	l.v.SetDefault("output.format", cfg.Output.Format)
	l.v.SetDefault("output.file", cfg.Output.File)
	l.v.SetDefault("output.color", cfg.Output.Color)
	l.v.SetDefault("output.verbose", cfg.Output.Verbose)
	l.v.SetDefault("output.quiet", cfg.Output.Quiet)

	l.v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	l.v.SetDefault("cache.dir", cfg.Cache.Dir)
	l.v.SetDefault("cache.ttl", cfg.Cache.TTL)
	l.v.SetDefault("cache.max_entries", cfg.Cache.MaxEntries)

	l.v.SetDefault("worker.max_concurrency", cfg.Worker.MaxConcurrency)

	l.v.SetDefault("log.level", cfg.Log.Level)
	l.v.SetDefault("log.file", cfg.Log.File)
	l.v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	l.v.SetDefault("log.max_backups", cfg.Log.MaxBackups)

	l.v.SetDefault("history.enabled", cfg.History.Enabled)
	l.v.SetDefault("history.path", cfg.History.Path)
}

// ConfigFileUsed returns the path of the config file used, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Marshal renders cfg as the YAML written by "config init".
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// WriteFile writes cfg to path. It refuses to overwrite an existing file
// unless force is set.
func WriteFile(fs afero.Fs, path string, cfg *Config, force bool) error {
	if path == "" {
		path = configFileName
	}

	if !force {
		exists, err := afero.Exists(fs, path)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	header := []byte("# gocommitlint configuration\n")
	return afero.WriteFile(fs, path, append(header, data...), 0o644)
}

// FindConfigFile returns the first config file on the search path, or ""
// if there is none.
func FindConfigFile(fs afero.Fs) string {
	candidates := []string{configFileName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, configFileName))
	}
	candidates = append(candidates, filepath.Join(xdg.ConfigHome, appName, configFileName))

	for _, path := range candidates {
		if ok, _ := afero.Exists(fs, path); ok {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}
