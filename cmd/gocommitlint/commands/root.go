// Package commands contains all CLI commands for gocommitlint.
//
// This package uses the Cobra library for CLI management.
// Each command is defined in its own file and registered in init().
package commands

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/JNZader/gocommitlint/internal/config"
	"github.com/JNZader/gocommitlint/internal/logger"
)

var (
	// cfgFile holds the path to the config file (from --config flag)
	cfgFile string

	// verbose enables debug logging and reports valid messages
	verbose bool

	// quiet suppresses all output except errors
	quiet bool

	// appFs is the filesystem for config, presets, edit files and hooks.
	// Tests replace it with an in-memory one.
	appFs afero.Fs = afero.NewOsFs()

	// cfg is the configuration resolved by initializeConfig.
	cfg *config.Config

	// log is the logger configured from cfg.
	log = logger.Default()

	// logCloser closes the rotated log file, if any.
	logCloser io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gocommitlint",
	Short: "Lint commit messages against conventional-commit rules",
	Long: `gocommitlint checks commit messages against a configurable set of
conventional-commit rules and reports every violation.

Examples:
  # Lint a message
  gocommitlint lint "feat(api): adiciona endpoint"

  # Lint the message being committed (commit-msg hook)
  gocommitlint lint --edit .git/COMMIT_EDITMSG

  # Lint every commit since the last release
  gocommitlint lint --from v1.2.0

  # Install the commit-msg hook
  gocommitlint install`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeLog(); err == nil {
		err = cerr
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .gocommitlint.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
}

// ExitError carries a non-zero exit status without an error message.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// initializeConfig loads the config file and environment and sets up
// logging.
func initializeConfig(cmd *cobra.Command) error {
	loader := config.NewLoader(appFs)
	if cfgFile != "" {
		loader.SetConfigFile(cfgFile)
	}

	loaded, err := loader.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = loaded

	if verbose {
		cfg.Output.Verbose = true
	}
	if quiet {
		cfg.Output.Quiet = true
	}

	if err := setupLogger(cmd.ErrOrStderr()); err != nil {
		return err
	}

	if used := loader.ConfigFileUsed(); used != "" {
		log.Debug("using config file %s", used)
	}
	return nil
}

func setupLogger(stderr io.Writer) error {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	switch {
	case quiet:
		level = logger.LevelError
	case verbose:
		level = logger.LevelDebug
	}

	out := stderr
	if cfg.Log.File != "" {
		w := logger.NewFileWriter(logger.FileConfig{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		})
		logCloser = w
		out = w
	}

	log = logger.New(level, out)
	return nil
}

func closeLog() error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	return err
}

// isVerbose returns true if verbose mode is enabled
func isVerbose() bool {
	return cfg != nil && cfg.Output.Verbose && !cfg.Output.Quiet
}

// isQuiet returns true if quiet mode is enabled
func isQuiet() bool {
	return cfg != nil && cfg.Output.Quiet
}
