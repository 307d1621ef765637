package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JNZader/gocommitlint/internal/git"
	"github.com/JNZader/gocommitlint/internal/lint"
	"github.com/JNZader/gocommitlint/internal/metrics"
	"github.com/JNZader/gocommitlint/internal/profiler"
	"github.com/JNZader/gocommitlint/internal/report"
)

// Exit statuses of the lint command.
const (
	exitValid          = 0
	exitInvalid        = 1
	exitStrictWarnings = 2
	exitStrictErrors   = 3
)

var lintCmd = &cobra.Command{
	Use:   "lint [message | edit-file]",
	Short: "Lint commit messages",
	Long: `Lint one or more commit messages.

The message is taken from, in order:
  --edit      the commit message file (default .git/COMMIT_EDITMSG)
  --from/--to every commit in a git range
  argument    the message itself
  stdin       when nothing else is given

Exit status is 0 when every message is valid and 1 when any has errors.
With --strict, warnings alone exit with 2 and errors with 3.

Examples:
  # Lint a message
  gocommitlint lint "fix(api): corrige timeout"

  # From a commit-msg hook
  gocommitlint lint --edit "$1"

  # A range, as JSON
  gocommitlint lint --from origin/main --format json

  # Piped
  git log -1 --format=%B | gocommitlint lint`,

	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	// Source flags
	lintCmd.Flags().BoolP("edit", "e", false, "read the message from the edit file (path as argument)")
	lintCmd.Flags().String("from", "", "lint commits after this ref")
	lintCmd.Flags().String("to", "", "lint commits up to this ref (default HEAD)")

	// Rule flags
	lintCmd.Flags().String("preset", "", "preset name, file or HTTPS URL")
	lintCmd.Flags().String("preset-file", "", "local preset file")
	lintCmd.Flags().String("locale", "", "message locale (e.g. en, pt-BR)")
	lintCmd.Flags().Bool("strict", false, "fail on warnings with exit status 2")
	lintCmd.Flags().String("help-url", "", "URL printed under failing reports")

	// Output flags
	lintCmd.Flags().StringP("format", "f", "", "output format: text, json, markdown, sarif")
	lintCmd.Flags().StringP("output", "o", "", "write the report to a file")
	lintCmd.Flags().Bool("no-cache", false, "disable the report cache")
	lintCmd.Flags().Bool("metrics", false, "print Prometheus metrics to stderr")
	lintCmd.Flags().Bool("record", false, "record the results in the history database")

	// Profiling flags
	lintCmd.Flags().String("cpuprofile", "", "write CPU profile to file")
	lintCmd.Flags().String("memprofile", "", "write memory profile to file")
}

// message is one commit message and where it came from.
type message struct {
	source string
	text   string
}

func runLint(cmd *cobra.Command, args []string) error {
	applyLintFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cpuProfile, _ := cmd.Flags().GetString("cpuprofile")
	memProfile, _ := cmd.Flags().GetString("memprofile")
	if profCfg := (profiler.Config{CPUProfile: cpuProfile, MemProfile: memProfile}); profCfg.Enabled() {
		prof, err := profiler.Start(appFs, profCfg)
		if err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			if err := prof.Stop(); err != nil {
				log.Warn("failed to stop profiler: %v", err)
			}
			if isVerbose() {
				prof.Summary(cmd.ErrOrStderr())
			}
		}()
	}

	messages, err := readMessages(ctx, cmd, args)
	if err != nil {
		return err
	}

	set, err := loadRuleSet(ctx)
	if err != nil {
		return err
	}

	noCache, _ := cmd.Flags().GetBool("no-cache")
	linter, err := newLinter(set, !noCache)
	if err != nil {
		return err
	}

	batch, err := lintMessages(ctx, linter, messages)
	if err != nil {
		return err
	}

	if err := writeReport(cmd, batch); err != nil {
		return err
	}

	if cfg.History.Enabled {
		if err := recordHistory(ctx, batch); err != nil {
			log.Warn("recording history: %v", err)
		}
	}

	if printMetrics, _ := cmd.Flags().GetBool("metrics"); printMetrics {
		fmt.Fprint(cmd.ErrOrStderr(), metrics.Global().ExportPrometheus())
	}

	if code := exitCode(batch, cfg.Lint.Strict); code != exitValid {
		return &ExitError{Code: code}
	}
	return nil
}

// applyLintFlags copies explicitly set flags over the loaded config.
func applyLintFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}

	str("preset", &cfg.Lint.Preset)
	str("preset-file", &cfg.Lint.PresetFile)
	str("locale", &cfg.Lint.Locale)
	str("help-url", &cfg.Lint.HelpURL)
	str("format", &cfg.Output.Format)
	str("output", &cfg.Output.File)

	if flags.Changed("output") && !flags.Changed("format") {
		if format := DetectFormatFromPath(cfg.Output.File); format != "" {
			cfg.Output.Format = format
		}
	}
	if flags.Changed("preset") && !flags.Changed("preset-file") {
		cfg.Lint.PresetFile = ""
	}
	if flags.Changed("strict") {
		cfg.Lint.Strict, _ = flags.GetBool("strict")
	}
	if record, _ := flags.GetBool("record"); record {
		cfg.History.Enabled = true
	}
}

func readMessages(ctx context.Context, cmd *cobra.Command, args []string) ([]message, error) {
	flags := cmd.Flags()
	edit, _ := flags.GetBool("edit")
	from, _ := flags.GetString("from")
	to, _ := flags.GetString("to")

	switch {
	case edit:
		path := cfg.Git.EditFile
		if len(args) == 1 {
			path = args[0]
		}
		text, err := git.ReadEditFile(appFs, cfg.Git.RepoPath, path)
		if err != nil {
			return nil, err
		}
		log.Debug("read message from %s", path)
		return []message{{source: path, text: text}}, nil

	case from != "" || to != "":
		if len(args) > 0 {
			return nil, errors.New("a message argument cannot be combined with --from/--to")
		}
		repo, err := git.NewRepo(cfg.Git.RepoPath)
		if err != nil {
			return nil, err
		}
		commits, err := repo.GetCommits(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("reading commits: %w", err)
		}
		if len(commits) == 0 {
			return nil, fmt.Errorf("no commits in range %s..%s", from, to)
		}
		messages := make([]message, len(commits))
		for i, c := range commits {
			messages[i] = message{source: c.Hash, text: c.Message}
		}
		log.Debug("read %d commits", len(messages))
		return messages, nil

	case len(args) == 1:
		return []message{{source: "argument", text: args[0]}}, nil

	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []message{{source: "stdin", text: strings.TrimRight(string(data), "\r\n")}}, nil
	}
}

func lintMessages(ctx context.Context, linter *lint.Linter, messages []message) (*report.Batch, error) {
	set := linter.RuleSet()
	batch := &report.Batch{
		Preset:      set.Name(),
		Locale:      linter.Catalog().Tag(),
		Rules:       set.Entries(),
		HelpURL:     cfg.Lint.HelpURL,
		ToolVersion: Version,
	}

	var reports []lint.Report
	if len(messages) == 1 {
		reports = []lint.Report{linter.Lint(messages[0].text)}
	} else {
		texts := make([]string, len(messages))
		for i, m := range messages {
			texts[i] = m.text
		}
		var err error
		if reports, err = linter.LintAll(ctx, texts); err != nil {
			return nil, err
		}
	}

	for i, r := range reports {
		batch.Entries = append(batch.Entries, report.Entry{Source: messages[i].source, Report: r})
	}
	return batch, nil
}

func writeReport(cmd *cobra.Command, batch *report.Batch) error {
	reporter, err := newReporter()
	if err != nil {
		return err
	}

	if cfg.Output.File != "" {
		out, err := reporter.Generate(batch)
		if err != nil {
			return fmt.Errorf("generating report: %w", err)
		}
		return WriteOutput(cmd, out, cfg.Output.File)
	}

	// Quiet text output is replaced by the exit status alone.
	if isQuiet() && reporter.Format() == "text" {
		return nil
	}
	return reporter.Write(batch, cmd.OutOrStdout())
}

// exitCode maps a batch to the lint command's exit status.
func exitCode(batch *report.Batch, strict bool) int {
	switch {
	case !batch.Valid() && strict:
		return exitStrictErrors
	case !batch.Valid():
		return exitInvalid
	case strict && batch.HasWarnings():
		return exitStrictWarnings
	default:
		return exitValid
	}
}
