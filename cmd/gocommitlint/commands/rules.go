package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JNZader/gocommitlint/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the resolved rule set",
	Long: `Print the rules that lint would evaluate, in evaluation order, after the
preset's extends chain and the config overrides are applied.

Examples:
  # Show the configured rules
  gocommitlint rules

  # Inspect another preset as JSON
  gocommitlint rules --preset conventional --json

  # Only the rules that fail the commit
  gocommitlint rules --level error`,

	Args: cobra.NoArgs,
	RunE: runRules,
}

var (
	rulesJSON   bool
	rulesPreset string
	rulesLevel  string
)

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().BoolVar(&rulesJSON, "json", false, "output as JSON")
	rulesCmd.Flags().StringVar(&rulesPreset, "preset", "", "preset name, file or HTTPS URL")
	rulesCmd.Flags().StringVar(&rulesLevel, "level", "", "only rules at this level: error, warning or off")
}

// rulesView is the JSON form of the rules command.
type rulesView struct {
	Preset       string        `json:"preset"`
	ParserPreset string        `json:"parser_preset"`
	Locale       string        `json:"locale"`
	Rules        []rules.Entry `json:"rules"`
}

func runRules(cmd *cobra.Command, args []string) error {
	if rulesPreset != "" {
		cfg.Lint.Preset = rulesPreset
		cfg.Lint.PresetFile = ""
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	set, err := loadRuleSet(ctx)
	if err != nil {
		return err
	}

	entries := set.Entries()
	if rulesLevel != "" {
		level, err := rules.ParseSeverity(rulesLevel)
		if err != nil {
			return err
		}
		entries = rules.BySeverity(set, level)
	}

	out := cmd.OutOrStdout()
	if rulesJSON {
		data, err := json.MarshalIndent(rulesView{
			Preset:       set.Name(),
			ParserPreset: set.ParserPreset(),
			Locale:       set.Locale(),
			Rules:        entries,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal rules: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "preset: %s (parser %s, locale %s)\n\n", set.Name(), set.ParserPreset(), set.Locale())

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tLEVEL\tWHEN\tVALUE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Name, e.Severity, e.When, rules.FormatValue(e.Value))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d errors, %d warnings, %d off\n",
		len(rules.BySeverity(set, rules.SeverityError)),
		len(rules.BySeverity(set, rules.SeverityWarning)),
		len(rules.BySeverity(set, rules.SeverityDisabled)))
	return nil
}
