package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JNZader/gocommitlint/internal/history"
	"github.com/JNZader/gocommitlint/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Search recorded lint results",
	Long: `Search the lint history recorded with "lint --record" or
"history.enabled: true".

Examples:
  # Latest failures
  gocommitlint history --invalid

  # Messages that broke type-enum this week
  gocommitlint history --rule type-enum --since 168h

  # Most frequent failures
  gocommitlint history --stats

  # Forget entries older than 90 days
  gocommitlint history --prune 2160h`,

	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var (
	historyRule    string
	historySource  string
	historySince   time.Duration
	historyInvalid bool
	historyLimit   int
	historyStats   bool
	historyPrune   time.Duration
	historyJSON    bool
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyRule, "rule", "", "only messages that failed this rule")
	historyCmd.Flags().StringVar(&historySource, "source", "", "only messages whose source starts with this")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "only messages recorded within this duration")
	historyCmd.Flags().BoolVar(&historyInvalid, "invalid", false, "only messages with errors")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of messages")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "show aggregate statistics")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "delete entries older than this duration")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
}

func openHistory() (*history.Store, error) {
	store, err := history.NewStore(history.StoreConfig{Path: cfg.History.Path})
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", cfg.History.Path, err)
	}
	return store, nil
}

func recordHistory(ctx context.Context, batch *report.Batch) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	runID := uuid.NewString()
	records, err := store.RecordBatch(ctx, runID, batch)
	if err != nil {
		return err
	}
	log.WithField("run", runID[:8]).Debug("recorded %d messages", len(records))
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if historyPrune > 0 {
		n, err := store.Prune(ctx, historyPrune)
		if err != nil {
			return err
		}
		if !isQuiet() {
			fmt.Fprintf(out, "Pruned %d messages\n", n)
		}
		return nil
	}

	if historyStats {
		stats, err := store.GetStats(ctx, historyLimit)
		if err != nil {
			return err
		}
		if historyJSON {
			return writeJSON(out, stats)
		}
		return printHistoryStats(out, stats)
	}

	q := history.SearchQuery{
		Rule:        historyRule,
		Source:      historySource,
		InvalidOnly: historyInvalid,
		Limit:       historyLimit,
	}
	if len(args) == 1 {
		q.Text = args[0]
	}
	if historySince > 0 {
		q.Since = time.Now().Add(-historySince)
	}

	result, err := store.Search(ctx, q)
	if err != nil {
		return err
	}
	if historyJSON {
		return writeJSON(out, result)
	}
	return printHistory(out, result)
}

func printHistory(w io.Writer, result *history.SearchResult) error {
	if len(result.Records) == 0 {
		fmt.Fprintln(w, "No recorded messages.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tSOURCE\tSTATUS\tHEADER")
	for _, r := range result.Records {
		status := "ok"
		if !r.Valid {
			status = fmt.Sprintf("%d errors", r.Errors)
		} else if r.Warnings > 0 {
			status = fmt.Sprintf("%d warnings", r.Warnings)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.CreatedAt.Local().Format(time.DateTime), shortSource(r.Source), status, r.Header)
		for _, p := range r.Problems {
			fmt.Fprintf(tw, "\t\t%s\t%s [%s]\n", p.Level, p.Message, p.Rule)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if int64(len(result.Records)) < result.TotalCount {
		fmt.Fprintf(w, "\n%d of %d messages shown\n", len(result.Records), result.TotalCount)
	}
	return nil
}

func printHistoryStats(w io.Writer, stats *history.Stats) error {
	fmt.Fprintf(w, "Runs:      %d\n", stats.Runs)
	fmt.Fprintf(w, "Messages:  %d (%d invalid)\n", stats.Messages, stats.Invalid)
	fmt.Fprintf(w, "Problems:  %d errors, %d warnings\n", stats.Errors, stats.Warnings)

	if len(stats.TopRules) == 0 {
		return nil
	}

	fmt.Fprintln(w, "\nMost frequent failures:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, rc := range stats.TopRules {
		fmt.Fprintf(tw, "  %s\t%s\t%d\n", rc.Rule, rc.Level, rc.Count)
	}
	return tw.Flush()
}

// shortSource abbreviates full commit hashes.
func shortSource(source string) string {
	if len(source) == 40 {
		return source[:7]
	}
	return source
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
