package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/JNZader/gocommitlint/internal/rules"
)

// MarkdownReporter writes a summary suitable for pull request comments.
type MarkdownReporter struct{}

func (r *MarkdownReporter) Format() string { return "markdown" }

func (r *MarkdownReporter) Generate(batch *Batch) (string, error) {
	return generate(r, batch)
}

func (r *MarkdownReporter) Write(batch *Batch, w io.Writer) error {
	s := batch.Summary()

	fmt.Fprintf(w, "# Commit Message Lint Report\n\n")

	fmt.Fprintf(w, "## Summary\n\n")
	if batch.Preset != "" {
		fmt.Fprintf(w, "- **Preset:** %s\n", batch.Preset)
	}
	fmt.Fprintf(w, "- **Messages:** %d\n", s.Messages)
	fmt.Fprintf(w, "- **Invalid:** %d\n", s.Invalid)
	fmt.Fprintf(w, "- **Problems:** %d errors, %d warnings\n\n", s.Errors, s.Warnings)

	if s.Errors == 0 && s.Warnings == 0 {
		fmt.Fprintf(w, "All commit messages follow the rules.\n")
		return nil
	}

	fmt.Fprintf(w, "## Problems\n\n")
	fmt.Fprintf(w, "| Message | Level | Rule | Problem |\n")
	fmt.Fprintf(w, "|---|---|---|---|\n")

	for _, e := range batch.Entries {
		label := escapeCell(firstLine(e.Report.Input))
		if e.Source != "" && e.Source != "stdin" {
			label = fmt.Sprintf("`%s` %s", shortSource(e.Source), label)
		}
		for _, res := range e.Report.Problems() {
			fmt.Fprintf(w, "| %s | %s | `%s` | %s |\n",
				label, severityLabel(res.Level), res.Name, escapeCell(res.Message))
		}
	}

	if batch.HelpURL != "" {
		fmt.Fprintf(w, "\nSee %s for the commit message guidelines.\n", batch.HelpURL)
	}
	return nil
}

func severityLabel(s rules.Severity) string {
	if s == rules.SeverityError {
		return "[ERROR]"
	}
	return "[WARNING]"
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// shortSource abbreviates full commit hashes.
func shortSource(s string) string {
	if len(s) == 40 && strings.Trim(s, "0123456789abcdef") == "" {
		return s[:7]
	}
	return s
}
