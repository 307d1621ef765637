package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/JNZader/gocommitlint/internal/rules"
)

// TextReporter prints commitlint-style output for terminals.
type TextReporter struct {
	Color bool
	// Verbose also prints valid messages.
	Verbose bool
}

const (
	iconInput   = "⧗"
	iconError   = "✖"
	iconWarning = "⚠"
	iconOK      = "✔"
	iconInfo    = "ⓘ"
)

type palette struct {
	bold, red, yellow, green, gray *color.Color
}

func (r *TextReporter) palette() palette {
	p := palette{
		bold:   color.New(color.Bold),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		green:  color.New(color.FgGreen),
		gray:   color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{p.bold, p.red, p.yellow, p.green, p.gray} {
		if r.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (r *TextReporter) Format() string { return "text" }

func (r *TextReporter) Generate(batch *Batch) (string, error) {
	return generate(r, batch)
}

func (r *TextReporter) Write(batch *Batch, w io.Writer) error {
	p := r.palette()

	printed := 0
	for _, e := range batch.Entries {
		if !r.Verbose && e.Report.Valid && !e.Report.HasWarnings() {
			continue
		}
		if printed > 0 {
			fmt.Fprintln(w)
		}
		printed++
		r.writeEntry(w, p, e, batch.HelpURL)
	}

	if len(batch.Entries) > 1 && (printed > 0 || r.Verbose) {
		s := batch.Summary()
		fmt.Fprintf(w, "\n%s\n", p.bold.Sprintf("%d of %d messages invalid, %d problems, %d warnings",
			s.Invalid, s.Messages, s.Errors, s.Warnings))
	}
	return nil
}

func (r *TextReporter) writeEntry(w io.Writer, p palette, e Entry, helpURL string) {
	rep := e.Report

	header := firstLine(rep.Input)
	if e.Source != "" && e.Source != "stdin" {
		fmt.Fprintf(w, "%s   %s %s\n", p.gray.Sprint(iconInput), p.gray.Sprint(e.Source), header)
	} else {
		fmt.Fprintf(w, "%s   input: %s\n", p.gray.Sprint(iconInput), header)
	}

	for _, res := range rep.Problems() {
		icon := p.red.Sprint(iconError)
		if res.Level == rules.SeverityWarning {
			icon = p.yellow.Sprint(iconWarning)
		}
		fmt.Fprintf(w, "%s   %s %s\n", icon, res.Message, p.gray.Sprintf("[%s]", res.Name))
	}

	fmt.Fprintln(w)
	if len(rep.Errors) == 0 && len(rep.Warnings) == 0 {
		fmt.Fprintf(w, "%s   found 0 problems, 0 warnings\n", p.green.Sprint(iconOK))
		return
	}

	icon := p.red.Sprint(iconError)
	if rep.Valid {
		icon = p.yellow.Sprint(iconWarning)
	}
	fmt.Fprintf(w, "%s   %s\n", icon, p.bold.Sprintf("found %d problems, %d warnings", len(rep.Errors), len(rep.Warnings)))
	if helpURL != "" {
		fmt.Fprintf(w, "%s   Get help: %s\n", p.gray.Sprint(iconInfo), helpURL)
	}
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
