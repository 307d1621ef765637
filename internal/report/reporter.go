// Package report renders lint reports for people and machines.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/JNZader/gocommitlint/internal/lint"
	"github.com/JNZader/gocommitlint/internal/rules"
)

// Entry is the report for one linted message.
type Entry struct {
	// Source names where the message came from: a commit hash, a file or "stdin".
	Source string
	Report lint.Report
}

// Batch is everything a reporter renders in one run.
type Batch struct {
	Entries []Entry

	Preset      string
	Locale      string
	Rules       []rules.Entry
	HelpURL     string
	ToolVersion string
}

// Summary counts problems across the batch.
type Summary struct {
	Messages int `json:"messages"`
	Invalid  int `json:"invalid"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Summary returns the batch totals.
func (b *Batch) Summary() Summary {
	s := Summary{Messages: len(b.Entries)}
	for _, e := range b.Entries {
		if !e.Report.Valid {
			s.Invalid++
		}
		s.Errors += len(e.Report.Errors)
		s.Warnings += len(e.Report.Warnings)
	}
	return s
}

// Valid reports whether every message is valid.
func (b *Batch) Valid() bool {
	for _, e := range b.Entries {
		if !e.Report.Valid {
			return false
		}
	}
	return true
}

// HasWarnings reports whether any message has warnings.
func (b *Batch) HasWarnings() bool {
	for _, e := range b.Entries {
		if e.Report.HasWarnings() {
			return true
		}
	}
	return false
}

// Reporter defines the interface for rendering lint batches.
type Reporter interface {
	// Generate renders the batch to a string.
	Generate(batch *Batch) (string, error)

	// Write renders the batch to a writer.
	Write(batch *Batch, w io.Writer) error

	// Format returns the format name.
	Format() string
}

// Options tune the reporters that support them.
type Options struct {
	Color   bool
	Verbose bool
}

// NewReporter creates a reporter for the given format.
func NewReporter(format string, opts Options) (Reporter, error) {
	switch strings.ToLower(format) {
	case "text", "":
		return &TextReporter{Color: opts.Color, Verbose: opts.Verbose}, nil
	case "markdown", "md":
		return &MarkdownReporter{}, nil
	case "json":
		return &JSONReporter{Indent: true}, nil
	case "sarif":
		return &SARIFReporter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (available: %s)", format, strings.Join(AvailableFormats(), ", "))
	}
}

// AvailableFormats returns the list of supported formats.
func AvailableFormats() []string {
	return []string{"text", "json", "markdown", "sarif"}
}

func generate(r Reporter, batch *Batch) (string, error) {
	var sb strings.Builder
	if err := r.Write(batch, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
