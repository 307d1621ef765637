package report

import (
	"encoding/json"
	"io"

	"github.com/JNZader/gocommitlint/internal/lint"
)

// JSONReporter writes the lint report object for a single message and an
// array of reports, each with its source, for several.
type JSONReporter struct {
	Indent bool
}

type jsonEntry struct {
	Source string `json:"source,omitempty"`
	lint.Report
}

func (r *JSONReporter) Format() string { return "json" }

func (r *JSONReporter) Generate(batch *Batch) (string, error) {
	return generate(r, batch)
}

func (r *JSONReporter) Write(batch *Batch, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if r.Indent {
		encoder.SetIndent("", "  ")
	}

	if len(batch.Entries) == 1 {
		return encoder.Encode(batch.Entries[0].Report)
	}

	entries := make([]jsonEntry, len(batch.Entries))
	for i, e := range batch.Entries {
		entries[i] = jsonEntry{Source: e.Source, Report: e.Report}
	}
	return encoder.Encode(entries)
}
