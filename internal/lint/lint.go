// Package lint evaluates commit messages against a rule set.
//
// Evaluation never fails: a message that does not parse simply leaves the
// header fields empty, and the rules that care about them report it. Enabled
// rules run in declaration order and only failures are reported.
package lint

import (
	"github.com/JNZader/gocommitlint/internal/locale"
	"github.com/JNZader/gocommitlint/internal/parser"
	"github.com/JNZader/gocommitlint/internal/rules"
)

// Result is one failed rule. Valid is always false for reported results; it
// is kept so the JSON shape matches commitlint's.
type Result struct {
	Level   rules.Severity `json:"level"`
	Message string         `json:"message"`
	Name    string         `json:"name"`
	Valid   bool           `json:"valid"`
}

// Report is the outcome of linting one message.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []Result `json:"errors"`
	Warnings []Result `json:"warnings"`
	Input    string   `json:"input"`
}

// Problems returns errors followed by warnings.
func (r Report) Problems() []Result {
	out := make([]Result, 0, len(r.Errors)+len(r.Warnings))
	out = append(out, r.Errors...)
	return append(out, r.Warnings...)
}

// HasWarnings reports whether any warning-level rule failed.
func (r Report) HasWarnings() bool {
	return len(r.Warnings) > 0
}

func (r Report) clone() Report {
	r.Errors = append([]Result{}, r.Errors...)
	r.Warnings = append([]Result{}, r.Warnings...)
	return r
}

// Lint parses message with opts and evaluates set against it, rendering
// messages from cat. Nil opts and cat are resolved from the rule set's
// parser preset and locale.
func Lint(message string, set *rules.RuleSet, opts *parser.Options, cat *locale.Catalog) Report {
	if opts == nil {
		opts = parser.MustLoadPreset(set.ParserPreset())
	}
	if cat == nil {
		cat = locale.MustLoad(set.Locale())
	}
	return evaluate(message, set.Enabled(), opts, cat)
}

func evaluate(message string, entries []rules.Entry, opts *parser.Options, cat *locale.Catalog) Report {
	commit := parser.Parse(message, opts)

	report := Report{
		Errors:   []Result{},
		Warnings: []Result{},
		Input:    message,
	}

	for _, e := range entries {
		if e.Check(commit) {
			continue
		}

		text, err := cat.Message(e.Name, e.When, e.Value)
		if err != nil {
			text = e.Name
		}

		res := Result{Level: e.Severity, Message: text, Name: e.Name, Valid: false}
		if e.Severity == rules.SeverityError {
			report.Errors = append(report.Errors, res)
		} else {
			report.Warnings = append(report.Warnings, res)
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}
