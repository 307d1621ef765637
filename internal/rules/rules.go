// Package rules defines the commit message rules, their severities and the
// ordered rule sets (presets) that enable them.
//
// A RuleSet is built once, validated up front and never mutated afterwards.
// The order of its entries is the order results are reported in.
package rules

import (
	"fmt"

	"github.com/JNZader/gocommitlint/internal/parser"
)

// Entry is one configured rule: a definition plus severity, condition and value.
type Entry struct {
	Name     string    `json:"name" yaml:"name"`
	Severity Severity  `json:"level" yaml:"level"`
	When     Condition `json:"when" yaml:"when"`
	Value    any       `json:"value,omitempty" yaml:"value,omitempty"`

	def *Definition
}

// NewEntry validates a rule configuration. Severity and condition accept the
// forms ParseSeverity and ParseCondition do; value is checked against the
// rule's parameter kind.
func NewEntry(name string, severity, when, value any) (Entry, error) {
	def, ok := Lookup(name)
	if !ok {
		return Entry{}, &LoadError{Rule: name, Err: ErrUnknownRule}
	}

	sev, err := ParseSeverity(severity)
	if err != nil {
		return Entry{}, &LoadError{Rule: name, Err: err}
	}

	cond, err := ParseCondition(when)
	if err != nil {
		return Entry{}, &LoadError{Rule: name, Err: err}
	}

	val, err := def.parseValue(value)
	if err != nil {
		return Entry{}, &LoadError{Rule: name, Err: err}
	}

	return Entry{Name: name, Severity: sev, When: cond, Value: val, def: def}, nil
}

// NewEntryFromList builds an entry from the [severity, when, value] form.
func NewEntryFromList(name string, list []any) (Entry, error) {
	if len(list) == 0 || len(list) > 3 {
		return Entry{}, &LoadError{
			Rule: name,
			Err:  fmt.Errorf("%w: expected [severity, when, value], got %d elements", ErrInvalidValue, len(list)),
		}
	}

	var when, value any
	if len(list) > 1 {
		when = list[1]
	}
	if len(list) > 2 {
		value = list[2]
	}
	return NewEntry(name, list[0], when, value)
}

// Enabled reports whether the entry is evaluated at all.
func (e Entry) Enabled() bool {
	return e.Severity != SeverityDisabled
}

// Check reports whether c satisfies the rule.
func (e Entry) Check(c *parser.Commit) bool {
	return e.def.check(c, e.When, e.Value)
}

// Definition returns the rule definition behind the entry.
func (e Entry) Definition() *Definition {
	return e.def
}

// RuleSet is an immutable, ordered collection of configured rules.
type RuleSet struct {
	name         string
	parserPreset string
	locale       string
	entries      []Entry
	index        map[string]int
}

// New builds a rule set. Entries keep the given order; a repeated name is an error.
func New(name, parserPreset, locale string, entries []Entry) (*RuleSet, error) {
	if parserPreset == "" {
		parserPreset = parser.PresetConventionalCommits
	}
	if _, err := parser.LoadPreset(parserPreset); err != nil {
		return nil, fmt.Errorf("rule set %q: %w", name, err)
	}

	rs := &RuleSet{
		name:         name,
		parserPreset: parserPreset,
		locale:       locale,
		entries:      make([]Entry, 0, len(entries)),
		index:        make(map[string]int, len(entries)),
	}

	for _, e := range entries {
		if e.def == nil {
			return nil, &LoadError{Rule: e.Name, Err: fmt.Errorf("entry was not built with NewEntry")}
		}
		if _, dup := rs.index[e.Name]; dup {
			return nil, &LoadError{Rule: e.Name, Err: fmt.Errorf("declared twice in rule set %q", name)}
		}
		rs.index[e.Name] = len(rs.entries)
		rs.entries = append(rs.entries, e)
	}

	return rs, nil
}

// Name returns the rule set name.
func (rs *RuleSet) Name() string { return rs.name }

// ParserPreset returns the name of the parser preset the rules expect.
func (rs *RuleSet) ParserPreset() string { return rs.parserPreset }

// Locale returns the default message locale, possibly empty.
func (rs *RuleSet) Locale() string { return rs.locale }

// Len returns the number of entries, enabled or not.
func (rs *RuleSet) Len() int { return len(rs.entries) }

// Entries returns a copy of the entries in declaration order.
func (rs *RuleSet) Entries() []Entry {
	return append([]Entry(nil), rs.entries...)
}

// Enabled returns the entries that are not disabled, in declaration order.
func (rs *RuleSet) Enabled() []Entry {
	enabled := make([]Entry, 0, len(rs.entries))
	for _, e := range rs.entries {
		if e.Enabled() {
			enabled = append(enabled, e)
		}
	}
	return enabled
}

// Get returns the entry with the given name.
func (rs *RuleSet) Get(name string) (Entry, bool) {
	i, ok := rs.index[name]
	if !ok {
		return Entry{}, false
	}
	return rs.entries[i], true
}
