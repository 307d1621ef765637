package rules

import (
	"sort"
)

// Overrides adjusts a rule set from user configuration.
type Overrides struct {
	// Rules maps rule names to [severity, when, value]. Known names are
	// replaced in place; new names are appended in name order.
	Rules map[string][]any

	// Disable lists rule names to turn off.
	Disable []string
}

// Empty reports whether the overrides change nothing.
func (o Overrides) Empty() bool {
	return len(o.Rules) == 0 && len(o.Disable) == 0
}

// Apply returns a new rule set with the overrides applied. rs is not modified.
func (o Overrides) Apply(rs *RuleSet) (*RuleSet, error) {
	if o.Empty() {
		return rs, nil
	}

	names := make([]string, 0, len(o.Rules))
	for name := range o.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	child := make([]Entry, 0, len(names))
	for _, name := range names {
		e, err := NewEntryFromList(name, o.Rules[name])
		if err != nil {
			return nil, err
		}
		child = append(child, e)
	}

	entries := mergeEntries(rs.entries, child)

	disabled := make(map[string]bool, len(o.Disable))
	for _, name := range o.Disable {
		if _, ok := Lookup(name); !ok {
			return nil, &LoadError{Rule: name, Err: ErrUnknownRule}
		}
		disabled[name] = true
	}
	for i := range entries {
		if disabled[entries[i].Name] {
			entries[i].Severity = SeverityDisabled
		}
	}

	return New(rs.name, rs.parserPreset, rs.locale, entries)
}

// BySeverity returns the entries at the given severity, keeping rule set order.
func BySeverity(rs *RuleSet, severity Severity) []Entry {
	selected := make([]Entry, 0)
	for _, e := range rs.entries {
		if e.Severity == severity {
			selected = append(selected, e)
		}
	}
	return selected
}
