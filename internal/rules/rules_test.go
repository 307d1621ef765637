package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JNZader/gocommitlint/internal/ensure"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      any
		want    Severity
		wantErr bool
	}{
		{in: 0, want: SeverityDisabled},
		{in: 1, want: SeverityWarning},
		{in: 2, want: SeverityError},
		{in: float64(2), want: SeverityError},
		{in: "off", want: SeverityDisabled},
		{in: "warn", want: SeverityWarning},
		{in: "error", want: SeverityError},
		{in: 3, wantErr: true},
		{in: -1, wantErr: true},
		{in: 1.5, wantErr: true},
		{in: "fatal", wantErr: true},
		{in: nil, wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidSeverity, "input %v", tt.in)
			continue
		}
		require.NoError(t, err, "input %v", tt.in)
		assert.Equal(t, tt.want, got, "input %v", tt.in)
	}
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "off", SeverityDisabled.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(7).String())
}

func TestParseCondition(t *testing.T) {
	c, err := ParseCondition(nil)
	require.NoError(t, err)
	assert.Equal(t, Always, c)

	c, err = ParseCondition("never")
	require.NoError(t, err)
	assert.Equal(t, Never, c)

	_, err = ParseCondition("sometimes")
	assert.ErrorIs(t, err, ErrInvalidCondition)
}

func TestNewEntry(t *testing.T) {
	e, err := NewEntry("type-enum", 2, "always", []any{"feat", "fix"})
	require.NoError(t, err)
	assert.Equal(t, []string{"feat", "fix"}, e.Value)
	assert.True(t, e.Enabled())

	e, err = NewEntry("subject-case", 2, "never", "upper-case")
	require.NoError(t, err)
	assert.Equal(t, []ensure.Case{ensure.UpperCase}, e.Value)

	e, err = NewEntry("subject-full-stop", 2, "never", nil)
	require.NoError(t, err)
	assert.Equal(t, ".", e.Value, "default value")
}

func TestNewEntry_Errors(t *testing.T) {
	tests := []struct {
		name    string
		rule    string
		sev     any
		when    any
		value   any
		wantErr error
	}{
		{name: "unknown rule", rule: "type-colour", sev: 2, when: "always", wantErr: ErrUnknownRule},
		{name: "bad severity", rule: "type-empty", sev: 5, when: "never", wantErr: ErrInvalidSeverity},
		{name: "bad condition", rule: "type-empty", sev: 2, when: "maybe", wantErr: ErrInvalidCondition},
		{name: "missing length", rule: "header-max-length", sev: 2, when: "always", wantErr: ErrInvalidValue},
		{name: "negative length", rule: "header-max-length", sev: 2, when: "always", value: -1, wantErr: ErrInvalidValue},
		{name: "length as list", rule: "header-max-length", sev: 2, when: "always", value: []any{1}, wantErr: ErrInvalidValue},
		{name: "empty enum", rule: "type-enum", sev: 2, when: "always", value: []any{}, wantErr: ErrInvalidValue},
		{name: "non-string enum", rule: "type-enum", sev: 2, when: "always", value: []any{"feat", 3}, wantErr: ErrInvalidValue},
		{name: "unknown case", rule: "type-case", sev: 2, when: "always", value: "title-case", wantErr: ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEntry(tt.rule, tt.sev, tt.when, tt.value)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.rule, loadErr.Rule)
			assert.Contains(t, err.Error(), tt.rule)
		})
	}
}

func TestNewEntryFromList(t *testing.T) {
	e, err := NewEntryFromList("body-leading-blank", []any{1, "always"})
	require.NoError(t, err)
	assert.Equal(t, SeverityWarning, e.Severity)

	e, err = NewEntryFromList("type-empty", []any{0})
	require.NoError(t, err)
	assert.False(t, e.Enabled())

	_, err = NewEntryFromList("type-empty", nil)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestNew_RejectsDuplicates(t *testing.T) {
	a, err := NewEntry("type-empty", 2, "never", nil)
	require.NoError(t, err)

	_, err = New("dup", "", "", []Entry{a, a})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type-empty")
}

func TestNew_UnknownParserPreset(t *testing.T) {
	_, err := New("x", "gitmoji", "", nil)
	assert.Error(t, err)
}

func TestRuleSet_Immutable(t *testing.T) {
	rs := MustBuiltin(DefaultPreset)

	entries := rs.Entries()
	entries[0].Severity = SeverityDisabled

	first := rs.Entries()[0]
	assert.Equal(t, SeverityWarning, first.Severity)
}

func TestOverrides_Apply(t *testing.T) {
	rs := MustBuiltin(DefaultPreset)

	out, err := Overrides{
		Rules: map[string][]any{
			"header-max-length": {2, "always", 72},
			"scope-empty":       {1, "never"},
		},
		Disable: []string{"body-leading-blank"},
	}.Apply(rs)
	require.NoError(t, err)

	e, ok := out.Get("header-max-length")
	require.True(t, ok)
	assert.Equal(t, 72, e.Value)

	names := entryNames(out.Entries())
	assert.Equal(t, "header-max-length", names[4], "overridden rule keeps its position")
	assert.Equal(t, "scope-empty", names[len(names)-1], "new rule is appended")

	bl, _ := out.Get("body-leading-blank")
	assert.False(t, bl.Enabled())

	orig, _ := rs.Get("header-max-length")
	assert.Equal(t, 100, orig.Value, "source rule set untouched")
}

func TestOverrides_Errors(t *testing.T) {
	rs := MustBuiltin(DefaultPreset)

	_, err := Overrides{Disable: []string{"nope"}}.Apply(rs)
	assert.ErrorIs(t, err, ErrUnknownRule)

	_, err = Overrides{Rules: map[string][]any{"type-enum": {2, "always", 7}}}.Apply(rs)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestBySeverity(t *testing.T) {
	rs := MustBuiltin(DefaultPreset)

	warnings := BySeverity(rs, SeverityWarning)
	assert.Equal(t, []string{"body-leading-blank", "footer-leading-blank"}, entryNames(warnings))
}

func entryNames(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
