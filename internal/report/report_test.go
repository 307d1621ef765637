package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JNZader/gocommitlint/internal/lint"
	"github.com/JNZader/gocommitlint/internal/rules"
)

func testBatch(messages ...string) *Batch {
	set := rules.MustBuiltin(rules.DefaultPreset)
	b := &Batch{
		Preset:      set.Name(),
		Locale:      set.Locale(),
		Rules:       set.Entries(),
		ToolVersion: "1.2.3",
	}
	for i, msg := range messages {
		source := "stdin"
		if len(messages) > 1 {
			source = strings.Repeat(string(rune('a'+i)), 40)
		}
		b.Entries = append(b.Entries, Entry{Source: source, Report: lint.Lint(msg, set, nil, nil)})
	}
	return b
}

func TestNewReporter(t *testing.T) {
	for _, format := range AvailableFormats() {
		r, err := NewReporter(format, Options{})
		require.NoError(t, err, format)
		assert.Equal(t, format, r.Format())
	}

	r, err := NewReporter("md", Options{})
	require.NoError(t, err)
	assert.Equal(t, "markdown", r.Format())

	_, err = NewReporter("xml", Options{})
	assert.Error(t, err)
}

func TestBatch_Summary(t *testing.T) {
	b := testBatch("foo: alguma mensagem", "fix: alguma mensagem\nbody", "fix: alguma mensagem")

	assert.Equal(t, Summary{Messages: 3, Invalid: 1, Errors: 1, Warnings: 1}, b.Summary())
	assert.False(t, b.Valid())
	assert.True(t, b.HasWarnings())
}

func TestTextReporter_Invalid(t *testing.T) {
	b := testBatch("FIX: alguma mensagem")
	b.HelpURL = "https://example.com/commits"

	out, err := (&TextReporter{}).Generate(b)
	require.NoError(t, err)

	want := "⧗   input: FIX: alguma mensagem\n" +
		"✖   tipo deve ser lower-case [type-case]\n" +
		"✖   tipo deve ser um dos [docs, feat, fix, perf, refactor, style] [type-enum]\n" +
		"\n" +
		"✖   found 2 problems, 0 warnings\n" +
		"ⓘ   Get help: https://example.com/commits\n"
	assert.Equal(t, want, out)
}

func TestTextReporter_WarningsOnly(t *testing.T) {
	out, err := (&TextReporter{}).Generate(testBatch("fix: alguma mensagem\nbody"))
	require.NoError(t, err)

	assert.Contains(t, out, "⚠   corpo da mensagem deve ter uma linha em branco antes [body-leading-blank]")
	assert.Contains(t, out, "⚠   found 0 problems, 1 warnings")
}

func TestTextReporter_ValidIsQuiet(t *testing.T) {
	b := testBatch("fix: alguma mensagem")

	out, err := (&TextReporter{}).Generate(b)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = (&TextReporter{Verbose: true}).Generate(b)
	require.NoError(t, err)
	assert.Contains(t, out, "✔   found 0 problems, 0 warnings")
}

func TestTextReporter_BatchSummary(t *testing.T) {
	out, err := (&TextReporter{}).Generate(testBatch("foo: alguma mensagem", "fix: alguma mensagem"))
	require.NoError(t, err)

	assert.Contains(t, out, strings.Repeat("a", 40)+" foo: alguma mensagem")
	assert.NotContains(t, out, strings.Repeat("b", 40))
	assert.Contains(t, out, "1 of 2 messages invalid, 1 problems, 0 warnings")
}

func TestTextReporter_Color(t *testing.T) {
	out, err := (&TextReporter{Color: true}).Generate(testBatch("foo: alguma mensagem"))
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[31m")
}

func TestJSONReporter_Single(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONReporter{}).Write(testBatch("foo: alguma mensagem"), &buf))

	var got lint.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.False(t, got.Valid)
	require.Len(t, got.Errors, 1)
	assert.Equal(t, "type-enum", got.Errors[0].Name)
	assert.Equal(t, rules.SeverityError, got.Errors[0].Level)
	assert.Equal(t, "foo: alguma mensagem", got.Input)
}

func TestJSONReporter_Many(t *testing.T) {
	out, err := (&JSONReporter{Indent: true}).Generate(testBatch("foo: a", "fix: a"))
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, strings.Repeat("a", 40), got[0]["source"])
	assert.Equal(t, false, got[0]["valid"])
	assert.Equal(t, true, got[1]["valid"])
}

func TestMarkdownReporter(t *testing.T) {
	out, err := (&MarkdownReporter{}).Generate(testBatch("foo: alguma | mensagem", "fix: alguma mensagem\nbody"))
	require.NoError(t, err)

	assert.Contains(t, out, "# Commit Message Lint Report")
	assert.Contains(t, out, "- **Preset:** conventional-ptbr")
	assert.Contains(t, out, "- **Problems:** 1 errors, 1 warnings")
	assert.Contains(t, out, "| `aaaaaaa` foo: alguma \\| mensagem | [ERROR] | `type-enum` |")
	assert.Contains(t, out, "| [WARNING] | `body-leading-blank` |")
}

func TestMarkdownReporter_Clean(t *testing.T) {
	out, err := (&MarkdownReporter{}).Generate(testBatch("fix: alguma mensagem"))
	require.NoError(t, err)
	assert.Contains(t, out, "All commit messages follow the rules.")
	assert.NotContains(t, out, "## Problems")
}

func TestSARIFReporter(t *testing.T) {
	r := &SARIFReporter{newGUID: func() string { return "00000000-0000-0000-0000-000000000001" }}

	out, err := r.Generate(testBatch("FIX: a", "fix: alguma mensagem\nbody"))
	require.NoError(t, err)

	var got sarifReport
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, "2.1.0", got.Version)
	require.Len(t, got.Runs, 1)
	run := got.Runs[0]

	assert.Equal(t, "gocommitlint", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	assert.Len(t, run.Tool.Driver.Rules, 11)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", run.AutomationDetails.GUID)

	require.Len(t, run.Results, 3)
	assert.Equal(t, "type-case", run.Results[0].RuleID)
	assert.Equal(t, "error", run.Results[0].Level)
	assert.Equal(t, "warning", run.Results[2].Level)
	assert.Equal(t, strings.Repeat("b", 40), run.Results[2].Locations[0].PhysicalLocation.ArtifactLocation.URI)
}

func TestSARIFReporter_DefaultGUID(t *testing.T) {
	out, err := (&SARIFReporter{}).Generate(testBatch("fix: a"))
	require.NoError(t, err)

	var got sarifReport
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Runs[0].AutomationDetails.GUID, 36)
	assert.Empty(t, got.Runs[0].Results)
}
