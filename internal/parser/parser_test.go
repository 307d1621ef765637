package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Header(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		typ      string
		scope    string
		subject  string
		breaking bool
	}{
		{name: "simple", raw: "fix: alguma mensagem", typ: "fix", subject: "alguma mensagem"},
		{name: "with scope", raw: "feat(api): add endpoint", typ: "feat", scope: "api", subject: "add endpoint"},
		{name: "breaking marker", raw: "fix(escopo)!: alguma mensagem", typ: "fix", scope: "escopo", subject: "alguma mensagem", breaking: true},
		{name: "empty type", raw: ": alguma mensagem", typ: "", subject: "alguma mensagem"},
		{name: "uppercase type", raw: "FIX: alguma mensagem", typ: "FIX", subject: "alguma mensagem"},
		{name: "missing space after colon", raw: "fix:", typ: "", subject: ""},
		{name: "not conventional", raw: "update readme", typ: "", subject: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Parse(tt.raw, nil)
			assert.Equal(t, tt.typ, c.Type)
			assert.Equal(t, tt.scope, c.Scope)
			assert.Equal(t, tt.subject, c.Subject)
			assert.Equal(t, tt.breaking, c.Breaking)
			assert.Equal(t, tt.raw, c.Raw)
		})
	}
}

func TestParse_BodyAndFooter(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		body   string
		footer string
		notes  int
	}{
		{
			name: "body only",
			raw:  "fix(escopo): alguma mensagem\n\nbody",
			body: "body",
		},
		{
			name: "body without blank line",
			raw:  "fix: alguma mensagem\nbody",
			body: "body",
		},
		{
			name:   "footer only",
			raw:    "fix(escopo): alguma mensagem\n\nBREAKING CHANGE: mudança significante!",
			footer: "BREAKING CHANGE: mudança significante!",
			notes:  1,
		},
		{
			name:   "footer right after body",
			raw:    "fix: alguma mensagem\n\nbody\nBREAKING CHANGE: mudança significante!",
			body:   "body",
			footer: "BREAKING CHANGE: mudança significante!",
			notes:  1,
		},
		{
			name:   "multi-line note",
			raw:    "fix: alguma mensagem\n\nbody\n\nBREAKING CHANGE: first\nsecond",
			body:   "body",
			footer: "BREAKING CHANGE: first\nsecond",
			notes:  1,
		},
		{
			name:   "reference footer",
			raw:    "fix: alguma mensagem\n\nbody\n\nCloses #12",
			body:   "body",
			footer: "Closes #12",
		},
		{
			name: "crlf line endings",
			raw:  "fix: alguma mensagem\r\n\r\nbody\r\n",
			body: "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Parse(tt.raw, nil)
			assert.Equal(t, tt.body, c.Body)
			assert.Equal(t, tt.footer, c.Footer)
			assert.Len(t, c.Notes, tt.notes)
		})
	}
}

func TestParse_Notes(t *testing.T) {
	c := Parse("feat: x\n\nBREAKING-CHANGE: api removed\nuse v2 instead", nil)

	require.Len(t, c.Notes, 1)
	assert.Equal(t, "BREAKING-CHANGE", c.Notes[0].Title)
	assert.Equal(t, "api removed\nuse v2 instead", c.Notes[0].Text)
	assert.True(t, c.Breaking)
}

func TestParse_BreakingHeaderAddsNote(t *testing.T) {
	c := Parse("feat(api)!: drop v1", nil)

	require.Len(t, c.Notes, 1)
	assert.Equal(t, "BREAKING CHANGE", c.Notes[0].Title)
	assert.Equal(t, "drop v1", c.Notes[0].Text)
}

func TestParse_References(t *testing.T) {
	c := Parse("fix: handle nil (#3)\n\nbody\n\nfixes #12, owner/repo#7", nil)

	require.Len(t, c.References, 3)
	assert.Equal(t, "3", c.References[0].Issue)
	assert.Equal(t, "fixes", c.References[1].Action)
	assert.Equal(t, "12", c.References[1].Issue)
	assert.Equal(t, "owner", c.References[2].Owner)
	assert.Equal(t, "repo", c.References[2].Repository)
	assert.Equal(t, "7", c.References[2].Issue)
}

func TestParse_CommentsDropped(t *testing.T) {
	opts := *MustLoadPreset(PresetConventionalCommits)
	opts.CommentChar = "#"

	c := Parse("fix: x\n\nbody\n# Please enter the commit message\n# Lines starting with '#' are ignored", &opts)

	assert.Equal(t, "body", c.Body)
	assert.Empty(t, c.Footer)
}

func TestParse_HashReferenceKept(t *testing.T) {
	c := Parse("fix: algo\n\ncorpo\n\n#123 fechado", nil)

	assert.Equal(t, "corpo", c.Body)
	assert.Equal(t, "#123 fechado", c.Footer)
	require.Len(t, c.References, 1)
	assert.Equal(t, "123", c.References[0].Issue)
}

func TestParse_Merge(t *testing.T) {
	c := Parse("Merge pull request #1 from owner/branch\n\nfeat: merged thing", nil)

	assert.Equal(t, "Merge pull request #1 from owner/branch", c.Merge)
	assert.Equal(t, "feat: merged thing", c.Header)
	assert.Equal(t, "feat", c.Type)
}

func TestParse_Revert(t *testing.T) {
	c := Parse("Revert \"feat: thing\"\n\nThis reverts commit abc123.", nil)

	require.NotNil(t, c.Revert)
	assert.Equal(t, "feat: thing", c.Revert.Header)
	assert.Equal(t, "abc123", c.Revert.Hash)
}

func TestParse_Empty(t *testing.T) {
	c := Parse("\n\n", nil)

	assert.Empty(t, c.Header)
	assert.Empty(t, c.Type)
	assert.Empty(t, c.Body)
}

func TestLoadPreset(t *testing.T) {
	opts, err := LoadPreset(PresetConventionalCommits)
	require.NoError(t, err)
	assert.Same(t, opts, Default(), "presets are memoized")

	ang, err := LoadPreset(PresetAngular)
	require.NoError(t, err)
	c := Parse("feat!: x", ang)
	assert.Empty(t, c.Type, "angular has no breaking marker")

	_, err = LoadPreset("nope")
	assert.ErrorIs(t, err, ErrUnknownPreset)

	assert.Equal(t, []string{PresetAngular, PresetConventionalCommits}, Presets())
}

func TestToLines(t *testing.T) {
	assert.Equal(t, []string{"a", "", "b"}, ToLines("a\r\n\nb"))
}
