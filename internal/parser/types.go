// Package parser splits raw commit messages into conventional-commit fields.
//
// Parsing never fails: a message whose header does not match the preset's
// header pattern yields a Commit with empty type, scope and subject, and the
// rules that depend on those fields report them as empty.
package parser

import (
	"regexp"
	"strings"
)

// Commit is a commit message decomposed into header, body and footer.
// Absent sections are empty strings.
type Commit struct {
	Raw        string      `json:"raw"`
	Header     string      `json:"header"`
	Type       string      `json:"type,omitempty"`
	Scope      string      `json:"scope,omitempty"`
	Subject    string      `json:"subject,omitempty"`
	Body       string      `json:"body,omitempty"`
	Footer     string      `json:"footer,omitempty"`
	Merge      string      `json:"merge,omitempty"`
	Revert     *Revert     `json:"revert,omitempty"`
	Notes      []Note      `json:"notes,omitempty"`
	References []Reference `json:"references,omitempty"`
	Breaking   bool        `json:"breaking"`
}

// Note is a footer note such as "BREAKING CHANGE: ...".
type Note struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Reference is an issue reference such as "closes #12".
type Reference struct {
	Action     string `json:"action,omitempty"`
	Owner      string `json:"owner,omitempty"`
	Repository string `json:"repository,omitempty"`
	Prefix     string `json:"prefix"`
	Issue      string `json:"issue"`
	Raw        string `json:"raw"`
}

// Revert holds the reverted header and hash of a revert commit.
type Revert struct {
	Header string `json:"header"`
	Hash   string `json:"hash"`
}

// Options is a parser preset: the patterns used to decompose a message.
// Options are immutable once built and safe for concurrent use.
type Options struct {
	Name string

	// HeaderPattern captures the header fields named by HeaderCorrespondence.
	HeaderPattern         *regexp.Regexp
	BreakingHeaderPattern *regexp.Regexp
	HeaderCorrespondence  []string

	NoteKeywords     []string
	IssuePrefixes    []string
	ReferenceActions []string

	RevertPattern *regexp.Regexp
	MergePattern  *regexp.Regexp

	// CommentChar drops lines starting with it. Empty keeps every line,
	// which the built-in presets do: "#123" may open a footer reference.
	CommentChar string

	notesPattern     *regexp.Regexp
	referencePattern *regexp.Regexp
}

// compile builds the derived note and reference patterns.
func (o *Options) compile() *Options {
	keywords := make([]string, len(o.NoteKeywords))
	for i, k := range o.NoteKeywords {
		keywords[i] = regexp.QuoteMeta(k)
	}
	o.notesPattern = regexp.MustCompile(`(?i)^[\s|*]*(` + strings.Join(keywords, "|") + `)[:\s]+(.*)`)

	prefixes := make([]string, len(o.IssuePrefixes))
	for i, p := range o.IssuePrefixes {
		prefixes[i] = regexp.QuoteMeta(p)
	}
	actions := make([]string, len(o.ReferenceActions))
	for i, a := range o.ReferenceActions {
		actions[i] = regexp.QuoteMeta(a)
	}
	o.referencePattern = regexp.MustCompile(
		`(?i)(?:\b(` + strings.Join(actions, "|") + `)\s+)?` +
			`(?:([\w.-]+)/([\w.-]+))?` +
			`(` + strings.Join(prefixes, "|") + `)(\d+)\b`)

	return o
}
