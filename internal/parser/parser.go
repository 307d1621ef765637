package parser

import (
	"regexp"
	"strings"
)

var lineSplit = regexp.MustCompile(`\r?\n`)

const breakingChangeTitle = "BREAKING CHANGE"

// Parse decomposes raw with the given preset. A nil preset means Default().
func Parse(raw string, opts *Options) *Commit {
	if opts == nil {
		opts = Default()
	}

	c := &Commit{Raw: raw}

	lines := opts.lines(raw)
	if len(lines) == 0 {
		return c
	}

	// Merge commits carry the real header on the next non-blank line
	if opts.MergePattern != nil && opts.MergePattern.MatchString(lines[0]) {
		c.Merge = lines[0]
		lines = lines[1:]
		for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
			lines = lines[1:]
		}
		if len(lines) == 0 {
			return c
		}
	}

	c.Header = lines[0]
	opts.parseHeader(c)
	c.References = append(c.References, opts.references(c.Header)...)

	opts.parseSections(c, lines[1:])

	if opts.RevertPattern != nil {
		if m := opts.RevertPattern.FindStringSubmatch(strings.Join(lines, "\n")); m != nil {
			c.Revert = &Revert{Header: m[1], Hash: m[2]}
		}
	}

	c.Breaking = c.Breaking || len(c.Notes) > 0

	return c
}

// ToLines splits text on \n or \r\n.
func ToLines(text string) []string {
	return lineSplit.Split(text, -1)
}

// lines returns the message lines without surrounding newlines and comments.
func (o *Options) lines(raw string) []string {
	trimmed := trimNewlines(raw)
	if trimmed == "" {
		return nil
	}

	all := ToLines(trimmed)
	if o.CommentChar == "" {
		return all
	}

	kept := all[:0:0]
	for _, line := range all {
		if strings.HasPrefix(line, o.CommentChar) {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

func (o *Options) parseHeader(c *Commit) {
	if o.HeaderPattern == nil {
		return
	}

	m := o.HeaderPattern.FindStringSubmatch(c.Header)
	if m == nil {
		return
	}

	for i, field := range o.HeaderCorrespondence {
		if i+1 >= len(m) {
			break
		}
		switch field {
		case "type":
			c.Type = m[i+1]
		case "scope":
			c.Scope = m[i+1]
		case "subject":
			c.Subject = m[i+1]
		}
	}

	if o.BreakingHeaderPattern != nil && o.BreakingHeaderPattern.MatchString(c.Header) {
		c.Breaking = true
	}
}

// parseSections assigns the lines after the header to body, footer and notes.
// Everything is body until the first note or reference line; from then on
// lines belong to the footer.
func (o *Options) parseSections(c *Commit, lines []string) {
	var body, footer []string
	inBody := true
	continueNote := false

	for _, line := range lines {
		if m := o.notesPattern.FindStringSubmatch(line); m != nil {
			inBody = false
			continueNote = true
			footer = append(footer, line)
			c.Notes = append(c.Notes, Note{Title: m[1], Text: m[2]})
			continue
		}

		if refs := o.references(line); len(refs) > 0 {
			inBody = false
			continueNote = false
			footer = append(footer, line)
			c.References = append(c.References, refs...)
			continue
		}

		if continueNote {
			note := &c.Notes[len(c.Notes)-1]
			note.Text += "\n" + line
			footer = append(footer, line)
			continue
		}

		if inBody {
			body = append(body, line)
		} else {
			footer = append(footer, line)
		}
	}

	c.Body = trimNewlines(strings.Join(body, "\n"))
	c.Footer = trimNewlines(strings.Join(footer, "\n"))

	for i := range c.Notes {
		c.Notes[i].Text = trimNewlines(c.Notes[i].Text)
	}

	if c.Breaking && !hasBreakingNote(c.Notes) {
		c.Notes = append(c.Notes, Note{Title: breakingChangeTitle, Text: c.Subject})
	}
}

func (o *Options) references(line string) []Reference {
	if o.referencePattern == nil {
		return nil
	}

	var refs []Reference
	for _, m := range o.referencePattern.FindAllStringSubmatch(line, -1) {
		refs = append(refs, Reference{
			Action:     m[1],
			Owner:      m[2],
			Repository: m[3],
			Prefix:     m[4],
			Issue:      m[5],
			Raw:        strings.TrimSpace(m[0]),
		})
	}
	return refs
}

func hasBreakingNote(notes []Note) bool {
	for _, n := range notes {
		if strings.EqualFold(strings.ReplaceAll(n.Title, "-", " "), breakingChangeTitle) {
			return true
		}
	}
	return false
}

func trimNewlines(s string) string {
	return strings.Trim(s, "\r\n")
}
