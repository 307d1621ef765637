// Package git reads commit messages from a repository and manages the
// commit-msg hook that runs gocommitlint.
package git

import "context"

// Repository is the subset of git the linter needs.
// Tests substitute their own implementation.
type Repository interface {
	// GetCommits returns the commits reachable from to but not from from,
	// newest first. An empty to means HEAD.
	GetCommits(ctx context.Context, from, to string) ([]Commit, error)

	// GetRepoRoot returns the top-level directory of the work tree.
	GetRepoRoot(ctx context.Context) (string, error)

	// GitDir returns the absolute path of the .git directory.
	GitDir(ctx context.Context) (string, error)
}

// Commit is a commit with its raw message.
type Commit struct {
	Hash        string `json:"hash"`
	ShortHash   string `json:"short_hash"`
	Author      string `json:"author"`
	AuthorEmail string `json:"author_email"`
	Date        string `json:"date"`
	// Message is the full message as stored, header included.
	Message string `json:"message"`
}

// Subject returns the first line of the message.
func (c Commit) Subject() string {
	return firstLine(c.Message)
}
