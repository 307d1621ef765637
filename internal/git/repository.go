package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// git log field and record separators. %x1f and %x1e never appear in
// ordinary commit text.
const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"

	logFormat = "--format=%H%x1f%h%x1f%an%x1f%ae%x1f%aI%x1f%B%x1e"
)

// Repo implements Repository using git commands.
type Repo struct {
	path string
}

// NewRepo creates a new Repo.
func NewRepo(path string) (*Repo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	repo := &Repo{path: absPath}
	if _, err := repo.GetRepoRoot(context.Background()); err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	return repo, nil
}

// runGit executes a git command and returns the output.
func (r *Repo) runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.path

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg != "" {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, errMsg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}

	return stdout.String(), nil
}

// GetRepoRoot returns the top-level directory of the work tree.
func (r *Repo) GetRepoRoot(ctx context.Context) (string, error) {
	output, err := r.runGit(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// GitDir returns the absolute path of the repository's .git directory,
// which is where hooks are installed. It follows worktree and submodule
// indirection.
func (r *Repo) GitDir(ctx context.Context) (string, error) {
	output, err := r.runGit(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// GetCommits returns the commits in from..to, newest first. With an empty
// from every commit reachable from to is returned. Merge commits are
// skipped since their messages are generated by git.
func (r *Repo) GetCommits(ctx context.Context, from, to string) ([]Commit, error) {
	output, err := r.runGit(ctx, "log", "--no-merges", logFormat, revRange(from, to), "--")
	if err != nil {
		return nil, err
	}
	return parseCommits(output)
}

func revRange(from, to string) string {
	if to == "" {
		to = "HEAD"
	}
	if from == "" {
		return to
	}
	return from + ".." + to
}

// parseCommits parses git log output written with logFormat.
func parseCommits(output string) ([]Commit, error) {
	var commits []Commit

	for _, entry := range strings.Split(output, recordSep) {
		entry = strings.TrimLeft(entry, "\n")
		if strings.TrimSpace(entry) == "" {
			continue
		}

		parts := strings.SplitN(entry, fieldSep, 6)
		if len(parts) < 6 {
			return nil, fmt.Errorf("malformed git log record %q", firstLine(entry))
		}

		commits = append(commits, Commit{
			Hash:        parts[0],
			ShortHash:   parts[1],
			Author:      parts[2],
			AuthorEmail: parts[3],
			Date:        parts[4],
			Message:     strings.TrimRight(parts[5], "\n"),
		})
	}

	return commits, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
