package git

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// DefaultEditFile is the message file git writes before running commit-msg.
const DefaultEditFile = ".git/COMMIT_EDITMSG"

// scissors marks the start of the diff appended by "git commit --verbose".
// Everything from this line on is not part of the message.
const scissors = "# ------------------------ >8 ------------------------"

const commentChar = "#"

// ReadEditFile reads a commit message file such as .git/COMMIT_EDITMSG.
// Relative paths are resolved against root. CRLF line endings are
// normalized and the verbose diff below the scissors line is dropped.
// Lines starting with '#' are git's instructions and are dropped, as git's
// default cleanup does.
func ReadEditFile(fs afero.Fs, root, path string) (string, error) {
	if path == "" {
		path = DefaultEditFile
	}
	if !filepath.IsAbs(path) && root != "" {
		path = filepath.Join(root, path)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("reading edit file: %w", err)
	}

	msg := strings.ReplaceAll(string(data), "\r\n", "\n")
	if i := strings.Index(msg, scissors); i >= 0 && (i == 0 || msg[i-1] == '\n') {
		msg = msg[:i]
	}

	lines := strings.Split(msg, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, commentChar) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimRight(strings.Join(kept, "\n"), "\n"), nil
}
