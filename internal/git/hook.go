package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	hookName   = "commit-msg"
	hookMarker = "# installed by gocommitlint"
)

// ErrHookExists is returned when a commit-msg hook not written by
// gocommitlint is already present.
var ErrHookExists = errors.New("commit-msg hook already exists")

// HookOptions configures InstallHook.
type HookOptions struct {
	// Command is the executable the hook runs. Defaults to "gocommitlint".
	Command string
	// Args are extra flags passed before --edit, e.g. a config file.
	Args []string
	// Force replaces a foreign hook. The old one is kept with a .bak suffix.
	Force bool
}

// HookScript renders the commit-msg hook body.
func HookScript(opts HookOptions) string {
	command := opts.Command
	if command == "" {
		command = "gocommitlint"
	}

	parts := []string{shellQuote(command), "lint"}
	for _, a := range opts.Args {
		parts = append(parts, shellQuote(a))
	}
	parts = append(parts, "--edit", `"$1"`)

	return "#!/bin/sh\n" + hookMarker + "\nexec " + strings.Join(parts, " ") + "\n"
}

// InstallHook writes the commit-msg hook into gitDir/hooks and returns its
// path. A hook previously installed by gocommitlint is overwritten.
func InstallHook(fs afero.Fs, gitDir string, opts HookOptions) (string, error) {
	dir := filepath.Join(gitDir, "hooks")
	path := filepath.Join(dir, hookName)

	existing, err := afero.ReadFile(fs, path)
	switch {
	case err == nil && !strings.Contains(string(existing), hookMarker):
		if !opts.Force {
			return "", fmt.Errorf("%w: %s", ErrHookExists, path)
		}
		if err := afero.WriteFile(fs, path+".bak", existing, 0o755); err != nil {
			return "", fmt.Errorf("backing up hook: %w", err)
		}
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("reading hook: %w", err)
	}

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating hooks dir: %w", err)
	}
	if err := afero.WriteFile(fs, path, []byte(HookScript(opts)), 0o755); err != nil {
		return "", fmt.Errorf("writing hook: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := fs.Chmod(path, 0o755); err != nil {
		return "", fmt.Errorf("making hook executable: %w", err)
	}

	return path, nil
}

// UninstallHook removes a hook written by InstallHook and restores a backup
// if there is one. Foreign hooks are left alone.
func UninstallHook(fs afero.Fs, gitDir string) error {
	path := filepath.Join(gitDir, "hooks", hookName)

	existing, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading hook: %w", err)
	}
	if !strings.Contains(string(existing), hookMarker) {
		return fmt.Errorf("%w: %s was not installed by gocommitlint", ErrHookExists, path)
	}

	if err := fs.Remove(path); err != nil {
		return fmt.Errorf("removing hook: %w", err)
	}
	if ok, _ := afero.Exists(fs, path+".bak"); ok {
		if err := fs.Rename(path+".bak", path); err != nil {
			return fmt.Errorf("restoring hook: %w", err)
		}
	}
	return nil
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`&|;<>()*?[]#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
