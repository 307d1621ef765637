package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JNZader/gocommitlint/internal/git"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the commit-msg hook",
	Long: `Install a git commit-msg hook that runs "gocommitlint lint --edit".

An existing hook not written by gocommitlint is left alone unless --force
is given, in which case it is kept as commit-msg.bak.

Examples:
  gocommitlint install
  gocommitlint install --uninstall`,

	Args: cobra.NoArgs,
	RunE: runInstall,
}

var (
	installForce     bool
	installUninstall bool
	installCommand   string

	// gitDirFunc locates the .git directory. Tests replace it.
	gitDirFunc = func(ctx context.Context, repoPath string) (string, error) {
		repo, err := git.NewRepo(repoPath)
		if err != nil {
			return "", err
		}
		return repo.GitDir(ctx)
	}
)

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().BoolVar(&installForce, "force", false, "replace an existing commit-msg hook")
	installCmd.Flags().BoolVar(&installUninstall, "uninstall", false, "remove the hook")
	installCmd.Flags().StringVar(&installCommand, "command", "gocommitlint", "executable the hook runs")
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	gitDir, err := gitDirFunc(ctx, cfg.Git.RepoPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if installUninstall {
		if err := git.UninstallHook(appFs, gitDir); err != nil {
			return err
		}
		if !isQuiet() {
			fmt.Fprintln(out, "Removed commit-msg hook")
		}
		return nil
	}

	opts := git.HookOptions{Command: installCommand, Force: installForce}
	if cfgFile != "" {
		abs, err := filepath.Abs(cfgFile)
		if err != nil {
			return err
		}
		opts.Args = []string{"--config", abs}
	}

	path, err := git.InstallHook(appFs, gitDir, opts)
	if err != nil {
		return err
	}
	log.Debug("hook written to %s", path)

	if !isQuiet() {
		fmt.Fprintf(out, "Installed commit-msg hook at %s\n", path)
	}
	return nil
}
