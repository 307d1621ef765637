package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JNZader/gocommitlint/internal/config"
	"github.com/JNZader/gocommitlint/internal/logger"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and manage gocommitlint configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the current configuration, including values from
config file, environment variables, and defaults.

Examples:
  # Show config in YAML format
  gocommitlint config show

  # Show config as JSON
  gocommitlint config show --json`,

	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a .gocommitlint.yaml with the default settings.

Examples:
  gocommitlint config init
  gocommitlint config init --preset conventional --path ci/.gocommitlint.yaml`,

	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var (
	configShowJSON bool

	configInitPath   string
	configInitForce  bool
	configInitPreset string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output as JSON")

	configInitCmd.Flags().StringVar(&configInitPath, "path", ".gocommitlint.yaml", "file to write")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
	configInitCmd.Flags().StringVar(&configInitPreset, "preset", "", "preset to configure")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	shown := *cfg
	shown.Lint.HelpURL = logger.MaskSecrets(shown.Lint.HelpURL)

	out := cmd.OutOrStdout()
	if configShowJSON {
		data, err := json.MarshalIndent(shown, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	data, err := config.Marshal(&shown)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	initial := config.DefaultConfig()
	initial.Cache.Dir = config.DefaultCacheDir()
	if configInitPreset != "" {
		initial.Lint.Preset = configInitPreset
	}
	if err := initial.Validate(); err != nil {
		return err
	}

	if err := config.WriteFile(appFs, configInitPath, initial, configInitForce); err != nil {
		return err
	}

	if !isQuiet() {
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configInitPath)
	}
	return nil
}
