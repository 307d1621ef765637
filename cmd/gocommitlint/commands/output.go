package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// WriteOutput writes the report to outputPath, creating parent directories.
func WriteOutput(cmd *cobra.Command, content, outputPath string) error {
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := appFs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	if err := afero.WriteFile(appFs, outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	if !isQuiet() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to: %s\n", outputPath)
	}
	return nil
}

// DetectFormatFromPath infers the output format from file extension.
func DetectFormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".sarif":
		return "sarif"
	case ".md", ".markdown":
		return "markdown"
	case ".txt", ".log":
		return "text"
	default:
		return ""
	}
}
