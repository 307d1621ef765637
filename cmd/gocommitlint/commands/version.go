package commands

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JNZader/gocommitlint/internal/locale"
	"github.com/JNZader/gocommitlint/internal/parser"
	"github.com/JNZader/gocommitlint/internal/rules"
)

// Set at build time with -ldflags "-X .../commands.Version=1.0.0".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the gocommitlint version together with the presets, parser
presets and message locales compiled into the binary.

Examples:
  gocommitlint version
  gocommitlint version --short
  gocommitlint version --json`,

	Args: cobra.NoArgs,
	RunE: runVersion,
}

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false, "print only version number")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "output as JSON")
}

// VersionInfo describes the binary and what it ships with.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`

	Presets       []string `json:"presets"`
	ParserPresets []string `json:"parser_presets"`
	Locales       []string `json:"locales"`
	Rules         int      `json:"rules"`
}

// GetVersionInfo collects the version. A "dev" build installed with
// go install reports its module version instead.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:       Version,
		Commit:        Commit,
		BuildDate:     BuildDate,
		GoVersion:     runtime.Version(),
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
		Presets:       rules.BuiltinPresets(),
		ParserPresets: parser.Presets(),
		Locales:       locale.Available(),
		Rules:         len(rules.Names()),
	}

	if info.Version == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = strings.TrimPrefix(bi.Main.Version, "v")
		}
	}
	return info
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := GetVersionInfo()
	out := cmd.OutOrStdout()

	switch {
	case versionShort:
		fmt.Fprintln(out, info.Version)
	case versionJSON:
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info: %w", err)
		}
		fmt.Fprintln(out, string(data))
	default:
		fmt.Fprintf(out, "gocommitlint version %s\n", info.Version)
		fmt.Fprintf(out, "  Commit:     %s\n", info.Commit)
		fmt.Fprintf(out, "  Built:      %s\n", info.BuildDate)
		fmt.Fprintf(out, "  Go version: %s (%s/%s)\n", info.GoVersion, info.OS, info.Arch)
		fmt.Fprintf(out, "  Presets:    %s\n", strings.Join(info.Presets, ", "))
		fmt.Fprintf(out, "  Parsers:    %s\n", strings.Join(info.ParserPresets, ", "))
		fmt.Fprintf(out, "  Locales:    %s\n", strings.Join(info.Locales, ", "))
		fmt.Fprintf(out, "  Rules:      %d\n", info.Rules)
	}
	return nil
}
