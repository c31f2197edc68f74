package cmd

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodewee/scan-to-text/pkg/ocr/engines"
)

// Version information variables - set by main.go
var (
	version   = "dev"
	gitCommit = "none"
	buildTime = "unknown"
	buildBy   = "unknown"
)

// SetVersionInfo sets the version information from main.go
func SetVersionInfo(v, commit, buildTimeParam, buildByParam string) {
	version = v
	gitCommit = commit
	buildTime = buildTimeParam
	buildBy = buildByParam
}

// GetVersionInfo returns the current version information
func GetVersionInfo() (string, string, string, string) {
	return version, gitCommit, buildTime, buildBy
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		showVersionInfo(cmd.OutOrStdout())
	},
}

// showVersionInfo displays build, runtime and OCR build information
func showVersionInfo(out io.Writer) {
	fmt.Fprintf(out, "🔎 Scan to Text\n")
	fmt.Fprintf(out, "===============\n\n")

	fmt.Fprintf(out, "🔖 Version Information:\n")
	fmt.Fprintf(out, "  Version:     %s\n", version)
	fmt.Fprintf(out, "  Git Commit:  %s\n", gitCommit)
	fmt.Fprintf(out, "  Build Time:  %s\n", buildTime)
	fmt.Fprintf(out, "  Built By:    %s\n", buildBy)
	fmt.Fprintf(out, "\n")

	fmt.Fprintf(out, "⚙️ Runtime Information:\n")
	fmt.Fprintf(out, "  Go Version:  %s\n", runtime.Version())
	fmt.Fprintf(out, "  OS/Arch:     %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(out, "  Tesseract:   libtesseract %s\n", libtesseractStatus())
	fmt.Fprintf(out, "\n")

	if version != "dev" && !strings.Contains(version, "dev") && !strings.Contains(version, "+") {
		fmt.Fprintf(out, "🚀 This is a release build\n")
	} else {
		fmt.Fprintf(out, "🔧 This is a development build\n")
	}
}

func libtesseractStatus() string {
	if err := engines.TesseractLibraryCheck(); err != nil {
		return "not available (" + err.Error() + ")"
	}
	return "linked"
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
