package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodewee/scan-to-text/pkg/core"
	"github.com/nodewee/scan-to-text/pkg/types"
)

var enginesJSON bool

// enginesCmd reports which engines this machine can run
var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "Show OCR engine availability and candidate order",
	Long: `Probe every known OCR engine and show which are usable here, the external
tools that were found, and the order in which engines are tried for PDFs and images.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		report := core.NewFileProcessor(cfg, log).EngineReport()

		if enginesJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		printEngineReport(cmd, report)
		return nil
	},
}

func printEngineReport(cmd *cobra.Command, report core.EngineReport) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "🔍 OCR Engines")
	fmt.Fprintln(out, "==============")
	for _, e := range report.Engines {
		mark := "❌"
		if e.Available {
			mark = "✅"
		}
		kinds := make([]string, len(e.SupportedKinds))
		for i, k := range e.SupportedKinds {
			kinds[i] = string(k)
		}
		fmt.Fprintf(out, "  %s %-14s %-10s %s\n", mark, e.Name, strings.Join(kinds, ","), e.Description)
	}

	available := "none"
	if len(report.Available) > 0 {
		available = strings.Join(report.Available, ", ")
	}
	fmt.Fprintf(out, "\n✅ Available: %s\n", available)

	fmt.Fprintln(out, "\n🛠️  Tools:")
	for _, name := range sortedKeys(report.Tools) {
		state := "missing"
		if report.Tools[name] {
			state = "found"
		}
		fmt.Fprintf(out, "  %-12s %s\n", name, state)
	}
	fmt.Fprintf(out, "  rasterizer   %v\n", report.RasterizerAvailable)

	fmt.Fprintln(out, "\n📋 Candidate order:")
	for _, kind := range []types.DocumentKind{types.DocumentKindPDF, types.DocumentKindImage} {
		if names, ok := report.Candidates[kind]; ok {
			fmt.Fprintf(out, "  %-6s %s\n", kind, strings.Join(names, " → "))
		} else {
			fmt.Fprintf(out, "  %-6s %s\n", kind, report.Unavailable[kind])
		}
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	enginesCmd.Flags().BoolVar(&enginesJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(enginesCmd)
}
