package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nodewee/scan-to-text/pkg/cache"
)

// cacheCmd groups the result cache maintenance commands
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the result cache",
	Long: `Successful results are cached by input content, language, confidence threshold
and raster DPI, so re-running the same scan is instant. Failures are never cached.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache location and size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		stats, err := cache.New(cfg.CacheDir, log).Stats()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "📁 Cache dir: %s\n", stats.Dir)
		fmt.Fprintf(out, "📦 Entries:   %d\n", stats.Entries)
		fmt.Fprintf(out, "💾 Size:      %s\n", formatBytes(stats.Bytes))
		if !cfg.CacheEnabled {
			fmt.Fprintln(out, "⚠️  Caching is disabled")
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		removed, err := cache.New(cfg.CacheDir, log).Clear()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🧹 Removed %d cached results\n", removed)
		return nil
	},
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
