package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodewee/scan-to-text/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tool path configuration",
	Long: `Manage external tool path settings.

Paths are stored in ~/.scan-to-text/config.json (or $SCAN_TEXT_CONFIG_DIR/config.json).
An unset path means the tool is searched on PATH under its usual names.
Every other setting is runtime-only and comes from SCAN_TEXT_* variables or flags.

Examples:
  scan-to-text config list
  scan-to-text config get tesseract_path
  scan-to-text config set ghostscript_path /opt/gs/bin/gs`,
}

// listConfig lists all tool path settings
func listConfig(out io.Writer) error {
	fmt.Fprintln(out, "🛠️  Tool Path Configuration")
	fmt.Fprintln(out, "===========================")

	configPath, err := config.GetConfigFilePath()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "📁 Config file: %s\n\n", configPath)

	for _, key := range config.ListConfigKeys() {
		value, err := config.GetConfigValue(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %-18s = %s\n", key, getDisplayValue(value))
	}

	fmt.Fprintln(out, "\n💡 Tip: Use 'scan-to-text config set <key> <value>' to change tool paths")
	fmt.Fprintln(out, "💡 Tip: Use 'scan-to-text engines' to see which tools were found")
	return nil
}

// getDisplayValue returns a display-friendly value for empty strings
func getDisplayValue(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

// configListCmd represents the 'config list' command
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tool path settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listConfig(cmd.OutOrStdout())
	},
}

// configGetCmd represents the 'config get' command
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific tool path value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := config.GetConfigValue(args[0])
		if err != nil {
			return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.ListConfigKeys(), ", "))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📝 %s = %s\n", args[0], getDisplayValue(value))
		return nil
	},
}

// configSetCmd represents the 'config set' command
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a specific tool path value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetConfigValue(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Successfully set %s = %s\n", args[0], args[1])
		fmt.Fprintln(cmd.OutOrStdout(), "💡 Tip: Make sure the tool is installed and accessible at this path")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
