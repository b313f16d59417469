package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/eventdeckhq/eventdeck/pkg/config"
)

// configurationShowCmd represents the configuration show command
var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show Eventdeck configuration attributes and their sources",
	Long: `Show Eventdeck configuration attributes and their sources.

The values displayed by this command reflect the current state of the
configuration sources. For example, the environment variables and config
file. These may not reflect the current values used by the running Eventdeck
server. Secret values are redacted.

Config file location: /etc/eventdeck/config/eventdeck.yml (or EVENTDECK_CONFIG_PATH)

Example:
  eventdeckctl configuration show
  eventdeckctl configuration show --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := showConfiguration(cmd.OutOrStdout(), output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationShowCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func showConfiguration(w io.Writer, format string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	switch format {
	case "json":
		out, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, out)
	case "text":
		fmt.Fprint(w, cfg.FormatText())
	default:
		return fmt.Errorf("unknown output format %q, expected text or json", format)
	}
	return nil
}
