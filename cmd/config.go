package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long: `Display the configuration after defaults, config file, SUPRSS_*
environment variables and flags are applied.

Examples:
  suprss config                # Show all settings
  suprss config --path         # Show config file path
  suprss config --json         # Output as JSON`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().Bool("path", false, "show config file path")
	configCmd.Flags().Bool("json", false, "output as JSON")
}

func runConfig(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	if showPath, _ := cmd.Flags().GetBool("path"); showPath {
		if cfgUsed == "" {
			printer.Info("No config file found (using defaults)")
		} else {
			printer.Raw(cfgUsed)
		}
		return nil
	}

	if wantJSON(cmd) {
		return printer.JSON(cfg)
	}

	printer.Header("Current Configuration")
	table := printer.NewTable([]string{"KEY", "VALUE"})
	table.AddRow([]string{"api.base_url", cfg.API.BaseURL})
	table.AddRow([]string{"api.timeout", cfg.API.Timeout.String()})
	table.AddRow([]string{"session.file", sessionPath()})
	table.AddRow([]string{"pagination.page_size", fmt.Sprintf("%d", cfg.Pagination.PageSize)})
	table.AddRow([]string{"unread.poll_interval", cfg.Unread.PollInterval.String()})
	table.AddRow([]string{"unread.concurrency", fmt.Sprintf("%d", cfg.Unread.Concurrency)})
	table.AddRow([]string{"unread.rate", fmt.Sprintf("%g", cfg.Unread.Rate)})
	table.AddRow([]string{"logging.level", cfg.Logging.Level})
	table.AddRow([]string{"logging.format", cfg.Logging.Format})
	table.AddRow([]string{"output.colors", fmt.Sprintf("%v", cfg.Output.Colors)})
	table.Render()

	if cfgUsed != "" {
		printer.Print("")
		printer.Print("Loaded from %s", cfgUsed)
	}
	return nil
}
