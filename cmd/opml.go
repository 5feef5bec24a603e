package cmd

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ElouanDeriaux/suprss/internal/output"
)

var opmlCmd = &cobra.Command{
	Use:   "opml",
	Short: "Move subscriptions in and out as OPML",
}

var opmlExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every subscription as OPML",
	Long: `Export every subscription as an OPML file, one outline per collection.
The file is written under the server's suggested name unless --output is
given; --output - writes to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := newPrinter(cmd)
		export, err := newAPIClient().ExportOPML(cmd.Context())
		if err != nil {
			return err
		}

		dest, _ := cmd.Flags().GetString("output")
		if dest == "-" {
			printer.Raw(export.Content)
			return nil
		}
		if dest == "" {
			dest = filepath.Base(export.Filename)
			if dest == "" || dest == "." || dest == string(filepath.Separator) {
				dest = "suprss_export.opml"
			}
		}
		if err := writeFile(dest, []byte(export.Content)); err != nil {
			return err
		}
		printer.Success("Exported to %s", dest)
		printer.PrintHints("opml export")
		return nil
	},
}

var opmlImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import subscriptions from an OPML file",
	Long: `Import an OPML file. Each top-level outline becomes a collection; feeds
you already follow are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".opml" && ext != ".xml" {
			return &output.CLIError{
				Summary:  "only .opml and .xml files can be imported",
				ExitCode: output.ExitUsageError,
			}
		}
		f, err := os.Open(path)
		if err != nil {
			return &output.CLIError{Summary: "cannot read " + path, Detail: err.Error(), ExitCode: output.ExitUsageError}
		}
		defer f.Close()

		printer := newPrinter(cmd)
		res, err := newAPIClient().ImportOPML(cmd.Context(), path, f)
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printer.JSON(res)
		}
		if !res.Success {
			return &output.CLIError{Summary: orDefault(res.Message, "import failed"), ExitCode: output.ExitAPIError}
		}
		printer.Success("%s", orDefault(res.Message, "Import finished"))
		table := printer.NewTable([]string{"COLLECTIONS CREATED", "FEEDS CREATED", "FEEDS SKIPPED"})
		table.AddRow([]string{
			strconv.Itoa(res.Stats.CollectionsCreated),
			strconv.Itoa(res.Stats.FeedsCreated),
			strconv.Itoa(res.Stats.FeedsSkipped),
		})
		table.Render()
		printer.PrintHints("opml import")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(opmlCmd)
	opmlCmd.AddCommand(opmlExportCmd, opmlImportCmd)

	opmlExportCmd.Flags().StringP("output", "o", "", "file to write, or - for stdout")
	opmlImportCmd.Flags().Bool("json", false, "output as JSON")
}
