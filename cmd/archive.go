package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ElouanDeriaux/suprss/internal/api"
	"github.com/ElouanDeriaux/suprss/internal/content"
	"github.com/ElouanDeriaux/suprss/internal/output"
)

const archiveDateLayout = "2006-01-02 15:04"

var archiveCmd = &cobra.Command{
	Use:     "archive",
	Aliases: []string{"archives"},
	Short:   "Browse permanent copies of articles",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived articles",
	Args:  cobra.NoArgs,
	RunE:  runArchiveList,
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an archived article",
	Long: `Show an archived article. The original RSS content is used when the
server kept it, otherwise the archived page, cleaned of scripts, navigation
and inline styles. --html prints the cleaned HTML, --text strips it.`,
	Args: cobra.ExactArgs(1),
	RunE: runArchiveShow,
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an archived article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("archive", args[0])
		if err != nil {
			return err
		}
		printer := newPrinter(cmd)
		if err := newAPIClient().DeleteArchive(cmd.Context(), id); err != nil {
			return err
		}
		printer.Success("Archive %d deleted", id)
		return nil
	},
}

var archiveDownloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Download an archived article as a file",
	Long: `Download the export of an archived article. The file is named
<title>_archive.<ext> in the current directory unless --output is given;
--output - writes to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runArchiveDownload,
}

var archiveRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Relink archives whose feed was deleted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := newPrinter(cmd)
		n, err := newAPIClient().RepairArchives(cmd.Context())
		if err != nil {
			return err
		}
		printer.Success("%d archives repaired", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveListCmd, archiveShowCmd, archiveDeleteCmd, archiveDownloadCmd, archiveRepairCmd)

	f := archiveListCmd.Flags()
	f.String("q", "", "search in title and content")
	f.Int("collection", 0, "collection id")
	f.Int("feed", 0, "feed id")
	addPageFlags(archiveListCmd)
	f.Bool("json", false, "output as JSON")

	archiveShowCmd.Flags().Bool("html", false, "print the cleaned HTML")
	archiveShowCmd.Flags().Bool("text", false, "print plain text")
	archiveShowCmd.Flags().Bool("json", false, "output as JSON")
	archiveShowCmd.MarkFlagsMutuallyExclusive("html", "text", "json")

	archiveDownloadCmd.Flags().StringP("output", "o", "", "file to write, or - for stdout")
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	p, all, err := pageFlags(cmd)
	if err != nil {
		return err
	}
	q, _ := cmd.Flags().GetString("q")
	collectionID, _ := cmd.Flags().GetInt("collection")
	feedID, _ := cmd.Flags().GetInt("feed")

	printer := newPrinter(cmd)
	client := newAPIClient()
	archives, err := collectPages(p, all, func(limit, offset int) ([]api.Archive, error) {
		return client.ListArchives(cmd.Context(), api.ArchiveQuery{
			Q:            q,
			CollectionID: collectionID,
			FeedID:       feedID,
			Limit:        limit,
			Offset:       offset,
		})
	})
	if err != nil {
		return err
	}

	if wantJSON(cmd) {
		return printer.JSON(emptyIfNil(archives))
	}
	if len(archives) == 0 {
		printer.Info("The archive is empty. Archive an article with: suprss articles archive <id>")
		return nil
	}
	table := printer.NewTable([]string{"ID", "ARCHIVED", "SITE", "TITLE"}).Limit(3, titleWidth)
	for _, a := range archives {
		archived := ""
		if !a.ArchivedAt.IsZero() {
			archived = a.ArchivedAt.Local().Format(archiveDateLayout)
		}
		table.AddRow([]string{strconv.Itoa(a.ID), archived, content.Host(a.Link), a.Title})
	}
	table.Render()
	printPageFooter(printer, p, all, "suprss archive list")
	printer.PrintHints("archive list")
	return nil
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	id, err := parseID("archive", args[0])
	if err != nil {
		return err
	}
	printer := newPrinter(cmd)
	a, err := newAPIClient().GetArchive(cmd.Context(), id)
	if err != nil {
		return err
	}
	if wantJSON(cmd) {
		return printer.JSON(a)
	}

	body, origin := content.ArchiveBody(a.ContentOriginal, a.ContentHTML)
	if raw, _ := cmd.Flags().GetBool("html"); raw {
		printer.Raw(body)
		return nil
	}

	printer.Header(a.Title)
	if a.Link != "" {
		printer.Print("%s", a.Link)
	}
	source := "archived page"
	if origin == content.OriginRSS {
		source = "original feed content"
	}
	if !a.ArchivedAt.IsZero() {
		printer.Print("%s", printer.Dim(fmt.Sprintf("Archived %s, from the %s", a.ArchivedAt.Local().Format(archiveDateLayout), source)))
	}
	printer.Print("")
	printer.Raw(content.PlainText(body))
	return nil
}

func runArchiveDownload(cmd *cobra.Command, args []string) error {
	id, err := parseID("archive", args[0])
	if err != nil {
		return err
	}
	printer := newPrinter(cmd)
	client := newAPIClient()

	a, err := client.GetArchive(cmd.Context(), id)
	if err != nil {
		return err
	}
	d, err := client.DownloadArchive(cmd.Context(), id, a.Title)
	if err != nil {
		return err
	}

	dest, _ := cmd.Flags().GetString("output")
	if dest == "-" {
		_, err := cmd.OutOrStdout().Write(d.Body)
		return err
	}
	if dest == "" {
		dest = d.Filename()
	}
	if err := writeFile(dest, d.Body); err != nil {
		return err
	}
	printer.Success("Saved %s (%d bytes)", dest, len(d.Body))
	return nil
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &output.CLIError{Summary: "cannot create " + dir, Detail: err.Error(), ExitCode: output.ExitGeneral}
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &output.CLIError{Summary: "cannot write " + path, Detail: err.Error(), ExitCode: output.ExitGeneral}
	}
	return nil
}
