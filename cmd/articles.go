package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ElouanDeriaux/suprss/internal/api"
	"github.com/ElouanDeriaux/suprss/internal/content"
	"github.com/ElouanDeriaux/suprss/internal/output"
	"github.com/ElouanDeriaux/suprss/internal/pager"
)

// maxAllPages bounds --all so a server that ignores offset cannot loop forever.
const maxAllPages = 1000

var articlesCmd = &cobra.Command{
	Use:     "articles",
	Aliases: []string{"article", "a"},
	Short:   "Read, star and archive articles",
}

var articlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the articles of a feed",
	Long: `List the articles of a feed, newest first.

--read and --starred take true or false; leave them out for no filter.

Examples:
  suprss articles list --feed 4
  suprss articles list --feed 4 --read false --q kubernetes
  suprss articles list --feed 4 --offset 40`,
	Args: cobra.NoArgs,
	RunE: runArticlesList,
}

var articlesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an article",
	Long: `Show an article. The body is printed as plain text by default. --text
extracts the readable part of the page with a readability pass, and --html
prints the stored HTML unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runArticlesShow,
}

var articlesReaderCmd = &cobra.Command{
	Use:   "reader <id>",
	Short: "Show the server's reader view of an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("article", args[0])
		if err != nil {
			return err
		}
		printer := newPrinter(cmd)
		page, err := newAPIClient().ReaderView(cmd.Context(), id)
		if err != nil {
			return err
		}
		if raw, _ := cmd.Flags().GetBool("html"); raw {
			printer.Raw(page)
			return nil
		}
		text := content.ReaderText(page, "")
		if text == "" {
			text = content.PlainText(page)
		}
		printer.Raw(text)
		return nil
	},
}

var articlesArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Save a permanent copy of an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("article", args[0])
		if err != nil {
			return err
		}
		printer := newPrinter(cmd)
		archiveID, err := newAPIClient().ArchiveArticle(cmd.Context(), id)
		if err != nil {
			return err
		}
		printer.Success("Archived as %d", archiveID)
		printer.PrintHints("articles archive")
		return nil
	},
}

var articlesCommentsCmd = &cobra.Command{
	Use:   "comments <id>",
	Short: "List the comments on an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("article", args[0])
		if err != nil {
			return err
		}
		printer := newPrinter(cmd)
		comments, err := newAPIClient().Comments(cmd.Context(), id)
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printer.JSON(emptyIfNil(comments))
		}
		if len(comments) == 0 {
			printer.Info("No comments yet")
			return nil
		}
		printMessages(printer, comments)
		return nil
	},
}

// articleToggle builds the read/unread/star/unstar commands, which differ
// only in the call they make.
func articleToggle(use, short, done string, call func(c *api.Client, ctx context.Context, id int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, a := range args {
				id, err := parseID("article", a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			printer := newPrinter(cmd)
			client := newAPIClient()
			for _, id := range ids {
				if err := call(client, cmd.Context(), id); err != nil {
					return err
				}
			}
			printer.Success("%d %s", len(ids), done)
			return nil
		},
	}
}

var (
	articlesReadCmd   = articleToggle("read", "Mark articles read", "marked read", (*api.Client).MarkRead)
	articlesUnreadCmd = articleToggle("unread", "Mark articles unread", "marked unread", (*api.Client).MarkUnread)
	articlesStarCmd   = articleToggle("star", "Star articles", "starred", (*api.Client).Star)
	articlesUnstarCmd = articleToggle("unstar", "Remove the star from articles", "unstarred", (*api.Client).Unstar)
)

func init() {
	rootCmd.AddCommand(articlesCmd)
	articlesCmd.AddCommand(
		articlesListCmd,
		articlesShowCmd,
		articlesReaderCmd,
		articlesReadCmd,
		articlesUnreadCmd,
		articlesStarCmd,
		articlesUnstarCmd,
		articlesArchiveCmd,
		articlesCommentsCmd,
	)

	f := articlesListCmd.Flags()
	f.Int("feed", 0, "feed id")
	f.String("q", "", "search in title and content")
	f.String("read", "", "filter on read state (true or false)")
	f.String("starred", "", "filter on starred state (true or false)")
	addPageFlags(articlesListCmd)
	f.Bool("json", false, "output as JSON")

	articlesShowCmd.Flags().Bool("text", false, "extract the readable text of the page")
	articlesShowCmd.Flags().Bool("html", false, "print the stored HTML")
	articlesShowCmd.Flags().Bool("json", false, "output as JSON")
	articlesShowCmd.Flags().Bool("no-mark", false, "do not mark the article read")
	articlesShowCmd.MarkFlagsMutuallyExclusive("text", "html", "json")

	articlesReaderCmd.Flags().Bool("html", false, "print the page HTML")
	articlesCommentsCmd.Flags().Bool("json", false, "output as JSON")
}

// addPageFlags registers --limit, --offset and --all.
func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("limit", 0, "rows per page (default: pagination.page_size)")
	cmd.Flags().Int("offset", 0, "rows to skip")
	cmd.Flags().Bool("all", false, "fetch every page")
}

// pageFlags returns a pager positioned from --limit and --offset, and
// whether --all was given.
func pageFlags(cmd *cobra.Command) (*pager.Pager, bool, error) {
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	all, _ := cmd.Flags().GetBool("all")
	if limit < 0 || limit > 100 {
		return nil, false, &output.CLIError{Summary: "--limit must be between 1 and 100", ExitCode: output.ExitUsageError}
	}
	if offset < 0 {
		return nil, false, &output.CLIError{Summary: "--offset cannot be negative", ExitCode: output.ExitUsageError}
	}
	if limit == 0 {
		limit = cfg.Pagination.PageSize
	}
	return pager.At(limit, offset), all, nil
}

// collectPages calls fetch for the pager's page, and for every following
// page when all is set.
func collectPages[T any](p *pager.Pager, all bool, fetch func(limit, offset int) ([]T, error)) ([]T, error) {
	var out []T
	for i := 0; i < maxAllPages; i++ {
		rows, err := fetch(p.Limit, p.Offset)
		if err != nil {
			return nil, err
		}
		p.Observe(len(rows))
		out = append(out, rows...)
		if !all || !p.HasNext() {
			break
		}
		p.Next()
	}
	return out, nil
}

// printPageFooter shows the visible range and how to move between pages.
func printPageFooter(printer *output.Printer, p *pager.Pager, all bool, cmdPath string) {
	if all {
		return
	}
	from, to := p.Range()
	if from == 0 {
		return
	}
	printer.Print("%s", printer.Dim(fmt.Sprintf("Page %d, rows %d-%d", p.Page(), from, to)))
	if p.HasPrev() {
		printer.Print("%s", printer.Dim(fmt.Sprintf("Previous: %s --limit %d --offset %d", cmdPath, p.Limit, max(p.Offset-p.Limit, 0))))
	}
	if p.HasNext() {
		printer.Print("%s", printer.Dim(fmt.Sprintf("Next: %s --limit %d --offset %d", cmdPath, p.Limit, p.Offset+p.Limit)))
	}
}

func runArticlesList(cmd *cobra.Command, args []string) error {
	feedID, err := requiredIntFlag(cmd, "feed")
	if err != nil {
		return err
	}
	readFlag, _ := cmd.Flags().GetString("read")
	read, err := api.ParseTriState(readFlag)
	if err != nil {
		return &output.CLIError{Summary: "--read: " + err.Error(), ExitCode: output.ExitUsageError}
	}
	starredFlag, _ := cmd.Flags().GetString("starred")
	starred, err := api.ParseTriState(starredFlag)
	if err != nil {
		return &output.CLIError{Summary: "--starred: " + err.Error(), ExitCode: output.ExitUsageError}
	}
	p, all, err := pageFlags(cmd)
	if err != nil {
		return err
	}
	q, _ := cmd.Flags().GetString("q")

	printer := newPrinter(cmd)
	client := newAPIClient()
	articles, err := collectPages(p, all, func(limit, offset int) ([]api.Article, error) {
		return client.ListArticles(cmd.Context(), api.ArticleQuery{
			FeedID:  feedID,
			Q:       q,
			Read:    read,
			Starred: starred,
			Limit:   limit,
			Offset:  offset,
		})
	})
	if err != nil {
		return err
	}

	if wantJSON(cmd) {
		return printer.JSON(emptyIfNil(articles))
	}
	if len(articles) == 0 {
		printer.Info("No articles match")
		return nil
	}
	printArticles(printer, articles, true)
	printPageFooter(printer, p, all, fmt.Sprintf("suprss articles list --feed %d", feedID))
	printer.PrintHints("articles list")
	return nil
}

// Display widths of free-text columns.
const (
	titleWidth   = 60
	previewWidth = 80
)

// printArticles renders articles as a table, with an excerpt column when
// preview is set.
func printArticles(printer *output.Printer, articles []api.Article, preview bool) {
	headers := []string{"ID", "", "TITLE"}
	if preview {
		headers = append(headers, "PREVIEW")
	}
	table := printer.NewTable(headers).Limit(2, titleWidth).Limit(3, previewWidth)
	for _, a := range articles {
		flags := printer.Flag(!a.Read, "•") + printer.Flag(a.Starred, "★")
		row := []string{strconv.Itoa(a.ID), flags, a.Title}
		if preview {
			row = append(row, content.Excerpt(a.Content))
		}
		table.AddRow(row)
	}
	table.Render()
}

func runArticlesShow(cmd *cobra.Command, args []string) error {
	id, err := parseID("article", args[0])
	if err != nil {
		return err
	}
	printer := newPrinter(cmd)
	client := newAPIClient()

	a, err := client.GetArticle(cmd.Context(), id)
	if err != nil {
		return err
	}
	if noMark, _ := cmd.Flags().GetBool("no-mark"); !noMark && !a.Read {
		if err := client.MarkRead(cmd.Context(), id); err != nil {
			logger.Warn("failed to mark article read", "article_id", id, "error", err)
		} else {
			a.Read = true
		}
	}

	if wantJSON(cmd) {
		return printer.JSON(a)
	}
	if raw, _ := cmd.Flags().GetBool("html"); raw {
		printer.Raw(a.Content)
		return nil
	}

	body := content.PlainText(a.Content)
	if readable, _ := cmd.Flags().GetBool("text"); readable {
		if text := content.ReaderText(a.Content, a.Link); text != "" {
			body = text
		}
	}

	printer.Header(a.Title)
	meta := []string{}
	if host := content.Host(a.Link); host != "" {
		meta = append(meta, host)
	}
	if a.Starred {
		meta = append(meta, "starred")
	}
	if len(meta) > 0 {
		printer.Print("%s", printer.Dim(strings.Join(meta, " · ")))
	}
	if a.Link != "" {
		printer.Print("%s", a.Link)
	}
	printer.Print("")
	printer.Raw(body)
	return nil
}
