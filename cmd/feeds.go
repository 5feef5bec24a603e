package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ElouanDeriaux/suprss/internal/api"
	"github.com/ElouanDeriaux/suprss/internal/content"
	"github.com/ElouanDeriaux/suprss/internal/discovery"
	"github.com/ElouanDeriaux/suprss/internal/output"
	"github.com/ElouanDeriaux/suprss/internal/unread"
)

var feedsCmd = &cobra.Command{
	Use:     "feeds",
	Aliases: []string{"feed"},
	Short:   "Manage the feeds of a collection",
}

var feedsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the feeds of a collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionID, err := requiredIntFlag(cmd, "collection")
		if err != nil {
			return err
		}
		printer := newPrinter(cmd)
		feeds, err := newAPIClient().ListFeeds(cmd.Context(), collectionID)
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printer.JSON(emptyIfNil(feeds))
		}
		if len(feeds) == 0 {
			printer.Info("No feeds in this collection. Try: suprss feeds suggested")
			return nil
		}
		table := printer.NewTable([]string{"ID", "TITLE", "HOST", "URL"}).Limit(1, titleWidth)
		for _, f := range feeds {
			table.AddRow([]string{strconv.Itoa(f.ID), f.Title, content.Host(f.URL), f.URL})
		}
		table.Render()
		printer.PrintHints("feeds list")
		return nil
	},
}

var feedsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "List the feeds of a collection with unread counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionID, err := requiredIntFlag(cmd, "collection")
		if err != nil {
			return err
		}
		printer := newPrinter(cmd)
		summary, err := newAPIClient().FeedsSummary(cmd.Context(), collectionID)
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printer.JSON(emptyIfNil(summary))
		}
		table := printer.NewTable([]string{"ID", "TITLE", "UNREAD"})
		total := 0
		for _, f := range summary {
			total += f.Unread
			table.AddRow([]string{strconv.Itoa(f.ID), f.Title, printer.UnreadBadge(f.Unread, unread.Tier(f.Unread))})
		}
		table.Render()
		printer.Print("%d unread in %d feeds", total, len(summary))
		return nil
	},
}

var feedsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("feed", args[0])
		if err != nil {
			return err
		}
		printer := newPrinter(cmd)
		f, err := newAPIClient().GetFeed(cmd.Context(), id)
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printer.JSON(f)
		}
		table := printer.NewTable([]string{"FIELD", "VALUE"})
		table.AddRow([]string{"id", strconv.Itoa(f.ID)})
		table.AddRow([]string{"title", f.Title})
		table.AddRow([]string{"url", f.URL})
		table.AddRow([]string{"description", content.Snippet(f.Description, 120)})
		table.AddRow([]string{"collection", strconv.Itoa(f.CollectionID)})
		table.Render()
		return nil
	},
}

var feedsAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Subscribe a collection to a feed",
	Long: `Subscribe a collection to an RSS or Atom feed. Unless --no-probe is given,
the feed is fetched first to check it parses and to fill in a missing title
and description.

Examples:
  suprss feeds add --collection 3 https://news.ycombinator.com/rss
  suprss feeds add --collection 3 --title "HN" --no-probe https://news.ycombinator.com/rss`,
	Args: cobra.ExactArgs(1),
	RunE: runFeedsAdd,
}

var feedsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Unsubscribe and delete a feed's articles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("feed", args[0])
		if err != nil {
			return err
		}
		printer := newPrinter(cmd)
		msg, err := newAPIClient().DeleteFeed(cmd.Context(), id)
		if err != nil {
			return err
		}
		printer.Success("%s", orDefault(msg, "Feed deleted"))
		return nil
	},
}

var feedsRefreshCmd = &cobra.Command{
	Use:   "refresh <id>",
	Short: "Fetch new articles for a feed now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("feed", args[0])
		if err != nil {
			return err
		}
		printer := newPrinter(cmd)
		n, err := newAPIClient().RefreshFeed(cmd.Context(), id)
		if err != nil {
			return err
		}
		printer.Success("%d new articles", n)
		return nil
	},
}

var feedsRefreshAllCmd = &cobra.Command{
	Use:   "refresh-all",
	Short: "Fetch new articles for every feed of a collection",
	Long: `Refresh every feed of a collection. By default the server does it in one
call. With --client-side each feed is refreshed separately, a few at a time,
and failures are reported per feed.`,
	Args: cobra.NoArgs,
	RunE: runFeedsRefreshAll,
}

var feedsMarkReadCmd = &cobra.Command{
	Use:   "mark-read <id>",
	Short: "Mark every article of a feed read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("feed", args[0])
		if err != nil {
			return err
		}
		printer := newPrinter(cmd)
		n, err := newAPIClient().MarkAllRead(cmd.Context(), id)
		if err != nil {
			return err
		}
		printer.Success("%d articles marked read", n)
		return nil
	},
}

var feedsMarkUnreadCmd = &cobra.Command{
	Use:   "mark-unread <id>",
	Short: "Mark every article of a feed unread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("feed", args[0])
		if err != nil {
			return err
		}
		printer := newPrinter(cmd)
		n, err := newAPIClient().MarkAllUnread(cmd.Context(), id)
		if err != nil {
			return err
		}
		printer.Success("%d articles marked unread", n)
		return nil
	},
}

var feedsSuggestedCmd = &cobra.Command{
	Use:   "suggested",
	Short: "List suggested feeds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := newPrinter(cmd)
		list := discovery.Suggested()
		if wantJSON(cmd) {
			return printer.JSON(list)
		}
		table := printer.NewTable([]string{"CATEGORY", "TITLE", "URL"})
		for _, s := range list {
			table.AddRow([]string{s.Category, s.Title, s.URL})
		}
		table.Render()
		printer.PrintHints("feeds suggested")
		return nil
	},
}

var feedsProbeCmd = &cobra.Command{
	Use:   "probe <url>",
	Short: "Fetch a feed URL and show what it contains",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := newPrinter(cmd)
		res, err := newProber().Probe(cmd.Context(), args[0])
		if err != nil {
			return probeError(args[0], err)
		}
		if wantJSON(cmd) {
			return printer.JSON(res)
		}
		table := printer.NewTable([]string{"FIELD", "VALUE"})
		table.AddRow([]string{"title", res.Title})
		table.AddRow([]string{"description", content.Snippet(res.Description, 120)})
		table.AddRow([]string{"type", res.FeedType})
		table.AddRow([]string{"items", strconv.Itoa(res.Items)})
		table.AddRow([]string{"site", res.Link})
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(feedsCmd)
	feedsCmd.AddCommand(
		feedsListCmd,
		feedsSummaryCmd,
		feedsShowCmd,
		feedsAddCmd,
		feedsDeleteCmd,
		feedsRefreshCmd,
		feedsRefreshAllCmd,
		feedsMarkReadCmd,
		feedsMarkUnreadCmd,
		feedsSuggestedCmd,
		feedsProbeCmd,
	)

	for _, c := range []*cobra.Command{feedsListCmd, feedsSummaryCmd, feedsAddCmd, feedsRefreshAllCmd} {
		c.Flags().Int("collection", 0, "collection id")
	}
	for _, c := range []*cobra.Command{feedsListCmd, feedsSummaryCmd, feedsShowCmd, feedsAddCmd, feedsRefreshAllCmd, feedsSuggestedCmd, feedsProbeCmd} {
		c.Flags().Bool("json", false, "output as JSON")
	}
	feedsAddCmd.Flags().String("title", "", "feed title (default: from the feed)")
	feedsAddCmd.Flags().String("description", "", "feed description (default: from the feed)")
	feedsAddCmd.Flags().Bool("no-probe", false, "do not fetch the feed before subscribing")
	feedsRefreshAllCmd.Flags().Bool("client-side", false, "refresh feeds one by one from this machine")
}

func newProber() *discovery.Prober {
	return discovery.NewProber(nil, logger)
}

func probeError(link string, err error) error {
	return &output.CLIError{
		Summary:    fmt.Sprintf("could not use %s as a feed", link),
		Detail:     err.Error(),
		Suggestion: "Check the URL, or pass --no-probe to let the server try",
		ExitCode:   output.ExitUsageError,
	}
}

func runFeedsAdd(cmd *cobra.Command, args []string) error {
	collectionID, err := requiredIntFlag(cmd, "collection")
	if err != nil {
		return err
	}
	printer := newPrinter(cmd)

	link := args[0]
	if err := discovery.ValidateURL(link); err != nil {
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
	}

	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")

	if noProbe, _ := cmd.Flags().GetBool("no-probe"); !noProbe {
		res, err := newProber().Probe(cmd.Context(), link)
		if err != nil {
			return probeError(link, err)
		}
		if title == "" {
			title = res.Title
		}
		if description == "" {
			description = res.Description
		}
		printer.Info("Found %s feed with %d items", res.FeedType, res.Items)
	}
	if title == "" {
		title = content.Host(link)
	}

	nf := api.NewFeed{URL: link, Title: title, CollectionID: collectionID}
	if description != "" {
		nf.Description = &description
	}
	f, err := newAPIClient().CreateFeed(cmd.Context(), nf)
	if err != nil {
		return err
	}
	if wantJSON(cmd) {
		return printer.JSON(f)
	}
	printer.Success("Subscribed to %q (id %d)", f.Title, f.ID)
	printer.PrintHints("feeds add")
	return nil
}

func runFeedsRefreshAll(cmd *cobra.Command, args []string) error {
	collectionID, err := requiredIntFlag(cmd, "collection")
	if err != nil {
		return err
	}
	printer := newPrinter(cmd)
	client := newAPIClient()

	if clientSide, _ := cmd.Flags().GetBool("client-side"); !clientSide {
		n, err := client.RefreshCollection(cmd.Context(), collectionID)
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printer.JSON(map[string]int{"inserted": n})
		}
		printer.Success("%d new articles", n)
		return nil
	}

	feeds, err := client.ListFeeds(cmd.Context(), collectionID)
	if err != nil {
		return err
	}
	counter := unread.NewCounter(client, cfg.Unread.Concurrency, cfg.Unread.Rate, logger)
	results, err := counter.RefreshFeeds(cmd.Context(), client, feeds)
	if err != nil {
		return err
	}
	if wantJSON(cmd) {
		return printer.JSON(emptyIfNil(results))
	}

	table := printer.NewTable([]string{"ID", "TITLE", "NEW", "ERROR"})
	failed := 0
	for _, r := range results {
		errText := ""
		if r.Err != nil {
			failed++
			errText = api.ErrorMessage(r.Err)
			if errText == "" {
				errText = r.Err.Error()
			}
		}
		table.AddRow([]string{strconv.Itoa(r.FeedID), r.Title, strconv.Itoa(r.Inserted), errText})
	}
	table.Render()
	if failed > 0 {
		printer.Warning("%d of %d feeds failed to refresh", failed, len(results))
	}
	printer.Success("%d new articles", unread.Inserted(results))
	return nil
}
