package cmd

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ElouanDeriaux/suprss/internal/api"
	"github.com/ElouanDeriaux/suprss/internal/output"
	"github.com/ElouanDeriaux/suprss/internal/unread"
)

var unreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Show unread articles per feed and unread chat messages",
	Long: `Show unread counts. Article counts are computed per feed from the most
recent articles, a few feeds at a time. Chat counts come from the server.

With --watch only the chat counts are shown, refreshed every
unread.poll_interval until interrupted.

Examples:
  suprss unread
  suprss unread --collection 3
  suprss unread --watch`,
	Args: cobra.NoArgs,
	RunE: runUnread,
}

func init() {
	rootCmd.AddCommand(unreadCmd)

	unreadCmd.Flags().Int("collection", 0, "only this collection")
	unreadCmd.Flags().Bool("watch", false, "keep polling chat counts")
	unreadCmd.Flags().Duration("interval", 0, "poll interval for --watch (default: unread.poll_interval)")
	unreadCmd.Flags().Bool("json", false, "output as JSON")
}

type unreadReport struct {
	Feeds    []unread.FeedCount `json:"feeds"`
	Articles int                `json:"articles_unread"`
	Messages *api.UnreadSummary `json:"messages"`
}

func runUnread(cmd *cobra.Command, args []string) error {
	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return runUnreadWatch(cmd)
	}

	printer := newPrinter(cmd)
	client := newAPIClient()
	ctx := cmd.Context()

	collectionID, _ := cmd.Flags().GetInt("collection")
	feeds, err := unreadFeeds(ctx, client, collectionID)
	if err != nil {
		return err
	}

	counter := unread.NewCounter(client, cfg.Unread.Concurrency, cfg.Unread.Rate, logger)
	counts, err := counter.FeedCounts(ctx, feeds)
	if err != nil {
		return err
	}
	summary, err := client.UnreadMessagesSummary(ctx)
	if err != nil {
		return err
	}

	if wantJSON(cmd) {
		summary.Collections = emptyIfNil(summary.Collections)
		return printer.JSON(unreadReport{
			Feeds:    emptyIfNil(counts),
			Articles: unread.Total(counts),
			Messages: summary,
		})
	}

	if len(counts) > 0 {
		printer.Header("Articles")
		table := printer.NewTable([]string{"FEED", "TITLE", "UNREAD"})
		for _, c := range counts {
			table.AddRow([]string{strconv.Itoa(c.FeedID), c.Title, printer.UnreadBadge(c.Unread, c.Tier)})
		}
		table.Render()
		printer.Print("%d unread articles", unread.Total(counts))
	}
	printChatSummary(printer, summary, collectionID)
	printer.PrintHints("unread")
	return nil
}

// unreadFeeds returns the feeds of one collection, or of every collection
// the user can see when collectionID is zero.
func unreadFeeds(ctx context.Context, client *api.Client, collectionID int) ([]api.Feed, error) {
	if collectionID > 0 {
		return client.ListFeeds(ctx, collectionID)
	}
	collections, err := client.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	var feeds []api.Feed
	for _, c := range collections {
		list, err := client.ListFeeds(ctx, c.ID)
		if err != nil {
			if api.IsUnauthorized(err) || ctx.Err() != nil {
				return nil, err
			}
			logger.Warn("skipping collection", "collection_id", c.ID, "error", err)
			continue
		}
		feeds = append(feeds, list...)
	}
	return feeds, nil
}

func printChatSummary(printer *output.Printer, summary *api.UnreadSummary, collectionID int) {
	printer.Header("Messages")
	shown := 0
	table := printer.NewTable([]string{"COLLECTION", "NAME", "UNREAD"})
	for _, c := range summary.Collections {
		if collectionID > 0 && c.CollectionID != collectionID {
			continue
		}
		shown++
		table.AddRow([]string{strconv.Itoa(c.CollectionID), c.CollectionName, printer.UnreadBadge(c.UnreadCount, unread.Tier(c.UnreadCount))})
	}
	if shown > 0 {
		table.Render()
	}
	printer.Print("%d unread messages", summary.TotalUnread)
}

func runUnreadWatch(cmd *cobra.Command) error {
	printer := newPrinter(cmd)
	client := newAPIClient()
	collectionID, _ := cmd.Flags().GetInt("collection")

	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		interval = cfg.Unread.PollInterval
	}
	if interval < time.Second {
		return &output.CLIError{Summary: "--interval must be at least 1s", ExitCode: output.ExitUsageError}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var fatal error
	poller := unread.NewPoller(client, interval, func(err error) {
		if api.IsUnauthorized(err) {
			fatal = err
			cancel()
			return
		}
		logger.Warn("unread poll failed", "error", err)
	})

	jsonOutput := wantJSON(cmd)
	err := poller.Run(ctx, func(summary *api.UnreadSummary) {
		if jsonOutput {
			summary.Collections = emptyIfNil(summary.Collections)
			_ = printer.JSON(summary)
			return
		}
		printer.Print("%s", printer.Dim(time.Now().Format(time.TimeOnly)))
		printChatSummary(printer, summary, collectionID)
	})
	if fatal != nil {
		return fatal
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
