package unread

import (
	"context"

	"github.com/ElouanDeriaux/suprss/internal/api"
)

// Refresher triggers a server-side fetch of one feed.
type Refresher interface {
	RefreshFeed(ctx context.Context, id int) (int, error)
}

// RefreshResult is the outcome of refreshing one feed.
type RefreshResult struct {
	FeedID   int    `json:"feed_id"`
	Title    string `json:"title"`
	Inserted int    `json:"inserted"`
	Err      error  `json:"-"`
}

// RefreshFeeds refreshes each feed through r with the Counter's bounds.
// Results keep feed order and carry per-feed errors; only cancellation of
// ctx is returned.
func (c *Counter) RefreshFeeds(ctx context.Context, r Refresher, feeds []api.Feed) ([]RefreshResult, error) {
	out := make([]RefreshResult, len(feeds))
	err := c.each(ctx, len(feeds), func(ctx context.Context, i int) error {
		f := feeds[i]
		out[i] = RefreshResult{FeedID: f.ID, Title: f.Title}
		n, err := r.RefreshFeed(ctx, f.ID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("feed refresh failed", "feed_id", f.ID, "error", err)
			out[i].Err = err
			return nil
		}
		out[i].Inserted = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Inserted sums the articles inserted across results.
func Inserted(results []RefreshResult) int {
	n := 0
	for _, r := range results {
		n += r.Inserted
	}
	return n
}
