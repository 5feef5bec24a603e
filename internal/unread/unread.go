// Package unread computes unread badges for feeds and chat.
package unread

//go:generate mockgen -source=unread.go -destination=mock_source_test.go -package=unread Source

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ElouanDeriaux/suprss/internal/api"
)

const (
	// FeedPageSize is how many articles are fetched per feed to count
	// unread items.
	FeedPageSize = 100

	DefaultConcurrency = 4
	DefaultRate        = 10
)

// Source is the subset of the API client needed for unread counts.
type Source interface {
	ListArticles(ctx context.Context, q api.ArticleQuery) ([]api.Article, error)
	UnreadMessagesSummary(ctx context.Context) (*api.UnreadSummary, error)
}

// FeedCount is the unread count of one feed.
type FeedCount struct {
	FeedID int    `json:"feed_id"`
	Title  string `json:"title"`
	Unread int    `json:"unread"`
	Tier   string `json:"tier"`
}

// CountUnread returns the number of articles not yet read.
func CountUnread(articles []api.Article) int {
	n := 0
	for _, a := range articles {
		if !a.Read {
			n++
		}
	}
	return n
}

// Counter fans out unread lookups over many feeds.
type Counter struct {
	src         Source
	concurrency int
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// NewCounter creates a Counter. concurrency bounds in-flight requests and
// perSecond caps how fast they start. Non-positive values use the
// defaults.
func NewCounter(src Source, concurrency int, perSecond float64, logger *slog.Logger) *Counter {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if perSecond <= 0 {
		perSecond = DefaultRate
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Counter{
		src:         src,
		concurrency: concurrency,
		limiter:     rate.NewLimiter(rate.Limit(perSecond), concurrency),
		logger:      logger,
	}
}

// each runs fn for every index in [0, n) with bounded concurrency and
// rate. Only the limiter's error (a cancelled ctx) or fn's error stops it.
func (c *Counter) each(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := c.limiter.Wait(gctx); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

// FeedCounts returns one count per feed, in the order given. A feed whose
// articles cannot be fetched counts as zero. Only cancellation of ctx is
// returned as an error.
func (c *Counter) FeedCounts(ctx context.Context, feeds []api.Feed) ([]FeedCount, error) {
	out := make([]FeedCount, len(feeds))
	for i, f := range feeds {
		out[i] = FeedCount{FeedID: f.ID, Title: f.Title, Tier: Tier(0)}
	}

	err := c.each(ctx, len(feeds), func(ctx context.Context, i int) error {
		f := feeds[i]
		articles, err := c.src.ListArticles(ctx, api.ArticleQuery{FeedID: f.ID, Limit: FeedPageSize})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("unread count failed", "feed_id", f.ID, "error", err)
			return nil
		}
		n := CountUnread(articles)
		out[i].Unread = n
		out[i].Tier = Tier(n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Total sums the counts.
func Total(counts []FeedCount) int {
	n := 0
	for _, c := range counts {
		n += c.Unread
	}
	return n
}

// Badge tiers.
const (
	TierNone   = "none"
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
)

// Tier buckets an unread count for badge coloring.
func Tier(n int) string {
	switch {
	case n <= 0:
		return TierNone
	case n < 10:
		return TierLow
	case n < 50:
		return TierMedium
	default:
		return TierHigh
	}
}
