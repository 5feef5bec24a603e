package unread

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/ElouanDeriaux/suprss/internal/api"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func articles(read ...bool) []api.Article {
	out := make([]api.Article, len(read))
	for i, r := range read {
		out[i] = api.Article{ID: i + 1, Read: r}
	}
	return out
}

func TestCountUnread(t *testing.T) {
	assert.Equal(t, 0, CountUnread(nil))
	assert.Equal(t, 2, CountUnread(articles(false, true, false)))
	assert.Equal(t, 0, CountUnread(articles(true, true)))
}

func TestTier(t *testing.T) {
	tests := map[int]string{
		-1: TierNone,
		0:  TierNone,
		1:  TierLow,
		9:  TierLow,
		10: TierMedium,
		49: TierMedium,
		50: TierHigh,
		99: TierHigh,
	}
	for n, want := range tests {
		assert.Equal(t, want, Tier(n), "Tier(%d)", n)
	}
}

func TestFeedCounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := NewMockSource(ctrl)

	feeds := []api.Feed{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}, {ID: 3, Title: "C"}}

	src.EXPECT().
		ListArticles(gomock.Any(), api.ArticleQuery{FeedID: 1, Limit: FeedPageSize}).
		Return(articles(false, false, true), nil)
	src.EXPECT().
		ListArticles(gomock.Any(), api.ArticleQuery{FeedID: 2, Limit: FeedPageSize}).
		Return(nil, errors.New("boom"))
	src.EXPECT().
		ListArticles(gomock.Any(), api.ArticleQuery{FeedID: 3, Limit: FeedPageSize}).
		DoAndReturn(func(ctx context.Context, q api.ArticleQuery) ([]api.Article, error) {
			read := make([]bool, 12)
			return articles(read...), nil
		})

	counts, err := NewCounter(src, 2, 1000, nil).FeedCounts(context.Background(), feeds)

	require.NoError(t, err)
	assert.Equal(t, []FeedCount{
		{FeedID: 1, Title: "A", Unread: 2, Tier: TierLow},
		{FeedID: 2, Title: "B", Unread: 0, Tier: TierNone},
		{FeedID: 3, Title: "C", Unread: 12, Tier: TierMedium},
	}, counts)
	assert.Equal(t, 14, Total(counts))
}

func TestFeedCounts_BoundsConcurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := NewMockSource(ctrl)

	var inFlight, peak int32
	src.EXPECT().
		ListArticles(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, q api.ArticleQuery) ([]api.Article, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return articles(false), nil
		}).
		Times(8)

	feeds := make([]api.Feed, 8)
	for i := range feeds {
		feeds[i] = api.Feed{ID: i + 1}
	}

	counts, err := NewCounter(src, 3, 1000, nil).FeedCounts(context.Background(), feeds)

	require.NoError(t, err)
	assert.Equal(t, 8, Total(counts))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestFeedCounts_Cancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := NewMockSource(ctrl)
	src.EXPECT().ListArticles(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, q api.ArticleQuery) ([]api.Article, error) {
			return nil, ctx.Err()
		}).
		AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCounter(src, 2, 1000, nil).FeedCounts(ctx, []api.Feed{{ID: 1}, {ID: 2}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFeedCounts_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	counts, err := NewCounter(NewMockSource(ctrl), 0, 0, nil).FeedCounts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestPoller_EmitsImmediatelyAndRepeats(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := NewMockSource(ctrl)

	var calls int32
	src.EXPECT().UnreadMessagesSummary(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (*api.UnreadSummary, error) {
			n := atomic.AddInt32(&calls, 1)
			return &api.UnreadSummary{TotalUnread: int(n)}, nil
		}).
		MinTimes(3)

	ctx, cancel := context.WithCancel(context.Background())
	var (
		mu  sync.Mutex
		got []int
	)
	done := make(chan error, 1)
	go func() {
		done <- NewPoller(src, 5*time.Millisecond, nil).Run(ctx, func(s *api.UnreadSummary) {
			mu.Lock()
			got = append(got, s.TotalUnread)
			n := len(got)
			mu.Unlock()
			if n == 3 {
				cancel()
			}
		})
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatal("poller did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(got), 3)
	assert.Equal(t, []int{1, 2, 3}, got[:3])
}

func TestPoller_FirstEmitIsImmediate(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := NewMockSource(ctrl)
	src.EXPECT().UnreadMessagesSummary(gomock.Any()).Return(&api.UnreadSummary{TotalUnread: 4}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	var elapsed time.Duration
	err := NewPoller(src, time.Hour, nil).Run(ctx, func(s *api.UnreadSummary) {
		elapsed = time.Since(start)
		cancel()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, elapsed, time.Second)
}

func TestPoller_ReportsErrorsAndContinues(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := NewMockSource(ctrl)

	failure := errors.New("temporary")
	gomock.InOrder(
		src.EXPECT().UnreadMessagesSummary(gomock.Any()).Return(nil, failure),
		src.EXPECT().UnreadMessagesSummary(gomock.Any()).Return(&api.UnreadSummary{TotalUnread: 1}, nil),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var errs []error
	var emitted *api.UnreadSummary
	err := NewPoller(src, time.Millisecond, func(err error) { errs = append(errs, err) }).
		Run(ctx, func(s *api.UnreadSummary) {
			emitted = s
			cancel()
		})

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], failure)
	require.NotNil(t, emitted)
	assert.Equal(t, 1, emitted.TotalUnread)
}

func TestPoller_NeverOverlaps(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := NewMockSource(ctrl)

	var inFlight, overlaps int32
	src.EXPECT().UnreadMessagesSummary(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (*api.UnreadSummary, error) {
			if atomic.AddInt32(&inFlight, 1) > 1 {
				atomic.AddInt32(&overlaps, 1)
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return &api.UnreadSummary{}, nil
		}).
		MinTimes(1)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	err := NewPoller(src, time.Millisecond, nil).Run(ctx, func(*api.UnreadSummary) {})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, atomic.LoadInt32(&overlaps))
}

type refresherFunc func(ctx context.Context, id int) (int, error)

func (f refresherFunc) RefreshFeed(ctx context.Context, id int) (int, error) { return f(ctx, id) }

func TestRefreshFeeds(t *testing.T) {
	failure := errors.New("feed gone")
	r := refresherFunc(func(ctx context.Context, id int) (int, error) {
		if id == 2 {
			return 0, failure
		}
		return id * 10, nil
	})
	feeds := []api.Feed{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}, {ID: 3, Title: "C"}}

	results, err := NewCounter(nil, 2, 1000, nil).RefreshFeeds(context.Background(), r, feeds)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 10, results[0].Inserted)
	assert.ErrorIs(t, results[1].Err, failure)
	assert.Equal(t, "B", results[1].Title)
	assert.Equal(t, 30, results[2].Inserted)
	assert.Equal(t, 40, Inserted(results))
}
