package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// NewFeed is a subscription request.
type NewFeed struct {
	URL          string  `json:"url"`
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	CollectionID int     `json:"collection_id"`
}

type insertedCount struct {
	Inserted int `json:"inserted"`
}

type markedCount struct {
	Marked   int `json:"marked"`
	Unmarked int `json:"unmarked"`
}

func feedPath(id int, suffix string) string {
	return "/feeds/" + strconv.Itoa(id) + suffix
}

func collectionQuery(id int) url.Values {
	q := url.Values{}
	q.Set("collection_id", strconv.Itoa(id))
	return q
}

// ListFeeds returns the feeds of a collection.
func (c *Client) ListFeeds(ctx context.Context, collectionID int) ([]Feed, error) {
	var out []Feed
	err := c.doJSON(ctx, request{method: http.MethodGet, path: "/feeds/", query: collectionQuery(collectionID), auth: true}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}
	return out, nil
}

// FeedsSummary returns the feeds of a collection with unread counts.
func (c *Client) FeedsSummary(ctx context.Context, collectionID int) ([]FeedSummary, error) {
	var out []FeedSummary
	err := c.doJSON(ctx, request{method: http.MethodGet, path: "/feeds/summary", query: collectionQuery(collectionID), auth: true}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to get feeds summary: %w", err)
	}
	return out, nil
}

// GetFeed returns one feed.
func (c *Client) GetFeed(ctx context.Context, id int) (*Feed, error) {
	var out Feed
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: feedPath(id, ""), auth: true}, &out); err != nil {
		return nil, fmt.Errorf("failed to get feed %d: %w", id, err)
	}
	return &out, nil
}

// CreateFeed subscribes a collection to a feed URL.
func (c *Client) CreateFeed(ctx context.Context, f NewFeed) (*Feed, error) {
	var out Feed
	if err := c.doJSON(ctx, request{method: http.MethodPost, path: "/feeds/", json: f, auth: true}, &out); err != nil {
		return nil, fmt.Errorf("failed to add feed: %w", err)
	}
	return &out, nil
}

// DeleteFeed removes a feed and its articles.
func (c *Client) DeleteFeed(ctx context.Context, id int) (string, error) {
	return c.ack(ctx, request{method: http.MethodDelete, path: feedPath(id, "")}, "delete feed")
}

// RefreshFeed asks the server to fetch new items. It returns how many
// articles were inserted.
func (c *Client) RefreshFeed(ctx context.Context, id int) (int, error) {
	var out insertedCount
	if err := c.doJSON(ctx, request{method: http.MethodPost, path: feedPath(id, "/refresh"), auth: true}, &out); err != nil {
		return 0, fmt.Errorf("failed to refresh feed %d: %w", id, err)
	}
	return out.Inserted, nil
}

// RefreshCollection refreshes every feed of a collection server-side.
func (c *Client) RefreshCollection(ctx context.Context, id int) (int, error) {
	var out insertedCount
	if err := c.doJSON(ctx, request{method: http.MethodPost, path: collectionPath(id, "/refresh-all"), auth: true}, &out); err != nil {
		return 0, fmt.Errorf("failed to refresh collection %d: %w", id, err)
	}
	return out.Inserted, nil
}

// MarkAllRead marks every article of a feed read and returns the count.
func (c *Client) MarkAllRead(ctx context.Context, feedID int) (int, error) {
	var out markedCount
	if err := c.doJSON(ctx, request{method: http.MethodPost, path: feedPath(feedID, "/mark-all-read"), auth: true}, &out); err != nil {
		return 0, fmt.Errorf("failed to mark feed %d read: %w", feedID, err)
	}
	return out.Marked, nil
}

// MarkAllUnread clears the read flags of a feed's articles.
func (c *Client) MarkAllUnread(ctx context.Context, feedID int) (int, error) {
	var out markedCount
	if err := c.doJSON(ctx, request{method: http.MethodPost, path: feedPath(feedID, "/mark-all-unread"), auth: true}, &out); err != nil {
		return 0, fmt.Errorf("failed to mark feed %d unread: %w", feedID, err)
	}
	return out.Unmarked, nil
}
