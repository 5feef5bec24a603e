package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ArticleQuery filters a feed's articles. Read and Starred are tri-state:
// nil means no filter.
type ArticleQuery struct {
	FeedID  int
	Q       string
	Read    *bool
	Starred *bool
	Limit   int
	Offset  int
}

func (q ArticleQuery) values() url.Values {
	v := url.Values{}
	v.Set("feed_id", strconv.Itoa(q.FeedID))
	setString(v, "q", q.Q)
	setBool(v, "read", q.Read)
	setBool(v, "starred", q.Starred)
	setPage(v, q.Limit, q.Offset)
	return v
}

// StarQuery filters starred articles.
type StarQuery struct {
	CollectionID int
	FeedID       int
	Q            string
	Limit        int
	Offset       int
}

func (q StarQuery) values() url.Values {
	v := url.Values{}
	setInt(v, "collection_id", q.CollectionID)
	setInt(v, "feed_id", q.FeedID)
	setString(v, "q", q.Q)
	setPage(v, q.Limit, q.Offset)
	return v
}

// FavoritesQuery searches favorites across all collections.
type FavoritesQuery struct {
	Q      string
	Limit  int
	Offset int
}

func (q FavoritesQuery) values() url.Values {
	v := url.Values{}
	setString(v, "q", q.Q)
	setPage(v, q.Limit, q.Offset)
	return v
}

// ParseTriState parses "true", "false" or "" (unset) for read and starred
// filters.
func ParseTriState(s string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "any":
		return nil, nil
	case "true", "yes":
		t := true
		return &t, nil
	case "false", "no":
		f := false
		return &f, nil
	default:
		return nil, fmt.Errorf("invalid filter %q: must be true, false, or empty", s)
	}
}

func setString(v url.Values, key, val string) {
	if val = strings.TrimSpace(val); val != "" {
		v.Set(key, val)
	}
}

func setInt(v url.Values, key string, val int) {
	if val > 0 {
		v.Set(key, strconv.Itoa(val))
	}
}

func setBool(v url.Values, key string, val *bool) {
	if val != nil {
		v.Set(key, strconv.FormatBool(*val))
	}
}

func setPage(v url.Values, limit, offset int) {
	setInt(v, "limit", limit)
	setInt(v, "offset", offset)
}

func articlePath(id int, suffix string) string {
	return "/articles/" + strconv.Itoa(id) + suffix
}

func (c *Client) listArticles(ctx context.Context, path string, query url.Values) ([]Article, error) {
	var out []Article
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: path, query: query, auth: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListArticles returns a page of a feed's articles.
func (c *Client) ListArticles(ctx context.Context, q ArticleQuery) ([]Article, error) {
	out, err := c.listArticles(ctx, "/articles/", q.values())
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return out, nil
}

// ListFavorites returns starred articles from every collection.
func (c *Client) ListFavorites(ctx context.Context, q FavoritesQuery) ([]Article, error) {
	out, err := c.listArticles(ctx, "/favorites/", q.values())
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return out, nil
}

// ListStars returns starred articles filtered by collection or feed.
func (c *Client) ListStars(ctx context.Context, q StarQuery) ([]Article, error) {
	out, err := c.listArticles(ctx, "/stars", q.values())
	if err != nil {
		return nil, fmt.Errorf("failed to list stars: %w", err)
	}
	return out, nil
}

// GetArticle returns one article.
func (c *Client) GetArticle(ctx context.Context, id int) (*Article, error) {
	var out Article
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: articlePath(id, ""), auth: true}, &out); err != nil {
		return nil, fmt.Errorf("failed to get article %d: %w", id, err)
	}
	return &out, nil
}

// ReaderView returns the server-extracted readable HTML of an article's
// source page.
func (c *Client) ReaderView(ctx context.Context, id int) (string, error) {
	var out struct {
		HTML string `json:"html"`
	}
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: articlePath(id, "/reader"), auth: true}, &out); err != nil {
		return "", fmt.Errorf("failed to get reader view for article %d: %w", id, err)
	}
	return out.HTML, nil
}

func (c *Client) toggle(ctx context.Context, method string, id int, suffix, what string) error {
	if err := c.doJSON(ctx, request{method: method, path: articlePath(id, suffix), auth: true}, nil); err != nil {
		return fmt.Errorf("failed to %s article %d: %w", what, id, err)
	}
	return nil
}

// MarkRead flags an article read.
func (c *Client) MarkRead(ctx context.Context, id int) error {
	return c.toggle(ctx, http.MethodPost, id, "/read", "mark read")
}

// MarkUnread clears an article's read flag.
func (c *Client) MarkUnread(ctx context.Context, id int) error {
	return c.toggle(ctx, http.MethodDelete, id, "/read", "mark unread")
}

// Star adds an article to favorites.
func (c *Client) Star(ctx context.Context, id int) error {
	return c.toggle(ctx, http.MethodPost, id, "/star", "star")
}

// Unstar removes an article from favorites.
func (c *Client) Unstar(ctx context.Context, id int) error {
	return c.toggle(ctx, http.MethodDelete, id, "/star", "unstar")
}

// ArchiveArticle snapshots an article and returns the archive id. Archiving
// twice returns the existing archive.
func (c *Client) ArchiveArticle(ctx context.Context, id int) (int, error) {
	var out struct {
		OK        bool `json:"ok"`
		ArchiveID int  `json:"archive_id"`
	}
	if err := c.doJSON(ctx, request{method: http.MethodPost, path: articlePath(id, "/archive"), auth: true}, &out); err != nil {
		return 0, fmt.Errorf("failed to archive article %d: %w", id, err)
	}
	return out.ArchiveID, nil
}

// Comments returns the comments posted on an article.
func (c *Client) Comments(ctx context.Context, id int) ([]Message, error) {
	var out []Message
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: articlePath(id, "/comments"), auth: true}, &out); err != nil {
		return nil, fmt.Errorf("failed to list comments for article %d: %w", id, err)
	}
	return out, nil
}
