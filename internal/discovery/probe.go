// Package discovery inspects feed URLs before subscribing and carries the
// catalog of suggested feeds.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	defaultProbeTimeout = 15 * time.Second
	userAgent           = "suprss-cli/1.0"
)

var (
	// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("feed URL must be an absolute http or https URL")
	// ErrUnreachable is returned when the feed host cannot be reached.
	ErrUnreachable = errors.New("could not reach the feed URL")
	// ErrNotAFeed is returned when the document is not RSS, Atom or JSON Feed.
	ErrNotAFeed = errors.New("document is not a recognized feed")
)

// Result is what a probe learned about a feed.
type Result struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	FeedType    string `json:"feed_type"`
	Items       int    `json:"items"`
}

// Prober fetches and parses feeds.
type Prober struct {
	parser *gofeed.Parser
	logger *slog.Logger
}

// NewProber creates a Prober. A nil httpClient gets a client with a short
// timeout.
func NewProber(httpClient *http.Client, logger *slog.Logger) *Prober {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultProbeTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	fp := gofeed.NewParser()
	fp.Client = httpClient
	fp.UserAgent = userAgent
	return &Prober{parser: fp, logger: logger}
}

// ValidateURL checks that link is an absolute http(s) URL.
func ValidateURL(link string) error {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidURL
	}
	return nil
}

// Probe fetches link and reports the feed's metadata.
func (p *Prober) Probe(ctx context.Context, link string) (*Result, error) {
	link = strings.TrimSpace(link)
	if err := ValidateURL(link); err != nil {
		return nil, err
	}

	feed, err := p.parser.ParseURLWithContext(link, ctx)
	if err != nil {
		p.logger.Debug("feed probe failed", "url", link, "error", err)
		return nil, classify(err)
	}

	res := &Result{
		URL:         link,
		Title:       strings.TrimSpace(feed.Title),
		Description: strings.TrimSpace(feed.Description),
		Link:        feed.Link,
		FeedType:    feed.FeedType,
		Items:       len(feed.Items),
	}
	if feed.FeedLink != "" {
		res.URL = feed.FeedLink
	}
	p.logger.Debug("feed probed", "url", res.URL, "type", res.FeedType, "items", res.Items)
	return res, nil
}

func classify(err error) error {
	var httpErr gofeed.HTTPError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, gofeed.ErrFeedTypeNotDetected):
		return ErrNotAFeed
	case errors.As(err, &httpErr):
		return fmt.Errorf("%w: %s", ErrUnreachable, httpErr.Status)
	case strings.Contains(err.Error(), "no such host"), strings.Contains(err.Error(), "connection refused"):
		return ErrUnreachable
	}
	return fmt.Errorf("%w: %v", ErrNotAFeed, err)
}
