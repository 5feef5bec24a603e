package api

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ArchiveQuery filters the archive list.
type ArchiveQuery struct {
	Q            string
	CollectionID int
	FeedID       int
	Limit        int
	Offset       int
}

func (q ArchiveQuery) values() url.Values {
	v := url.Values{}
	setString(v, "q", q.Q)
	setInt(v, "collection_id", q.CollectionID)
	setInt(v, "feed_id", q.FeedID)
	setPage(v, q.Limit, q.Offset)
	return v
}

// Download is a file served by the API.
type Download struct {
	Title       string
	ContentType string
	// Disposition is the file name the server suggested, if any.
	Disposition string
	Body        []byte
}

// Extension returns the file extension implied by the content type.
func (d *Download) Extension() string {
	ct := strings.ToLower(d.ContentType)
	switch {
	case strings.Contains(ct, "pdf"):
		return "pdf"
	case strings.Contains(ct, "html"):
		return "html"
	default:
		return "txt"
	}
}

// Filename returns "<title>_archive.<ext>" with path separators removed
// from the title.
func (d *Download) Filename() string {
	title := strings.TrimSpace(d.Title)
	title = strings.NewReplacer("/", "_", "\\", "_", "\x00", "").Replace(title)
	if title == "" || title == "." || title == ".." {
		title = "article"
	}
	return title + "_archive." + d.Extension()
}

func archivePath(id int, suffix string) string {
	return "/archive/" + strconv.Itoa(id) + suffix
}

// ListArchives returns a page of the user's archive.
func (c *Client) ListArchives(ctx context.Context, q ArchiveQuery) ([]Archive, error) {
	var out []Archive
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/archive", query: q.values(), auth: true}, &out); err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}
	return out, nil
}

// GetArchive returns one archive, with the original RSS content when the
// source article still exists.
func (c *Client) GetArchive(ctx context.Context, id int) (*Archive, error) {
	var out Archive
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: archivePath(id, ""), auth: true}, &out); err != nil {
		return nil, fmt.Errorf("failed to get archive %d: %w", id, err)
	}
	return &out, nil
}

// DeleteArchive removes an archive entry.
func (c *Client) DeleteArchive(ctx context.Context, id int) error {
	if err := c.doJSON(ctx, request{method: http.MethodDelete, path: archivePath(id, ""), auth: true}, nil); err != nil {
		return fmt.Errorf("failed to delete archive %d: %w", id, err)
	}
	return nil
}

// DownloadArchive fetches the downloadable export of an archive. title is
// used to name the file.
func (c *Client) DownloadArchive(ctx context.Context, id int, title string) (*Download, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: archivePath(id, "/pdf"), auth: true})
	if err != nil {
		return nil, fmt.Errorf("failed to download archive %d: %w", id, err)
	}

	d := &Download{
		Title:       title,
		ContentType: resp.header.Get("Content-Type"),
		Body:        resp.body,
	}
	if _, params, err := mime.ParseMediaType(resp.header.Get("Content-Disposition")); err == nil {
		d.Disposition = params["filename"]
	}
	return d, nil
}

// RepairArchives asks the server to fix archives that lost their feed
// link and returns how many were repaired.
func (c *Client) RepairArchives(ctx context.Context) (int, error) {
	var out struct {
		Repaired int `json:"repaired"`
	}
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/repair-archives", auth: true}, &out); err != nil {
		return 0, fmt.Errorf("failed to repair archives: %w", err)
	}
	return out.Repaired, nil
}
