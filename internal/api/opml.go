package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// ExportOPML returns every subscription as an OPML document.
func (c *Client) ExportOPML(ctx context.Context) (*OPMLExport, error) {
	var out OPMLExport
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/export/opml", auth: true}, &out); err != nil {
		return nil, fmt.Errorf("failed to export OPML: %w", err)
	}
	return &out, nil
}

// ImportOPML uploads an OPML file. The server only accepts .opml and .xml
// names, so other names are rejected before any request is made.
func (c *Client) ImportOPML(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".opml" && ext != ".xml" {
		return nil, fmt.Errorf("failed to import OPML: %s must end in .opml or .xml", filename)
	}

	var out ImportResult
	err := c.doJSON(ctx, request{
		method: http.MethodPost,
		path:   "/import/opml",
		file:   &filePart{field: "file", filename: filepath.Base(filename), content: r},
		auth:   true,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to import OPML: %w", err)
	}
	return &out, nil
}
