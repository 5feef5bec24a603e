// Package content renders article and archive bodies for display: HTML
// sanitizing, RSS text formatting, excerpts and plain-text extraction.
package content

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

const (
	// ArchiveFallback is returned when a sanitized archive has no content left.
	ArchiveFallback = "<p>Article content unavailable or empty.</p>"
	// RSSFallback is returned for empty RSS bodies.
	RSSFallback = "<p>RSS content unavailable or empty.</p>"

	imageStyle = "max-width: 100%; height: auto;"
)

// Origin tells which stored body an archive view was rendered from.
type Origin string

const (
	OriginRSS     Origin = "rss"
	OriginArchive Origin = "archive"
)

// archiveNoise matches page chrome that never belongs to an archived article.
const archiveNoise = "script, style, noscript, nav, header, footer, aside, " +
	".navigation, .menu, .nav, .sidebar, .ads, .advertisement, .comments, .comment-section"

var archivePolicy = newArchivePolicy()

func newArchivePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"article", "section", "div", "p", "span", "br", "hr",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "dl", "dt", "dd",
		"blockquote", "pre", "code", "b", "strong", "i", "em", "u", "s", "small", "mark", "sub", "sup",
		"figure", "figcaption", "table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption",
		"a", "img",
	)
	p.AllowAttrs("href", "src", "alt", "title").Globally()
	p.AllowNoAttrs().OnElements("img")
	p.AllowStandardURLs()
	// AllowStandardURLs adds rel="nofollow"; links get their own rel below.
	p.RequireNoFollowOnLinks(false)
	return p
}

// SanitizeArchivedHTML cleans stored article HTML for display.
// It never returns an empty string.
func SanitizeArchivedHTML(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return sanitizeOnly(raw)
	}
	doc.Find(archiveNoise).Remove()

	body, err := doc.Find("body").Html()
	if err != nil {
		return sanitizeOnly(raw)
	}
	cleaned := archivePolicy.Sanitize(body)

	doc, err = goquery.NewDocumentFromReader(strings.NewReader(cleaned))
	if err != nil {
		return sanitizeOnly(cleaned)
	}
	doc.Find("a[href]").SetAttr("target", "_blank").SetAttr("rel", "noreferrer")
	doc.Find("img").SetAttr("style", imageStyle)

	// Single pass in document order: a parent emptied by this loop stays.
	doc.Find("div, span, p").Each(func(_ int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) == "" && s.Children().Length() == 0 {
			s.Remove()
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return sanitizeOnly(cleaned)
	}
	if strings.TrimSpace(out) == "" {
		return ArchiveFallback
	}
	return out
}

// sanitizeOnly is used when the markup cannot be parsed into a tree, for
// instance past the parser's nesting limit. The allow-list still applies.
func sanitizeOnly(raw string) string {
	out := archivePolicy.Sanitize(raw)
	if strings.TrimSpace(out) == "" {
		return ArchiveFallback
	}
	return out
}

var urlPattern = regexp.MustCompile(`https?://[^\s<]+`)

// FormatRSSContent renders an RSS body. HTML goes through the archive
// sanitizer; plain text becomes one paragraph per non-empty line with
// clickable URLs.
func FormatRSSContent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return RSSFallback
	}
	if strings.Contains(raw, "<") {
		return SanitizeArchivedHTML(raw)
	}

	var b strings.Builder
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		escaped := html.EscapeString(line)
		linked := urlPattern.ReplaceAllString(escaped, `<a href="$0" target="_blank" rel="noreferrer">$0</a>`)
		b.WriteString("<p>")
		b.WriteString(linked)
		b.WriteString("</p>")
	}
	if b.Len() == 0 {
		return RSSFallback
	}
	return b.String()
}

// ArchiveBody picks the body to show for an archive entry: the original
// RSS content when the server kept it, otherwise the archived HTML.
func ArchiveBody(original *string, archivedHTML string) (string, Origin) {
	if original != nil && strings.TrimSpace(*original) != "" {
		return FormatRSSContent(*original), OriginRSS
	}
	return SanitizeArchivedHTML(archivedHTML), OriginArchive
}
