package content

import (
	"io"
	"net/url"
	"strings"

	"codeberg.org/readeck/go-readability/v2"
	"golang.org/x/net/html"
)

// SnippetLength is the rune count used for article previews in listings.
const SnippetLength = 300

// PlainText strips tags from raw HTML and collapses whitespace.
// script, style and noscript bodies are skipped.
func PlainText(raw string) string {
	return stripTags(strings.NewReader(raw))
}

func stripTags(r io.Reader) string {
	var b strings.Builder
	z := html.NewTokenizer(r)

	depthSkip := 0

	for {
		switch tt := z.Next(); tt {
		case html.ErrorToken:
			return normalizeWhitespace(b.String())

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if skipTag(name) && tt == html.StartTagToken {
				depthSkip++
			}
			if breaksText(name) {
				b.WriteByte(' ')
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if skipTag(name) && depthSkip > 0 {
				depthSkip--
			}
			if breaksText(name) {
				b.WriteByte(' ')
			}

		case html.TextToken:
			if depthSkip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func skipTag(name []byte) bool {
	switch string(name) {
	case "script", "style", "noscript":
		return true
	default:
		return false
	}
}

// breaksText reports whether a tag separates words in rendered text.
func breaksText(name []byte) bool {
	switch string(name) {
	case "p", "div", "br", "li", "tr", "td", "th", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre", "section", "article":
		return true
	default:
		return false
	}
}

// Snippet returns the first n runes of the plain text of raw.
func Snippet(raw string, n int) string {
	text := PlainText(raw)
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// ReaderText extracts the main article text with readability. It returns
// an empty string when no readable content is found.
func ReaderText(raw, pageURL string) string {
	var base *url.URL
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil {
			base = u
		}
	}

	article, err := readability.FromReader(strings.NewReader(raw), base)
	if err != nil {
		return ""
	}

	var buf strings.Builder
	if err := article.RenderText(&buf); err != nil {
		return ""
	}
	return normalizeWhitespace(buf.String())
}

// Host returns the host part of a link, or an empty string.
func Host(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
