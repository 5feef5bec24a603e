package content

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	// ExcerptWords is the maximum number of words kept in an excerpt.
	ExcerptWords = 50
	// ExcerptPlaceholder replaces excerpts that would carry no useful text.
	ExcerptPlaceholder = "Preview unavailable. Open the article to see the full content."

	minExcerptLength = 10
	excerptEllipsis  = "…"
)

// excerptNoise is archiveNoise without the comment classes.
const excerptNoise = "script, style, noscript, nav, header, footer, aside, " +
	".navigation, .menu, .nav, .sidebar, .ads, .advertisement"

var (
	punctuationRun = regexp.MustCompile(`[{}\[\]();,.:!?'"]+`)
	singleChar     = regexp.MustCompile(`\b\w\b`)
	longDigits     = regexp.MustCompile(`\d{4,}`)
)

// CleanText extracts readable words from article HTML: page chrome is
// dropped, punctuation runs become spaces, isolated single characters and
// digit runs of four or more are removed.
func CleanText(raw string) string {
	text := raw
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		doc.Find(excerptNoise).Remove()
		text = doc.Find("body").Text()
	}

	text = normalizeWhitespace(text)
	text = punctuationRun.ReplaceAllString(text, " ")
	text = singleChar.ReplaceAllString(text, "")
	text = longDigits.ReplaceAllString(text, "")
	return normalizeWhitespace(text)
}

// Excerpt returns at most ExcerptWords words of the cleaned text, followed
// by an ellipsis when truncated. Text shorter than ten characters yields
// ExcerptPlaceholder.
func Excerpt(raw string) string {
	text := CleanText(raw)
	if utf8.RuneCountInString(text) < minExcerptLength {
		return ExcerptPlaceholder
	}

	words := strings.Fields(text)
	if len(words) <= ExcerptWords {
		return text
	}
	return strings.Join(words[:ExcerptWords], " ") + excerptEllipsis
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
