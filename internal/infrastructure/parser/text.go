package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const ellipsis = "…"

// PlainText extracts the visible text of an HTML (or plain) fragment with whitespace collapsed.
func PlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapse(fragment)
	}
	doc.Find("script, style, noscript").Remove()

	return collapse(doc.Text())
}

// Blank reports whether a fragment has no visible text, e.g. "" or "<p> </p>".
func Blank(fragment string) bool {
	return PlainText(fragment) == ""
}

// Excerpt returns the plain text of fragment cut at a word boundary to at most limit runes.
func Excerpt(fragment string, limit int) string {
	text := PlainText(fragment)
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,.;:-") + ellipsis
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
