// ABOUTME: Content processing utilities for fetched items
// ABOUTME: Detects HTML, converts to Markdown for display, and strips markup for plain-text excerpts

package content

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// htmlTagPattern matches common HTML tags
var htmlTagPattern = regexp.MustCompile(`<\s*(p|div|span|a|br|img|h[1-6]|ul|ol|li|table|tr|td|th|strong|em|b|i|code|pre|blockquote)[^>]*>`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// IsHTML checks if content appears to be HTML
func IsHTML(content string) bool {
	// Quick checks for obvious HTML markers
	if strings.Contains(content, "<!DOCTYPE") || strings.Contains(content, "<html") {
		return true
	}

	// Check for common HTML tags
	return htmlTagPattern.MatchString(content)
}

// ToMarkdown converts HTML content to Markdown.
// If the content doesn't appear to be HTML, returns it unchanged.
func ToMarkdown(content string) string {
	if content == "" {
		return content
	}

	if !IsHTML(content) {
		return content
	}

	markdown, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		// If conversion fails, return original content
		return content
	}

	return strings.TrimSpace(markdown)
}

// StripHTML reduces HTML to its visible text with collapsed whitespace.
// Mastodon statuses arrive as HTML; list rows and brief excerpts want the
// bare text. Non-HTML input passes through with whitespace normalized.
func StripHTML(content string) string {
	if content == "" {
		return content
	}

	text := content
	if IsHTML(content) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
		if err == nil {
			// Block and line breaks become spaces so adjacent words don't fuse
			doc.Find("br").ReplaceWithHtml(" ")
			doc.Find("p, div, li, blockquote, h1, h2, h3, h4, h5, h6").AfterHtml(" ")
			text = doc.Text()
		}
	}

	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// Excerpt returns the first n runes of the stripped text, ellipsized.
func Excerpt(content string, n int) string {
	text := StripHTML(content)
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}
