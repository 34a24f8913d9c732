// ABOUTME: RSS/Atom feed parsing using gofeed library
// ABOUTME: Converts gofeed.Feed into a normalized structure shared by the article and podcast adapters

package parse

import (
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// ParsedFeed represents a normalized feed structure
type ParsedFeed struct {
	Title       string
	Description string
	ImageURL    string // channel artwork, used for source artwork
	Entries     []ParsedEntry
}

// ParsedEntry represents a normalized feed entry
type ParsedEntry struct {
	GUID        string
	Title       string
	Link        string
	Author      string
	PublishedAt *time.Time
	Summary     string // short description
	Content     string // full content, falls back to the description
	Duration    string // itunes duration for podcast episodes
	Categories  []string
}

// Parse parses RSS or Atom feed data and returns a normalized ParsedFeed
func Parse(data []byte) (*ParsedFeed, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseString(string(data))
	if err != nil {
		return nil, err
	}

	parsed := &ParsedFeed{
		Title:       feed.Title,
		Description: feed.Description,
		Entries:     make([]ParsedEntry, 0, len(feed.Items)),
	}

	if feed.Image != nil {
		parsed.ImageURL = feed.Image.URL
	}
	// Podcast feeds usually carry higher-resolution itunes artwork
	if feed.ITunesExt != nil && feed.ITunesExt.Image != "" {
		parsed.ImageURL = feed.ITunesExt.Image
	}

	for _, item := range feed.Items {
		entry := ParsedEntry{
			GUID:       item.GUID,
			Title:      item.Title,
			Link:       item.Link,
			Categories: item.Categories,
			Summary:    strings.TrimSpace(item.Description),
		}

		// Fallback GUID to Link if empty
		if entry.GUID == "" {
			entry.GUID = item.Link
		}

		// Extract author name
		if item.Author != nil {
			entry.Author = item.Author.Name
		}

		// Use PublishedParsed or fallback to UpdatedParsed
		if item.PublishedParsed != nil {
			entry.PublishedAt = item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			entry.PublishedAt = item.UpdatedParsed
		}

		// Prefer Content over Description
		if item.Content != "" {
			entry.Content = strings.TrimSpace(item.Content)
		} else {
			entry.Content = entry.Summary
		}

		if item.ITunesExt != nil {
			entry.Duration = item.ITunesExt.Duration
		}

		parsed.Entries = append(parsed.Entries, entry)
	}

	return parsed, nil
}
