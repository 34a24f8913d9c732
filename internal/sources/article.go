// ABOUTME: Article adapter fetching RSS/Atom feeds with conditional request support
// ABOUTME: Converts parsed feed entries into content items; articles expose no engagement counters

package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/hagda/hagda/internal/content"
	"github.com/hagda/hagda/internal/fetch"
	"github.com/hagda/hagda/internal/models"
	"github.com/hagda/hagda/internal/parse"
)

const subtitleLength = 200

// ArticleAdapter fetches RSS/Atom feeds for article sources.
type ArticleAdapter struct{}

// Type implements Adapter.
func (a *ArticleAdapter) Type() models.SourceType {
	return models.SourceTypeArticle
}

// Fetch retrieves the source's latest entries without conditional headers.
// Used by the trending path, which always wants a fresh read.
func (a *ArticleAdapter) Fetch(ctx context.Context, src *models.Source, limit int) ([]*models.ContentItem, error) {
	outcome, err := a.fetchFeed(ctx, src, limit, nil, nil)
	if err != nil {
		return nil, err
	}
	return outcome.Items, nil
}

// FetchConditional retrieves entries using the source's stored ETag and
// Last-Modified headers. A NotModified outcome carries no items.
func (a *ArticleAdapter) FetchConditional(ctx context.Context, src *models.Source, limit int) (*Outcome, error) {
	return a.fetchFeed(ctx, src, limit, src.ETag, src.LastModified)
}

func (a *ArticleAdapter) fetchFeed(ctx context.Context, src *models.Source, limit int, etag, lastModified *string) (*Outcome, error) {
	if src.FeedURL == nil || *src.FeedURL == "" {
		return nil, fmt.Errorf("article source %q has no feed URL", src.Name)
	}

	result, err := fetch.Fetch(ctx, *src.FeedURL, etag, lastModified)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", *src.FeedURL, err)
	}
	if result.NotModified {
		return &Outcome{NotModified: true}, nil
	}

	feed, err := parse.Parse(result.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", *src.FeedURL, err)
	}

	return &Outcome{
		Items:        feedItems(src, feed, limit),
		ETag:         result.ETag,
		LastModified: result.LastModified,
	}, nil
}

// feedItems converts parsed entries into content items for the given source.
// Shared with the podcast episode path. Entries without any timestamp take
// the fetch time; future-dated entries are dropped.
func feedItems(src *models.Source, feed *parse.ParsedFeed, limit int) []*models.ContentItem {
	limit = normalizeLimit(limit)
	now := time.Now()

	items := make([]*models.ContentItem, 0, limit)
	for _, entry := range feed.Entries {
		if len(items) >= limit {
			break
		}
		if entry.Title == "" && entry.Link == "" {
			continue
		}

		item := models.NewContentItem(src.ID, src.Type, entry.GUID, entry.Title)
		item.Link = optional(entry.Link)
		item.Author = optional(entry.Author)
		item.Subtitle = optional(content.Excerpt(entry.Summary, subtitleLength))
		item.Content = optional(entry.Content)
		if entry.PublishedAt != nil {
			item.Published = *entry.PublishedAt
		} else {
			item.Published = now
		}

		if !acceptItem(item, now) {
			continue
		}
		items = append(items, item)
	}
	return items
}
