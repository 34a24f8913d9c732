// ABOUTME: Reddit adapter fetching a community's hot listing via the public JSON API
// ABOUTME: Maps posts to content items carrying upvote and comment counters

package sources

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/hagda/hagda/internal/content"
	"github.com/hagda/hagda/internal/fetch"
	"github.com/hagda/hagda/internal/models"
)

// RedditAdapter fetches hot posts from a subreddit.
type RedditAdapter struct {
	BaseURL          string
	DefaultCommunity string
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"` // fullname, e.g. t3_abc123
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Author      string  `json:"author"`
	Permalink   string  `json:"permalink"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Stickied    bool    `json:"stickied"`
	Subreddit   string  `json:"subreddit"`
}

// Type implements Adapter.
func (a *RedditAdapter) Type() models.SourceType {
	return models.SourceTypeReddit
}

// Community returns the subreddit this source follows, falling back to the
// configured default when the source has no handle.
func (a *RedditAdapter) Community(src *models.Source) string {
	if src.Handle != nil && *src.Handle != "" {
		return *src.Handle
	}
	return a.DefaultCommunity
}

// Fetch implements Adapter. Stickied posts are skipped so pinned
// announcements don't crowd the ranking.
func (a *RedditAdapter) Fetch(ctx context.Context, src *models.Source, limit int) ([]*models.ContentItem, error) {
	limit = normalizeLimit(limit)
	community := a.Community(src)

	// Request a few extra to compensate for skipped stickies
	listingURL := fmt.Sprintf("%s/r/%s/hot.json?limit=%d&raw_json=1",
		a.BaseURL, url.PathEscape(community), limit+5)

	var listing redditListing
	if err := fetch.GetJSON(ctx, listingURL, &listing); err != nil {
		return nil, fmt.Errorf("fetching r/%s: %w", community, err)
	}

	now := time.Now()
	items := make([]*models.ContentItem, 0, limit)
	for _, child := range listing.Data.Children {
		if len(items) >= limit {
			break
		}
		post := child.Data
		if post.Stickied || post.Title == "" {
			continue
		}

		guid := post.Name
		if guid == "" {
			guid = post.ID
		}

		item := models.NewContentItem(src.ID, models.SourceTypeReddit, guid, post.Title)
		item.Published = time.Unix(int64(post.CreatedUTC), 0)
		item.Author = optional("u/" + post.Author)
		item.Engagement = &models.Engagement{
			Upvotes: post.Score,
			Replies: post.NumComments,
		}
		if post.Permalink != "" {
			item.Link = optional(a.BaseURL + post.Permalink)
		}
		if post.Selftext != "" {
			item.Subtitle = optional(content.Excerpt(post.Selftext, subtitleLength))
			item.Content = optional(post.Selftext)
		}

		if !acceptItem(item, now) {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
