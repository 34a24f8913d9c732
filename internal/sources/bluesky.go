// ABOUTME: Bluesky adapter fetching an account's feed via the public AppView XRPC API
// ABOUTME: Maps posts to content items with like, repost, and reply counters

package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hagda/hagda/internal/content"
	"github.com/hagda/hagda/internal/fetch"
	"github.com/hagda/hagda/internal/models"
)

const blueskyTitleLength = 120

// BlueskyAdapter fetches recent posts from a bluesky account.
type BlueskyAdapter struct {
	BaseURL string
}

type blueskyFeedResponse struct {
	Feed []struct {
		Post   blueskyPost    `json:"post"`
		Reason map[string]any `json:"reason"`
		Reply  map[string]any `json:"reply"`
	} `json:"feed"`
}

type blueskyPost struct {
	URI    string `json:"uri"`
	Author struct {
		DID         string `json:"did"`
		Handle      string `json:"handle"`
		DisplayName string `json:"displayName"`
		Avatar      string `json:"avatar"`
	} `json:"author"`
	Record struct {
		Text      string    `json:"text"`
		CreatedAt time.Time `json:"createdAt"`
	} `json:"record"`
	ReplyCount  int `json:"replyCount"`
	RepostCount int `json:"repostCount"`
	LikeCount   int `json:"likeCount"`
}

// Type implements Adapter.
func (a *BlueskyAdapter) Type() models.SourceType {
	return models.SourceTypeBluesky
}

// Fetch implements Adapter. Reposts and replies in the author feed are
// skipped; only original posts count toward the source's content.
func (a *BlueskyAdapter) Fetch(ctx context.Context, src *models.Source, limit int) ([]*models.ContentItem, error) {
	if src.Handle == nil || *src.Handle == "" {
		return nil, fmt.Errorf("bluesky source %q has no handle", src.Name)
	}
	limit = normalizeLimit(limit)
	actor := strings.TrimPrefix(*src.Handle, "@")

	feedURL := fmt.Sprintf("%s/xrpc/app.bsky.feed.getAuthorFeed?actor=%s&limit=%d",
		a.BaseURL, url.QueryEscape(actor), limit+10)

	var response blueskyFeedResponse
	if err := fetch.GetJSON(ctx, feedURL, &response); err != nil {
		return nil, fmt.Errorf("fetching @%s: %w", actor, err)
	}

	now := time.Now()
	items := make([]*models.ContentItem, 0, limit)
	for _, entry := range response.Feed {
		if len(items) >= limit {
			break
		}
		if entry.Reason != nil || entry.Reply != nil {
			continue
		}
		post := entry.Post
		if post.Record.Text == "" {
			continue
		}

		item := models.NewContentItem(src.ID, models.SourceTypeBluesky, post.URI,
			content.Excerpt(post.Record.Text, blueskyTitleLength))
		item.Published = post.Record.CreatedAt
		item.Content = optional(post.Record.Text)
		item.Author = optional("@" + post.Author.Handle)
		item.Engagement = &models.Engagement{
			Likes:   post.LikeCount,
			Reposts: post.RepostCount,
			Replies: post.ReplyCount,
		}
		if link := postWebURL(post); link != "" {
			item.Link = optional(link)
		}

		if !acceptItem(item, now) {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// postWebURL derives the public web URL from an AT URI
// (at://did:plc:xxx/app.bsky.feed.post/rkey).
func postWebURL(post blueskyPost) string {
	parts := strings.Split(post.URI, "/")
	if len(parts) == 0 {
		return ""
	}
	rkey := parts[len(parts)-1]
	if rkey == "" || post.Author.Handle == "" {
		return ""
	}
	return fmt.Sprintf("https://bsky.app/profile/%s/post/%s", post.Author.Handle, rkey)
}
