// ABOUTME: Mastodon adapter fetching an account's statuses from its home instance
// ABOUTME: Resolves the account id first, then maps statuses with favourite and boost counters

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

const mastodonTitleLength = 120

// MastodonAdapter fetches statuses for a mastodon account. Each source names
// its own instance; BaseURL overrides instance resolution for tests.
type MastodonAdapter struct {
	DefaultServer string
	BaseURL       string
}

type mastodonAccount struct {
	ID          string `json:"id"`
	Acct        string `json:"acct"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

type mastodonStatus struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	URL             string    `json:"url"`
	Content         string    `json:"content"`
	FavouritesCount int       `json:"favourites_count"`
	ReblogsCount    int       `json:"reblogs_count"`
	RepliesCount    int       `json:"replies_count"`
}

// Type implements Adapter.
func (a *MastodonAdapter) Type() models.SourceType {
	return models.SourceTypeMastodon
}

// instanceURL picks the API root for a source: the test override, the
// source's own server, or the configured default instance.
func (a *MastodonAdapter) instanceURL(src *models.Source) string {
	if a.BaseURL != "" {
		return a.BaseURL
	}
	server := a.DefaultServer
	if src.Server != nil && *src.Server != "" {
		server = *src.Server
	}
	return "https://" + server
}

// Fetch implements Adapter. Replies and boosts are excluded server-side.
func (a *MastodonAdapter) Fetch(ctx context.Context, src *models.Source, limit int) ([]*models.ContentItem, error) {
	if src.Handle == nil || *src.Handle == "" {
		return nil, fmt.Errorf("mastodon source %q has no account handle", src.Name)
	}
	limit = normalizeLimit(limit)
	base := a.instanceURL(src)
	acct := strings.TrimPrefix(*src.Handle, "@")

	// Handles in user@instance form carry their own server
	if at := strings.Index(acct, "@"); at > 0 && a.BaseURL == "" {
		base = "https://" + acct[at+1:]
		acct = acct[:at]
	}

	lookupURL := fmt.Sprintf("%s/api/v1/accounts/lookup?acct=%s", base, url.QueryEscape(acct))
	var account mastodonAccount
	if err := fetch.GetJSON(ctx, lookupURL, &account); err != nil {
		return nil, fmt.Errorf("resolving @%s: %w", acct, err)
	}
	if account.ID == "" {
		return nil, fmt.Errorf("account @%s not found", acct)
	}

	statusesURL := fmt.Sprintf("%s/api/v1/accounts/%s/statuses?limit=%d&exclude_replies=true&exclude_reblogs=true",
		base, url.PathEscape(account.ID), limit)
	var statuses []mastodonStatus
	if err := fetch.GetJSON(ctx, statusesURL, &statuses); err != nil {
		return nil, fmt.Errorf("fetching statuses for @%s: %w", acct, err)
	}

	now := time.Now()
	items := make([]*models.ContentItem, 0, limit)
	for _, status := range statuses {
		if len(items) >= limit {
			break
		}
		text := content.StripHTML(status.Content)
		if text == "" {
			continue
		}

		guid := status.URL
		if guid == "" {
			guid = base + "/statuses/" + status.ID
		}

		item := models.NewContentItem(src.ID, models.SourceTypeMastodon, guid,
			content.Excerpt(text, mastodonTitleLength))
		item.Published = status.CreatedAt
		item.Content = optional(status.Content)
		item.Author = optional("@" + acct)
		item.Link = optional(status.URL)
		item.Engagement = &models.Engagement{
			Likes:   status.FavouritesCount,
			Reposts: status.ReblogsCount,
			Replies: status.RepliesCount,
		}

		if !acceptItem(item, now) {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
