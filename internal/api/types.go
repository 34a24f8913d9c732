// ABOUTME: Handler dependencies and JSON output shapes for the HTTP API
// ABOUTME: Output structs keep the wire format independent of the storage models

package api

import (
	"time"

	"github.com/hagda/hagda/internal/brief"
	"github.com/hagda/hagda/internal/config"
	"github.com/hagda/hagda/internal/models"
	"github.com/hagda/hagda/internal/sources"
	"github.com/hagda/hagda/internal/storage"
	"github.com/hagda/hagda/internal/trending"
)

// Handler carries the dependencies the route handlers need.
type Handler struct {
	store    storage.Store
	registry *sources.Registry
	manager  *trending.Manager
	cfg      *config.Config
	version  string
}

// NewHandler creates a handler over the shared store, source registry, and
// trending manager.
func NewHandler(store storage.Store, registry *sources.Registry, manager *trending.Manager, cfg *config.Config, version string) *Handler {
	return &Handler{
		store:    store,
		registry: registry,
		manager:  manager,
		cfg:      cfg,
		version:  version,
	}
}

// SourceOutput is the API representation of a followed source.
type SourceOutput struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Name          string     `json:"name"`
	Handle        *string    `json:"handle,omitempty"`
	Server        *string    `json:"server,omitempty"`
	FeedURL       *string    `json:"feed_url,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Weight        float64    `json:"weight"`
	LastFetchedAt *time.Time `json:"last_fetched_at,omitempty"`
	LastError     *string    `json:"last_error,omitempty"`
	ItemCount     int        `json:"item_count"`
	UnreadCount   int        `json:"unread_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ItemOutput is the API representation of a content item.
type ItemOutput struct {
	ID          string            `json:"id"`
	SourceID    string            `json:"source_id"`
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	Subtitle    *string           `json:"subtitle,omitempty"`
	Link        *string           `json:"link,omitempty"`
	Author      *string           `json:"author,omitempty"`
	PublishedAt time.Time         `json:"published_at"`
	Read        bool              `json:"read"`
	Progress    *float64          `json:"progress,omitempty"`
	Engagement  *EngagementOutput `json:"engagement,omitempty"`
}

// EngagementOutput mirrors a provider's raw engagement counters.
type EngagementOutput struct {
	Upvotes int `json:"upvotes"`
	Likes   int `json:"likes"`
	Reposts int `json:"reposts"`
	Replies int `json:"replies"`
}

// BriefCardOutput is one story inside a brief.
type BriefCardOutput struct {
	Item           ItemOutput `json:"item"`
	SourceName     string     `json:"source_name"`
	ReadingMinutes int        `json:"reading_minutes"`
}

// BriefSectionOutput groups brief cards of one provider type.
type BriefSectionOutput struct {
	Type  string            `json:"type"`
	Title string            `json:"title"`
	Cards []BriefCardOutput `json:"cards"`
}

// BriefOutput is the API representation of a generated daily brief.
type BriefOutput struct {
	Date          string               `json:"date"`
	Greeting      string               `json:"greeting"`
	Window        string               `json:"window"`
	Scanned       int                  `json:"scanned"`
	Selected      int                  `json:"selected"`
	Lead          *BriefCardOutput     `json:"lead,omitempty"`
	Sections      []BriefSectionOutput `json:"sections"`
	ActiveSources string               `json:"active_sources,omitempty"`
	Keywords      []string             `json:"keywords,omitempty"`
}

// AddSourceRequest creates a new source.
type AddSourceRequest struct {
	Type    string   `json:"type"`
	Name    string   `json:"name"`
	Handle  string   `json:"handle"`
	Server  string   `json:"server"`
	FeedURL string   `json:"feed_url"`
	Weight  *float64 `json:"weight"`
}

// UpdateSourceRequest patches mutable source fields.
type UpdateSourceRequest struct {
	Name   *string  `json:"name"`
	Weight *float64 `json:"weight"`
}

// RefreshRequest triggers a store sync for one source or all of them.
type RefreshRequest struct {
	Source string `json:"source"`
	Force  bool   `json:"force"`
}

// RefreshResult reports the sync outcome for one source.
type RefreshResult struct {
	Source      string `json:"source"`
	Added       int    `json:"added"`
	Refreshed   int    `json:"refreshed"`
	NotModified bool   `json:"not_modified,omitempty"`
	Error       string `json:"error,omitempty"`
}

func sourceOutput(src *models.Source, stats *storage.SourceStatsRow) SourceOutput {
	out := SourceOutput{
		ID:            src.ID,
		Type:          string(src.Type),
		Name:          src.Name,
		Handle:        src.Handle,
		Server:        src.Server,
		FeedURL:       src.FeedURL,
		Description:   src.Description,
		Weight:        src.Weight,
		LastFetchedAt: src.LastFetchedAt,
		LastError:     src.LastError,
		CreatedAt:     src.CreatedAt,
	}
	if stats != nil {
		out.ItemCount = stats.ItemCount
		out.UnreadCount = stats.UnreadCount
	}
	return out
}

func itemOutput(item *models.ContentItem) ItemOutput {
	out := ItemOutput{
		ID:          item.ID,
		SourceID:    item.SourceID,
		Type:        string(item.Type),
		Title:       item.Title,
		Subtitle:    item.Subtitle,
		Link:        item.Link,
		Author:      item.Author,
		PublishedAt: item.Published,
		Read:        item.Read,
		Progress:    item.Progress,
	}
	if item.Engagement != nil {
		out.Engagement = &EngagementOutput{
			Upvotes: item.Engagement.Upvotes,
			Likes:   item.Engagement.Likes,
			Reposts: item.Engagement.Reposts,
			Replies: item.Engagement.Replies,
		}
	}
	return out
}

func itemOutputs(items []*models.ContentItem) []ItemOutput {
	outputs := make([]ItemOutput, 0, len(items))
	for _, item := range items {
		outputs = append(outputs, itemOutput(item))
	}
	return outputs
}

func briefCardOutput(card brief.Card) BriefCardOutput {
	return BriefCardOutput{
		Item:           itemOutput(card.Item),
		SourceName:     card.SourceName,
		ReadingMinutes: card.ReadingTime,
	}
}

func briefOutput(b *brief.Brief) BriefOutput {
	out := BriefOutput{
		Date:          b.DateLabel,
		Greeting:      b.Greeting,
		Window:        b.Window.String(),
		Scanned:       b.Scanned,
		Selected:      b.Selected,
		Sections:      make([]BriefSectionOutput, 0, len(b.Sections)),
		ActiveSources: b.ActiveSources,
		Keywords:      b.Keywords,
	}
	if b.Lead != nil {
		lead := briefCardOutput(*b.Lead)
		out.Lead = &lead
	}
	for _, section := range b.Sections {
		cards := make([]BriefCardOutput, 0, len(section.Cards))
		for _, card := range section.Cards {
			cards = append(cards, briefCardOutput(card))
		}
		out.Sections = append(out.Sections, BriefSectionOutput{
			Type:  string(section.Type),
			Title: section.Title,
			Cards: cards,
		})
	}
	return out
}
