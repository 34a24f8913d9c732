// ABOUTME: ContentItem model representing a single fetched unit of content
// ABOUTME: Carries provider engagement counters, read state, and playback progress

package models

import (
	"time"

	"github.com/google/uuid"
)

// Engagement holds the provider-reported interaction counters for an item.
// Which counters are populated depends on the provider type.
type Engagement struct {
	Upvotes int // reddit score
	Likes   int // bluesky likes, mastodon favourites
	Reposts int // bluesky reposts, mastodon reblogs
	Replies int // comment/reply count
}

// ContentItem represents one fetched unit of content attributable to a source.
type ContentItem struct {
	ID            string
	SourceID      string
	Type          SourceType
	GUID          string // Provider-stable identifier used for dedup
	Title         string
	Subtitle      *string
	Link          *string
	Author        *string
	Content       *string
	Published     time.Time // Always past or present; future-dated items are rejected upstream
	FetchedAt     time.Time
	Read          bool
	ReadAt        *time.Time
	Progress      *float64    // Consumption fraction in [0, 1], podcast playback position
	Engagement    *Engagement // Absent when the provider exposes no counters
	ChartPosition *int        // 0-based chart rank, podcast trending only
}

// NewContentItem creates a ContentItem with a generated ID and fetch timestamp.
func NewContentItem(sourceID string, t SourceType, guid, title string) *ContentItem {
	return &ContentItem{
		ID:        uuid.New().String(),
		SourceID:  sourceID,
		Type:      t,
		GUID:      guid,
		Title:     title,
		FetchedAt: time.Now(),
	}
}

// MarkRead marks the item as read and records the time.
func (c *ContentItem) MarkRead() {
	now := time.Now()
	c.Read = true
	c.ReadAt = &now
}

// MarkUnread marks the item as unread and clears the read timestamp.
func (c *ContentItem) MarkUnread() {
	c.Read = false
	c.ReadAt = nil
}

// SetProgress records a consumption fraction, clamped to [0, 1].
func (c *ContentItem) SetProgress(p float64) {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	c.Progress = &p
}

// Age returns how long ago the item was published, relative to now.
// Never negative.
func (c *ContentItem) Age(now time.Time) time.Duration {
	d := now.Sub(c.Published)
	if d < 0 {
		return 0
	}
	return d
}
