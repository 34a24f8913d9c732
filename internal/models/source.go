// ABOUTME: Source model representing a followed content provider with HTTP caching support
// ABOUTME: Covers the five provider types (article, reddit, bluesky, mastodon, podcast)

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SourceType identifies the provider behind a source. The set is closed;
// a source's type never changes after creation.
type SourceType string

const (
	SourceTypeArticle  SourceType = "article"
	SourceTypeReddit   SourceType = "reddit"
	SourceTypeBluesky  SourceType = "bluesky"
	SourceTypeMastodon SourceType = "mastodon"
	SourceTypePodcast  SourceType = "podcast"
)

// SourceTypes lists all valid provider types in display order.
var SourceTypes = []SourceType{
	SourceTypeArticle,
	SourceTypeReddit,
	SourceTypeBluesky,
	SourceTypeMastodon,
	SourceTypePodcast,
}

// ParseSourceType converts a string into a SourceType.
func ParseSourceType(s string) (SourceType, error) {
	for _, t := range SourceTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown source type %q (valid: article, reddit, bluesky, mastodon, podcast)", s)
}

// Source represents a followed content provider.
type Source struct {
	ID            string     // Unique identifier for the source
	Type          SourceType // Provider type, immutable after creation
	Name          string     // Display name
	Handle        *string    // Community (reddit) or account handle (bluesky/mastodon)
	Server        *string    // Instance hostname (mastodon)
	FeedURL       *string    // Feed URL (article, podcast)
	ArtworkURL    *string    // Artwork/icon URL
	Description   *string    // Free-text description
	Weight        float64    // User preference weight in (0, 1], default 1.0
	ETag          *string    // HTTP ETag header for conditional requests
	LastModified  *string    // HTTP Last-Modified header for conditional requests
	LastFetchedAt *time.Time // Timestamp of last successful fetch
	LastError     *string    // Last fetch error message (if any)
	CreatedAt     time.Time  // Source creation timestamp
	UpdatedAt     time.Time  // Last modification timestamp
}

// NewSource creates a Source with a generated ID, default weight, and timestamps.
func NewSource(t SourceType, name string) *Source {
	now := time.Now()
	return &Source{
		ID:        uuid.New().String(),
		Type:      t,
		Name:      name,
		Weight:    1.0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetCacheHeaders updates the source's HTTP caching headers for conditional requests.
func (s *Source) SetCacheHeaders(etag, lastModified string) {
	if etag != "" {
		s.ETag = &etag
	}
	if lastModified != "" {
		s.LastModified = &lastModified
	}
}

// SetWeight assigns the user preference weight. Values outside (0, 1] are rejected.
func (s *Source) SetWeight(w float64) error {
	if w <= 0 || w > 1 {
		return fmt.Errorf("weight must be in (0, 1], got %g", w)
	}
	s.Weight = w
	return nil
}

// Locator returns the value that identifies this source at its provider:
// the feed URL for article/podcast sources, the community or handle otherwise.
// Podcasts followed by directory id report the id until the feed URL resolves.
func (s *Source) Locator() string {
	switch s.Type {
	case SourceTypeArticle, SourceTypePodcast:
		if s.FeedURL != nil && *s.FeedURL != "" {
			return *s.FeedURL
		}
		if s.Type == SourceTypePodcast && s.Handle != nil {
			return *s.Handle
		}
	case SourceTypeReddit, SourceTypeBluesky, SourceTypeMastodon:
		if s.Handle != nil {
			return *s.Handle
		}
	}
	return ""
}

// Validate checks structural invariants. Reddit and mastodon sources may omit
// the handle/server (adapters fall back to configured defaults); article
// sources must carry a feed URL, podcasts a feed URL or directory id.
func (s *Source) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("source has no ID")
	}
	if s.Name == "" {
		return fmt.Errorf("source has no name")
	}
	if _, err := ParseSourceType(string(s.Type)); err != nil {
		return err
	}
	if s.Weight <= 0 || s.Weight > 1 {
		return fmt.Errorf("weight must be in (0, 1], got %g", s.Weight)
	}
	switch s.Type {
	case SourceTypeArticle:
		if s.FeedURL == nil || *s.FeedURL == "" {
			return fmt.Errorf("article source %q has no feed URL", s.Name)
		}
	case SourceTypeBluesky:
		if s.Handle == nil || *s.Handle == "" {
			return fmt.Errorf("bluesky source %q has no handle", s.Name)
		}
	case SourceTypePodcast:
		if (s.FeedURL == nil || *s.FeedURL == "") && (s.Handle == nil || *s.Handle == "") {
			return fmt.Errorf("podcast source %q has no feed URL or directory id", s.Name)
		}
	}
	return nil
}
