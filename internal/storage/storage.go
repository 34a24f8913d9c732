// ABOUTME: Storage interface and types for hagda data persistence
// ABOUTME: Defines the contract for source and content item storage operations

package storage

import (
	"time"

	"github.com/hagda/hagda/internal/models"
)

// ItemFilter specifies criteria for listing content items.
type ItemFilter struct {
	SourceID   *string
	SourceIDs  []string
	Types      []models.SourceType
	UnreadOnly *bool
	Since      *time.Time
	Until      *time.Time
	Limit      *int
	Offset     *int
}

// SourceStatsRow represents statistics for a single source.
type SourceStatsRow struct {
	SourceID      string
	SourceName    string
	SourceType    models.SourceType
	LastFetchedAt *time.Time
	LastError     *string
	ItemCount     int
	UnreadCount   int
}

// OverallStats represents overall statistics.
type OverallStats struct {
	TotalSources int
	TotalItems   int
	UnreadCount  int
}

// Store defines the storage interface for hagda data.
type Store interface {
	// Close closes the store and releases resources.
	Close() error

	// Source Operations

	// CreateSource stores a new source.
	CreateSource(src *models.Source) error

	// GetSource retrieves a source by ID.
	GetSource(id string) (*models.Source, error)

	// GetSourceByLocator finds a source by type and provider locator
	// (feed URL for article/podcast, handle for the rest).
	GetSourceByLocator(t models.SourceType, locator string) (*models.Source, error)

	// GetSourceByPrefix finds a source by ID prefix (min 6 chars).
	GetSourceByPrefix(prefix string) (*models.Source, error)

	// ListSources returns all sources, sorted by creation date (newest first).
	ListSources() ([]*models.Source, error)

	// ListSourcesByType returns sources of one provider type.
	ListSourcesByType(t models.SourceType) ([]*models.Source, error)

	// UpdateSource updates an existing source.
	UpdateSource(src *models.Source) error

	// DeleteSource removes a source and all its items (cascade).
	DeleteSource(id string) error

	// UpdateSourceFetchState updates caching headers and clears errors.
	UpdateSourceFetchState(sourceID string, etag, lastModified *string, fetchedAt time.Time) error

	// UpdateSourceError records a fetch error for a source.
	UpdateSourceError(sourceID string, errMsg string) error

	// Item Operations

	// UpsertItem stores an item, deduplicating on (source_id, guid).
	// Existing items keep their ID and read state but take the new
	// metadata and counters. Returns true when the item was new.
	UpsertItem(item *models.ContentItem) (bool, error)

	// GetItem retrieves an item by ID.
	GetItem(id string) (*models.ContentItem, error)

	// GetItemByPrefix finds an item by ID prefix (min 6 chars).
	GetItemByPrefix(prefix string) (*models.ContentItem, error)

	// ListItems returns items matching the filter, sorted by published date.
	ListItems(filter *ItemFilter) ([]*models.ContentItem, error)

	// DeleteItem removes an item.
	DeleteItem(id string) error

	// MarkItemRead marks an item as read.
	MarkItemRead(id string) error

	// MarkItemUnread marks an item as unread.
	MarkItemUnread(id string) error

	// MarkItemsReadBefore marks all unread items published before the
	// given time as read.
	MarkItemsReadBefore(before time.Time) (int64, error)

	// SetItemProgress records a consumption fraction in [0, 1].
	SetItemProgress(id string, progress float64) error

	// CountUnreadItems counts unread items, optionally filtered by source.
	CountUnreadItems(sourceID *string) (int, error)

	// Statistics

	// GetSourceStats retrieves statistics for all sources.
	GetSourceStats() ([]SourceStatsRow, error)

	// GetOverallStats retrieves overall statistics.
	GetOverallStats() (*OverallStats, error)

	// Retrieval helpers

	// FindSource resolves a user-supplied reference: exact ID, name,
	// provider locator, or ID prefix.
	FindSource(ref string) (*models.Source, error)

	// FindItem resolves an item reference: exact ID first, then prefix.
	FindItem(ref string) (*models.ContentItem, error)

	// Maintenance

	// Compact performs database maintenance (VACUUM).
	Compact() error

	// Search performs full-text search on items.
	Search(query string, limit int) ([]*models.ContentItem, error)
}
