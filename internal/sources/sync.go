// ABOUTME: Store-bound sync of a single source: fetch, dedup-upsert, and fetch-state bookkeeping
// ABOUTME: Shared by the fetch command, the HTTP refresh endpoint, and the MCP refresh tool

package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/hagda/hagda/internal/models"
	"github.com/hagda/hagda/internal/storage"
)

// SyncOutcome reports what one source sync did.
type SyncOutcome struct {
	Added       int
	Refreshed   int
	NotModified bool
}

// SyncOne fetches a source's latest content and stores it. Fetch errors are
// recorded on the source; successful passes clear them and update the
// conditional-request headers. force ignores stored cache headers.
func SyncOne(ctx context.Context, store storage.Store, registry *Registry, src *models.Source, limit int, force bool) (SyncOutcome, error) {
	var outcome SyncOutcome

	if force {
		src.ETag = nil
		src.LastModified = nil
	}
	hadFeedURL := src.FeedURL != nil && *src.FeedURL != ""

	result, err := registry.FetchItems(ctx, src, limit)
	if err != nil {
		if updateErr := store.UpdateSourceError(src.ID, err.Error()); updateErr != nil {
			return outcome, fmt.Errorf("fetch failed (%v) and error update failed: %w", err, updateErr)
		}
		return outcome, err
	}

	now := time.Now()

	if result.NotModified {
		outcome.NotModified = true
		if err := store.UpdateSourceFetchState(src.ID, src.ETag, src.LastModified, now); err != nil {
			return outcome, fmt.Errorf("failed to update source state: %w", err)
		}
		return outcome, nil
	}

	for _, item := range result.Items {
		inserted, err := store.UpsertItem(item)
		if err != nil {
			return outcome, fmt.Errorf("failed to store item: %w", err)
		}
		if inserted {
			outcome.Added++
		} else {
			outcome.Refreshed++
		}
	}

	if err := store.UpdateSourceFetchState(src.ID, optional(result.ETag), optional(result.LastModified), now); err != nil {
		return outcome, fmt.Errorf("failed to update source state: %w", err)
	}

	// Podcast sources resolve their feed URL on first fetch; persist it
	if !hadFeedURL && src.FeedURL != nil && *src.FeedURL != "" {
		src.ETag = optional(result.ETag)
		src.LastModified = optional(result.LastModified)
		src.LastFetchedAt = &now
		src.LastError = nil
		if err := store.UpdateSource(src); err != nil {
			return outcome, fmt.Errorf("failed to persist resolved feed URL: %w", err)
		}
	}

	return outcome, nil
}
