// ABOUTME: Tests for SQLite storage implementation
// ABOUTME: Covers source and item CRUD, dedup, filters, and FTS5 search

package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hagda/hagda/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func newTestSource(t *testing.T, store *SQLiteStore, typ models.SourceType, name string) *models.Source {
	t.Helper()
	src := models.NewSource(typ, name)
	if err := store.CreateSource(src); err != nil {
		t.Fatalf("CreateSource failed: %v", err)
	}
	return src
}

func TestNewSQLiteStore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestSourceCRUD(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	src := models.NewSource(models.SourceTypeReddit, "r/golang")
	handle := "golang"
	desc := "The Go community"
	src.Handle = &handle
	src.Description = &desc

	if err := store.CreateSource(src); err != nil {
		t.Fatalf("CreateSource failed: %v", err)
	}

	// Get by ID
	got, err := store.GetSource(src.ID)
	if err != nil {
		t.Fatalf("GetSource failed: %v", err)
	}
	if got.Name != "r/golang" {
		t.Errorf("Name mismatch: got %q, want %q", got.Name, "r/golang")
	}
	if got.Type != models.SourceTypeReddit {
		t.Errorf("Type mismatch: got %q", got.Type)
	}
	if got.Handle == nil || *got.Handle != handle {
		t.Errorf("Handle mismatch: got %v", got.Handle)
	}
	if got.Weight != 1.0 {
		t.Errorf("Weight mismatch: got %g, want 1.0", got.Weight)
	}

	// Get by locator
	got, err = store.GetSourceByLocator(models.SourceTypeReddit, "golang")
	if err != nil {
		t.Fatalf("GetSourceByLocator failed: %v", err)
	}
	if got.ID != src.ID {
		t.Errorf("ID mismatch: got %q, want %q", got.ID, src.ID)
	}

	// Get by prefix
	got, err = store.GetSourceByPrefix(src.ID[:8])
	if err != nil {
		t.Fatalf("GetSourceByPrefix failed: %v", err)
	}
	if got.ID != src.ID {
		t.Errorf("ID mismatch: got %q, want %q", got.ID, src.ID)
	}

	// Update
	if err := src.SetWeight(0.5); err != nil {
		t.Fatalf("SetWeight failed: %v", err)
	}
	if err := store.UpdateSource(src); err != nil {
		t.Fatalf("UpdateSource failed: %v", err)
	}
	got, err = store.GetSource(src.ID)
	if err != nil {
		t.Fatalf("GetSource after update failed: %v", err)
	}
	if got.Weight != 0.5 {
		t.Errorf("Weight not updated: got %g, want 0.5", got.Weight)
	}

	// List
	sources, err := store.ListSources()
	if err != nil {
		t.Fatalf("ListSources failed: %v", err)
	}
	if len(sources) != 1 {
		t.Errorf("ListSources count: got %d, want 1", len(sources))
	}

	// Delete
	if err := store.DeleteSource(src.ID); err != nil {
		t.Fatalf("DeleteSource failed: %v", err)
	}
	if _, err := store.GetSource(src.ID); err == nil {
		t.Error("expected error getting deleted source")
	}
}

func TestListSourcesByType(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	newTestSource(t, store, models.SourceTypeReddit, "r/golang")
	newTestSource(t, store, models.SourceTypeReddit, "r/programming")
	newTestSource(t, store, models.SourceTypeArticle, "The Verge")

	reddits, err := store.ListSourcesByType(models.SourceTypeReddit)
	if err != nil {
		t.Fatalf("ListSourcesByType failed: %v", err)
	}
	if len(reddits) != 2 {
		t.Errorf("expected 2 reddit sources, got %d", len(reddits))
	}
	for _, src := range reddits {
		if src.Type != models.SourceTypeReddit {
			t.Errorf("unexpected type %q", src.Type)
		}
	}
}

func TestSourceFetchState(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	src := newTestSource(t, store, models.SourceTypeArticle, "Blog")

	// Record an error
	if err := store.UpdateSourceError(src.ID, "connection refused"); err != nil {
		t.Fatalf("UpdateSourceError failed: %v", err)
	}
	got, err := store.GetSource(src.ID)
	if err != nil {
		t.Fatalf("GetSource failed: %v", err)
	}
	if got.LastError == nil || *got.LastError != "connection refused" {
		t.Errorf("LastError mismatch: got %v", got.LastError)
	}

	// A successful fetch clears the error and stores headers
	etag := `"v2"`
	lastModified := "Mon, 02 Jan 2006 15:04:05 GMT"
	fetchedAt := time.Now()
	if err := store.UpdateSourceFetchState(src.ID, &etag, &lastModified, fetchedAt); err != nil {
		t.Fatalf("UpdateSourceFetchState failed: %v", err)
	}

	got, err = store.GetSource(src.ID)
	if err != nil {
		t.Fatalf("GetSource failed: %v", err)
	}
	if got.LastError != nil {
		t.Errorf("LastError should be cleared, got %v", *got.LastError)
	}
	if got.ETag == nil || *got.ETag != etag {
		t.Errorf("ETag mismatch: got %v", got.ETag)
	}
	if got.LastFetchedAt == nil {
		t.Error("LastFetchedAt should be set")
	}
}

func TestUpsertItem(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	src := newTestSource(t, store, models.SourceTypeReddit, "r/golang")

	item := models.NewContentItem(src.ID, models.SourceTypeReddit, "t3_abc", "Go 1.25 released")
	item.Published = time.Now().Add(-time.Hour)
	item.Engagement = &models.Engagement{Upvotes: 100, Replies: 10}

	inserted, err := store.UpsertItem(item)
	if err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}
	if !inserted {
		t.Error("first upsert should insert")
	}

	// Mark read, then upsert the same GUID with fresh counters
	if err := store.MarkItemRead(item.ID); err != nil {
		t.Fatalf("MarkItemRead failed: %v", err)
	}

	refreshed := models.NewContentItem(src.ID, models.SourceTypeReddit, "t3_abc", "Go 1.25 released")
	refreshed.Published = item.Published
	refreshed.Engagement = &models.Engagement{Upvotes: 250, Replies: 40}

	inserted, err = store.UpsertItem(refreshed)
	if err != nil {
		t.Fatalf("second UpsertItem failed: %v", err)
	}
	if inserted {
		t.Error("second upsert should update, not insert")
	}
	if refreshed.ID != item.ID {
		t.Errorf("upsert should adopt the existing ID: got %q, want %q", refreshed.ID, item.ID)
	}

	got, err := store.GetItem(item.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got.Engagement == nil || got.Engagement.Upvotes != 250 {
		t.Errorf("counters not refreshed: %+v", got.Engagement)
	}
	if !got.Read {
		t.Error("read state should survive the upsert")
	}

	// Still one row
	stats, err := store.GetOverallStats()
	if err != nil {
		t.Fatalf("GetOverallStats failed: %v", err)
	}
	if stats.TotalItems != 1 {
		t.Errorf("expected 1 item, got %d", stats.TotalItems)
	}
}

func TestItemEngagementRoundTrip(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	src := newTestSource(t, store, models.SourceTypeArticle, "Blog")

	// Articles carry no counters
	plain := models.NewContentItem(src.ID, models.SourceTypeArticle, "a-1", "No counters")
	plain.Published = time.Now().Add(-time.Hour)
	if _, err := store.UpsertItem(plain); err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}

	got, err := store.GetItem(plain.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got.Engagement != nil {
		t.Errorf("expected nil engagement, got %+v", got.Engagement)
	}
}

func TestListItemsFilters(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	redditSrc := newTestSource(t, store, models.SourceTypeReddit, "r/golang")
	blogSrc := newTestSource(t, store, models.SourceTypeArticle, "Blog")

	now := time.Now()
	makeItem := func(src *models.Source, guid string, age time.Duration, read bool) *models.ContentItem {
		item := models.NewContentItem(src.ID, src.Type, guid, "Item "+guid)
		item.Published = now.Add(-age)
		if _, err := store.UpsertItem(item); err != nil {
			t.Fatalf("UpsertItem %s failed: %v", guid, err)
		}
		if read {
			if err := store.MarkItemRead(item.ID); err != nil {
				t.Fatalf("MarkItemRead failed: %v", err)
			}
		}
		return item
	}

	makeItem(redditSrc, "r-new", time.Hour, false)
	makeItem(redditSrc, "r-old", 40*time.Hour, true)
	makeItem(blogSrc, "b-new", 2*time.Hour, false)

	// No filter: newest first
	all, err := store.ListItems(nil)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 items, got %d", len(all))
	}
	if all[0].GUID != "r-new" || all[2].GUID != "r-old" {
		t.Errorf("unexpected order: %q, %q, %q", all[0].GUID, all[1].GUID, all[2].GUID)
	}

	// By source
	items, err := store.ListItems(&ItemFilter{SourceID: &redditSrc.ID})
	if err != nil {
		t.Fatalf("ListItems by source failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 reddit items, got %d", len(items))
	}

	// By type
	items, err = store.ListItems(&ItemFilter{Types: []models.SourceType{models.SourceTypeArticle}})
	if err != nil {
		t.Fatalf("ListItems by type failed: %v", err)
	}
	if len(items) != 1 || items[0].GUID != "b-new" {
		t.Errorf("unexpected type filter result: %d items", len(items))
	}

	// Unread only
	unread := true
	items, err = store.ListItems(&ItemFilter{UnreadOnly: &unread})
	if err != nil {
		t.Fatalf("ListItems unread failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 unread items, got %d", len(items))
	}

	// Since window
	since := now.Add(-24 * time.Hour)
	items, err = store.ListItems(&ItemFilter{Since: &since})
	if err != nil {
		t.Fatalf("ListItems since failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 recent items, got %d", len(items))
	}

	// Limit and offset
	limit := 1
	offset := 1
	items, err = store.ListItems(&ItemFilter{Limit: &limit, Offset: &offset})
	if err != nil {
		t.Fatalf("ListItems paged failed: %v", err)
	}
	if len(items) != 1 || items[0].GUID != "b-new" {
		t.Errorf("unexpected page: %d items", len(items))
	}
}

func TestMarkItemsReadBefore(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	src := newTestSource(t, store, models.SourceTypeArticle, "Blog")
	now := time.Now()

	old := models.NewContentItem(src.ID, src.Type, "old", "Old")
	old.Published = now.Add(-48 * time.Hour)
	if _, err := store.UpsertItem(old); err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}

	recent := models.NewContentItem(src.ID, src.Type, "recent", "Recent")
	recent.Published = now.Add(-time.Hour)
	if _, err := store.UpsertItem(recent); err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}

	n, err := store.MarkItemsReadBefore(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("MarkItemsReadBefore failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 item marked, got %d", n)
	}

	count, err := store.CountUnreadItems(nil)
	if err != nil {
		t.Fatalf("CountUnreadItems failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 unread item, got %d", count)
	}
}

func TestSetItemProgress(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	src := newTestSource(t, store, models.SourceTypePodcast, "Tech Talk")
	item := models.NewContentItem(src.ID, src.Type, "ep-1", "Episode 1")
	item.Published = time.Now().Add(-time.Hour)
	if _, err := store.UpsertItem(item); err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}

	if err := store.SetItemProgress(item.ID, 0.65); err != nil {
		t.Fatalf("SetItemProgress failed: %v", err)
	}

	got, err := store.GetItem(item.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got.Progress == nil || *got.Progress != 0.65 {
		t.Errorf("progress mismatch: got %v", got.Progress)
	}

	if err := store.SetItemProgress(item.ID, 1.5); err == nil {
		t.Error("expected error for out-of-range progress")
	}
	if err := store.SetItemProgress("missing-id", 0.5); err == nil {
		t.Error("expected error for missing item")
	}
}

func TestDeleteSourceCascades(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	src := newTestSource(t, store, models.SourceTypeReddit, "r/golang")
	item := models.NewContentItem(src.ID, src.Type, "t3_abc", "Post")
	item.Published = time.Now().Add(-time.Hour)
	if _, err := store.UpsertItem(item); err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}

	if err := store.DeleteSource(src.ID); err != nil {
		t.Fatalf("DeleteSource failed: %v", err)
	}

	if _, err := store.GetItem(item.ID); err == nil {
		t.Error("items should cascade on source delete")
	}
}

func TestFindSource(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	src := models.NewSource(models.SourceTypeBluesky, "Alice")
	handle := "alice.dev"
	src.Handle = &handle
	if err := store.CreateSource(src); err != nil {
		t.Fatalf("CreateSource failed: %v", err)
	}

	// Exact ID
	if got, err := store.FindSource(src.ID); err != nil || got.ID != src.ID {
		t.Errorf("FindSource by ID failed: %v", err)
	}

	// Name, case-insensitive
	if got, err := store.FindSource("alice"); err != nil || got.ID != src.ID {
		t.Errorf("FindSource by name failed: %v", err)
	}

	// Locator
	if got, err := store.FindSource("alice.dev"); err != nil || got.ID != src.ID {
		t.Errorf("FindSource by handle failed: %v", err)
	}

	// Prefix
	if got, err := store.FindSource(src.ID[:8]); err != nil || got.ID != src.ID {
		t.Errorf("FindSource by prefix failed: %v", err)
	}

	// Unknown
	if _, err := store.FindSource("zzzzzz"); err == nil {
		t.Error("expected error for unknown reference")
	}
}

func TestFindItem(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	src := newTestSource(t, store, models.SourceTypeArticle, "Blog")
	item := models.NewContentItem(src.ID, src.Type, "a-1", "Post")
	item.Published = time.Now().Add(-time.Hour)
	if _, err := store.UpsertItem(item); err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}

	if got, err := store.FindItem(item.ID); err != nil || got.ID != item.ID {
		t.Errorf("FindItem by ID failed: %v", err)
	}
	if got, err := store.FindItem(item.ID[:8]); err != nil || got.ID != item.ID {
		t.Errorf("FindItem by prefix failed: %v", err)
	}
	if _, err := store.FindItem("nope"); err == nil {
		t.Error("expected error for unknown item")
	}
}

func TestSearch(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	src := newTestSource(t, store, models.SourceTypeArticle, "Blog")
	now := time.Now()

	first := models.NewContentItem(src.ID, src.Type, "a-1", "Understanding goroutines")
	first.Published = now.Add(-time.Hour)
	content := "A deep dive into the Go scheduler."
	first.Content = &content
	if _, err := store.UpsertItem(first); err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}

	second := models.NewContentItem(src.ID, src.Type, "a-2", "Cooking with cast iron")
	second.Published = now.Add(-2 * time.Hour)
	if _, err := store.UpsertItem(second); err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}

	results, err := store.Search("goroutines", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].GUID != "a-1" {
		t.Errorf("unexpected search results: %d", len(results))
	}

	// Content matches too
	results, err = store.Search("scheduler", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected content match, got %d results", len(results))
	}

	// Updated items stay searchable under the new text
	first.Title = "Understanding channels"
	if _, err := store.UpsertItem(first); err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}
	results, err = store.Search("channels", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected updated match, got %d results", len(results))
	}
}

func TestGetSourceStats(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	src := newTestSource(t, store, models.SourceTypeReddit, "r/golang")

	for i, guid := range []string{"t3_a", "t3_b", "t3_c"} {
		item := models.NewContentItem(src.ID, src.Type, guid, "Post "+guid)
		item.Published = time.Now().Add(-time.Duration(i+1) * time.Hour)
		if _, err := store.UpsertItem(item); err != nil {
			t.Fatalf("UpsertItem failed: %v", err)
		}
		if i == 0 {
			if err := store.MarkItemRead(item.ID); err != nil {
				t.Fatalf("MarkItemRead failed: %v", err)
			}
		}
	}

	stats, err := store.GetSourceStats()
	if err != nil {
		t.Fatalf("GetSourceStats failed: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 row, got %d", len(stats))
	}
	row := stats[0]
	if row.SourceName != "r/golang" || row.SourceType != models.SourceTypeReddit {
		t.Errorf("unexpected row: %+v", row)
	}
	if row.ItemCount != 3 {
		t.Errorf("expected 3 items, got %d", row.ItemCount)
	}
	if row.UnreadCount != 2 {
		t.Errorf("expected 2 unread, got %d", row.UnreadCount)
	}
}

func TestCompact(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	if err := store.Compact(); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}
}
