// ABOUTME: Integration tests for the full content pipeline
// ABOUTME: Tests end-to-end scenarios across sync, storage, trending, brief, and OPML

package test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/hagda/hagda/internal/brief"
	"github.com/hagda/hagda/internal/models"
	"github.com/hagda/hagda/internal/opml"
	"github.com/hagda/hagda/internal/sources"
	"github.com/hagda/hagda/internal/storage"
	"github.com/hagda/hagda/internal/trending"
)

func newStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "hagda.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func rssFeed(now time.Time) string {
	older := now.Add(-20 * time.Hour).Format(time.RFC1123Z)
	recent := now.Add(-2 * time.Hour).Format(time.RFC1123Z)
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Integration Blog</title>
    <item>
      <guid>post-1</guid>
      <title>Profiling Go services in production</title>
      <link>https://blog.example.com/profiling</link>
      <description>A walkthrough of pprof endpoints and flame graphs.</description>
      <pubDate>%s</pubDate>
    </item>
    <item>
      <guid>post-2</guid>
      <title>Understanding slice growth</title>
      <link>https://blog.example.com/slices</link>
      <description>What append really does under the hood.</description>
      <pubDate>%s</pubDate>
    </item>
  </channel>
</rss>`, recent, older)
}

// TestFullPipeline follows a feed, syncs it into storage, and walks the
// reading surfaces: listing, filters, read state, search, and progress.
func TestFullPipeline(t *testing.T) {
	now := time.Now()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssFeed(now))
	}))
	defer server.Close()

	store := newStore(t)

	src := models.NewSource(models.SourceTypeArticle, "Integration Blog")
	feedURL := server.URL
	src.FeedURL = &feedURL
	if err := store.CreateSource(src); err != nil {
		t.Fatalf("failed to create source: %v", err)
	}

	registry := sources.NewRegistry(sources.Options{})

	outcome, err := sources.SyncOne(context.Background(), store, registry, src, 25, false)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if outcome.Added != 2 {
		t.Fatalf("expected 2 new items, got %d", outcome.Added)
	}

	// Second sync dedups on (source_id, guid)
	outcome, err = sources.SyncOne(context.Background(), store, registry, src, 25, false)
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if outcome.Added != 0 {
		t.Errorf("expected 0 new items on re-sync, got %d", outcome.Added)
	}

	items, err := store.ListItems(nil)
	if err != nil {
		t.Fatalf("failed to list items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 stored items, got %d", len(items))
	}
	// Newest first
	if items[0].GUID != "post-1" {
		t.Errorf("expected newest item first, got %q", items[0].GUID)
	}

	// Since filter keeps only the recent item
	since := now.Add(-6 * time.Hour)
	recent, err := store.ListItems(&storage.ItemFilter{Since: &since})
	if err != nil {
		t.Fatalf("failed to list recent items: %v", err)
	}
	if len(recent) != 1 || recent[0].GUID != "post-1" {
		t.Errorf("expected only post-1 in the window, got %d items", len(recent))
	}

	// Read state round trip
	unreadBefore, err := store.CountUnreadItems(nil)
	if err != nil {
		t.Fatalf("failed to count unread: %v", err)
	}
	if unreadBefore != 2 {
		t.Errorf("expected 2 unread items, got %d", unreadBefore)
	}

	if err := store.MarkItemRead(items[0].ID); err != nil {
		t.Fatalf("failed to mark read: %v", err)
	}
	unreadAfter, err := store.CountUnreadItems(nil)
	if err != nil {
		t.Fatalf("failed to count unread: %v", err)
	}
	if unreadAfter != 1 {
		t.Errorf("expected 1 unread item after marking, got %d", unreadAfter)
	}

	marked, err := store.GetItem(items[0].ID)
	if err != nil {
		t.Fatalf("failed to get item: %v", err)
	}
	if !marked.Read || marked.ReadAt == nil {
		t.Error("read state not persisted")
	}

	// Full-text search finds the profiling post
	found, err := store.Search("profiling", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(found) != 1 || found[0].GUID != "post-1" {
		t.Errorf("expected search to find post-1, got %d items", len(found))
	}

	// Progress is clamped and persisted
	if err := store.SetItemProgress(items[1].ID, 0.6); err != nil {
		t.Fatalf("failed to set progress: %v", err)
	}
	withProgress, err := store.GetItem(items[1].ID)
	if err != nil {
		t.Fatalf("failed to get item: %v", err)
	}
	if withProgress.Progress == nil || *withProgress.Progress != 0.6 {
		t.Errorf("expected progress 0.6, got %v", withProgress.Progress)
	}

	// Prefix resolution works with the stored IDs
	byPrefix, err := store.FindItem(items[0].ID[:8])
	if err != nil {
		t.Fatalf("failed to find item by prefix: %v", err)
	}
	if byPrefix.ID != items[0].ID {
		t.Errorf("prefix lookup returned wrong item: %s", byPrefix.ID)
	}
}

// TestTrendingAcrossProviders aggregates a reddit community and an article
// feed through the manager and checks ranking, caching, and partial failure.
func TestTrendingAcrossProviders(t *testing.T) {
	now := time.Now()

	redditRequests := 0
	redditServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		redditRequests++
		created := now.Add(-2 * time.Hour).Unix()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"data":{"children":[
			{"data":{"id":"hot1","name":"t3_hot1","title":"Big release thread",
				"author":"gopher","permalink":"/r/golang/comments/hot1/",
				"score":9000,"num_comments":800,"created_utc":%d,"stickied":false}}
		]}}`, created)
	}))
	defer redditServer.Close()

	articleServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stale := now.Add(-30 * time.Hour).Format(time.RFC1123Z)
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, `<?xml version="1.0"?><rss version="2.0"><channel>
			<title>Quiet Blog</title>
			<item><guid>old-1</guid><title>Yesterday's musings</title>
			<link>https://blog.example.com/old</link><pubDate>%s</pubDate></item>
		</channel></rss>`, stale)
	}))
	defer articleServer.Close()

	reddit := models.NewSource(models.SourceTypeReddit, "r/golang")
	handle := "golang"
	reddit.Handle = &handle

	article := models.NewSource(models.SourceTypeArticle, "Quiet Blog")
	feedURL := articleServer.URL
	article.FeedURL = &feedURL

	registry := sources.NewRegistry(sources.Options{RedditBaseURL: redditServer.URL})
	manager := trending.NewManager(registry, trending.Options{TTL: time.Minute})

	srcs := []*models.Source{reddit, article}
	items := manager.Trending(context.Background(), srcs, false)

	if err := manager.LastError(); err != nil {
		t.Fatalf("unexpected aggregation error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 trending items, got %d", len(items))
	}
	// The hot reddit post outscores the stale article
	if items[0].GUID != "t3_hot1" {
		t.Errorf("expected reddit post ranked first, got %q", items[0].GUID)
	}

	// Second call is served from cache
	before := redditRequests
	manager.Trending(context.Background(), srcs, false)
	if redditRequests != before {
		t.Errorf("cached call hit the provider (%d -> %d requests)", before, redditRequests)
	}

	// Force bypasses the cache
	manager.Trending(context.Background(), srcs, true)
	if redditRequests != before+1 {
		t.Errorf("forced call did not hit the provider (%d requests)", redditRequests)
	}

	// A failing provider contributes nothing but never sinks the rest
	articleServer.Close()
	items = manager.Trending(context.Background(), srcs, true)
	if len(items) != 1 || items[0].GUID != "t3_hot1" {
		t.Errorf("expected only the reddit item after article failure, got %d items", len(items))
	}
	if manager.LastError() == nil {
		t.Error("expected the article failure to be recorded")
	}
}

// TestOPMLRoundTrip exports feed-backed sources and reimports them.
func TestOPMLRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	opmlPath := filepath.Join(tmpDir, "sources.opml")

	blog := models.NewSource(models.SourceTypeArticle, "Tech Blog")
	blogURL := "https://blog.example.com/feed.xml"
	blog.FeedURL = &blogURL

	show := models.NewSource(models.SourceTypePodcast, "Go Time")
	showURL := "https://changelog.com/gotime/feed"
	show.FeedURL = &showURL

	reddit := models.NewSource(models.SourceTypeReddit, "r/golang")
	handle := "golang"
	reddit.Handle = &handle

	doc := opml.FromSources("hagda sources", []*models.Source{blog, show, reddit})

	// Handle-based sources have no feed URL to export
	if len(doc.Feeds) != 2 {
		t.Fatalf("expected 2 exported feeds, got %d", len(doc.Feeds))
	}

	if err := doc.WriteFile(opmlPath); err != nil {
		t.Fatalf("failed to write OPML: %v", err)
	}

	loaded, err := opml.ParseFile(opmlPath)
	if err != nil {
		t.Fatalf("failed to parse OPML: %v", err)
	}

	if loaded.Title != "hagda sources" {
		t.Errorf("expected title 'hagda sources', got %q", loaded.Title)
	}
	if !loaded.Contains(blogURL) {
		t.Error("expected exported blog feed in reimported document")
	}
	if !loaded.Contains(showURL) {
		t.Error("expected exported podcast feed in reimported document")
	}
}

// TestBriefFromStore seeds the store and generates a rendered brief.
func TestBriefFromStore(t *testing.T) {
	now := time.Now()
	store := newStore(t)

	src := models.NewSource(models.SourceTypeReddit, "r/golang")
	handle := "golang"
	src.Handle = &handle
	if err := store.CreateSource(src); err != nil {
		t.Fatalf("failed to create source: %v", err)
	}

	hot := models.NewContentItem(src.ID, models.SourceTypeReddit, "t3_hot", "Generics two years later")
	hot.Published = now.Add(-3 * time.Hour)
	hot.Engagement = &models.Engagement{Upvotes: 5000, Replies: 400}
	link := "https://reddit.example.com/hot"
	hot.Link = &link

	quiet := models.NewContentItem(src.ID, models.SourceTypeReddit, "t3_quiet", "Small question about channels")
	quiet.Published = now.Add(-5 * time.Hour)
	quiet.Engagement = &models.Engagement{Upvotes: 12, Replies: 3}

	for _, item := range []*models.ContentItem{hot, quiet} {
		if _, err := store.UpsertItem(item); err != nil {
			t.Fatalf("failed to upsert item: %v", err)
		}
	}

	b, err := brief.Generate(store, brief.Options{Size: 5, Window: 24 * time.Hour, Now: now})
	if err != nil {
		t.Fatalf("failed to generate brief: %v", err)
	}

	if b.Scanned != 2 || b.Selected != 2 {
		t.Errorf("expected 2 scanned and selected, got %d/%d", b.Scanned, b.Selected)
	}
	if b.Lead == nil || b.Lead.Item.GUID != "t3_hot" {
		t.Fatal("expected the high-engagement post to lead")
	}

	markdown := b.Markdown()
	if !containsString(markdown, "Lead story") {
		t.Error("expected markdown to contain a lead story section")
	}
	if !containsString(markdown, "Generics two years later") {
		t.Error("expected markdown to contain the lead title")
	}
	if !containsString(markdown, "r/golang") {
		t.Error("expected markdown to name the source")
	}
}

// Helper function
func containsString(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
