// ABOUTME: Tests for the bluesky adapter covering feed filtering and post mapping
// ABOUTME: Uses an httptest server serving getAuthorFeed fixtures

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/hagda/hagda/internal/models"
)

func blueskyFeedFixture(now time.Time) string {
	created := now.Add(-time.Hour).UTC().Format(time.RFC3339)
	longText := strings.Repeat("interesting thought ", 10)
	return fmt.Sprintf(`{
		"feed": [
			{"post": {
				"uri": "at://did:plc:abc/app.bsky.feed.post/3k44",
				"author": {"did": "did:plc:abc", "handle": "alice.dev", "displayName": "Alice"},
				"record": {"text": "Shipping a new release today", "createdAt": %q},
				"replyCount": 4, "repostCount": 12, "likeCount": 96
			}},
			{"post": {
				"uri": "at://did:plc:xyz/app.bsky.feed.post/3k45",
				"author": {"did": "did:plc:xyz", "handle": "bob.dev"},
				"record": {"text": "Boosted post", "createdAt": %q},
				"likeCount": 5
			}, "reason": {"$type": "app.bsky.feed.defs#reasonRepost"}},
			{"post": {
				"uri": "at://did:plc:abc/app.bsky.feed.post/3k46",
				"author": {"did": "did:plc:abc", "handle": "alice.dev"},
				"record": {"text": "Replying to someone", "createdAt": %q},
				"likeCount": 2
			}, "reply": {"root": {"uri": "at://did:plc:xyz/app.bsky.feed.post/3k40"}}},
			{"post": {
				"uri": "at://did:plc:abc/app.bsky.feed.post/3k47",
				"author": {"did": "did:plc:abc", "handle": "alice.dev"},
				"record": {"text": %q, "createdAt": %q},
				"likeCount": 1
			}}
		]
	}`, created, created, created, longText, created)
}

func TestBlueskyAdapterFetch(t *testing.T) {
	now := time.Now()
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/xrpc/app.bsky.feed.getAuthorFeed" {
			t.Errorf("unexpected path: %q", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, blueskyFeedFixture(now))
	}))
	defer server.Close()

	adapter := &BlueskyAdapter{BaseURL: server.URL}
	src := models.NewSource(models.SourceTypeBluesky, "Alice")
	handle := "@alice.dev"
	src.Handle = &handle

	items, err := adapter.Fetch(context.Background(), src, 10)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if gotQuery != "actor=alice.dev&limit=20" {
		t.Errorf("unexpected query: %q", gotQuery)
	}

	// Repost and reply entries are filtered out
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.GUID != "at://did:plc:abc/app.bsky.feed.post/3k44" {
		t.Errorf("unexpected GUID: %q", first.GUID)
	}
	if first.Title != "Shipping a new release today" {
		t.Errorf("unexpected title: %q", first.Title)
	}
	if first.Author == nil || *first.Author != "@alice.dev" {
		t.Errorf("unexpected author: %v", first.Author)
	}
	if first.Link == nil || *first.Link != "https://bsky.app/profile/alice.dev/post/3k44" {
		t.Errorf("unexpected link: %v", first.Link)
	}
	if first.Engagement == nil {
		t.Fatal("expected engagement counters")
	}
	if first.Engagement.Likes != 96 || first.Engagement.Reposts != 12 || first.Engagement.Replies != 4 {
		t.Errorf("unexpected engagement: %+v", first.Engagement)
	}

	// Long posts get an ellipsized title but keep the full text as content
	long := items[1]
	if !strings.HasSuffix(long.Title, "…") {
		t.Errorf("expected ellipsized title, got %q", long.Title)
	}
	if utf8.RuneCountInString(long.Title) > blueskyTitleLength+1 {
		t.Errorf("title too long: %d runes", utf8.RuneCountInString(long.Title))
	}
	if long.Content == nil || !strings.HasPrefix(*long.Content, "interesting thought") {
		t.Errorf("unexpected content: %v", long.Content)
	}
}

func TestBlueskyAdapterRequiresHandle(t *testing.T) {
	adapter := &BlueskyAdapter{BaseURL: "http://127.0.0.1:0"}
	src := models.NewSource(models.SourceTypeBluesky, "No Handle")

	if _, err := adapter.Fetch(context.Background(), src, 10); err == nil {
		t.Error("expected error for source without handle")
	}
}

func TestPostWebURL(t *testing.T) {
	post := blueskyPost{URI: "at://did:plc:abc/app.bsky.feed.post/3k44"}
	post.Author.Handle = "alice.dev"
	if got := postWebURL(post); got != "https://bsky.app/profile/alice.dev/post/3k44" {
		t.Errorf("unexpected web URL: %q", got)
	}

	post.Author.Handle = ""
	if got := postWebURL(post); got != "" {
		t.Errorf("expected empty URL without handle, got %q", got)
	}
}
