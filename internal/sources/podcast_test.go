// ABOUTME: Tests for the podcast adapter covering the chart and episode feed paths
// ABOUTME: Uses httptest servers standing in for the chart, lookup, and feed endpoints

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hagda/hagda/internal/models"
)

func TestPodcastAdapterFetchChart(t *testing.T) {
	releaseDate := time.Now().Add(-72 * time.Hour).Format(chartDateFormat)

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"feed": {
				"title": "Top Shows",
				"results": [
					{"id": "101", "name": "Tech Talk", "artistName": "Example Network",
					 "releaseDate": %q, "url": "https://podcasts.example.com/tech-talk"},
					{"id": "102", "name": "", "artistName": "Nameless"},
					{"id": "103", "name": "Daily News", "artistName": "News Corp",
					 "url": "https://podcasts.example.com/daily-news"}
				]
			}
		}`, releaseDate)
	}))
	defer server.Close()

	adapter := &PodcastAdapter{ChartBaseURL: server.URL, ITunesBaseURL: server.URL}
	src := models.NewSource(models.SourceTypePodcast, "Top Podcasts")

	items, err := adapter.Fetch(context.Background(), src, 10)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if gotPath != "/api/v2/us/podcasts/top/10/podcasts.json" {
		t.Errorf("unexpected path: %q", gotPath)
	}

	// The unnamed entry is dropped but later entries keep their chart position
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Title != "Tech Talk" {
		t.Errorf("unexpected title: %q", first.Title)
	}
	if first.Author == nil || *first.Author != "Example Network" {
		t.Errorf("unexpected author: %v", first.Author)
	}
	if first.ChartPosition == nil || *first.ChartPosition != 0 {
		t.Errorf("expected chart position 0, got %v", first.ChartPosition)
	}
	want, err := time.Parse(chartDateFormat, releaseDate)
	if err != nil {
		t.Fatalf("bad fixture date: %v", err)
	}
	if !first.Published.Equal(want) {
		t.Errorf("expected published %v, got %v", want, first.Published)
	}

	second := items[1]
	if second.Title != "Daily News" {
		t.Errorf("unexpected title: %q", second.Title)
	}
	if second.ChartPosition == nil || *second.ChartPosition != 2 {
		t.Errorf("expected chart position 2, got %v", second.ChartPosition)
	}
	// No release date falls back to the fetch time
	if time.Since(second.Published) > time.Minute {
		t.Errorf("expected recent published time, got %v", second.Published)
	}
}

func TestPodcastAdapterFetchEpisodesResolvesFeedURL(t *testing.T) {
	now := time.Now()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/lookup", func(w http.ResponseWriter, r *http.Request) {
		if id := r.URL.Query().Get("id"); id != "101" {
			t.Errorf("unexpected lookup id: %q", id)
		}
		fmt.Fprintf(w, `{"resultCount": 1, "results": [
			{"collectionId": 101, "collectionName": "Tech Talk", "feedUrl": %q}
		]}`, server.URL+"/feed.xml")
	})
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"ep-v1"`)
		fmt.Fprint(w, rssFixture(now))
	})

	adapter := &PodcastAdapter{ChartBaseURL: server.URL, ITunesBaseURL: server.URL}
	src := models.NewSource(models.SourceTypePodcast, "Tech Talk")
	handle := "101"
	src.Handle = &handle

	outcome, err := adapter.FetchEpisodes(context.Background(), src, 10)
	if err != nil {
		t.Fatalf("FetchEpisodes failed: %v", err)
	}

	if src.FeedURL == nil || *src.FeedURL != server.URL+"/feed.xml" {
		t.Errorf("expected resolved feed URL written back, got %v", src.FeedURL)
	}
	if len(outcome.Items) != 2 {
		t.Fatalf("expected 2 episodes, got %d", len(outcome.Items))
	}
	if outcome.ETag != `"ep-v1"` {
		t.Errorf("unexpected ETag: %q", outcome.ETag)
	}
	for _, item := range outcome.Items {
		if item.Type != models.SourceTypePodcast {
			t.Errorf("expected podcast type, got %q", item.Type)
		}
		if item.ChartPosition != nil {
			t.Error("episodes should not carry a chart position")
		}
	}
}

func TestPodcastAdapterFetchEpisodesNotModified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"ep-v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		t.Errorf("expected conditional request, got headers %v", r.Header)
	}))
	defer server.Close()

	adapter := &PodcastAdapter{ChartBaseURL: server.URL, ITunesBaseURL: server.URL}
	src := models.NewSource(models.SourceTypePodcast, "Tech Talk")
	feedURL := server.URL + "/feed.xml"
	src.FeedURL = &feedURL
	src.SetCacheHeaders(`"ep-v1"`, "")

	outcome, err := adapter.FetchEpisodes(context.Background(), src, 10)
	if err != nil {
		t.Fatalf("FetchEpisodes failed: %v", err)
	}
	if !outcome.NotModified {
		t.Error("expected NotModified outcome")
	}
}

func TestPodcastAdapterFetchEpisodesWithoutLocator(t *testing.T) {
	adapter := &PodcastAdapter{ChartBaseURL: "http://127.0.0.1:0", ITunesBaseURL: "http://127.0.0.1:0"}
	src := models.NewSource(models.SourceTypePodcast, "Mystery Show")

	if _, err := adapter.FetchEpisodes(context.Background(), src, 10); err == nil {
		t.Error("expected error for podcast without feed URL or directory id")
	}
}

func TestPodcastAdapterLookupWithoutFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"resultCount": 0, "results": []}`)
	}))
	defer server.Close()

	adapter := &PodcastAdapter{ChartBaseURL: server.URL, ITunesBaseURL: server.URL}
	src := models.NewSource(models.SourceTypePodcast, "Tech Talk")
	handle := "999"
	src.Handle = &handle

	if _, err := adapter.FetchEpisodes(context.Background(), src, 10); err == nil {
		t.Error("expected error when the directory has no feed URL")
	}
}
