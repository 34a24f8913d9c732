// ABOUTME: Podcast adapter with two paths: the top chart for trending, episode feeds for storage
// ABOUTME: Chart entries carry their 0-based position; feed URLs resolve through the iTunes lookup API

package sources

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/hagda/hagda/internal/fetch"
	"github.com/hagda/hagda/internal/models"
	"github.com/hagda/hagda/internal/parse"
)

const chartDateFormat = "2006-01-02"

// PodcastAdapter fetches podcast content. The trending path reads the top
// chart for the whole provider; the store path fetches one show's episodes.
type PodcastAdapter struct {
	ChartBaseURL  string
	ITunesBaseURL string
}

type chartResponse struct {
	Feed struct {
		Title   string       `json:"title"`
		Results []chartEntry `json:"results"`
	} `json:"feed"`
}

type chartEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ArtistName  string `json:"artistName"`
	ReleaseDate string `json:"releaseDate"`
	ArtworkURL  string `json:"artworkUrl100"`
	URL         string `json:"url"`
}

type itunesLookupResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		CollectionID   int64  `json:"collectionId"`
		CollectionName string `json:"collectionName"`
		FeedURL        string `json:"feedUrl"`
	} `json:"results"`
}

// Type implements Adapter.
func (a *PodcastAdapter) Type() models.SourceType {
	return models.SourceTypePodcast
}

// Fetch implements Adapter by reading the top-shows chart. Every item keeps
// its 0-based chart position, including positions of entries skipped later.
func (a *PodcastAdapter) Fetch(ctx context.Context, src *models.Source, limit int) ([]*models.ContentItem, error) {
	limit = normalizeLimit(limit)
	chartURL := fmt.Sprintf("%s/api/v2/us/podcasts/top/%d/podcasts.json", a.ChartBaseURL, limit)

	var chart chartResponse
	if err := fetch.GetJSON(ctx, chartURL, &chart); err != nil {
		return nil, fmt.Errorf("fetching podcast chart: %w", err)
	}

	now := time.Now()
	items := make([]*models.ContentItem, 0, len(chart.Feed.Results))
	for i, entry := range chart.Feed.Results {
		if len(items) >= limit {
			break
		}
		if entry.Name == "" {
			continue
		}

		guid := entry.URL
		if guid == "" {
			guid = "podcast-" + entry.ID
		}

		item := models.NewContentItem(src.ID, models.SourceTypePodcast, guid, entry.Name)
		item.Author = optional(entry.ArtistName)
		item.Link = optional(entry.URL)
		item.Published = now
		if t, err := time.Parse(chartDateFormat, entry.ReleaseDate); err == nil {
			item.Published = t
		}
		position := i
		item.ChartPosition = &position

		if !acceptItem(item, now) {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// FetchEpisodes fetches the show's own RSS feed for persistence. Sources
// added from the chart carry only an iTunes id; the feed URL is resolved
// once through the lookup API and written back to the source for reuse.
func (a *PodcastAdapter) FetchEpisodes(ctx context.Context, src *models.Source, limit int) (*Outcome, error) {
	feedURL := ""
	if src.FeedURL != nil {
		feedURL = *src.FeedURL
	}
	if feedURL == "" {
		if src.Handle == nil || *src.Handle == "" {
			return nil, fmt.Errorf("podcast source %q has no feed URL or directory id", src.Name)
		}
		resolved, err := a.lookupFeedURL(ctx, *src.Handle)
		if err != nil {
			return nil, err
		}
		feedURL = resolved
		src.FeedURL = &feedURL
	}

	result, err := fetch.Fetch(ctx, feedURL, src.ETag, src.LastModified)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", feedURL, err)
	}
	if result.NotModified {
		return &Outcome{NotModified: true}, nil
	}

	feed, err := parse.Parse(result.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", feedURL, err)
	}

	return &Outcome{
		Items:        feedItems(src, feed, limit),
		ETag:         result.ETag,
		LastModified: result.LastModified,
	}, nil
}

// lookupFeedURL resolves an iTunes collection id to the show's feed URL.
func (a *PodcastAdapter) lookupFeedURL(ctx context.Context, id string) (string, error) {
	lookupURL := fmt.Sprintf("%s/lookup?id=%s", a.ITunesBaseURL, url.QueryEscape(id))

	var resp itunesLookupResponse
	if err := fetch.GetJSON(ctx, lookupURL, &resp); err != nil {
		return "", fmt.Errorf("looking up podcast %s: %w", id, err)
	}
	for _, result := range resp.Results {
		if result.FeedURL != "" {
			return result.FeedURL, nil
		}
	}
	return "", fmt.Errorf("podcast %s has no feed URL in the directory", id)
}
