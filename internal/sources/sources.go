// ABOUTME: Adapter registry mapping each provider type to its fetch implementation
// ABOUTME: Exposes the trending fetch path and the store-bound fetch path with conditional GET

package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/hagda/hagda/internal/models"
)

// DefaultLimit is how many items an adapter fetches when the caller does not say.
const DefaultLimit = 10

// Adapter fetches content for one provider type. For podcast sources the
// trending path returns the top chart rather than a specific show's episodes.
type Adapter interface {
	Type() models.SourceType
	Fetch(ctx context.Context, src *models.Source, limit int) ([]*models.ContentItem, error)
}

// Outcome is the result of a store-bound fetch. Feed-backed providers carry
// conditional-request headers; NotModified means the provider confirmed the
// cached content is still current and Items is empty.
type Outcome struct {
	Items        []*models.ContentItem
	NotModified  bool
	ETag         string
	LastModified string
}

// Options configures the registry. Base URLs exist so tests can point
// adapters at local servers; zero values select the real providers.
type Options struct {
	RedditBaseURL    string
	BlueskyBaseURL   string
	ChartBaseURL     string
	ITunesBaseURL    string
	DefaultCommunity string // reddit sources without a handle
	DefaultServer    string // mastodon sources without a server
}

// Registry wires one adapter per provider type with shared configuration.
type Registry struct {
	article  *ArticleAdapter
	reddit   *RedditAdapter
	bluesky  *BlueskyAdapter
	mastodon *MastodonAdapter
	podcast  *PodcastAdapter

	adapters map[models.SourceType]Adapter
}

// NewRegistry creates a registry with every provider adapter registered.
func NewRegistry(opts Options) *Registry {
	if opts.RedditBaseURL == "" {
		opts.RedditBaseURL = "https://www.reddit.com"
	}
	if opts.BlueskyBaseURL == "" {
		opts.BlueskyBaseURL = "https://public.api.bsky.app"
	}
	if opts.ChartBaseURL == "" {
		opts.ChartBaseURL = "https://rss.applemarketingtools.com"
	}
	if opts.ITunesBaseURL == "" {
		opts.ITunesBaseURL = "https://itunes.apple.com"
	}
	if opts.DefaultCommunity == "" {
		opts.DefaultCommunity = "programming"
	}
	if opts.DefaultServer == "" {
		opts.DefaultServer = "mastodon.social"
	}

	r := &Registry{
		article:  &ArticleAdapter{},
		reddit:   &RedditAdapter{BaseURL: opts.RedditBaseURL, DefaultCommunity: opts.DefaultCommunity},
		bluesky:  &BlueskyAdapter{BaseURL: opts.BlueskyBaseURL},
		mastodon: &MastodonAdapter{DefaultServer: opts.DefaultServer},
		podcast:  &PodcastAdapter{ChartBaseURL: opts.ChartBaseURL, ITunesBaseURL: opts.ITunesBaseURL},
	}
	r.adapters = map[models.SourceType]Adapter{
		models.SourceTypeArticle:  r.article,
		models.SourceTypeReddit:   r.reddit,
		models.SourceTypeBluesky:  r.bluesky,
		models.SourceTypeMastodon: r.mastodon,
		models.SourceTypePodcast:  r.podcast,
	}
	return r
}

// ForType returns the adapter for the given provider type.
func (r *Registry) ForType(t models.SourceType) (Adapter, error) {
	adapter, ok := r.adapters[t]
	if !ok {
		return nil, fmt.Errorf("no adapter for source type %q", t)
	}
	return adapter, nil
}

// FetchTrending fetches ranked-fetch candidates for one source. Satisfies
// the trending manager's Fetcher interface.
func (r *Registry) FetchTrending(ctx context.Context, src *models.Source, limit int) ([]*models.ContentItem, error) {
	adapter, err := r.ForType(src.Type)
	if err != nil {
		return nil, err
	}
	return adapter.Fetch(ctx, src, limit)
}

// FetchItems fetches a source's latest content for persistence. Feed-backed
// sources (article, podcast) use conditional requests with the source's
// stored ETag/Last-Modified; podcast sources fetch their own episodes here
// rather than the chart.
func (r *Registry) FetchItems(ctx context.Context, src *models.Source, limit int) (*Outcome, error) {
	switch src.Type {
	case models.SourceTypeArticle:
		return r.article.FetchConditional(ctx, src, limit)
	case models.SourceTypePodcast:
		return r.podcast.FetchEpisodes(ctx, src, limit)
	}

	adapter, err := r.ForType(src.Type)
	if err != nil {
		return nil, err
	}
	items, err := adapter.Fetch(ctx, src, limit)
	if err != nil {
		return nil, err
	}
	return &Outcome{Items: items}, nil
}

// normalizeLimit applies the default fetch size.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

// acceptItem rejects future-dated items so downstream scoring never sees a
// publication timestamp ahead of the clock.
func acceptItem(item *models.ContentItem, now time.Time) bool {
	return !item.Published.After(now)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
