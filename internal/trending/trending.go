// ABOUTME: Trending manager orchestrating concurrent per-source fetches into a ranked list
// ABOUTME: Owns the process-lifetime result cache with a fixed TTL and observable fetch state

package trending

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/hagda/hagda/internal/models"
)

// Defaults for the manager's tunables.
const (
	DefaultTTL       = 15 * time.Minute
	DefaultLimit     = 20
	DefaultPerSource = 10
)

// Fetcher fetches trending candidates for a single source. Implementations
// must honor the context and return whatever engagement counters the
// provider exposes.
type Fetcher interface {
	FetchTrending(ctx context.Context, src *models.Source, limit int) ([]*models.ContentItem, error)
}

// Options configures a Manager. Zero values fall back to the defaults above.
type Options struct {
	TTL       time.Duration // cache freshness window
	Limit     int           // hard cap on returned items
	PerSource int           // items requested per source
	Logger    *slog.Logger
}

// Manager aggregates content across sources and caches the ranked result.
// Construct one per process and share it; the cached list and timestamp are
// only ever written under the manager's lock.
type Manager struct {
	fetcher   Fetcher
	ttl       time.Duration
	limit     int
	perSource int
	log       *slog.Logger
	now       func() time.Time

	mu        sync.Mutex
	cached    []*models.ContentItem
	fetchedAt time.Time
	inflight  int
	lastErr   error
}

// NewManager creates a Manager around the given fetcher.
func NewManager(fetcher Fetcher, opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.PerSource <= 0 {
		opts.PerSource = DefaultPerSource
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Manager{
		fetcher:   fetcher,
		ttl:       opts.TTL,
		limit:     opts.Limit,
		perSource: opts.PerSource,
		log:       opts.Logger,
		now:       time.Now,
	}
}

// Trending returns the ranked top items across the given sources. A fresh,
// non-empty cache is served without touching any provider unless force is
// set. The call itself never fails: per-source errors contribute zero items
// and are retained for LastError.
func (m *Manager) Trending(ctx context.Context, sources []*models.Source, force bool) []*models.ContentItem {
	m.mu.Lock()
	if !force && len(m.cached) > 0 && m.now().Sub(m.fetchedAt) < m.ttl {
		out := snapshot(m.cached)
		m.mu.Unlock()
		return out
	}
	m.inflight++
	m.lastErr = nil
	m.mu.Unlock()

	items, err := m.aggregate(ctx, sources)

	// Replace the cache unconditionally; partial results are still results.
	m.mu.Lock()
	m.cached = items
	m.fetchedAt = m.now()
	m.lastErr = err
	m.inflight--
	m.mu.Unlock()

	return snapshot(items)
}

// Loading reports whether any aggregation pass is currently in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inflight > 0
}

// LastError returns the most recent per-source error from the latest
// aggregation pass, or nil if every source succeeded.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// CachedAt returns when the cached result was computed. Zero if the cache
// has never been populated.
func (m *Manager) CachedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchedAt
}

// Invalidate drops the cached result, forcing the next call to re-aggregate.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cached = nil
	m.fetchedAt = time.Time{}
}

// aggregate fans out one fetch per source, scores each source's items with
// its weight, and merges into a ranked, truncated, score-free list. A failed
// source never cancels its siblings.
func (m *Manager) aggregate(ctx context.Context, sources []*models.Source) ([]*models.ContentItem, error) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		scored  []ScoredItem
		lastErr error
	)
	now := m.now()

	for _, src := range sources {
		wg.Add(1)
		go func(src *models.Source) {
			defer wg.Done()

			items, err := m.fetcher.FetchTrending(ctx, src, m.perSource)
			if err != nil {
				m.log.Warn("trending fetch failed",
					"source", src.Name,
					"type", src.Type,
					"error", err)
				mu.Lock()
				lastErr = fmt.Errorf("%s: %w", src.Name, err)
				mu.Unlock()
				return
			}

			batch := ScoreItems(items, src.Weight, now)
			mu.Lock()
			scored = append(scored, batch...)
			mu.Unlock()
		}(src)
	}
	wg.Wait()

	rank(scored)
	if len(scored) > m.limit {
		scored = scored[:m.limit]
	}

	// Scores are ranking artifacts only; strip them from the result.
	items := make([]*models.ContentItem, len(scored))
	for i, s := range scored {
		items[i] = s.Item
	}
	return items, lastErr
}

// rank sorts by composite score descending. Ties break on published time
// (newest first), then item ID, so the ranking is deterministic even though
// goroutine completion order is not.
func rank(scored []ScoredItem) {
	sort.SliceStable(scored, func(i, j int) bool {
		ti, tj := scored[i].Total(), scored[j].Total()
		if ti != tj {
			return ti > tj
		}
		pi, pj := scored[i].Item.Published, scored[j].Item.Published
		if !pi.Equal(pj) {
			return pi.After(pj)
		}
		return scored[i].Item.ID < scored[j].Item.ID
	})
}

func snapshot(items []*models.ContentItem) []*models.ContentItem {
	out := make([]*models.ContentItem, len(items))
	copy(out, items)
	return out
}
