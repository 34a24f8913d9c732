// ABOUTME: Pure scoring functions for ranking content items
// ABOUTME: Normalizes heterogeneous engagement signals into a weighted composite score

package trending

import (
	"time"

	"github.com/hagda/hagda/internal/models"
)

// Composite weighting. Engagement dominates, recency next, user preference
// least; the weights sum to 1.0 so the composite stays in [0, 1].
const (
	engagementWeight   = 0.6
	recencyWeight      = 0.3
	sourceWeightWeight = 0.1
)

// Provider-specific engagement ceilings. Raw counts are divided by the
// ceiling and clamped to 1.0.
const (
	redditCeiling   = 10_000 // upvotes
	blueskyCeiling  = 1_000  // likes + 2x reposts
	mastodonCeiling = 500    // favourites + reblogs

	articleEngagement = 0.5 // feeds expose no counters; fixed midpoint
	chartSpan         = 10  // podcast chart positions 0..9 map onto [1.0, 0.1]
)

// Score holds the three normalized sub-scores for one item.
type Score struct {
	Engagement   float64
	Recency      float64
	SourceWeight float64
}

// Total returns the weighted composite used for ranking.
func (s Score) Total() float64 {
	return engagementWeight*s.Engagement + recencyWeight*s.Recency + sourceWeightWeight*s.SourceWeight
}

// ScoredItem pairs an item with its computed score. Scored items are
// ephemeral ranking artifacts and are never persisted.
type ScoredItem struct {
	Item  *models.ContentItem
	Score Score
}

// Total is a convenience accessor for the item's composite score.
func (s ScoredItem) Total() float64 {
	return s.Score.Total()
}

// RawEngagement derives the provider-appropriate raw engagement count from
// an item's counters. Items without counters yield zero.
func RawEngagement(item *models.ContentItem) float64 {
	if item.Engagement == nil {
		return 0
	}
	switch item.Type {
	case models.SourceTypeReddit:
		return float64(item.Engagement.Upvotes)
	case models.SourceTypeBluesky:
		return float64(item.Engagement.Likes + 2*item.Engagement.Reposts)
	case models.SourceTypeMastodon:
		return float64(item.Engagement.Likes + item.Engagement.Reposts)
	}
	return 0
}

// EngagementScore normalizes a raw engagement value for the given provider
// type into [0, 1]. Articles score a fixed midpoint; podcasts score by chart
// position (0 is the top of the chart).
func EngagementScore(t models.SourceType, raw float64) float64 {
	switch t {
	case models.SourceTypeReddit:
		return clamp01(raw / redditCeiling)
	case models.SourceTypeBluesky:
		return clamp01(raw / blueskyCeiling)
	case models.SourceTypeMastodon:
		return clamp01(raw / mastodonCeiling)
	case models.SourceTypePodcast:
		return clamp01(1.0 - raw/chartSpan)
	case models.SourceTypeArticle:
		return articleEngagement
	}
	return 0
}

// RecencyScore maps content age onto a non-increasing step function.
// Band edges are inclusive: exactly one hour old still scores 1.0.
func RecencyScore(age time.Duration) float64 {
	hours := age.Hours()
	switch {
	case hours <= 1:
		return 1.0
	case hours <= 6:
		return 0.9
	case hours <= 12:
		return 0.8
	case hours <= 24:
		return 0.7
	case hours <= 48:
		return 0.5
	case hours <= 72:
		return 0.3
	case hours <= 168:
		return 0.1
	default:
		return 0.0
	}
}

// Compute scores one item for a source with the given user weight.
// Deterministic: same item, weight, and clock always produce the same score.
func Compute(item *models.ContentItem, sourceWeight float64, now time.Time) Score {
	engagement := articleEngagement
	switch item.Type {
	case models.SourceTypePodcast:
		if item.ChartPosition != nil {
			engagement = EngagementScore(models.SourceTypePodcast, float64(*item.ChartPosition))
		}
	case models.SourceTypeArticle:
		engagement = articleEngagement
	default:
		engagement = EngagementScore(item.Type, RawEngagement(item))
	}

	return Score{
		Engagement:   engagement,
		Recency:      RecencyScore(item.Age(now)),
		SourceWeight: clamp01(sourceWeight),
	}
}

// ScoreItems scores a batch of items fetched from a single source.
func ScoreItems(items []*models.ContentItem, sourceWeight float64, now time.Time) []ScoredItem {
	scored := make([]ScoredItem, 0, len(items))
	for _, item := range items {
		scored = append(scored, ScoredItem{Item: item, Score: Compute(item, sourceWeight, now)})
	}
	return scored
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
