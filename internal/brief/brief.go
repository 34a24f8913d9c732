// ABOUTME: Daily brief generator selecting the highest-scored stored items in a time window
// ABOUTME: Groups picks by provider type and renders a markdown digest with a lead story

package brief

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hagda/hagda/internal/content"
	"github.com/hagda/hagda/internal/models"
	"github.com/hagda/hagda/internal/storage"
	"github.com/hagda/hagda/internal/trending"
)

const (
	DefaultSize   = 10
	DefaultWindow = 24 * time.Hour

	excerptLength = 180
	keywordCount  = 3
)

// Card is one selected item with its presentation metadata.
type Card struct {
	Item        *models.ContentItem
	SourceName  string
	Score       float64
	ReadingTime int // minutes
}

// Section groups cards of one provider type.
type Section struct {
	Type  models.SourceType
	Title string
	Cards []Card
}

// Brief is a generated daily digest.
type Brief struct {
	DateLabel     string
	Greeting      string
	Window        time.Duration
	Scanned       int
	Selected      int
	Lead          *Card
	Sections      []Section
	ActiveSources string
	Keywords      []string
}

// Options controls brief generation. Zero values take defaults; Now exists
// for tests.
type Options struct {
	Size   int
	Window time.Duration
	Now    time.Time
}

// Generate builds a brief from the store: every item published inside the
// window is scored with its source's weight, and the top picks are grouped
// by provider type behind a single lead story.
func Generate(store storage.Store, opts Options) (*Brief, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	sources, err := store.ListSources()
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	weights := make(map[string]float64, len(sources))
	names := make(map[string]string, len(sources))
	for _, src := range sources {
		weights[src.ID] = src.Weight
		names[src.ID] = src.Name
	}

	since := now.Add(-opts.Window)
	items, err := store.ListItems(&storage.ItemFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	b := &Brief{
		DateLabel: now.Format("Monday, Jan 2"),
		Greeting:  greeting(now),
		Window:    opts.Window,
		Scanned:   len(items),
	}
	if len(items) == 0 {
		return b, nil
	}

	scored := make([]trending.ScoredItem, 0, len(items))
	for _, item := range items {
		weight, ok := weights[item.SourceID]
		if !ok {
			weight = 1.0
		}
		scored = append(scored, trending.ScoredItem{
			Item:  item,
			Score: trending.Compute(item, weight, now),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		si, sj := scored[i], scored[j]
		if si.Total() != sj.Total() {
			return si.Total() > sj.Total()
		}
		if !si.Item.Published.Equal(sj.Item.Published) {
			return si.Item.Published.After(sj.Item.Published)
		}
		return si.Item.ID < sj.Item.ID
	})

	if len(scored) > opts.Size {
		scored = scored[:opts.Size]
	}
	b.Selected = len(scored)

	cards := make([]Card, 0, len(scored))
	for _, si := range scored {
		cards = append(cards, Card{
			Item:        si.Item,
			SourceName:  names[si.Item.SourceID],
			Score:       si.Total(),
			ReadingTime: estimateReadTime(si.Item),
		})
	}

	b.Lead = &cards[0]
	b.Sections = buildSections(cards[1:])
	b.ActiveSources = activeSources(cards, names)
	b.Keywords = keywords(items)

	return b, nil
}

// buildSections groups cards by provider type in display order.
func buildSections(cards []Card) []Section {
	byType := make(map[models.SourceType][]Card)
	for _, card := range cards {
		byType[card.Item.Type] = append(byType[card.Item.Type], card)
	}

	var sections []Section
	for _, t := range models.SourceTypes {
		if len(byType[t]) == 0 {
			continue
		}
		sections = append(sections, Section{
			Type:  t,
			Title: sectionTitle(t),
			Cards: byType[t],
		})
	}
	return sections
}

func sectionTitle(t models.SourceType) string {
	switch t {
	case models.SourceTypeArticle:
		return "Articles"
	case models.SourceTypeReddit:
		return "Reddit"
	case models.SourceTypeBluesky:
		return "Bluesky"
	case models.SourceTypeMastodon:
		return "Mastodon"
	case models.SourceTypePodcast:
		return "Podcasts"
	}
	return string(t)
}

// Markdown renders the brief for terminal display.
func (b *Brief) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s — %s\n\n", b.Greeting, b.DateLabel)

	if b.Scanned == 0 {
		fmt.Fprintf(&sb, "Nothing new in the last %s. Run `hagda fetch` first.\n", formatWindow(b.Window))
		return sb.String()
	}

	fmt.Fprintf(&sb, "Scanned %d items from the last %s, picked %d.\n\n",
		b.Scanned, formatWindow(b.Window), b.Selected)
	if b.ActiveSources != "" {
		fmt.Fprintf(&sb, "Most active: %s\n\n", b.ActiveSources)
	}
	if len(b.Keywords) > 0 {
		fmt.Fprintf(&sb, "In the air: %s\n\n", strings.Join(b.Keywords, ", "))
	}

	if b.Lead != nil {
		sb.WriteString("## Lead story\n\n")
		writeCard(&sb, *b.Lead)
	}

	for _, section := range b.Sections {
		fmt.Fprintf(&sb, "## %s\n\n", section.Title)
		for _, card := range section.Cards {
			writeCard(&sb, card)
		}
	}

	return sb.String()
}

func writeCard(sb *strings.Builder, card Card) {
	fmt.Fprintf(sb, "**%s**", card.Item.Title)
	if card.SourceName != "" {
		fmt.Fprintf(sb, " — %s", card.SourceName)
	}
	if card.ReadingTime > 0 {
		fmt.Fprintf(sb, " · %d min", card.ReadingTime)
	}
	sb.WriteString("\n\n")

	if excerpt := cardExcerpt(card.Item); excerpt != "" {
		fmt.Fprintf(sb, "> %s\n\n", excerpt)
	}
	if card.Item.Link != nil {
		fmt.Fprintf(sb, "<%s>\n\n", *card.Item.Link)
	}
}

func cardExcerpt(item *models.ContentItem) string {
	if item.Subtitle != nil && *item.Subtitle != "" {
		return content.Excerpt(*item.Subtitle, excerptLength)
	}
	if item.Content != nil && *item.Content != "" {
		excerpt := content.Excerpt(*item.Content, excerptLength)
		if excerpt != item.Title {
			return excerpt
		}
	}
	return ""
}

func formatWindow(d time.Duration) string {
	if d%(24*time.Hour) == 0 {
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "24h"
		}
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

func estimateReadTime(item *models.ContentItem) int {
	text := ""
	if item.Content != nil {
		text = content.StripHTML(*item.Content)
	}
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	minutes := words / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

func greeting(now time.Time) string {
	hour := now.Hour()
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// activeSources summarizes which sources contributed the picks.
func activeSources(cards []Card, names map[string]string) string {
	counts := map[string]int{}
	for _, card := range cards {
		counts[card.Item.SourceID]++
	}

	type sourceCount struct {
		id    string
		count int
	}
	var sorted []sourceCount
	for id, count := range counts {
		sorted = append(sorted, sourceCount{id, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return names[sorted[i].id] < names[sorted[j].id]
	})

	limit := 3
	if len(sorted) < limit {
		limit = len(sorted)
	}
	parts := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		name := names[sorted[i].id]
		if name == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%d)", name, sorted[i].count))
	}
	return strings.Join(parts, ", ")
}

// keywords extracts recurring title terms weighted by rarity across the window.
func keywords(items []*models.ContentItem) []string {
	df := map[string]int{}
	tf := map[string]int{}
	for _, item := range items {
		seen := map[string]bool{}
		for _, w := range tokenize(item.Title) {
			tf[w]++
			if !seen[w] {
				df[w]++
				seen[w] = true
			}
		}
	}

	total := len(items)
	if total == 0 {
		return nil
	}

	type scoredTerm struct {
		term  string
		score float64
	}
	var terms []scoredTerm
	for term, freq := range tf {
		if freq < 2 {
			continue
		}
		docFreq := df[term]
		if docFreq == 0 {
			docFreq = 1
		}
		idf := math.Log(float64(total)/float64(docFreq)) + 1
		terms = append(terms, scoredTerm{term, float64(freq) * idf})
	}

	sort.Slice(terms, func(i, j int) bool {
		if terms[i].score != terms[j].score {
			return terms[i].score > terms[j].score
		}
		return terms[i].term < terms[j].term
	})

	limit := keywordCount
	if len(terms) < limit {
		limit = len(terms)
	}
	result := make([]string, limit)
	for i := 0; i < limit; i++ {
		result[i] = terms[i].term
	}
	return result
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"that": true, "this": true, "what": true, "your": true, "about": true,
	"how": true, "why": true, "new": true, "into": true, "are": true,
	"was": true, "has": true, "have": true, "will": true, "you": true,
}

func tokenize(title string) []string {
	var words []string
	for _, raw := range strings.Fields(strings.ToLower(title)) {
		word := strings.Trim(raw, ".,:;!?\"'()[]{}«»-–")
		if len(word) < 3 || stopwords[word] {
			continue
		}
		words = append(words, word)
	}
	return words
}
