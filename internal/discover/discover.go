// ABOUTME: Feed autodiscovery and provider directory search
// ABOUTME: Finds feeds behind site URLs and searches podcast, subreddit, and Bluesky directories

package discover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hagda/hagda/internal/fetch"
	"github.com/hagda/hagda/internal/models"
	"github.com/hagda/hagda/internal/parse"
	"golang.org/x/net/html"
)

// Common feed paths to probe when other discovery methods fail
var commonFeedPaths = []string{
	"/feed.xml",
	"/feed",
	"/rss.xml",
	"/rss",
	"/atom.xml",
	"/atom",
	"/index.xml",
	"/feed/rss",
	"/feed/atom",
	"/feeds/posts/default",
}

// Errors returned by discovery functions
var (
	ErrNoFeedFound = errors.New("no RSS/Atom feed found at URL")
	ErrInvalidURL  = errors.New("invalid URL")
)

// DiscoveredFeed represents a feed found during discovery
type DiscoveredFeed struct {
	URL   string // Absolute URL of the feed
	Title string // Feed title (from content or link element)
}

// Discover attempts to find an RSS/Atom feed from the given URL.
// It tries the following strategies in order:
//  1. Parse URL as a direct feed
//  2. Parse URL as HTML and extract <link rel="alternate"> headers
//  3. Probe common feed URL patterns
//
// Returns the discovered feed, or an error if none found.
func Discover(ctx context.Context, inputURL string) (*DiscoveredFeed, error) {
	parsedURL, err := url.Parse(inputURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("%w: missing scheme or host", ErrInvalidURL)
	}

	// Strategy 1: Try direct feed
	feed, body, err := tryDirectFeed(ctx, inputURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	if feed != nil {
		return feed, nil
	}

	// Strategy 2: Extract feed links from HTML
	feeds, err := extractFeedLinks(body, parsedURL)
	if err == nil && len(feeds) > 0 {
		for _, candidate := range feeds {
			verifiedFeed, _, verifyErr := tryDirectFeed(ctx, candidate.URL)
			if verifyErr == nil && verifiedFeed != nil {
				// Use title from HTML link if feed doesn't have one
				if verifiedFeed.Title == "" && candidate.Title != "" {
					verifiedFeed.Title = candidate.Title
				}
				return verifiedFeed, nil
			}
		}
	}

	// Strategy 3: Probe common paths
	feed, err = probeCommonPaths(ctx, parsedURL)
	if err == nil && feed != nil {
		return feed, nil
	}

	return nil, ErrNoFeedFound
}

// tryDirectFeed attempts to fetch and parse the URL as an RSS/Atom feed.
// Returns the feed if successful, or nil if the content is not a valid feed.
// Also returns the raw body for use in HTML parsing if it's not a feed.
func tryDirectFeed(ctx context.Context, feedURL string) (*DiscoveredFeed, []byte, error) {
	result, err := fetch.Fetch(ctx, feedURL, nil, nil)
	if err != nil {
		return nil, nil, err
	}

	parsed, parseErr := parse.Parse(result.Body)
	if parseErr != nil {
		// Not a valid feed, return body for HTML parsing
		return nil, result.Body, nil
	}

	return &DiscoveredFeed{
		URL:   feedURL,
		Title: parsed.Title,
	}, result.Body, nil
}

// extractFeedLinks parses HTML and returns feed URLs from <link rel="alternate"> elements
func extractFeedLinks(htmlBody []byte, baseURL *url.URL) ([]DiscoveredFeed, error) {
	doc, err := html.Parse(bytes.NewReader(htmlBody))
	if err != nil {
		return nil, err
	}

	var feeds []DiscoveredFeed
	var findLinks func(*html.Node)
	findLinks = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "link" {
			var rel, linkType, href, title string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "rel":
					rel = attr.Val
				case "type":
					linkType = attr.Val
				case "href":
					href = attr.Val
				case "title":
					title = attr.Val
				}
			}

			if rel == "alternate" && isFeedContentType(linkType) && href != "" {
				resolvedURL, err := resolveURL(href, baseURL)
				if err == nil {
					feeds = append(feeds, DiscoveredFeed{
						URL:   resolvedURL,
						Title: title,
					})
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findLinks(c)
		}
	}

	findLinks(doc)
	return feeds, nil
}

// probeCommonPaths tries common feed URL patterns against the base URL
func probeCommonPaths(ctx context.Context, baseURL *url.URL) (*DiscoveredFeed, error) {
	probeBase := &url.URL{
		Scheme: baseURL.Scheme,
		Host:   baseURL.Host,
	}

	for _, path := range commonFeedPaths {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		probeURL := probeBase.String() + path
		feed, _, err := tryDirectFeed(ctx, probeURL)
		if err == nil && feed != nil {
			return feed, nil
		}
	}

	return nil, ErrNoFeedFound
}

// resolveURL resolves a potentially relative URL against a base URL
func resolveURL(href string, baseURL *url.URL) (string, error) {
	refURL, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

// isFeedContentType checks if the content type indicates a feed
func isFeedContentType(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "rss") ||
		strings.Contains(contentType, "atom") ||
		strings.Contains(contentType, "xml")
}

// SearchResult is one hit from a provider directory search.
type SearchResult struct {
	Name        string // display name
	Handle      string // locator to pass to source add
	Description string
	FeedURL     string // podcasts only
}

// Searcher queries provider directories for followable sources.
// Base URLs exist for tests; zero values hit the public endpoints.
type Searcher struct {
	ITunesBaseURL  string
	RedditBaseURL  string
	BlueskyBaseURL string
}

// NewSearcher creates a Searcher against the public provider endpoints.
func NewSearcher() *Searcher {
	return &Searcher{
		ITunesBaseURL:  "https://itunes.apple.com",
		RedditBaseURL:  "https://www.reddit.com",
		BlueskyBaseURL: "https://public.api.bsky.app",
	}
}

// Search queries the directory for the given source type. Only podcast,
// reddit, and bluesky have searchable directories.
func (s *Searcher) Search(ctx context.Context, typ models.SourceType, query string, limit int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if limit <= 0 {
		limit = 10
	}

	switch typ {
	case models.SourceTypePodcast:
		return s.searchPodcasts(ctx, query, limit)
	case models.SourceTypeReddit:
		return s.searchSubreddits(ctx, query, limit)
	case models.SourceTypeBluesky:
		return s.searchActors(ctx, query, limit)
	default:
		return nil, fmt.Errorf("no searchable directory for %s sources", typ)
	}
}

type itunesSearchResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		CollectionID   int64  `json:"collectionId"`
		CollectionName string `json:"collectionName"`
		ArtistName     string `json:"artistName"`
		FeedURL        string `json:"feedUrl"`
	} `json:"results"`
}

func (s *Searcher) searchPodcasts(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	searchURL := fmt.Sprintf("%s/search?media=podcast&term=%s&limit=%d",
		s.ITunesBaseURL, url.QueryEscape(query), limit)

	var resp itunesSearchResponse
	if err := fetch.GetJSON(ctx, searchURL, &resp); err != nil {
		return nil, fmt.Errorf("podcast search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.CollectionName == "" {
			continue
		}
		results = append(results, SearchResult{
			Name:        r.CollectionName,
			Handle:      fmt.Sprintf("%d", r.CollectionID),
			Description: r.ArtistName,
			FeedURL:     r.FeedURL,
		})
	}
	return results, nil
}

type subredditSearchResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				DisplayName       string `json:"display_name"`
				Title             string `json:"title"`
				Subscribers       int    `json:"subscribers"`
				PublicDescription string `json:"public_description"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (s *Searcher) searchSubreddits(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	searchURL := fmt.Sprintf("%s/subreddits/search.json?q=%s&limit=%d&raw_json=1",
		s.RedditBaseURL, url.QueryEscape(query), limit)

	var resp subredditSearchResponse
	if err := fetch.GetJSON(ctx, searchURL, &resp); err != nil {
		return nil, fmt.Errorf("subreddit search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(resp.Data.Children))
	for _, child := range resp.Data.Children {
		sub := child.Data
		if sub.DisplayName == "" {
			continue
		}
		desc := sub.PublicDescription
		if desc == "" {
			desc = sub.Title
		}
		results = append(results, SearchResult{
			Name:        "r/" + sub.DisplayName,
			Handle:      sub.DisplayName,
			Description: desc,
		})
	}
	return results, nil
}

type actorSearchResponse struct {
	Actors []struct {
		Handle      string `json:"handle"`
		DisplayName string `json:"displayName"`
		Description string `json:"description"`
	} `json:"actors"`
}

func (s *Searcher) searchActors(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	searchURL := fmt.Sprintf("%s/xrpc/app.bsky.actor.searchActors?q=%s&limit=%d",
		s.BlueskyBaseURL, url.QueryEscape(query), limit)

	var resp actorSearchResponse
	if err := fetch.GetJSON(ctx, searchURL, &resp); err != nil {
		return nil, fmt.Errorf("actor search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(resp.Actors))
	for _, actor := range resp.Actors {
		if actor.Handle == "" {
			continue
		}
		name := actor.DisplayName
		if name == "" {
			name = actor.Handle
		}
		results = append(results, SearchResult{
			Name:        name,
			Handle:      actor.Handle,
			Description: actor.Description,
		})
	}
	return results, nil
}
