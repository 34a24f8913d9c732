// ABOUTME: MCP tool definitions and handlers for source and content operations
// ABOUTME: Provides tools for managing sources, ranking trending content, and generating briefs

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hagda/hagda/internal/brief"
	"github.com/hagda/hagda/internal/models"
	"github.com/hagda/hagda/internal/sources"
	"github.com/hagda/hagda/internal/timeutil"
	"github.com/mark3labs/mcp-go/mcp"
)

// Type definitions for input/output structures

type ListSourcesInput struct {
	Type *string `json:"type,omitempty"`
}

type SourceOutput struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Name          string     `json:"name"`
	Handle        *string    `json:"handle,omitempty"`
	Server        *string    `json:"server,omitempty"`
	FeedURL       *string    `json:"feed_url,omitempty"`
	Weight        float64    `json:"weight"`
	LastFetchedAt *time.Time `json:"last_fetched_at,omitempty"`
	LastError     *string    `json:"last_error,omitempty"`
	ItemCount     int        `json:"item_count"`
	UnreadCount   int        `json:"unread_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ListSourcesOutput struct {
	Sources []SourceOutput `json:"sources"`
	Count   int            `json:"count"`
}

type AddSourceInput struct {
	Type    string   `json:"type"`
	Name    *string  `json:"name,omitempty"`
	Handle  *string  `json:"handle,omitempty"`
	Server  *string  `json:"server,omitempty"`
	FeedURL *string  `json:"feed_url,omitempty"`
	Weight  *float64 `json:"weight,omitempty"`
}

type RemoveSourceInput struct {
	Source string `json:"source"`
}

type RemoveSourceOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Name    string `json:"name"`
}

type SetSourceWeightInput struct {
	Source string  `json:"source"`
	Weight float64 `json:"weight"`
}

type GetTrendingInput struct {
	Refresh *bool `json:"refresh,omitempty"`
}

type ItemOutput struct {
	ID          string     `json:"id"`
	SourceID    string     `json:"source_id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Subtitle    *string    `json:"subtitle,omitempty"`
	Link        *string    `json:"link,omitempty"`
	Author      *string    `json:"author,omitempty"`
	PublishedAt time.Time  `json:"published_at"`
	Read        bool       `json:"read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
}

type GetTrendingOutput struct {
	Items    []ItemOutput `json:"items"`
	Count    int          `json:"count"`
	CachedAt *time.Time   `json:"cached_at,omitempty"`
	Warning  *string      `json:"warning,omitempty"`
}

type GetBriefInput struct {
	Size   *int    `json:"size,omitempty"`
	Window *string `json:"window,omitempty"`
}

type GetBriefOutput struct {
	Date     string `json:"date"`
	Greeting string `json:"greeting"`
	Scanned  int    `json:"scanned"`
	Selected int    `json:"selected"`
	Markdown string `json:"markdown"`
}

type SearchItemsInput struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

type SearchItemsOutput struct {
	Items []ItemOutput `json:"items"`
	Count int          `json:"count"`
	Query string       `json:"query"`
}

type RefreshInput struct {
	Source *string `json:"source,omitempty"`
	Force  *bool   `json:"force,omitempty"`
}

type RefreshResult struct {
	Source      string  `json:"source"`
	Added       int     `json:"added"`
	Refreshed   int     `json:"refreshed"`
	NotModified bool    `json:"not_modified"`
	Error       *string `json:"error,omitempty"`
}

type RefreshOutput struct {
	Results      []RefreshResult `json:"results"`
	TotalSources int             `json:"total_sources"`
	TotalAdded   int             `json:"total_added"`
	TotalErrors  int             `json:"total_errors"`
}

// Tool registration

func (s *Server) registerTools() {
	s.registerListSourcesTool()
	s.registerAddSourceTool()
	s.registerRemoveSourceTool()
	s.registerSetSourceWeightTool()
	s.registerGetTrendingTool()
	s.registerGetBriefTool()
	s.registerSearchItemsTool()
	s.registerRefreshTool()
}

func (s *Server) registerListSourcesTool() {
	tool := mcp.Tool{
		Name:        "list_sources",
		Description: "Retrieve all followed sources with their metadata including type, handle, weight, item counts, last fetch times, and error states. Optionally filter by source type. Use this to see what is being followed before performing other operations.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Optional source type filter: article, reddit, bluesky, mastodon, or podcast. Example: 'reddit'",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleListSources)
}

func (s *Server) registerAddSourceTool() {
	tool := mcp.Tool{
		Name:        "add_source",
		Description: "Follow a new source. Each type needs a different locator: article sources need feed_url, reddit needs handle (the community name), bluesky needs handle (the account handle), mastodon needs handle and optionally server, podcast needs handle (directory ID) or feed_url. Weight biases trending rank and must be between 0 (exclusive) and 1. Returns the created source with its unique ID.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Source type: article, reddit, bluesky, mastodon, or podcast",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Optional display name. If not provided, the handle is used. Example: 'Go Blog'",
				},
				"handle": map[string]interface{}{
					"type":        "string",
					"description": "Provider handle: subreddit name, Bluesky handle, Mastodon acct, or podcast directory ID. Example: 'golang' or 'alice.bsky.social'",
				},
				"server": map[string]interface{}{
					"type":        "string",
					"description": "Optional Mastodon instance URL. Example: 'https://hachyderm.io'",
				},
				"feed_url": map[string]interface{}{
					"type":        "string",
					"description": "Feed URL for article and podcast sources. Example: 'https://example.com/feed.xml'",
				},
				"weight": map[string]interface{}{
					"type":        "number",
					"description": "Optional source weight in (0, 1]. Higher weights rank the source's items higher in trending. Default: 1.0",
				},
			},
			Required: []string{"type"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleAddSource)
}

func (s *Server) registerRemoveSourceTool() {
	tool := mcp.Tool{
		Name:        "remove_source",
		Description: "Unfollow a source. Accepts a source ID, ID prefix, name, handle, or feed URL. All stored items from this source are also deleted due to CASCADE constraints. This action cannot be undone.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Source reference: ID, ID prefix, name, handle, or feed URL. Example: 'golang' or 'abc12345'",
				},
			},
			Required: []string{"source"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleRemoveSource)
}

func (s *Server) registerSetSourceWeightTool() {
	tool := mcp.Tool{
		Name:        "set_source_weight",
		Description: "Change how strongly a source influences trending rank. Weight must be greater than 0 and at most 1; the default for new sources is 1.0. Lower weights demote a noisy source without unfollowing it. Returns the updated source.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Source reference: ID, ID prefix, name, handle, or feed URL. Example: 'golang'",
				},
				"weight": map[string]interface{}{
					"type":        "number",
					"description": "New weight in (0, 1]. Example: 0.5",
				},
			},
			Required: []string{"source", "weight"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleSetSourceWeight)
}

func (s *Server) registerGetTrendingTool() {
	tool := mcp.Tool{
		Name:        "get_trending",
		Description: "Rank what is trending right now across all followed sources. Items are scored on engagement, recency, and source weight, then returned best first. Results are cached for a short window; set refresh=true to force live fetches from every provider. A warning field reports sources that failed during aggregation.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"refresh": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, bypasses the cache and refetches every source. Default: false",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleGetTrending)
}

func (s *Server) registerGetBriefTool() {
	tool := mcp.Tool{
		Name:        "get_brief",
		Description: "Generate a daily brief from stored items: the highest scoring stories from the recent window, grouped by source type with a lead story, active sources, and trending keywords. Run the refresh tool first if the store is stale. Returns the brief as markdown plus summary counts.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"size": map[string]interface{}{
					"type":        "integer",
					"description": "Number of stories to select. Default: 10",
				},
				"window": map[string]interface{}{
					"type":        "string",
					"description": "How far back to look: a period like '24h', '7d', or 'today'. Default: 24h",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleGetBrief)
}

func (s *Server) registerSearchItemsTool() {
	tool := mcp.Tool{
		Name:        "search_items",
		Description: "Full-text search across stored item titles, subtitles, and content. Returns matching items ranked by relevance. Only items already fetched into the store are searchable; run the refresh tool to pull in new content first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search terms. Example: 'generics proposal'",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results. Default: 20",
				},
			},
			Required: []string{"query"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleSearchItems)
}

func (s *Server) registerRefreshTool() {
	tool := mcp.Tool{
		Name:        "refresh",
		Description: "Fetch the latest content from followed sources into the store. If source is provided, syncs only that source; otherwise syncs all of them. Uses HTTP caching headers to avoid unnecessary downloads; set force=true to ignore them. Returns per-source counts of new and refreshed items plus any errors.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Optional source reference to sync only that source. Example: 'golang'",
				},
				"force": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, ignores HTTP cache headers and forces a fresh fetch. Default: false",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleRefresh)
}

// Handler implementations

func (s *Server) handleListSources(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ListSourcesInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	var srcs []*models.Source
	var err error
	if input.Type != nil && *input.Type != "" {
		sourceType, parseErr := models.ParseSourceType(*input.Type)
		if parseErr != nil {
			return nil, parseErr
		}
		srcs, err = s.store.ListSourcesByType(sourceType)
	} else {
		srcs, err = s.store.ListSources()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	statsBySource := make(map[string]int)
	unreadBySource := make(map[string]int)
	if rows, statsErr := s.store.GetSourceStats(); statsErr == nil {
		for _, row := range rows {
			statsBySource[row.SourceID] = row.ItemCount
			unreadBySource[row.SourceID] = row.UnreadCount
		}
	}

	outputs := make([]SourceOutput, 0, len(srcs))
	for _, src := range srcs {
		output := sourceOutput(src)
		output.ItemCount = statsBySource[src.ID]
		output.UnreadCount = unreadBySource[src.ID]
		outputs = append(outputs, output)
	}

	result := ListSourcesOutput{
		Sources: outputs,
		Count:   len(outputs),
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleAddSource(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input AddSourceInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	sourceType, err := models.ParseSourceType(input.Type)
	if err != nil {
		return nil, err
	}

	name := ""
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
	}
	if name == "" && input.Handle != nil {
		name = strings.TrimSpace(*input.Handle)
	}
	if name == "" {
		return nil, fmt.Errorf("name or handle is required")
	}

	src := models.NewSource(sourceType, name)
	src.Handle = input.Handle
	src.Server = input.Server
	src.FeedURL = input.FeedURL
	if input.Weight != nil {
		if err := src.SetWeight(*input.Weight); err != nil {
			return nil, err
		}
	}

	if err := src.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.CreateSource(src); err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}

	s.manager.Invalidate()

	output := sourceOutput(src)
	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleRemoveSource(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input RemoveSourceInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	src, err := s.store.FindSource(input.Source)
	if err != nil {
		return nil, err
	}

	// CASCADE deletes the source's items
	if err := s.store.DeleteSource(src.ID); err != nil {
		return nil, fmt.Errorf("failed to delete source: %w", err)
	}

	s.manager.Invalidate()

	output := RemoveSourceOutput{
		Success: true,
		Message: fmt.Sprintf("Source '%s' and all its items successfully removed", src.Name),
		Name:    src.Name,
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleSetSourceWeight(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input SetSourceWeightInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	src, err := s.store.FindSource(input.Source)
	if err != nil {
		return nil, err
	}

	if err := src.SetWeight(input.Weight); err != nil {
		return nil, err
	}

	if err := s.store.UpdateSource(src); err != nil {
		return nil, fmt.Errorf("failed to update source: %w", err)
	}

	s.manager.Invalidate()

	output := sourceOutput(src)
	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetTrending(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input GetTrendingInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	force := input.Refresh != nil && *input.Refresh

	srcs, err := s.store.ListSources()
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	if len(srcs) == 0 {
		return nil, fmt.Errorf("no sources found. Add a source first using add_source")
	}

	items := s.manager.Trending(ctx, srcs, force)

	output := GetTrendingOutput{
		Items: itemOutputs(items),
		Count: len(items),
	}
	if cachedAt := s.manager.CachedAt(); !cachedAt.IsZero() {
		output.CachedAt = &cachedAt
	}
	if lastErr := s.manager.LastError(); lastErr != nil {
		warning := lastErr.Error()
		output.Warning = &warning
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetBrief(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input GetBriefInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	opts := brief.Options{
		Size:   s.cfg.BriefSize(),
		Window: s.cfg.BriefWindow(),
	}
	if input.Size != nil {
		if *input.Size <= 0 {
			return nil, fmt.Errorf("size must be positive, got %d", *input.Size)
		}
		opts.Size = *input.Size
	}
	if input.Window != nil && *input.Window != "" {
		cutoff, ok := timeutil.ParsePeriod(*input.Window)
		if !ok {
			return nil, fmt.Errorf("invalid window: use a period like 24h, 7d, or today")
		}
		opts.Window = time.Since(cutoff)
	}

	b, err := brief.Generate(s.store, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate brief: %w", err)
	}

	output := GetBriefOutput{
		Date:     b.DateLabel,
		Greeting: b.Greeting,
		Scanned:  b.Scanned,
		Selected: b.Selected,
		Markdown: b.Markdown(),
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleSearchItems(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input SearchItemsInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	if strings.TrimSpace(input.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}

	limit := 20
	if input.Limit != nil {
		if *input.Limit <= 0 {
			return nil, fmt.Errorf("limit must be positive, got %d", *input.Limit)
		}
		limit = *input.Limit
	}

	items, err := s.store.Search(input.Query, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	output := SearchItemsOutput{
		Items: itemOutputs(items),
		Count: len(items),
		Query: input.Query,
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleRefresh(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input RefreshInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	force := input.Force != nil && *input.Force

	var srcs []*models.Source
	if input.Source != nil && *input.Source != "" {
		src, err := s.store.FindSource(*input.Source)
		if err != nil {
			return nil, err
		}
		srcs = []*models.Source{src}
	} else {
		var err error
		srcs, err = s.store.ListSources()
		if err != nil {
			return nil, fmt.Errorf("failed to list sources: %w", err)
		}
		if len(srcs) == 0 {
			return nil, fmt.Errorf("no sources found. Add a source first using add_source")
		}
	}

	results := make([]RefreshResult, 0, len(srcs))
	totalAdded := 0
	totalErrors := 0

	for _, src := range srcs {
		outcome, err := sources.SyncOne(ctx, s.store, s.registry, src, s.cfg.TrendingPerSource(), force)
		result := RefreshResult{
			Source:      src.Name,
			Added:       outcome.Added,
			Refreshed:   outcome.Refreshed,
			NotModified: outcome.NotModified,
		}
		if err != nil {
			errMsg := err.Error()
			result.Error = &errMsg
			totalErrors++
		}
		totalAdded += outcome.Added
		results = append(results, result)
	}

	s.manager.Invalidate()

	output := RefreshOutput{
		Results:      results,
		TotalSources: len(srcs),
		TotalAdded:   totalAdded,
		TotalErrors:  totalErrors,
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// Output conversion helpers

func sourceOutput(src *models.Source) SourceOutput {
	return SourceOutput{
		ID:            src.ID,
		Type:          string(src.Type),
		Name:          src.Name,
		Handle:        src.Handle,
		Server:        src.Server,
		FeedURL:       src.FeedURL,
		Weight:        src.Weight,
		LastFetchedAt: src.LastFetchedAt,
		LastError:     src.LastError,
		CreatedAt:     src.CreatedAt,
	}
}

func itemOutput(item *models.ContentItem) ItemOutput {
	return ItemOutput{
		ID:          item.ID,
		SourceID:    item.SourceID,
		Type:        string(item.Type),
		Title:       item.Title,
		Subtitle:    item.Subtitle,
		Link:        item.Link,
		Author:      item.Author,
		PublishedAt: item.Published,
		Read:        item.Read,
		ReadAt:      item.ReadAt,
	}
}

func itemOutputs(items []*models.ContentItem) []ItemOutput {
	outputs := make([]ItemOutput, 0, len(items))
	for _, item := range items {
		outputs = append(outputs, itemOutput(item))
	}
	return outputs
}
