// ABOUTME: MCP resource providers for hagda
// ABOUTME: Exposes read-only views of sources, the trending ranking, and the daily brief

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hagda/hagda/internal/brief"
	"github.com/mark3labs/mcp-go/mcp"
)

// ResourceData is the standard response format for all resources.
type ResourceData struct {
	Metadata ResourceMetadata  `json:"metadata"`
	Data     interface{}       `json:"data"`
	Links    map[string]string `json:"links"`
}

// ResourceMetadata contains metadata about the resource response.
type ResourceMetadata struct {
	Timestamp   time.Time      `json:"timestamp"`
	Count       int            `json:"count"`
	ResourceURI string         `json:"resource_uri"`
	Filters     map[string]any `json:"filters,omitempty"`
}

func (s *Server) registerResources() {
	s.registerSourcesResource()
	s.registerTrendingResource()
	s.registerBriefResource()
}

func (s *Server) registerSourcesResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         "hagda://sources",
			Name:        "Followed Sources",
			Description: "List all followed sources with metadata including type, handle, weight, item counts, last fetch time, and error status",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			srcs, err := s.store.ListSources()
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

			sourceOutputs := make([]SourceOutput, 0, len(srcs))
			for _, src := range srcs {
				output := sourceOutput(src)
				output.ItemCount = statsBySource[src.ID]
				output.UnreadCount = unreadBySource[src.ID]
				sourceOutputs = append(sourceOutputs, output)
			}

			resourceData := ResourceData{
				Metadata: ResourceMetadata{
					Timestamp:   time.Now(),
					Count:       len(sourceOutputs),
					ResourceURI: "hagda://sources",
				},
				Data: sourceOutputs,
				Links: map[string]string{
					"trending": "hagda://trending",
					"brief":    "hagda://brief",
				},
			}

			jsonBytes, err := json.MarshalIndent(resourceData, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal resource data: %w", err)
			}

			return []mcp.ResourceContents{
				&mcp.TextResourceContents{
					URI:      request.Params.URI,
					MIMEType: "application/json",
					Text:     string(jsonBytes),
				},
			}, nil
		},
	)
}

func (s *Server) registerTrendingResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         "hagda://trending",
			Name:        "Trending Now",
			Description: "The current trending ranking across all followed sources, best first. Served from a short-lived cache; use the get_trending tool with refresh=true for live data",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			srcs, err := s.store.ListSources()
			if err != nil {
				return nil, fmt.Errorf("failed to list sources: %w", err)
			}

			items := s.manager.Trending(ctx, srcs, false)

			filters := map[string]any{}
			if lastErr := s.manager.LastError(); lastErr != nil {
				filters["warning"] = lastErr.Error()
			}
			if cachedAt := s.manager.CachedAt(); !cachedAt.IsZero() {
				filters["cached_at"] = cachedAt
			}

			resourceData := ResourceData{
				Metadata: ResourceMetadata{
					Timestamp:   time.Now(),
					Count:       len(items),
					ResourceURI: "hagda://trending",
					Filters:     filters,
				},
				Data: itemOutputs(items),
				Links: map[string]string{
					"sources": "hagda://sources",
					"brief":   "hagda://brief",
				},
			}

			jsonBytes, err := json.MarshalIndent(resourceData, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal resource data: %w", err)
			}

			return []mcp.ResourceContents{
				&mcp.TextResourceContents{
					URI:      request.Params.URI,
					MIMEType: "application/json",
					Text:     string(jsonBytes),
				},
			}, nil
		},
	)
}

func (s *Server) registerBriefResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         "hagda://brief",
			Name:        "Daily Brief",
			Description: "A generated daily digest of the best stored items from the last day: lead story, sections by source type, active sources, and trending keywords",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			b, err := brief.Generate(s.store, brief.Options{
				Size:   s.cfg.BriefSize(),
				Window: s.cfg.BriefWindow(),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to generate brief: %w", err)
			}

			data := GetBriefOutput{
				Date:     b.DateLabel,
				Greeting: b.Greeting,
				Scanned:  b.Scanned,
				Selected: b.Selected,
				Markdown: b.Markdown(),
			}

			resourceData := ResourceData{
				Metadata: ResourceMetadata{
					Timestamp:   time.Now(),
					Count:       b.Selected,
					ResourceURI: "hagda://brief",
					Filters: map[string]any{
						"window": b.Window.String(),
					},
				},
				Data: data,
				Links: map[string]string{
					"sources":  "hagda://sources",
					"trending": "hagda://trending",
				},
			}

			jsonBytes, err := json.MarshalIndent(resourceData, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal resource data: %w", err)
			}

			return []mcp.ResourceContents{
				&mcp.TextResourceContents{
					URI:      request.Params.URI,
					MIMEType: "application/json",
					Text:     string(jsonBytes),
				},
			}, nil
		},
	)
}
