// ABOUTME: MCP prompt definitions and handlers
// ABOUTME: Provides workflow templates for catching up on followed sources

package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.registerMorningBriefPrompt()
	s.registerWhatsTrendingPrompt()
}

func (s *Server) registerMorningBriefPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "morning-brief",
			Description: "Generate a personalized morning briefing from followed sources: sync content, build the daily brief, and summarize the stories worth the reader's time",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "size",
					Description: "Number of stories to include in the brief (default: 10)",
					Required:    false,
				},
			},
		},
		s.handleMorningBrief,
	)
}

//nolint:funlen // Prompt handlers contain large template strings
func (s *Server) handleMorningBrief(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	size := "10"
	if req.Params.Arguments != nil {
		if v, ok := req.Params.Arguments["size"]; ok && v != "" {
			size = v
		}
	}

	template := fmt.Sprintf(`# Morning Brief

## Overview
Build a readable morning briefing from everything the reader follows: blogs, subreddits, Bluesky and Mastodon accounts, and podcasts. The goal is a short, prioritized summary the reader can absorb with their first coffee, not a raw dump of every new item.

## When to Use
- Start of the day, before the reader has looked at anything
- After time away, to compress a backlog into the stories that mattered
- Whenever the reader asks "what did I miss?"

## Workflow Steps

### Step 1: Sync Content
Pull the latest items into the store so the brief reflects this morning, not yesterday.

**Use the refresh tool:**
- Call refresh with no arguments to sync every source
- Review the per-source results; note any errors
- Sources with errors still contribute their stored items

### Step 2: Generate the Brief
Let the scoring engine pick the stories.

**Use the get_brief tool with size=%s:**
- The brief scores every stored item from the window on engagement, recency, and source weight
- It returns a lead story, sections grouped by source type, the most active sources, and trending keywords
- The markdown field is already formatted for reading

### Step 3: Check the Sources
Add context the scores cannot see.

**Use hagda://sources:**
- Note sources with recent errors so the reader knows a voice is missing
- Note unread counts that are growing faster than the reader can keep up

### Step 4: Summarize for the Reader
Turn the brief into a short narrative.

**Structure:**
- **Lead:** one or two sentences on the top story and why it leads
- **Worth reading:** 3-5 stories with a one-line hook each
- **In the air:** the trending keywords, phrased as themes
- **Housekeeping:** failing sources or an unmanageable backlog, only if present

**Keep it short:** the whole summary should fit on one screen. Link titles to their URLs so the reader can dive in.

## Tips
- Respect the ranking: the lead story is the lead for a reason, but flag when two stories cover the same event
- Do not pad: if the window was quiet, say so in one line
- Suggest set_source_weight when one source dominates every brief

**Ready?**
1. refresh
2. get_brief with size=%s
3. Check hagda://sources for errors
4. Write the summary
`, size, size)

	return &mcp.GetPromptResult{
		Description: "Morning briefing workflow over followed sources",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}

func (s *Server) registerWhatsTrendingPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "whats-trending",
			Description: "Survey what is trending right now across followed sources and explain the ranking to the reader",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "refresh",
					Description: "Set to 'true' to bypass the cache and fetch live data (default: false)",
					Required:    false,
				},
			},
		},
		s.handleWhatsTrending,
	)
}

//nolint:funlen // Prompt handlers contain large template strings
func (s *Server) handleWhatsTrending(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	refresh := "false"
	if req.Params.Arguments != nil {
		if v, ok := req.Params.Arguments["refresh"]; ok && v != "" {
			refresh = v
		}
	}

	template := fmt.Sprintf(`# What's Trending

## Overview
Answer "what is everyone talking about right now?" across the reader's followed sources. Trending ranks live provider data by engagement and recency, weighted by how much the reader trusts each source, so the result is personal rather than global.

## When to Use
- The reader wants a pulse check, not a full catch-up
- Something big seems to be happening and the reader wants confirmation
- Periodically through the day; the ranking is cached briefly so repeat calls are cheap

## Workflow Steps

### Step 1: Get the Ranking
**Use the get_trending tool with refresh=%s:**
- Items come back best first, capped to a short list
- A warning field means one or more sources failed; the ranking still covers the rest
- cached_at tells you how fresh the ranking is

### Step 2: Read the Shape of the List
Before summarizing single items, look for patterns.

**Look for:**
- The same story surfacing from multiple sources (a real event, not one community's noise)
- A single source dominating the top ranks (high engagement or a heavy weight)
- Unusually quiet providers (a source may be failing; check the warning)

### Step 3: Summarize
**Structure:**
- **Right now:** the top 3 items, each with source and a one-line hook
- **Patterns:** cross-source stories and themes, if any
- **Caveats:** warnings from failed sources, staleness if cached_at is old

### Step 4: Offer Next Steps
- Deep dive: search_items to find related stored coverage
- Rebalance: set_source_weight if one source drowns out the rest
- Full catch-up: the morning-brief prompt for a complete briefing

## Tips
- Engagement numbers mean different things per provider; compare ranks, not raw counts
- If the reader asks twice in a row, use refresh=true the second time
- An empty result usually means no sources are followed yet; suggest add_source

**Ready?**
1. get_trending with refresh=%s
2. Read the shape of the list
3. Summarize with patterns and caveats
`, refresh, refresh)

	return &mcp.GetPromptResult{
		Description: "Trending pulse-check workflow across followed sources",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}
