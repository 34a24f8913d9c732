// ABOUTME: Route handlers for health, trending, brief, source management, items, and refresh
// ABOUTME: Follows one shape throughout: validate params, hit the store, emit JSON

package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hagda/hagda/internal/brief"
	"github.com/hagda/hagda/internal/config"
	"github.com/hagda/hagda/internal/models"
	"github.com/hagda/hagda/internal/sources"
	"github.com/hagda/hagda/internal/storage"
	"github.com/hagda/hagda/internal/timeutil"
)

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if stats, err := h.store.GetOverallStats(); err == nil {
		health["sources"] = stats.TotalSources
		health["items"] = stats.TotalItems
		health["unread"] = stats.UnreadCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetTrending(c *gin.Context) {
	force := c.Query("refresh") == "true"

	srcs, err := h.store.ListSources()
	if err != nil {
		slog.Error("Database error", "operation", "list_sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	items := h.manager.Trending(c.Request.Context(), srcs, force)

	resp := gin.H{
		"items": itemOutputs(items),
		"total": len(items),
	}
	if cachedAt := h.manager.CachedAt(); !cachedAt.IsZero() {
		resp["cached_at"] = cachedAt.Format(time.RFC3339)
	}
	if lastErr := h.manager.LastError(); lastErr != nil {
		resp["warning"] = lastErr.Error()
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetBrief(c *gin.Context) {
	opts := brief.Options{
		Size:   h.cfg.BriefSize(),
		Window: h.cfg.BriefWindow(),
	}

	if sizeStr := c.Query("size"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be a positive integer"})
			return
		}
		opts.Size = size
	}

	if windowStr := c.Query("window"); windowStr != "" {
		cutoff, ok := timeutil.ParsePeriod(windowStr)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "window must be a period like 24h, 7d, or today"})
			return
		}
		opts.Window = time.Since(cutoff)
	}

	b, err := brief.Generate(h.store, opts)
	if err != nil {
		slog.Error("Brief generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate brief"})
		return
	}

	c.JSON(http.StatusOK, briefOutput(b))
}

func (h *Handler) ListSources(c *gin.Context) {
	var srcs []*models.Source
	var err error

	if typeStr := c.Query("type"); typeStr != "" {
		sourceType, parseErr := models.ParseSourceType(typeStr)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
			return
		}
		srcs, err = h.store.ListSourcesByType(sourceType)
	} else {
		srcs, err = h.store.ListSources()
	}
	if err != nil {
		slog.Error("Database error", "operation", "list_sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	statsBySource := make(map[string]storage.SourceStatsRow)
	if rows, statsErr := h.store.GetSourceStats(); statsErr == nil {
		for _, row := range rows {
			statsBySource[row.SourceID] = row
		}
	}

	outputs := make([]SourceOutput, 0, len(srcs))
	for _, src := range srcs {
		var stats *storage.SourceStatsRow
		if row, ok := statsBySource[src.ID]; ok {
			stats = &row
		}
		outputs = append(outputs, sourceOutput(src, stats))
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": outputs,
		"total":   len(outputs),
	})
}

func (h *Handler) AddSource(c *gin.Context) {
	var req AddSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	sourceType, err := models.ParseSourceType(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.TrimSpace(req.Handle)
	}
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name or handle is required"})
		return
	}

	src := models.NewSource(sourceType, name)
	if req.Handle != "" {
		handle := req.Handle
		src.Handle = &handle
	}
	if req.Server != "" {
		server := req.Server
		src.Server = &server
	}
	if req.FeedURL != "" {
		feedURL := req.FeedURL
		src.FeedURL = &feedURL
	}
	if req.Weight != nil {
		if err := src.SetWeight(*req.Weight); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := src.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.CreateSource(src); err != nil {
		slog.Error("Database error", "operation", "create_source", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create source"})
		return
	}

	h.manager.Invalidate()
	c.JSON(http.StatusCreated, sourceOutput(src, nil))
}

func (h *Handler) GetSource(c *gin.Context) {
	src, err := h.store.FindSource(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var stats *storage.SourceStatsRow
	if rows, statsErr := h.store.GetSourceStats(); statsErr == nil {
		for _, row := range rows {
			if row.SourceID == src.ID {
				stats = &row
				break
			}
		}
	}

	c.JSON(http.StatusOK, sourceOutput(src, stats))
}

func (h *Handler) UpdateSource(c *gin.Context) {
	src, err := h.store.FindSource(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req UpdateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
			return
		}
		src.Name = name
	}
	if req.Weight != nil {
		if err := src.SetWeight(*req.Weight); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.store.UpdateSource(src); err != nil {
		slog.Error("Database error", "operation", "update_source", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update source"})
		return
	}

	h.manager.Invalidate()
	c.JSON(http.StatusOK, sourceOutput(src, nil))
}

func (h *Handler) RemoveSource(c *gin.Context) {
	src, err := h.store.FindSource(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.DeleteSource(src.ID); err != nil {
		slog.Error("Database error", "operation", "delete_source", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete source"})
		return
	}

	h.manager.Invalidate()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"removed": src.Name,
	})
}

func (h *Handler) ListItems(c *gin.Context) {
	limit := config.DefaultListLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	// Full-text search short-circuits the filter path
	if query := c.Query("q"); query != "" {
		items, err := h.store.Search(query, limit)
		if err != nil {
			slog.Error("Database error", "operation", "search", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"items": itemOutputs(items),
			"total": len(items),
		})
		return
	}

	filter := &storage.ItemFilter{Limit: &limit}

	if ref := c.Query("source"); ref != "" {
		src, err := h.store.FindSource(ref)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		filter.SourceID = &src.ID
	}

	if typeStr := c.Query("type"); typeStr != "" {
		sourceType, err := models.ParseSourceType(typeStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Types = []models.SourceType{sourceType}
	}

	if c.Query("unread") == "true" {
		unread := true
		filter.UnreadOnly = &unread
	}

	if sinceStr := c.Query("since"); sinceStr != "" {
		cutoff, ok := timeutil.ParsePeriod(sinceStr)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be a period like 24h, 7d, or today"})
			return
		}
		filter.Since = &cutoff
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
			return
		}
		filter.Offset = &offset
	}

	items, err := h.store.ListItems(filter)
	if err != nil {
		slog.Error("Database error", "operation", "list_items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": itemOutputs(items),
		"total": len(items),
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
	}

	var srcs []*models.Source
	if req.Source != "" {
		src, err := h.store.FindSource(req.Source)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		srcs = []*models.Source{src}
	} else {
		var err error
		srcs, err = h.store.ListSources()
		if err != nil {
			slog.Error("Database error", "operation", "list_sources", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
	}

	results := make([]RefreshResult, 0, len(srcs))
	totalAdded := 0
	for _, src := range srcs {
		outcome, err := sources.SyncOne(c.Request.Context(), h.store, h.registry, src, h.cfg.TrendingPerSource(), req.Force)
		result := RefreshResult{
			Source:      src.Name,
			Added:       outcome.Added,
			Refreshed:   outcome.Refreshed,
			NotModified: outcome.NotModified,
		}
		if err != nil {
			result.Error = err.Error()
			slog.Error("Source sync failed", "source", src.Name, "error", err)
		}
		totalAdded += outcome.Added
		results = append(results, result)
	}

	h.manager.Invalidate()

	c.JSON(http.StatusOK, gin.H{
		"synced":  len(results),
		"added":   totalAdded,
		"results": results,
	})
}
