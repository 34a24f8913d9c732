// ABOUTME: HTTP server setup: routes, request logging, CORS, and API key auth
// ABOUTME: All data endpoints live under /api/v1; auth applies only when a key is configured

package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates a configured HTTP engine. When apiKey is empty the
// /api/v1 endpoints are open; otherwise every request must carry the key.
func NewServer(handler *Handler, apiKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(requestLogger())
	r.Use(gin.Recovery())

	// CORS for browser clients
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, apiKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiKey string) {
	r.GET("/health", handler.GetHealth)

	v1 := r.Group("/api/v1")
	if apiKey != "" {
		v1.Use(authMiddleware(apiKey))
	}
	{
		v1.GET("/trending", handler.GetTrending)
		v1.GET("/brief", handler.GetBrief)
		v1.GET("/sources", handler.ListSources)
		v1.POST("/sources", handler.AddSource)
		v1.GET("/sources/:id", handler.GetSource)
		v1.PATCH("/sources/:id", handler.UpdateSource)
		v1.DELETE("/sources/:id", handler.RemoveSource)
		v1.GET("/items", handler.ListItems)
		v1.POST("/refresh", handler.Refresh)
	}

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":     "hagda",
			"version":     handler.version,
			"description": "Personal content aggregator with trending ranking across feeds, Reddit, Bluesky, Mastodon, and podcasts",
			"endpoints": map[string]string{
				"health":   "/health",
				"trending": "/api/v1/trending",
				"brief":    "/api/v1/brief",
				"sources":  "/api/v1/sources",
				"items":    "/api/v1/items",
				"refresh":  "/api/v1/refresh (POST)",
			},
			"auth": map[string]interface{}{
				"required": apiKey != "",
				"header":   "X-API-Key",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// requestLogger logs one line per request through slog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond).String(),
			"client", c.ClientIP(),
		)
	}
}

// authMiddleware checks the configured API key on every request.
func authMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		// Also accept Authorization: Bearer <key>
		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide the key in the X-API-Key header or as Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
