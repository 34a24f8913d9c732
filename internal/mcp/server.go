// ABOUTME: MCP server implementation for hagda
// ABOUTME: Provides tools, resources, and prompts for AI agents to work with followed sources

package mcp

import (
	"github.com/hagda/hagda/internal/config"
	"github.com/hagda/hagda/internal/sources"
	"github.com/hagda/hagda/internal/storage"
	"github.com/hagda/hagda/internal/trending"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server with hagda-specific context
type Server struct {
	mcpServer *server.MCPServer
	store     storage.Store
	registry  *sources.Registry
	manager   *trending.Manager
	cfg       *config.Config
}

// NewServer creates a new MCP server instance
func NewServer(store storage.Store, registry *sources.Registry, manager *trending.Manager, cfg *config.Config) *Server {
	s := &Server{
		store:    store,
		registry: registry,
		manager:  manager,
		cfg:      cfg,
	}

	s.mcpServer = server.NewMCPServer(
		"hagda",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// registerTools is implemented in tools.go
// registerResources is implemented in resources.go
// registerPrompts is implemented in prompts.go
