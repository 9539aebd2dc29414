package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/storyatlas/internal/library"
	"github.com/ziadkadry99/storyatlas/internal/search"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the story library to agents.
type Server struct {
	store *library.Store
	index *search.Index
	mcp   *server.MCPServer
}

// NewServer creates an MCP server over the library. The search index is
// optional; without one, search_chapters answers with text matching.
func NewServer(store *library.Store, index *search.Index) *Server {
	s := &Server{
		store: store,
		index: index,
	}

	s.mcp = server.NewMCPServer(
		"storyatlas",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listStoriesTool, s.handleListStories)
	s.mcp.AddTool(getStoryOverviewTool, s.handleGetStoryOverview)
	s.mcp.AddTool(getChapterTool, s.handleGetChapter)
	s.mcp.AddTool(searchChaptersTool, s.handleSearchChapters)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
