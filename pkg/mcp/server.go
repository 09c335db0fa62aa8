// Package mcp exposes the events chatbot as a Model Context Protocol server,
// so agent clients can ask event questions over the same pipeline as the
// webhook.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/mcp/tools"
)

// ServerName is advertised to MCP clients during initialize.
const ServerName = "ekaya-eventbot"

// Server wraps the mcp-go MCPServer.
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// NewServer creates a new MCP server instance with no tools registered.
func NewServer(name, version string, logger *zap.Logger) *Server {
	mcpServer := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
	)

	return &Server{
		mcp:    mcpServer,
		logger: logger.Named("mcp"),
	}
}

// NewEventsServer creates a server with the ask_events and health tools.
func NewEventsServer(version string, responder tools.Responder, db tools.Pinger, logger *zap.Logger) *Server {
	s := NewServer(ServerName, version, logger)
	tools.RegisterAskEventsTool(s.mcp, responder, s.logger)
	tools.RegisterHealthTool(s.mcp, version, db)
	return s
}

// MCP returns the underlying MCPServer for tool registration.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// NewStreamableHTTPServer creates an HTTP transport server wrapping this MCP server.
// The router mounts it at /mcp, so no endpoint path is configured here.
func (s *Server) NewStreamableHTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s.mcp,
		server.WithStateLess(true),
	)
}

// RegisterTool is a convenience wrapper for registering a tool.
func (s *Server) RegisterTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcp.AddTool(tool, handler)
}
