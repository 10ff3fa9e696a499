// Package mcp exposes the inspector as Model Context Protocol tools over
// stdio, so that agents can extract and export design tokens.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	tokeninspector "github.com/hellenic-development/token-inspector"
)

// Server implements the MCP server backed by one Inspector.
type Server struct {
	mcpServer *server.MCPServer
	inspector *tokeninspector.Inspector
	logger    *zap.Logger // may be nil
	last      lastReport
}

// NewServer creates an MCP server for in. A non-nil logger records every
// tool call.
func NewServer(in *tokeninspector.Inspector, logger *zap.Logger) *Server {
	s := &Server{inspector: in, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("token-inspector", tokeninspector.Version, opts...)
	s.mcpServer.AddTools(
		server.ServerTool{Tool: extractTokensTool(), Handler: s.handleExtractTokens},
		server.ServerTool{Tool: listAssetsTool(), Handler: s.handleListAssets},
		server.ServerTool{Tool: exportCatalogTool(), Handler: s.handleExportCatalog},
		server.ServerTool{Tool: reportTool(), Handler: s.handleReport},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
