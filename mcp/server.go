// Package mcp exposes the synchronization pipeline as MCP tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/lukman83/ozon-sync/internal/pipeline"
)

func newServer(p *pipeline.Pipeline) *server.MCPServer {
	s := server.NewMCPServer(
		"ozon-sync",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	registerTools(s, p)
	return s
}

// Serve starts the MCP stdio server with all tools registered.
func Serve(p *pipeline.Pipeline) error {
	return server.ServeStdio(newServer(p))
}
