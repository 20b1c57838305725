// Package mcp exposes the createElement transform as MCP tools over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/cssinterop/pkg/mcplog"
	"github.com/gnana997/cssinterop/pkg/runner"
)

const (
	serverName    = "cssinterop"
	serverVersion = "0.1.0-dev"
)

// Server is the MCP server. Tools run through a runner.Processor, so
// repeated calls with the same code are served from its cache.
type Server struct {
	mcpServer *server.MCPServer
	processor *runner.Processor
	logger    *mcplog.Logger // nil disables tool-call logging
}

// NewServer creates a server. log may be nil.
func NewServer(processor *runner.Processor, log *mcplog.Logger) *Server {
	s := &Server{processor: processor, logger: log}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if log.Enabled() {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer(serverName, serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: transformCodeTool(), Handler: s.handleTransformCode},
		server.ServerTool{Tool: inspectBindingsTool(), Handler: s.handleInspectBindings},
	)

	return s
}

// ServeStdio serves MCP on stdin/stdout until the input is closed.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
