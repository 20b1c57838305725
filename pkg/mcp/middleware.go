package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/cssinterop/pkg/mcplog"
)

// loggingMiddleware records every tool call in the server's mcplog.Logger.
// Log failures never change the tool result.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)

			var errStr *string
			switch {
			case err != nil:
				msg := err.Error()
				errStr = &msg
			case result != nil && result.IsError:
				if msg := firstText(result); msg != "" {
					errStr = &msg
				}
			}

			_ = s.logger.Write(mcplog.LogEntry{
				Ts:            start.UTC().Format(time.RFC3339),
				Tool:          req.Params.Name,
				Filename:      req.GetString("filename", ""),
				Params:        mcplog.SanitizeParams(req.GetArguments()),
				DurationMs:    time.Since(start).Milliseconds(),
				ResponseBytes: mcplog.ResponseBytes(result),
				IsError:       err != nil || (result != nil && result.IsError),
				Error:         errStr,
			})

			return result, err
		}
	}
}

func firstText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if text, ok := c.(mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}
