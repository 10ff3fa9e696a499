package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// loggingMiddleware records the name, duration and outcome of every tool
// call. Only installed when the server has a logger.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			result, err := next(ctx, req)

			fields := []zap.Field{
				zap.String("tool", req.Params.Name),
				zap.Duration("duration", time.Since(start)),
				zap.Int("response_bytes", responseBytes(result)),
			}
			switch {
			case err != nil:
				s.logger.Error("tool call failed", append(fields, zap.Error(err))...)
			case result != nil && result.IsError:
				s.logger.Warn("tool call returned an error", fields...)
			default:
				s.logger.Info("tool call", fields...)
			}
			return result, err
		}
	}
}

func responseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	n := 0
	for _, c := range result.Content {
		if text, ok := c.(mcp.TextContent); ok {
			n += len(text.Text)
		}
	}
	return n
}
