package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ekaya-inc/shiftlog/pkg/models"
	"github.com/ekaya-inc/shiftlog/pkg/shiftclock"
)

type healthResult struct {
	Status            string       `json:"status"`
	Version           string       `json:"version"`
	CurrentShift      models.Shift `json:"current_shift"`
	TimeUntilHandover string       `json:"time_until_handover"`
}

// RegisterHealthTool adds a health check tool to the MCP server.
// The tool returns the server status, version and the active shift.
func RegisterHealthTool(s *server.MCPServer, version string, clock *shiftclock.Clock) {
	tool := mcp.NewTool(
		"health",
		mcp.WithDescription("Returns server health status, version and the active shift"),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		now := clock.Now()
		result, err := json.Marshal(healthResult{
			Status:            "ok",
			Version:           version,
			CurrentShift:      clock.CurrentShift(now),
			TimeUntilHandover: shiftclock.FormatDuration(clock.TimeUntilHandover(now)),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal health result: %w", err)
		}
		return mcp.NewToolResultText(string(result)), nil
	})
}
