package tools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/shiftlog/pkg/repositories"
	"github.com/ekaya-inc/shiftlog/pkg/services"
)

// newToolServer registers every shift tool against in-memory stores with the
// clock fixed at now.
func newToolServer(t *testing.T, now time.Time) *server.MCPServer {
	t.Helper()
	clock := fixedClock(now)
	ranges := services.NewRangeRegistry(repositories.NewMemoryRangeRepository(), nil, nil, zap.NewNop())
	svc := services.NewHandoverService(clock,
		repositories.NewMemoryNoteRepository(),
		repositories.NewMemoryReadingRepository(),
		ranges, nil, zap.NewNop())

	mcpServer := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
	deps := &HandoverToolDeps{Service: svc, Logger: zap.NewNop()}
	RegisterHandoverTools(mcpServer, deps)
	RegisterEquipmentTools(mcpServer, deps)
	RegisterHealthTool(mcpServer, "test", clock)
	return mcpServer
}

// callTool invokes a tool through JSON-RPC and returns its text content and
// error flag.
func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) (string, bool) {
	t.Helper()
	request := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  map[string]any{"name": name, "arguments": args},
	}
	body, err := json.Marshal(request)
	require.NoError(t, err)

	result := s.HandleMessage(context.Background(), body)
	resultBytes, err := json.Marshal(result)
	require.NoError(t, err)

	var response struct {
		Result struct {
			Content []mcp.TextContent `json:"content"`
			IsError bool              `json:"isError"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resultBytes, &response))
	require.Nil(t, response.Error, "unexpected JSON-RPC error")
	require.NotEmpty(t, response.Result.Content)
	return response.Result.Content[0].Text, response.Result.IsError
}

func decode[T any](t *testing.T, text string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(text), &v))
	return v
}
