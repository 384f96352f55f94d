package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ekaya-inc/shiftlog/pkg/logging"
)

func serveMCP(t *testing.T, reqBody, respBody string) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(respBody))
	})

	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(reqBody))
	rec := httptest.NewRecorder()
	MCPRequestLogger(zap.New(core))(handler).ServeHTTP(rec, req)

	require.Equal(t, respBody, rec.Body.String(), "response must pass through unchanged")
	return logs
}

func TestMCPRequestLogger(t *testing.T) {
	t.Run("logs successful tool call", func(t *testing.T) {
		logs := serveMCP(t,
			`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"query_shift_status","arguments":{"unit":"5"}}}`,
			`{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"text","text":"{}"}]}}`)

		require.Equal(t, 2, logs.Len(), "Should log request and response")

		requestLog := logs.All()[0]
		assert.Equal(t, "MCP request", requestLog.Message)
		assert.Equal(t, "tools/call", requestLog.ContextMap()["method"])
		assert.Equal(t, "query_shift_status", requestLog.ContextMap()["tool"])

		responseLog := logs.All()[1]
		assert.Equal(t, "MCP response success", responseLog.Message)
		assert.NotNil(t, responseLog.ContextMap()["duration"])
	})

	t.Run("logs JSON-RPC error", func(t *testing.T) {
		logs := serveMCP(t,
			`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"nope"}}`,
			`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"tool 'nope' not found"}}`)

		require.Equal(t, 2, logs.Len())
		responseLog := logs.All()[1]
		assert.Equal(t, "MCP response error", responseLog.Message)
		assert.Equal(t, int64(-32602), responseLog.ContextMap()["error_code"])
	})

	t.Run("logs tool error result", func(t *testing.T) {
		logs := serveMCP(t,
			`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"log_shift_note","arguments":{"note":"x","type":"gossip"}}}`,
			`{"jsonrpc":"2.0","id":1,"result":{"isError":true,"content":[{"type":"text","text":"{\"error\":true,\"code\":\"invalid_input\"}"}]}}`)

		require.Equal(t, 2, logs.Len())
		responseLog := logs.All()[1]
		assert.Equal(t, "MCP tool error result", responseLog.Message)
		assert.Contains(t, responseLog.ContextMap()["error_message"], "invalid_input")
	})

	t.Run("non JSON body still passes through", func(t *testing.T) {
		logs := serveMCP(t, `not json`, `also not json`)

		assert.Equal(t, 1, logs.FilterMessage("MCP request").Len())
		assert.Equal(t, 1, logs.FilterMessage("Failed to parse MCP response JSON").Len())
	})

	t.Run("nil logger passes through", func(t *testing.T) {
		called := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

		MCPRequestLogger(nil)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/mcp", nil))

		assert.True(t, called)
	})
}

func TestSanitizeArguments(t *testing.T) {
	assert.Nil(t, sanitizeArguments(nil))

	longNote := strings.Repeat("pump seal leaking ", 20)
	got := sanitizeArguments(map[string]any{
		"note":          longNote,
		"db_password":   "hunter2",
		"equipment_id":  "P-101",
		"value":         175.0,
		"operator_name": strings.Repeat("a", 300),
	})

	assert.Equal(t, logging.RedactedText, got["db_password"])
	assert.Equal(t, "P-101", got["equipment_id"])
	assert.Equal(t, 175.0, got["value"])
	assert.Equal(t, logging.TruncateNote(longNote), got["note"])
	assert.Len(t, got["operator_name"], maxArgumentLogLength+3)
}
