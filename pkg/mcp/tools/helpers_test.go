package tools

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
)

func requestWith(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func TestTrimString(t *testing.T) {
	assert.Equal(t, "P-101", trimString("  P-101\t"))
	assert.Equal(t, "", trimString("   "))
}

func TestOptionalArguments(t *testing.T) {
	req := requestWith(map[string]any{
		"unit":     " 5 ",
		"limit":    7.0,
		"show_all": true,
		"bogus":    42,
	})

	assert.Equal(t, "5", getOptionalString(req, "unit"))
	assert.Equal(t, "", getOptionalString(req, "missing"))
	assert.Equal(t, "", getOptionalString(req, "bogus"))
	assert.Equal(t, 7, getOptionalInt(req, "limit", 20))
	assert.Equal(t, 20, getOptionalInt(req, "missing", 20))

	b, ok := getOptionalBool(req, "show_all")
	assert.True(t, ok)
	assert.True(t, b)

	assert.Nil(t, getOptionalFloatPtr(req, "missing"))
	if p := getOptionalFloatPtr(req, "limit"); assert.NotNil(t, p) {
		assert.Equal(t, 7.0, *p)
	}
}

func TestOptionalArguments_NoArguments(t *testing.T) {
	req := requestWith(nil)

	assert.Equal(t, "", getOptionalString(req, "unit"))
	_, ok := getOptionalBool(req, "show_all")
	assert.False(t, ok)
}
