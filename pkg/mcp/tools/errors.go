package tools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ekaya-inc/shiftlog/pkg/apperrors"
)

// ErrorResponse represents a structured error in tool results.
// This is used to return actionable error information to the agent
// as a successful tool result, ensuring error details are visible
// rather than being swallowed by the MCP client.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidInput = "invalid_input"
	CodeInvalidRange = "invalid_range"
	CodeNotFound     = "not_found"
)

// NewErrorResult creates a tool result containing a structured error.
// Use this for recoverable/actionable errors that the agent should see and
// can potentially fix (e.g., an unknown equipment type).
//
// Do NOT use this for system failures (database connection errors,
// internal server errors) - those should still return Go errors.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	return NewErrorResultWithDetails(code, message, nil)
}

// NewErrorResultWithDetails creates an error result with additional context,
// such as the list of accepted values for an enum parameter.
func NewErrorResultWithDetails(code, message string, details any) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
		Details: details,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// errorCode maps a service error to an ErrorResponse code. It returns ""
// for errors the caller cannot fix by changing its input.
func errorCode(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidRange), errors.Is(err, apperrors.ErrZeroWidthRange):
		return CodeInvalidRange
	case errors.Is(err, apperrors.ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, apperrors.ErrNotFound):
		return CodeNotFound
	}
	return ""
}

// IsInputError returns true if the error was caused by caller input rather
// than a server failure. Input errors are logged at DEBUG, not ERROR.
func IsInputError(err error) bool {
	return err != nil && errorCode(err) != ""
}

// serviceErrorResult converts input errors into error results and passes
// everything else through as a Go error.
func serviceErrorResult(err error) (*mcp.CallToolResult, error) {
	if code := errorCode(err); code != "" {
		return NewErrorResult(code, err.Error()), nil
	}
	return nil, err
}
