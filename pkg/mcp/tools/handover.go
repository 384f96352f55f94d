// Package tools provides the MCP tool implementations for shiftlog.
package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/shiftlog/pkg/models"
	"github.com/ekaya-inc/shiftlog/pkg/services"
)

// HandoverToolDeps contains dependencies for shift and equipment tools.
type HandoverToolDeps struct {
	Service services.HandoverService
	Logger  *zap.Logger
}

// RegisterHandoverTools registers the note and report tools.
func RegisterHandoverTools(s *server.MCPServer, deps *HandoverToolDeps) {
	registerLogShiftNoteTool(s, deps)
	registerQueryShiftStatusTool(s, deps)
	registerPreviousShiftReportTool(s, deps)
	registerHandoverSummaryTool(s, deps)
	registerWeeklySummaryTool(s, deps)
}

func noteTypeValues() []string {
	return []string{
		string(models.NoteTypeMaintenance),
		string(models.NoteTypeAlert),
		string(models.NoteTypeStatus),
		string(models.NoteTypeGeneral),
	}
}

func shiftValues() []string {
	values := make([]string, 0, len(models.AllShifts))
	for _, s := range models.AllShifts {
		values = append(values, string(s))
	}
	return values
}

// handleServiceError logs and converts an error returned by the handover service.
func handleServiceError(deps *HandoverToolDeps, tool string, err error) (*mcp.CallToolResult, error) {
	if IsInputError(err) {
		deps.Logger.Debug("Tool input rejected", zap.String("tool", tool), zap.Error(err))
	} else {
		deps.Logger.Error("Tool failed", zap.String("tool", tool), zap.Error(err))
	}
	return serviceErrorResult(err)
}

func registerLogShiftNoteTool(s *server.MCPServer, deps *HandoverToolDeps) {
	tool := mcp.NewTool(
		"log_shift_note",
		mcp.WithDescription(
			"Log a free-text operational note for the current shift. "+
				"The unit, category and priority are derived from the text unless supplied. "+
				"Returns the stored note and the time remaining until the next handover.",
		),
		mcp.WithString(
			"note",
			mcp.Required(),
			mcp.Description("Note text, e.g. 'Unit 5 pump seal leaking, maintenance requested'"),
		),
		mcp.WithString(
			"unit",
			mcp.Description("Optional unit identifier; overrides extraction from the text"),
		),
		mcp.WithString(
			"type",
			mcp.Description("Optional category; overrides classification"),
			mcp.Enum(noteTypeValues()...),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("note")
		if err != nil {
			return NewErrorResult(CodeInvalidInput, err.Error()), nil
		}

		result, err := deps.Service.LogNote(ctx, services.LogNoteRequest{
			Text: text,
			Unit: getOptionalString(req, "unit"),
			Type: getOptionalString(req, "type"),
		})
		if err != nil {
			return handleServiceError(deps, "log_shift_note", err)
		}
		return jsonResult(result)
	})
}

func registerQueryShiftStatusTool(s *server.MCPServer, deps *HandoverToolDeps) {
	tool := mcp.NewTool(
		"query_shift_status",
		mcp.WithDescription(
			"Summarize notes logged so far in the current shift, grouped by category with pending action items. "+
				"Optionally filter by unit or category. Sections are capped at 10 entries unless show_all is true.",
		),
		mcp.WithString(
			"unit",
			mcp.Description("Optional unit filter; '5' and 'Unit 5' are equivalent"),
		),
		mcp.WithString(
			"type",
			mcp.Description("Optional category filter"),
			mcp.Enum(noteTypeValues()...),
		),
		mcp.WithBoolean(
			"show_all",
			mcp.Description("List every note instead of the first 10 per section"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		showAll, _ := getOptionalBool(req, "show_all")
		result, err := deps.Service.QueryStatus(ctx, services.StatusQuery{
			Unit:    getOptionalString(req, "unit"),
			Type:    getOptionalString(req, "type"),
			ShowAll: showAll,
		})
		if err != nil {
			return handleServiceError(deps, "query_shift_status", err)
		}
		return jsonResult(result)
	})
}

func registerPreviousShiftReportTool(s *server.MCPServer, deps *HandoverToolDeps) {
	tool := mcp.NewTool(
		"get_previous_shift_report",
		mcp.WithDescription(
			"Get the report for the most recently completed occurrence of a shift. "+
				"Defaults to the shift before the current one.",
		),
		mcp.WithString(
			"shift",
			mcp.Description("Shift to report on"),
			mcp.Enum(shiftValues()...),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := deps.Service.GetPreviousShiftReport(ctx, getOptionalString(req, "shift"))
		if err != nil {
			return handleServiceError(deps, "get_previous_shift_report", err)
		}
		return jsonResult(result)
	})
}

func registerHandoverSummaryTool(s *server.MCPServer, deps *HandoverToolDeps) {
	tool := mcp.NewTool(
		"generate_handover_summary",
		mcp.WithDescription(
			"Generate the handover summary from a shift to the next one, including pending action items "+
				"and abnormal equipment readings. Defaults to handing over the current shift.",
		),
		mcp.WithString(
			"shift",
			mcp.Description("Shift handing over"),
			mcp.Enum(shiftValues()...),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := deps.Service.GenerateHandoverSummary(ctx, getOptionalString(req, "shift"))
		if err != nil {
			return handleServiceError(deps, "generate_handover_summary", err)
		}
		return jsonResult(result)
	})
}

func registerWeeklySummaryTool(s *server.MCPServer, deps *HandoverToolDeps) {
	tool := mcp.NewTool(
		"generate_weekly_summary",
		mcp.WithDescription(
			"Summarize the last seven days: notes by category and shift, the most active units, "+
				"critical and high priority notes, and abnormal readings per equipment.",
		),
		mcp.WithString(
			"ending_at",
			mcp.Description("Optional RFC 3339 end of the week; defaults to now"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var endingAt *time.Time
		if raw := getOptionalString(req, "ending_at"); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return NewErrorResult(CodeInvalidInput, fmt.Sprintf("ending_at must be RFC 3339, got %q", raw)), nil
			}
			endingAt = &t
		}

		result, err := deps.Service.GenerateWeeklySummary(ctx, endingAt)
		if err != nil {
			return handleServiceError(deps, "generate_weekly_summary", err)
		}
		return jsonResult(result)
	})
}
