package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ekaya-inc/shiftlog/pkg/models"
	"github.com/ekaya-inc/shiftlog/pkg/services"
)

// RegisterEquipmentTools registers the reading and range tools.
func RegisterEquipmentTools(s *server.MCPServer, deps *HandoverToolDeps) {
	registerRecordReadingTool(s, deps)
	registerEquipmentHistoryTool(s, deps)
	registerAbnormalReadingsTool(s, deps)
	registerGetEquipmentRangeTool(s, deps)
	registerSetEquipmentRangeTool(s, deps)
}

func equipmentTypeValues() []string {
	values := make([]string, 0, len(models.AllEquipmentTypes))
	for _, t := range models.AllEquipmentTypes {
		values = append(values, string(t))
	}
	return values
}

func parameterValues() []string {
	values := make([]string, 0, len(models.AllParameters))
	for _, p := range models.AllParameters {
		values = append(values, string(p))
	}
	return values
}

// equipmentKeyOptions are the three parameters that identify a range.
func equipmentKeyOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString(
			"equipment_id",
			mcp.Required(),
			mcp.Description("Equipment tag, e.g. 'P-101'"),
		),
		mcp.WithString(
			"equipment_type",
			mcp.Required(),
			mcp.Description("Equipment type"),
			mcp.Enum(equipmentTypeValues()...),
		),
		mcp.WithString(
			"parameter",
			mcp.Required(),
			mcp.Description("Measured parameter"),
			mcp.Enum(parameterValues()...),
		),
	}
}

func registerRecordReadingTool(s *server.MCPServer, deps *HandoverToolDeps) {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Record an equipment reading. The value is evaluated against the equipment's operating range " +
				"and the response includes status, deviation, a recommendation and a trend over recent readings. " +
				"Supplying both normal_min and normal_max stores them as this equipment's normal range.",
		),
	}
	opts = append(opts, equipmentKeyOptions()...)
	opts = append(opts,
		mcp.WithNumber(
			"value",
			mcp.Required(),
			mcp.Description("Measured value"),
		),
		mcp.WithString(
			"unit",
			mcp.Description("Process unit the equipment belongs to"),
		),
		mcp.WithString(
			"uom",
			mcp.Description("Unit of measurement; defaults to the range's unit"),
		),
		mcp.WithNumber(
			"normal_min",
			mcp.Description("Lower bound of the normal range; requires normal_max"),
		),
		mcp.WithNumber(
			"normal_max",
			mcp.Description("Upper bound of the normal range; requires normal_min"),
		),
		mcp.WithString(
			"operator",
			mcp.Description("Name of the operator taking the reading"),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)
	tool := mcp.NewTool("record_equipment_reading", opts...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, equipmentType, param, errResult := requireEquipmentKey(req)
		if errResult != nil {
			return errResult, nil
		}
		value, err := req.RequireFloat("value")
		if err != nil {
			return NewErrorResult(CodeInvalidInput, err.Error()), nil
		}

		result, err := deps.Service.RecordEquipmentReading(ctx, services.RecordReadingRequest{
			EquipmentID:   id,
			EquipmentType: equipmentType,
			Unit:          getOptionalString(req, "unit"),
			Parameter:     param,
			Value:         value,
			UOM:           getOptionalString(req, "uom"),
			NormalMin:     getOptionalFloatPtr(req, "normal_min"),
			NormalMax:     getOptionalFloatPtr(req, "normal_max"),
			Operator:      getOptionalString(req, "operator"),
		})
		if err != nil {
			return handleServiceError(deps, "record_equipment_reading", err)
		}
		return jsonResult(result)
	})
}

func registerEquipmentHistoryTool(s *server.MCPServer, deps *HandoverToolDeps) {
	tool := mcp.NewTool(
		"get_equipment_history",
		mcp.WithDescription("List the most recent readings for one piece of equipment across all parameters, newest first."),
		mcp.WithString(
			"equipment_id",
			mcp.Required(),
			mcp.Description("Equipment tag, e.g. 'P-101'"),
		),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum readings to return (default 20)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("equipment_id")
		if err != nil {
			return NewErrorResult(CodeInvalidInput, err.Error()), nil
		}

		readings, err := deps.Service.GetEquipmentHistory(ctx, id, getOptionalInt(req, "limit", services.DefaultHistoryLimit))
		if err != nil {
			return handleServiceError(deps, "get_equipment_history", err)
		}
		return jsonResult(readingList{Readings: nonNil(readings), Count: len(readings)})
	})
}

func registerAbnormalReadingsTool(s *server.MCPServer, deps *HandoverToolDeps) {
	tool := mcp.NewTool(
		"get_abnormal_readings",
		mcp.WithDescription("List the most recent warning and critical readings across all equipment, newest first."),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum readings to return (default 20)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		readings, err := deps.Service.GetAbnormalReadings(ctx, getOptionalInt(req, "limit", services.DefaultHistoryLimit))
		if err != nil {
			return handleServiceError(deps, "get_abnormal_readings", err)
		}
		return jsonResult(readingList{Readings: nonNil(readings), Count: len(readings)})
	})
}

func registerGetEquipmentRangeTool(s *server.MCPServer, deps *HandoverToolDeps) {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Get the operating range in effect for an equipment parameter and where it comes from " +
				"(override, default or fallback).",
		),
	}
	opts = append(opts, equipmentKeyOptions()...)
	opts = append(opts,
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
	tool := mcp.NewTool("get_equipment_range", opts...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, equipmentType, param, errResult := requireEquipmentKey(req)
		if errResult != nil {
			return errResult, nil
		}

		rng, err := deps.Service.GetEquipmentRange(ctx, id, equipmentType, param)
		if err != nil {
			return handleServiceError(deps, "get_equipment_range", err)
		}
		return jsonResult(rng)
	})
}

func registerSetEquipmentRangeTool(s *server.MCPServer, deps *HandoverToolDeps) {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Set the operating range for one equipment parameter. Critical bounds are optional; " +
				"when omitted they are inherited from the current range and widened to contain the normal range.",
		),
	}
	opts = append(opts, equipmentKeyOptions()...)
	opts = append(opts,
		mcp.WithNumber("min", mcp.Required(), mcp.Description("Lower bound of the normal range")),
		mcp.WithNumber("max", mcp.Required(), mcp.Description("Upper bound of the normal range")),
		mcp.WithNumber("critical_min", mcp.Description("Lower bound of the critical range")),
		mcp.WithNumber("critical_max", mcp.Description("Upper bound of the critical range")),
		mcp.WithString("uom", mcp.Description("Unit of measurement")),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
	tool := mcp.NewTool("set_equipment_range", opts...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, equipmentType, param, errResult := requireEquipmentKey(req)
		if errResult != nil {
			return errResult, nil
		}
		minVal, err := req.RequireFloat("min")
		if err != nil {
			return NewErrorResult(CodeInvalidInput, err.Error()), nil
		}
		maxVal, err := req.RequireFloat("max")
		if err != nil {
			return NewErrorResult(CodeInvalidInput, err.Error()), nil
		}

		rng, err := deps.Service.SetEquipmentRange(ctx, services.RangeUpdate{
			EquipmentID:   id,
			EquipmentType: equipmentType,
			Parameter:     param,
			Min:           minVal,
			Max:           maxVal,
			CriticalMin:   getOptionalFloatPtr(req, "critical_min"),
			CriticalMax:   getOptionalFloatPtr(req, "critical_max"),
			UOM:           getOptionalString(req, "uom"),
		})
		if err != nil {
			return handleServiceError(deps, "set_equipment_range", err)
		}
		return jsonResult(rng)
	})
}

type readingList struct {
	Readings []*models.EquipmentReading `json:"readings"`
	Count    int                        `json:"count"`
}

// nonNil keeps empty lists serialized as [] rather than null.
func nonNil(readings []*models.EquipmentReading) []*models.EquipmentReading {
	if readings == nil {
		return []*models.EquipmentReading{}
	}
	return readings
}

// requireEquipmentKey reads the parameters shared by the reading and range tools.
func requireEquipmentKey(req mcp.CallToolRequest) (id, equipmentType, param string, errResult *mcp.CallToolResult) {
	id, err := req.RequireString("equipment_id")
	if err != nil {
		return "", "", "", NewErrorResult(CodeInvalidInput, err.Error())
	}
	equipmentType, err = req.RequireString("equipment_type")
	if err != nil {
		return "", "", "", NewErrorResult(CodeInvalidInput, err.Error())
	}
	param, err = req.RequireString("parameter")
	if err != nil {
		return "", "", "", NewErrorResult(CodeInvalidInput, err.Error())
	}
	return trimString(id), trimString(equipmentType), trimString(param), nil
}
