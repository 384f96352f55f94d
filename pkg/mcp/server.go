package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/shiftlog/pkg/mcp/tools"
	"github.com/ekaya-inc/shiftlog/pkg/services"
	"github.com/ekaya-inc/shiftlog/pkg/shiftclock"
)

const serverInstructions = `shiftlog keeps the operational log for a process facility running three 8-hour shifts
(day 06:00-14:00, afternoon 14:00-22:00, night 22:00-06:00).
Use log_shift_note for free-text entries and record_equipment_reading for measurements.
Use generate_handover_summary when the shift changes.`

// Server wraps the mcp-go MCPServer with shiftlog's tool set.
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// NewServer creates a new MCP server instance. Panics inside tool handlers
// are recovered and reported as tool errors.
func NewServer(name, version string, logger *zap.Logger) *Server {
	mcpServer := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(serverInstructions),
		server.WithRecovery(),
	)

	return &Server{
		mcp:    mcpServer,
		logger: logger,
	}
}

// MCP returns the underlying MCPServer for tool registration.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// NewStreamableHTTPServer creates an HTTP transport server wrapping this MCP server.
// The HTTP mux handles routing to /mcp, so no endpoint path is configured here.
func (s *Server) NewStreamableHTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s.mcp,
		server.WithStateLess(true),
	)
}

// RegisterTool is a convenience wrapper for registering a tool.
func (s *Server) RegisterTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcp.AddTool(tool, handler)
}

// RegisterShiftlogTools registers the health, handover and equipment tools.
func (s *Server) RegisterShiftlogTools(service services.HandoverService, clock *shiftclock.Clock, version string) {
	deps := &tools.HandoverToolDeps{
		Service: service,
		Logger:  s.logger,
	}
	tools.RegisterHealthTool(s.mcp, version, clock)
	tools.RegisterHandoverTools(s.mcp, deps)
	tools.RegisterEquipmentTools(s.mcp, deps)

	s.logger.Debug("Registered MCP tools", zap.String("version", version))
}
