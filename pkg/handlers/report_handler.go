package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/shiftlog/pkg/apperrors"
	"github.com/ekaya-inc/shiftlog/pkg/services"
)

// ReportHandler serves read-only shift reports for display boards and
// other non-agent consumers.
type ReportHandler struct {
	service services.HandoverService
	logger  *zap.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(service services.HandoverService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the report handler's routes on the given mux.
func (h *ReportHandler) RegisterRoutes(mux *http.ServeMux) {
	base := "/api/reports"

	mux.HandleFunc("GET "+base+"/status", h.Status)
	mux.HandleFunc("GET "+base+"/previous", h.Previous)
	mux.HandleFunc("GET "+base+"/handover", h.Handover)
	mux.HandleFunc("GET "+base+"/weekly", h.Weekly)
}

// Status handles GET /api/reports/status?unit=&type=&show_all=
func (h *ReportHandler) Status(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	showAll, _ := strconv.ParseBool(q.Get("show_all"))

	result, err := h.service.QueryStatus(r.Context(), services.StatusQuery{
		Unit:    q.Get("unit"),
		Type:    q.Get("type"),
		ShowAll: showAll,
	})
	if err != nil {
		h.writeError(w, "status_report_failed", err)
		return
	}
	h.write(w, r, result, result.FormattedSummary)
}

// Previous handles GET /api/reports/previous?shift=
func (h *ReportHandler) Previous(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetPreviousShiftReport(r.Context(), r.URL.Query().Get("shift"))
	if err != nil {
		h.writeError(w, "previous_report_failed", err)
		return
	}
	h.write(w, r, result, result.FormattedReport)
}

// Handover handles GET /api/reports/handover?shift=
func (h *ReportHandler) Handover(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GenerateHandoverSummary(r.Context(), r.URL.Query().Get("shift"))
	if err != nil {
		h.writeError(w, "handover_report_failed", err)
		return
	}
	h.write(w, r, result, result.Summary)
}

// Weekly handles GET /api/reports/weekly?ending_at=
func (h *ReportHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	var endingAt *time.Time
	if raw := r.URL.Query().Get("ending_at"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_ending_at", "ending_at must be an RFC 3339 timestamp"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		endingAt = &t
	}

	result, err := h.service.GenerateWeeklySummary(r.Context(), endingAt)
	if err != nil {
		h.writeError(w, "weekly_report_failed", err)
		return
	}
	h.write(w, r, result, result.Summary)
}

// write renders the JSON result, or only the formatted text for ?format=text.
func (h *ReportHandler) write(w http.ResponseWriter, r *http.Request, result any, text string) {
	if r.URL.Query().Get("format") == "text" {
		if err := WriteText(w, text); err != nil {
			h.logger.Error("Failed to write response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *ReportHandler) writeError(w http.ResponseWriter, code string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, apperrors.ErrInvalidInput) {
		status = http.StatusBadRequest
		code = "invalid_input"
	} else {
		h.logger.Error("Report failed", zap.String("code", code), zap.Error(err))
	}
	if err := ErrorResponse(w, status, code, err.Error()); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
