package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/shiftlog/pkg/apperrors"
	"github.com/ekaya-inc/shiftlog/pkg/classifier"
	"github.com/ekaya-inc/shiftlog/pkg/logging"
	"github.com/ekaya-inc/shiftlog/pkg/metrics"
	"github.com/ekaya-inc/shiftlog/pkg/models"
	"github.com/ekaya-inc/shiftlog/pkg/reports"
	"github.com/ekaya-inc/shiftlog/pkg/repositories"
	"github.com/ekaya-inc/shiftlog/pkg/services/evaluation"
	"github.com/ekaya-inc/shiftlog/pkg/shiftclock"
)

// DefaultHistoryLimit is used when a history or abnormal-reading query
// does not specify a positive limit.
const DefaultHistoryLimit = 20

// LogNoteRequest is a free-text note with optional classification overrides.
type LogNoteRequest struct {
	Text string
	Unit string
	Type string
}

// LogNoteResult describes a stored note and the upcoming handover.
type LogNoteResult struct {
	ID                uuid.UUID       `json:"id"`
	Shift             models.Shift    `json:"shift"`
	Unit              string          `json:"unit"`
	Type              models.NoteType `json:"type"`
	Priority          models.Priority `json:"priority"`
	Timestamp         time.Time       `json:"timestamp"`
	NextHandover      time.Time       `json:"next_handover"`
	TimeUntilHandover string          `json:"time_until_handover"`
	Message           string          `json:"message"`
}

// StatusQuery filters the current shift status.
type StatusQuery struct {
	Unit    string
	Type    string
	ShowAll bool
}

// StatusResult is the current shift status report.
type StatusResult struct {
	Shift            models.Shift   `json:"shift"`
	TimeRange        string         `json:"time_range"`
	Date             string         `json:"date"`
	Counts           reports.Counts `json:"counts"`
	NextHandover     time.Time      `json:"next_handover"`
	FormattedSummary string         `json:"formatted_summary"`
}

// ShiftReportResult is the report for a completed shift occurrence.
type ShiftReportResult struct {
	Shift           models.Shift   `json:"shift"`
	TimeRange       string         `json:"time_range"`
	Date            string         `json:"date"`
	Counts          reports.Counts `json:"counts"`
	FormattedReport string         `json:"formatted_report"`
}

// HandoverResult is the summary passed from one shift to the next.
type HandoverResult struct {
	FromShift        models.Shift   `json:"from_shift"`
	ToShift          models.Shift   `json:"to_shift"`
	Date             string         `json:"date"`
	Counts           reports.Counts `json:"counts"`
	AbnormalReadings int            `json:"abnormal_readings"`
	Summary          string         `json:"summary"`
}

// RecordReadingRequest is one equipment reading. NormalMin and NormalMax,
// when both set, are remembered as the equipment's normal band.
type RecordReadingRequest struct {
	EquipmentID   string
	EquipmentType string
	Unit          string
	Parameter     string
	Value         float64
	UOM           string
	NormalMin     *float64
	NormalMax     *float64
	Operator      string
}

// RecordReadingResult is the evaluation of a stored reading.
type RecordReadingResult struct {
	ID             uuid.UUID                `json:"id"`
	Timestamp      time.Time                `json:"timestamp"`
	Shift          models.Shift             `json:"shift"`
	EquipmentID    string                   `json:"equipment_id"`
	Parameter      models.Parameter         `json:"parameter"`
	Value          float64                  `json:"value"`
	UOM            string                   `json:"uom"`
	Status         models.ReadingStatus     `json:"status"`
	Deviation      float64                  `json:"deviation"`
	Range          models.EquipmentRange    `json:"range"`
	Message        string                   `json:"message"`
	Recommendation string                   `json:"recommendation"`
	TrendAnalysis  evaluation.TrendAnalysis `json:"trend_analysis"`
}

// WeeklyResult is the seven-day summary.
type WeeklyResult struct {
	Stats   reports.WeeklyStats `json:"stats"`
	Summary string              `json:"summary"`
}

// RangeUpdate is an administrative range change. Critical bounds are optional.
type RangeUpdate struct {
	EquipmentID   string
	EquipmentType string
	Parameter     string
	Min           float64
	Max           float64
	CriticalMin   *float64
	CriticalMax   *float64
	UOM           string
}

// HandoverService implements the shift-handover operations.
type HandoverService interface {
	LogNote(ctx context.Context, req LogNoteRequest) (*LogNoteResult, error)
	QueryStatus(ctx context.Context, q StatusQuery) (*StatusResult, error)
	GetPreviousShiftReport(ctx context.Context, shift string) (*ShiftReportResult, error)
	GenerateHandoverSummary(ctx context.Context, shift string) (*HandoverResult, error)
	RecordEquipmentReading(ctx context.Context, req RecordReadingRequest) (*RecordReadingResult, error)

	// GenerateWeeklySummary covers the seven days ending at endingAt, or now when nil.
	GenerateWeeklySummary(ctx context.Context, endingAt *time.Time) (*WeeklyResult, error)
	GetEquipmentHistory(ctx context.Context, equipmentID string, limit int) ([]*models.EquipmentReading, error)
	GetAbnormalReadings(ctx context.Context, limit int) ([]*models.EquipmentReading, error)
	GetEquipmentRange(ctx context.Context, equipmentID, equipmentType, parameter string) (models.EquipmentRange, error)
	SetEquipmentRange(ctx context.Context, update RangeUpdate) (models.EquipmentRange, error)
}

type handoverService struct {
	clock     *shiftclock.Clock
	notes     repositories.NoteRepository
	readings  repositories.ReadingRepository
	ranges    RangeRegistry
	formatter *reports.Formatter
	metrics   *metrics.Registry
	logger    *zap.Logger
}

// NewHandoverService wires the handover operations over the given stores.
// A nil metrics registry disables instrumentation.
func NewHandoverService(
	clock *shiftclock.Clock,
	notes repositories.NoteRepository,
	readings repositories.ReadingRepository,
	ranges RangeRegistry,
	m *metrics.Registry,
	logger *zap.Logger,
) HandoverService {
	return &handoverService{
		clock:     clock,
		notes:     notes,
		readings:  readings,
		ranges:    ranges,
		formatter: reports.NewFormatter(clock.Location()),
		metrics:   m,
		logger:    logger.Named("handover-service"),
	}
}

var _ HandoverService = (*handoverService)(nil)

func (s *handoverService) LogNote(ctx context.Context, req LogNoteRequest) (*LogNoteResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: note text is required", apperrors.ErrInvalidInput)
	}

	overrides := classifier.Overrides{Unit: strings.TrimSpace(req.Unit)}
	if req.Type != "" {
		t, ok := models.ParseNoteType(req.Type)
		if !ok {
			return nil, fmt.Errorf("%w: unknown note type %q (expected maintenance, alert, status or general)", apperrors.ErrInvalidInput, req.Type)
		}
		overrides.Type = t
	}
	class := classifier.Classify(text, overrides)

	now := s.clock.Now()
	note := &models.ShiftNote{
		ID:        uuid.New(),
		Timestamp: now,
		Shift:     s.clock.CurrentShift(now),
		Unit:      class.Unit,
		Note:      text,
		Type:      class.Type,
		Priority:  class.Priority,
	}
	if err := s.notes.Append(ctx, note); err != nil {
		s.logger.Error("Failed to store note",
			zap.String("note", logging.TruncateNote(text)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to log note: %w", err)
	}
	s.metrics.NoteLogged(note.Type, note.Priority)

	next := s.clock.NextHandoverTime(now)
	until := shiftclock.FormatDuration(next.Sub(now))
	s.logger.Info("Note logged",
		zap.String("id", note.ID.String()),
		zap.String("shift", string(note.Shift)),
		zap.String("unit", note.Unit),
		zap.String("type", string(note.Type)),
		zap.String("priority", string(note.Priority)),
		zap.String("note", logging.TruncateNote(text)))

	return &LogNoteResult{
		ID:                note.ID,
		Shift:             note.Shift,
		Unit:              note.Unit,
		Type:              note.Type,
		Priority:          note.Priority,
		Timestamp:         note.Timestamp,
		NextHandover:      next,
		TimeUntilHandover: until,
		Message: fmt.Sprintf("Logged %s note for %s during %s shift (%s priority). Next handover at %s (in %s).",
			note.Type, unitDescription(note.Unit), note.Shift.DisplayName(), strings.ToUpper(string(note.Priority)),
			next.In(s.clock.Location()).Format("15:04"), until),
	}, nil
}

func (s *handoverService) QueryStatus(ctx context.Context, q StatusQuery) (*StatusResult, error) {
	var noteType models.NoteType
	if q.Type != "" {
		t, ok := models.ParseNoteType(q.Type)
		if !ok {
			return nil, fmt.Errorf("%w: unknown note type %q", apperrors.ErrInvalidInput, q.Type)
		}
		noteType = t
	}
	unit := strings.TrimSpace(q.Unit)

	w := s.clock.Window(s.clock.Now())
	notes, err := s.notesInWindow(ctx, w, unit, noteType)
	if err != nil {
		return nil, err
	}
	s.metrics.ReportRendered(metrics.ReportStatus)

	return &StatusResult{
		Shift:        w.Shift,
		TimeRange:    w.Shift.TimeRange(),
		Date:         s.date(w.Start),
		Counts:       reports.CountNotes(notes),
		NextHandover: w.End,
		FormattedSummary: s.formatter.StatusSummary(reports.StatusInput{
			Window:  w,
			Notes:   notes,
			Unit:    unit,
			Type:    noteType,
			ShowAll: q.ShowAll,
		}),
	}, nil
}

func (s *handoverService) GetPreviousShiftReport(ctx context.Context, shift string) (*ShiftReportResult, error) {
	now := s.clock.Now()
	target := shiftclock.PreviousShift(s.clock.CurrentShift(now))
	if shift != "" {
		parsed, err := parseShift(shift)
		if err != nil {
			return nil, err
		}
		target = parsed
	}

	w := s.clock.LastCompletedWindow(target, now)
	notes, err := s.notesInWindow(ctx, w, "", "")
	if err != nil {
		return nil, err
	}
	s.metrics.ReportRendered(metrics.ReportPrevious)

	return &ShiftReportResult{
		Shift:           w.Shift,
		TimeRange:       w.Shift.TimeRange(),
		Date:            s.date(w.Start),
		Counts:          reports.CountNotes(notes),
		FormattedReport: s.formatter.PreviousShiftReport(w, notes),
	}, nil
}

func (s *handoverService) GenerateHandoverSummary(ctx context.Context, shift string) (*HandoverResult, error) {
	now := s.clock.Now()
	from := s.clock.CurrentShift(now)
	if shift != "" {
		parsed, err := parseShift(shift)
		if err != nil {
			return nil, err
		}
		from = parsed
	}

	w := s.clock.RecentWindow(from, now)
	notes, err := s.notesInWindow(ctx, w, "", "")
	if err != nil {
		return nil, err
	}
	abnormal, err := s.readingsInWindow(ctx, w, true)
	if err != nil {
		return nil, err
	}
	s.metrics.ReportRendered(metrics.ReportHandover)

	s.logger.Info("Handover summary generated",
		zap.String("from_shift", string(from)),
		zap.Int("notes", len(notes)),
		zap.Int("abnormal_readings", len(abnormal)))

	return &HandoverResult{
		FromShift:        from,
		ToShift:          shiftclock.NextShift(from),
		Date:             s.date(w.Start),
		Counts:           reports.CountNotes(notes),
		AbnormalReadings: len(abnormal),
		Summary:          s.formatter.HandoverSummary(w, notes, abnormal),
	}, nil
}

func (s *handoverService) RecordEquipmentReading(ctx context.Context, req RecordReadingRequest) (*RecordReadingResult, error) {
	equipmentID := strings.TrimSpace(req.EquipmentID)
	if equipmentID == "" {
		return nil, fmt.Errorf("%w: equipment_id is required", apperrors.ErrInvalidInput)
	}
	equipmentType, param, err := parseEquipment(req.EquipmentType, req.Parameter)
	if err != nil {
		return nil, err
	}

	rng, err := s.ranges.ResolveForReading(ctx, equipmentID, equipmentType, param, req.NormalMin, req.NormalMax)
	if err != nil {
		return nil, err
	}

	eval, err := evaluation.Evaluate(req.Value, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %s %s: %w", equipmentID, param, err)
	}

	uom := strings.TrimSpace(req.UOM)
	if uom == "" {
		uom = rng.UOM
	}
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = models.GeneralUnit
	}

	now := s.clock.Now()
	reading := &models.EquipmentReading{
		ID:            uuid.New(),
		Timestamp:     now,
		Shift:         s.clock.CurrentShift(now),
		EquipmentID:   equipmentID,
		EquipmentType: equipmentType,
		Unit:          unit,
		Parameter:     param,
		Value:         req.Value,
		UOM:           uom,
		NormalMin:     rng.Min,
		NormalMax:     rng.Max,
		CriticalMin:   rng.CriticalMin,
		CriticalMax:   rng.CriticalMax,
		Status:        eval.Status,
		Deviation:     eval.Deviation,
		Operator:      strings.TrimSpace(req.Operator),
	}
	if err := s.readings.Append(ctx, reading); err != nil {
		s.logger.Error("Failed to store reading",
			zap.String("equipment_id", equipmentID),
			zap.String("parameter", string(param)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to record reading: %w", err)
	}
	s.metrics.ReadingRecorded(eval.Status)

	history, err := s.readings.Query(ctx, models.ReadingFilter{
		EquipmentID: equipmentID,
		Parameter:   param,
		Limit:       evaluation.HistoryWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load reading history: %w", err)
	}
	trend := evaluation.AnalyzeTrend(reports.ReadingsNewestFirst(history))

	if eval.Status != models.StatusNormal {
		s.logger.Warn("Abnormal equipment reading",
			zap.String("equipment_id", equipmentID),
			zap.String("parameter", string(param)),
			zap.Float64("value", req.Value),
			zap.String("status", string(eval.Status)),
			zap.Float64("deviation", eval.Deviation))
	}

	return &RecordReadingResult{
		ID:          reading.ID,
		Timestamp:   reading.Timestamp,
		Shift:       reading.Shift,
		EquipmentID: equipmentID,
		Parameter:   param,
		Value:       req.Value,
		UOM:         uom,
		Status:      eval.Status,
		Deviation:   eval.Deviation,
		Range:       rng,
		Message: fmt.Sprintf("%s %s %s reading %g %s recorded: %s (%.1f%% from center of normal range %g-%g %s)",
			evaluation.StatusIcon(eval.Status), equipmentID, param, req.Value, uom,
			strings.ToUpper(string(eval.Status)), eval.Deviation, rng.Min, rng.Max, rng.UOM),
		Recommendation: evaluation.Recommendation(eval.Status, equipmentID, param),
		TrendAnalysis:  trend,
	}, nil
}

func (s *handoverService) GenerateWeeklySummary(ctx context.Context, endingAt *time.Time) (*WeeklyResult, error) {
	end := s.clock.Now()
	if endingAt != nil {
		end = endingAt.In(s.clock.Location())
	}
	start := reports.WeekStart(end)

	notes, err := s.notes.Query(ctx, models.NoteFilter{Since: &start, Until: &end})
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly notes: %w", err)
	}
	readings, err := s.readingsBetween(ctx, start, end, false)
	if err != nil {
		return nil, err
	}
	s.metrics.ReportRendered(metrics.ReportWeekly)

	stats := reports.BuildWeeklyStats(start, end, notes, readings)
	return &WeeklyResult{
		Stats:   stats,
		Summary: s.formatter.WeeklySummary(stats),
	}, nil
}

func (s *handoverService) GetEquipmentHistory(ctx context.Context, equipmentID string, limit int) ([]*models.EquipmentReading, error) {
	equipmentID = strings.TrimSpace(equipmentID)
	if equipmentID == "" {
		return nil, fmt.Errorf("%w: equipment_id is required", apperrors.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	readings, err := s.readings.Query(ctx, models.ReadingFilter{EquipmentID: equipmentID, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to query equipment history: %w", err)
	}
	return reports.ReadingsNewestFirst(readings), nil
}

func (s *handoverService) GetAbnormalReadings(ctx context.Context, limit int) ([]*models.EquipmentReading, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	readings, err := s.readings.Query(ctx, models.ReadingFilter{AbnormalOnly: true, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to query abnormal readings: %w", err)
	}
	return reports.ReadingsNewestFirst(readings), nil
}

func (s *handoverService) GetEquipmentRange(ctx context.Context, equipmentID, equipmentType, parameter string) (models.EquipmentRange, error) {
	equipmentID = strings.TrimSpace(equipmentID)
	if equipmentID == "" {
		return models.EquipmentRange{}, fmt.Errorf("%w: equipment_id is required", apperrors.ErrInvalidInput)
	}
	t, p, err := parseEquipment(equipmentType, parameter)
	if err != nil {
		return models.EquipmentRange{}, err
	}
	return s.ranges.ResolveRange(ctx, equipmentID, t, p)
}

func (s *handoverService) SetEquipmentRange(ctx context.Context, update RangeUpdate) (models.EquipmentRange, error) {
	t, p, err := parseEquipment(update.EquipmentType, update.Parameter)
	if err != nil {
		return models.EquipmentRange{}, err
	}
	return s.ranges.SetRange(ctx, SetRangeRequest{
		EquipmentID:   update.EquipmentID,
		EquipmentType: t,
		Parameter:     p,
		Min:           update.Min,
		Max:           update.Max,
		CriticalMin:   update.CriticalMin,
		CriticalMax:   update.CriticalMax,
		UOM:           strings.TrimSpace(update.UOM),
	})
}

func (s *handoverService) notesInWindow(ctx context.Context, w shiftclock.Window, unit string, t models.NoteType) ([]*models.ShiftNote, error) {
	notes, err := s.notes.Query(ctx, models.NoteFilter{
		Unit:  unit,
		Type:  t,
		Since: &w.Start,
		Until: &w.End,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query notes for %s shift: %w", w.Shift, err)
	}
	return notes, nil
}

func (s *handoverService) readingsInWindow(ctx context.Context, w shiftclock.Window, abnormalOnly bool) ([]*models.EquipmentReading, error) {
	return s.readingsBetween(ctx, w.Start, w.End, abnormalOnly)
}

// readingsBetween returns readings in [start, end).
func (s *handoverService) readingsBetween(ctx context.Context, start, end time.Time, abnormalOnly bool) ([]*models.EquipmentReading, error) {
	readings, err := s.readings.Query(ctx, models.ReadingFilter{AbnormalOnly: abnormalOnly, Since: &start})
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	var inRange []*models.EquipmentReading
	for _, r := range readings {
		if r.Timestamp.Before(end) {
			inRange = append(inRange, r)
		}
	}
	return inRange, nil
}

func (s *handoverService) date(t time.Time) string {
	return t.In(s.clock.Location()).Format("2006-01-02")
}

func parseShift(raw string) (models.Shift, error) {
	shift, ok := models.ParseShift(raw)
	if !ok {
		return "", fmt.Errorf("%w: unknown shift %q (expected day, afternoon or night)", apperrors.ErrInvalidInput, raw)
	}
	return shift, nil
}

func parseEquipment(rawType, rawParam string) (models.EquipmentType, models.Parameter, error) {
	t, ok := models.ParseEquipmentType(rawType)
	if !ok {
		return "", "", fmt.Errorf("%w: unknown equipment type %q", apperrors.ErrInvalidInput, rawType)
	}
	p, ok := models.ParseParameter(rawParam)
	if !ok {
		return "", "", fmt.Errorf("%w: unknown parameter %q", apperrors.ErrInvalidInput, rawParam)
	}
	return t, p, nil
}

func unitDescription(unit string) string {
	if unit == models.GeneralUnit {
		return "General"
	}
	return "Unit " + unit
}
