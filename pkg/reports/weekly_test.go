package reports

import (
	"testing"
	"time"
	_ "time/tzdata" // DST tests need America/New_York on hosts without zoneinfo

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/shiftlog/pkg/models"
)

func TestBuildWeeklyStats(t *testing.T) {
	end := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	start := WeekStart(end)
	notes := []*models.ShiftNote{
		note("07:00", "5", "a", models.NoteTypeMaintenance, models.PriorityMedium),
		note("07:10", "5", "b", models.NoteTypeAlert, models.PriorityCritical),
		note("07:20", "3", "c", models.NoteTypeStatus, models.PriorityLow),
	}
	notes[2].Shift = models.ShiftNight
	readings := []*models.EquipmentReading{
		{EquipmentID: "P-101", Status: models.StatusWarning},
		{EquipmentID: "P-101", Status: models.StatusCritical},
		{EquipmentID: "E-7", Status: models.StatusWarning},
		{EquipmentID: "E-7", Status: models.StatusNormal},
	}

	stats := BuildWeeklyStats(start, end, notes, readings)

	assert.Equal(t, 3, stats.Counts.Total)
	assert.Equal(t, 2, stats.ByShift[models.ShiftDay])
	assert.Equal(t, 0, stats.ByShift[models.ShiftAfternoon])
	assert.Equal(t, 1, stats.ByShift[models.ShiftNight])
	if diff := cmp.Diff([]UnitCount{{"5", 2}, {"3", 1}}, stats.TopUnits); diff != "" {
		t.Errorf("top units mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]EquipmentIncidents{{"E-7", 1, 0}, {"P-101", 1, 1}}, stats.Abnormal); diff != "" {
		t.Errorf("abnormal mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, stats.Urgent, 1)
	assert.Equal(t, 4, stats.ReadingCount)
}

func TestBuildWeeklyStats_TopUnitsCapped(t *testing.T) {
	var notes []*models.ShiftNote
	for _, u := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		notes = append(notes, note("07:00", u, "x", models.NoteTypeGeneral, models.PriorityLow))
	}

	stats := BuildWeeklyStats(time.Time{}, time.Time{}, notes, nil)

	assert.Len(t, stats.TopUnits, TopUnitsLimit)
	assert.Equal(t, "1", stats.TopUnits[0].Unit)
}

func TestWeeklySummary(t *testing.T) {
	f := NewFormatter(time.UTC)
	end := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	notes := []*models.ShiftNote{
		note("07:10", "5", "Pump 5 tripped", models.NoteTypeAlert, models.PriorityCritical),
	}
	readings := []*models.EquipmentReading{{EquipmentID: "P-101", Status: models.StatusWarning}}

	out := f.WeeklySummary(BuildWeeklyStats(WeekStart(end), end, notes, readings))

	assert.Contains(t, out, "📅 WEEKLY SUMMARY\nDate: 2026-03-10\n")
	assert.Contains(t, out, "Period: 2026-03-03 12:00 → 2026-03-10 12:00")
	assert.Contains(t, out, "• DAY: 1 note\n")
	assert.Contains(t, out, "• Unit 5: 1 note\n")
	assert.Contains(t, out, "• [03-10 07:10] Unit 5: Pump 5 tripped (CRITICAL)")
	assert.Contains(t, out, "• P-101: 1 warning, 0 critical")
}

func TestWeeklySummary_QuietWeek(t *testing.T) {
	f := NewFormatter(time.UTC)
	end := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	out := f.WeeklySummary(BuildWeeklyStats(WeekStart(end), end, nil, nil))

	assert.Contains(t, out, "QUIET WEEK")
}

func TestWeekStart_KeepsWallClockAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// The week ending 2026-03-10 09:00 EDT contains the spring-forward night.
	end := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)
	start := WeekStart(end)

	assert.True(t, start.Equal(time.Date(2026, 3, 3, 9, 0, 0, 0, loc)), start.String())
	assert.Equal(t, 7*24*time.Hour-time.Hour, end.Sub(start))
}
