package shiftclock

import (
	"testing"
	"time"
	_ "time/tzdata" // DST tests need America/New_York on hosts without zoneinfo

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/shiftlog/pkg/models"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestCurrentShift_Boundaries(t *testing.T) {
	c := New(time.UTC)

	tests := []struct {
		t    time.Time
		want models.Shift
	}{
		{at(0, 0), models.ShiftNight},
		{at(5, 59), models.ShiftNight},
		{at(6, 0), models.ShiftDay},
		{at(13, 59), models.ShiftDay},
		{at(14, 0), models.ShiftAfternoon},
		{at(21, 59), models.ShiftAfternoon},
		{at(22, 0), models.ShiftNight},
		{at(23, 59), models.ShiftNight},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.CurrentShift(tt.t), tt.t.Format("15:04"))
	}
}

func TestCurrentShift_ExactlyOneShiftPerInstant(t *testing.T) {
	c := New(time.UTC)
	start := at(0, 0)
	for m := 0; m < 24*60; m += 7 {
		ts := start.Add(time.Duration(m) * time.Minute)
		matches := 0
		for _, s := range models.AllShifts {
			if c.RecentWindow(s, ts).Contains(ts) {
				matches++
			}
		}
		require.Equal(t, 1, matches, ts.Format("15:04"))
	}
}

func TestCurrentShift_UsesClockLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	c := New(loc)
	// 12:00 UTC is 07:00 local.
	assert.Equal(t, models.ShiftDay, c.CurrentShift(at(12, 0)))
	// 03:00 UTC is 22:00 local the previous day.
	assert.Equal(t, models.ShiftNight, c.CurrentShift(at(3, 0)))
}

func TestNextHandoverTime(t *testing.T) {
	c := New(time.UTC)

	assert.Equal(t, at(14, 0), c.NextHandoverTime(at(9, 30)))
	assert.Equal(t, at(14, 0), c.NextHandoverTime(at(6, 0)))
	assert.Equal(t, at(22, 0), c.NextHandoverTime(at(14, 0)))
	assert.Equal(t, at(6, 0), c.NextHandoverTime(at(2, 0)))
	assert.Equal(t, at(6, 0).AddDate(0, 0, 1), c.NextHandoverTime(at(23, 15)))
	assert.Equal(t, at(6, 0).AddDate(0, 0, 1), c.NextHandoverTime(at(22, 0)))
}

func TestNextHandoverTime_StrictlyAfter(t *testing.T) {
	c := New(time.UTC)
	for _, ts := range []time.Time{at(6, 0), at(14, 0), at(22, 0)} {
		assert.True(t, c.NextHandoverTime(ts).After(ts))
	}
}

func TestWindow_NightSpansMidnight(t *testing.T) {
	c := New(time.UTC)

	w := c.Window(at(3, 0))
	assert.Equal(t, models.ShiftNight, w.Shift)
	assert.Equal(t, at(22, 0).AddDate(0, 0, -1), w.Start)
	assert.Equal(t, at(6, 0), w.End)

	w = c.Window(at(23, 0))
	assert.Equal(t, at(22, 0), w.Start)
	assert.Equal(t, at(6, 0).AddDate(0, 0, 1), w.End)
}

func newYorkClock(t *testing.T) (*Clock, *time.Location) {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return New(loc), loc
}

func TestWindow_FallBackNightEndsAtSix(t *testing.T) {
	c, loc := newYorkClock(t)
	// 2026-11-01 02:00 EDT falls back to 01:00 EST, so this night lasts 9 hours.
	ts := time.Date(2026, 11, 1, 5, 30, 0, 0, loc)

	w := c.Window(ts)
	assert.Equal(t, models.ShiftNight, w.Shift)
	assert.True(t, w.Start.Equal(time.Date(2026, 10, 31, 22, 0, 0, 0, loc)), w.Start.String())
	assert.True(t, w.End.Equal(time.Date(2026, 11, 1, 6, 0, 0, 0, loc)), w.End.String())
	assert.Equal(t, 9*time.Hour, w.End.Sub(w.Start))
	assert.True(t, w.Contains(ts))

	next := c.NextHandoverTime(ts)
	assert.True(t, next.After(ts))
	assert.Equal(t, 30*time.Minute, c.TimeUntilHandover(ts))
}

func TestWindow_SpringForwardNightEndsAtSix(t *testing.T) {
	c, loc := newYorkClock(t)
	// 2026-03-08 02:00 EST jumps to 03:00 EDT, so this night lasts 7 hours.
	ts := time.Date(2026, 3, 8, 3, 30, 0, 0, loc)

	w := c.Window(ts)
	assert.Equal(t, models.ShiftNight, w.Shift)
	assert.True(t, w.End.Equal(time.Date(2026, 3, 8, 6, 0, 0, 0, loc)), w.End.String())
	assert.Equal(t, 7*time.Hour, w.End.Sub(w.Start))

	dayNote := time.Date(2026, 3, 8, 6, 30, 0, 0, loc)
	assert.False(t, w.Contains(dayNote))
	assert.Equal(t, models.ShiftDay, c.Window(dayNote).Shift)
}

func TestWindows_TileAcrossDSTChanges(t *testing.T) {
	c, loc := newYorkClock(t)

	for _, day := range []time.Time{
		time.Date(2026, 3, 7, 0, 0, 0, 0, loc),
		time.Date(2026, 10, 31, 0, 0, 0, 0, loc),
	} {
		// Consecutive windows must abut exactly across the transition night.
		w := c.Window(day)
		for i := 0; i < 9; i++ {
			next := c.Window(w.End)
			assert.True(t, next.Start.Equal(w.End), "gap after %s window ending %s", w.Shift, w.End)
			assert.Equal(t, NextShift(w.Shift), next.Shift)
			w = next
		}
	}
}

func TestLastCompletedWindow_AcrossFallBack(t *testing.T) {
	c, loc := newYorkClock(t)
	now := time.Date(2026, 11, 1, 9, 0, 0, 0, loc)

	w := c.LastCompletedWindow(models.ShiftNight, now)
	assert.True(t, w.Start.Equal(time.Date(2026, 10, 31, 22, 0, 0, 0, loc)))
	assert.True(t, w.End.Equal(time.Date(2026, 11, 1, 6, 0, 0, 0, loc)))
	assert.True(t, w.Contains(time.Date(2026, 11, 1, 5, 45, 0, 0, loc)))
}

func TestLastCompletedWindow(t *testing.T) {
	c := New(time.UTC)
	now := at(9, 0) // day shift

	night := c.LastCompletedWindow(models.ShiftNight, now)
	assert.Equal(t, at(22, 0).AddDate(0, 0, -1), night.Start)
	assert.Equal(t, at(6, 0), night.End)

	afternoon := c.LastCompletedWindow(models.ShiftAfternoon, now)
	assert.Equal(t, at(14, 0).AddDate(0, 0, -1), afternoon.Start)

	day := c.LastCompletedWindow(models.ShiftDay, now)
	assert.Equal(t, at(6, 0).AddDate(0, 0, -1), day.Start)
	assert.False(t, day.End.After(now))
}

func TestRecentWindow_CurrentShift(t *testing.T) {
	c := New(time.UTC)
	w := c.RecentWindow(models.ShiftDay, at(9, 0))
	assert.Equal(t, at(6, 0), w.Start)
	assert.Equal(t, at(14, 0), w.End)
}

func TestShiftRotation(t *testing.T) {
	for _, s := range models.AllShifts {
		assert.Equal(t, s, NextShift(PreviousShift(s)))
		assert.Equal(t, s, PreviousShift(NextShift(s)))
		assert.Equal(t, s, NextShift(NextShift(NextShift(s))))
	}
	assert.Equal(t, models.ShiftAfternoon, NextShift(models.ShiftDay))
	assert.Equal(t, models.ShiftNight, NextShift(models.ShiftAfternoon))
	assert.Equal(t, models.ShiftDay, NextShift(models.ShiftNight))
}

func TestTimeUntilHandover(t *testing.T) {
	c := NewWithNow(time.UTC, func() time.Time { return at(11, 45) })
	assert.Equal(t, 2*time.Hour+15*time.Minute, c.TimeUntilHandover(c.Now()))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2h 15m", FormatDuration(2*time.Hour+15*time.Minute))
	assert.Equal(t, "45m", FormatDuration(45*time.Minute))
	assert.Equal(t, "8h 0m", FormatDuration(8*time.Hour))
	assert.Equal(t, "0m", FormatDuration(-time.Minute))
}
