// Package shiftclock maps wall-clock instants onto the facility's fixed
// three-shift rotation. All functions are pure given their time input.
package shiftclock

import (
	"fmt"
	"time"

	"github.com/ekaya-inc/shiftlog/pkg/models"
)

// Window is one concrete occurrence of a shift: [Start, End).
type Window struct {
	Shift models.Shift `json:"shift"`
	Start time.Time    `json:"start"`
	End   time.Time    `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Clock evaluates shift boundaries in the facility's local time zone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New returns a Clock for the given location. A nil location means UTC.
func New(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc, now: time.Now}
}

// NewWithNow returns a Clock whose notion of "now" is supplied by now.
// Intended for tests and report replays.
func NewWithNow(loc *time.Location, now func() time.Time) *Clock {
	c := New(loc)
	c.now = now
	return c
}

// Now returns the current instant in the clock's location.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Location returns the facility time zone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// CurrentShift returns the shift that contains t. A boundary hour belongs
// to the shift starting at that hour.
func (c *Clock) CurrentShift(t time.Time) models.Shift {
	return shiftForHour(t.In(c.loc).Hour())
}

func shiftForHour(hour int) models.Shift {
	switch {
	case hour >= 6 && hour < 14:
		return models.ShiftDay
	case hour >= 14 && hour < 22:
		return models.ShiftAfternoon
	default:
		return models.ShiftNight
	}
}

// Window returns the occurrence of the shift containing t.
func (c *Clock) Window(t time.Time) Window {
	local := t.In(c.loc)
	shift := shiftForHour(local.Hour())
	start := time.Date(local.Year(), local.Month(), local.Day(), shift.StartHour(), 0, 0, 0, c.loc)
	// Between midnight and 06:00 the night shift began the previous evening.
	if shift == models.ShiftNight && local.Hour() < 6 {
		start = start.AddDate(0, 0, -1)
	}
	// Boundaries are wall-clock hours, so on DST days a window may span 7 or 9 hours.
	end := time.Date(start.Year(), start.Month(), start.Day(), NextShift(shift).StartHour(), 0, 0, 0, c.loc)
	if shift == models.ShiftNight {
		end = end.AddDate(0, 0, 1)
	}
	return Window{Shift: shift, Start: start, End: end}
}

// NextHandoverTime returns the first shift boundary strictly after t.
func (c *Clock) NextHandoverTime(t time.Time) time.Time {
	return c.Window(t).End
}

// TimeUntilHandover returns the duration from t to the next boundary.
func (c *Clock) TimeUntilHandover(t time.Time) time.Duration {
	return c.NextHandoverTime(t).Sub(t)
}

// LastCompletedWindow returns the most recent occurrence of shift s that
// ended at or before t.
func (c *Clock) LastCompletedWindow(s models.Shift, t time.Time) Window {
	w := c.Window(t)
	// Step back one shift at a time; at most three steps are needed.
	for {
		w = c.Window(w.Start.Add(-time.Minute))
		if w.Shift == s {
			return w
		}
	}
}

// RecentWindow returns the current occurrence of s when s is the active
// shift at t, and the last completed occurrence otherwise.
func (c *Clock) RecentWindow(s models.Shift, t time.Time) Window {
	if w := c.Window(t); w.Shift == s {
		return w
	}
	return c.LastCompletedWindow(s, t)
}

// NextShift returns the shift that follows s in the rotation.
func NextShift(s models.Shift) models.Shift {
	switch s {
	case models.ShiftDay:
		return models.ShiftAfternoon
	case models.ShiftAfternoon:
		return models.ShiftNight
	default:
		return models.ShiftDay
	}
}

// PreviousShift returns the shift that precedes s in the rotation.
func PreviousShift(s models.Shift) models.Shift {
	switch s {
	case models.ShiftDay:
		return models.ShiftNight
	case models.ShiftAfternoon:
		return models.ShiftDay
	default:
		return models.ShiftAfternoon
	}
}

// FormatDuration renders d as "2h 15m", or "45m" under an hour.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d.Round(time.Minute) / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
