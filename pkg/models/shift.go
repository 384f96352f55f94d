package models

import "strings"

// Shift identifies one of the three fixed 8-hour operating windows.
type Shift string

const (
	ShiftDay       Shift = "day"
	ShiftAfternoon Shift = "afternoon"
	ShiftNight     Shift = "night"
)

// AllShifts lists the shifts in rotation order starting with the day shift.
var AllShifts = []Shift{ShiftDay, ShiftAfternoon, ShiftNight}

// ValidShift reports whether s is one of the known shifts.
func ValidShift(s Shift) bool {
	switch s {
	case ShiftDay, ShiftAfternoon, ShiftNight:
		return true
	}
	return false
}

// ParseShift normalizes user input ("Day", " NIGHT ") into a Shift.
func ParseShift(s string) (Shift, bool) {
	shift := Shift(strings.ToLower(strings.TrimSpace(s)))
	return shift, ValidShift(shift)
}

// DisplayName returns the upper-case label used in reports, e.g. "DAY".
func (s Shift) DisplayName() string {
	return strings.ToUpper(string(s))
}

// TimeRange returns the wall-clock range of the shift, e.g. "06:00-14:00".
func (s Shift) TimeRange() string {
	switch s {
	case ShiftDay:
		return "06:00-14:00"
	case ShiftAfternoon:
		return "14:00-22:00"
	case ShiftNight:
		return "22:00-06:00"
	}
	return ""
}

// StartHour returns the hour of day at which the shift begins.
func (s Shift) StartHour() int {
	switch s {
	case ShiftAfternoon:
		return 14
	case ShiftNight:
		return 22
	}
	return 6
}
