package repositories

import (
	"regexp"
	"strings"

	"github.com/ekaya-inc/shiftlog/pkg/models"
)

var unitDigitsPattern = regexp.MustCompile(`\d+`)

// unitFilterDigits returns the numeric part of a unit filter, so that both
// "5" and "Unit 5" select unit "5". Returns "" when the filter has no digits.
func unitFilterDigits(filter string) string {
	return unitDigitsPattern.FindString(filter)
}

// unitMatches reports whether a stored unit satisfies a unit filter: either an
// exact (case-insensitive) literal match or the filter's digits appear in the unit.
func unitMatches(unit, filter string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return true
	}
	if strings.EqualFold(unit, filter) {
		return true
	}
	digits := unitFilterDigits(filter)
	return digits != "" && strings.Contains(unit, digits)
}

// noteMatches applies every populated field of f to n.
func noteMatches(n *models.ShiftNote, f models.NoteFilter) bool {
	if f.Shift != "" && n.Shift != f.Shift {
		return false
	}
	if f.Type != "" && n.Type != f.Type {
		return false
	}
	if f.Since != nil && n.Timestamp.Before(*f.Since) {
		return false
	}
	if f.Until != nil && !n.Timestamp.Before(*f.Until) {
		return false
	}
	return unitMatches(n.Unit, f.Unit)
}

// readingMatches applies every populated field of f except Limit to r.
func readingMatches(r *models.EquipmentReading, f models.ReadingFilter) bool {
	if f.EquipmentID != "" && !strings.EqualFold(r.EquipmentID, f.EquipmentID) {
		return false
	}
	if f.Parameter != "" && r.Parameter != f.Parameter {
		return false
	}
	if f.AbnormalOnly && r.Status == models.StatusNormal {
		return false
	}
	if f.Since != nil && r.Timestamp.Before(*f.Since) {
		return false
	}
	return true
}
