package reports

import (
	"sort"

	"github.com/ekaya-inc/shiftlog/pkg/models"
)

// Counts tallies notes per category plus pending follow-ups.
type Counts struct {
	Maintenance int `json:"maintenance"`
	Alerts      int `json:"alerts"`
	Status      int `json:"status"`
	General     int `json:"general"`
	Total       int `json:"total"`
	Pending     int `json:"pending"`
}

// CountNotes tallies notes by category and pending state.
func CountNotes(notes []*models.ShiftNote) Counts {
	var c Counts
	for _, n := range notes {
		switch n.Type {
		case models.NoteTypeMaintenance:
			c.Maintenance++
		case models.NoteTypeAlert:
			c.Alerts++
		case models.NoteTypeStatus:
			c.Status++
		default:
			c.General++
		}
		if n.IsPending() {
			c.Pending++
		}
		c.Total++
	}
	return c
}

// NewestFirst returns a copy of notes ordered by descending timestamp.
// Notes with equal timestamps keep reverse insertion order.
func NewestFirst(notes []*models.ShiftNote) []*models.ShiftNote {
	out := make([]*models.ShiftNote, len(notes))
	for i, n := range notes {
		out[len(notes)-1-i] = n
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// ReadingsNewestFirst is NewestFirst for equipment readings.
func ReadingsNewestFirst(readings []*models.EquipmentReading) []*models.EquipmentReading {
	out := make([]*models.EquipmentReading, len(readings))
	for i, r := range readings {
		out[len(readings)-1-i] = r
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// PendingNotes returns the notes that still need follow-up, preserving order.
func PendingNotes(notes []*models.ShiftNote) []*models.ShiftNote {
	var out []*models.ShiftNote
	for _, n := range notes {
		if n.IsPending() {
			out = append(out, n)
		}
	}
	return out
}

func notesOfType(notes []*models.ShiftNote, t models.NoteType) []*models.ShiftNote {
	var out []*models.ShiftNote
	for _, n := range notes {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}
