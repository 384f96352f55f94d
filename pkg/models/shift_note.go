package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NoteType is the category assigned to a shift note.
type NoteType string

const (
	NoteTypeMaintenance NoteType = "maintenance"
	NoteTypeAlert       NoteType = "alert"
	NoteTypeStatus      NoteType = "status"
	NoteTypeGeneral     NoteType = "general"
)

// ValidNoteType reports whether t is one of the known note categories.
func ValidNoteType(t NoteType) bool {
	switch t {
	case NoteTypeMaintenance, NoteTypeAlert, NoteTypeStatus, NoteTypeGeneral:
		return true
	}
	return false
}

// ParseNoteType normalizes user input into a NoteType.
func ParseNoteType(s string) (NoteType, bool) {
	t := NoteType(strings.ToLower(strings.TrimSpace(s)))
	return t, ValidNoteType(t)
}

// Priority ranks how urgently a note needs attention.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// GeneralUnit is the unit recorded when no unit can be extracted from a note.
const GeneralUnit = "General"

// ShiftNote is a free-text operational entry logged during a shift.
// ID, Timestamp, Shift and Note never change once the note is created.
type ShiftNote struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Shift     Shift     `json:"shift"`
	Unit      string    `json:"unit"`
	Note      string    `json:"note"`
	Type      NoteType  `json:"type"`
	Priority  Priority  `json:"priority"`
	Resolved  bool      `json:"resolved"`
}

// IsPending reports whether the note still needs follow-up at handover:
// it is unresolved and either maintenance/alert work or high/critical priority.
func (n *ShiftNote) IsPending() bool {
	if n.Resolved {
		return false
	}
	if n.Type == NoteTypeMaintenance || n.Type == NoteTypeAlert {
		return true
	}
	return n.Priority == PriorityHigh || n.Priority == PriorityCritical
}

// NoteFilter narrows a note query. Zero-valued fields are ignored.
type NoteFilter struct {
	Shift Shift
	Unit  string
	Type  NoteType
	Since *time.Time // inclusive
	Until *time.Time // exclusive
}
