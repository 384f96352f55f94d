package repositories

import (
	"context"
	"sync"

	"github.com/ekaya-inc/shiftlog/pkg/models"
)

// MemoryNoteRepository keeps notes in process memory. One RWMutex serializes
// appends against filtered reads so readers always see a consistent prefix.
type MemoryNoteRepository struct {
	mu    sync.RWMutex
	notes []*models.ShiftNote
}

// NewMemoryNoteRepository returns an empty in-memory NoteRepository.
func NewMemoryNoteRepository() *MemoryNoteRepository {
	return &MemoryNoteRepository{}
}

var _ NoteRepository = (*MemoryNoteRepository)(nil)

func (r *MemoryNoteRepository) Append(_ context.Context, note *models.ShiftNote) error {
	stored := *note
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, &stored)
	return nil
}

// Query returns copies so callers cannot mutate stored notes.
func (r *MemoryNoteRepository) Query(_ context.Context, filter models.NoteFilter) ([]*models.ShiftNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.ShiftNote
	for _, n := range r.notes {
		if noteMatches(n, filter) {
			c := *n
			result = append(result, &c)
		}
	}
	return result, nil
}
