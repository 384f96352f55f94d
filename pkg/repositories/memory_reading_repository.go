package repositories

import (
	"context"
	"sync"

	"github.com/ekaya-inc/shiftlog/pkg/models"
)

// MemoryReadingRepository keeps readings in process memory behind one RWMutex.
type MemoryReadingRepository struct {
	mu       sync.RWMutex
	readings []*models.EquipmentReading
}

// NewMemoryReadingRepository returns an empty in-memory ReadingRepository.
func NewMemoryReadingRepository() *MemoryReadingRepository {
	return &MemoryReadingRepository{}
}

var _ ReadingRepository = (*MemoryReadingRepository)(nil)

func (r *MemoryReadingRepository) Append(_ context.Context, reading *models.EquipmentReading) error {
	stored := *reading
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readings = append(r.readings, &stored)
	return nil
}

func (r *MemoryReadingRepository) Query(_ context.Context, filter models.ReadingFilter) ([]*models.EquipmentReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.EquipmentReading
	for _, reading := range r.readings {
		if readingMatches(reading, filter) {
			c := *reading
			result = append(result, &c)
		}
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[len(result)-filter.Limit:]
	}
	return result, nil
}
