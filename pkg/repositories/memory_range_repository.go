package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ekaya-inc/shiftlog/pkg/models"
)

type overrideKey struct {
	equipmentID string
	param       models.Parameter
}

// rangeKey normalizes equipment IDs so "p-101" and "P-101" share overrides.
func rangeKey(equipmentID string) string {
	return strings.ToUpper(strings.TrimSpace(equipmentID))
}

// MemoryRangeRepository keeps range overrides in process memory.
type MemoryRangeRepository struct {
	mu        sync.RWMutex
	overrides map[overrideKey]models.EquipmentRange
}

// NewMemoryRangeRepository returns an empty in-memory RangeRepository.
func NewMemoryRangeRepository() *MemoryRangeRepository {
	return &MemoryRangeRepository{overrides: make(map[overrideKey]models.EquipmentRange)}
}

var _ RangeRepository = (*MemoryRangeRepository)(nil)

func (r *MemoryRangeRepository) Get(_ context.Context, equipmentID string, param models.Parameter) (*models.EquipmentRange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rng, ok := r.overrides[overrideKey{rangeKey(equipmentID), param}]
	if !ok {
		return nil, nil
	}
	rng.Source = models.RangeSourceOverride
	return &rng, nil
}

func (r *MemoryRangeRepository) Set(_ context.Context, o models.RangeOverride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[overrideKey{rangeKey(o.EquipmentID), o.Parameter}] = o.Range
	return nil
}

func (r *MemoryRangeRepository) List(_ context.Context) ([]models.RangeOverride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	overrides := make([]models.RangeOverride, 0, len(r.overrides))
	for k, rng := range r.overrides {
		rng.Source = models.RangeSourceOverride
		overrides = append(overrides, models.RangeOverride{EquipmentID: k.equipmentID, Parameter: k.param, Range: rng})
	}
	sort.Slice(overrides, func(i, j int) bool {
		if overrides[i].EquipmentID != overrides[j].EquipmentID {
			return overrides[i].EquipmentID < overrides[j].EquipmentID
		}
		return overrides[i].Parameter < overrides[j].Parameter
	})
	return overrides, nil
}
