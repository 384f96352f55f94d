package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/shiftlog/pkg/apperrors"
	"github.com/ekaya-inc/shiftlog/pkg/metrics"
	"github.com/ekaya-inc/shiftlog/pkg/models"
	"github.com/ekaya-inc/shiftlog/pkg/repositories"
)

// SetRangeRequest describes an equipment range override. Nil critical bounds
// are inherited from the range currently in effect; an empty UOM likewise.
type SetRangeRequest struct {
	EquipmentID   string
	EquipmentType models.EquipmentType
	Parameter     models.Parameter
	Min           float64
	Max           float64
	CriticalMin   *float64
	CriticalMax   *float64
	UOM           string
}

// RangeRegistry resolves the operating range for an equipment parameter.
// Resolution order is instance override, then type default, then the fallback.
type RangeRegistry interface {
	ResolveRange(ctx context.Context, equipmentID string, equipmentType models.EquipmentType, param models.Parameter) (models.EquipmentRange, error)
	SetRange(ctx context.Context, req SetRangeRequest) (models.EquipmentRange, error)

	// ResolveForReading persists explicit normal bounds as an override when
	// both are supplied and then resolves the effective range.
	ResolveForReading(ctx context.Context, equipmentID string, equipmentType models.EquipmentType, param models.Parameter, explicitMin, explicitMax *float64) (models.EquipmentRange, error)

	// Seed stores overrides that do not exist yet and returns how many were written.
	Seed(ctx context.Context, overrides []models.RangeOverride) (int, error)
}

type rangeRegistry struct {
	repo     repositories.RangeRepository
	defaults map[models.TypeParam]models.EquipmentRange
	metrics  *metrics.Registry
	logger   *zap.Logger
}

// NewRangeRegistry builds a registry over repo. A nil defaults table uses
// models.DefaultRanges.
func NewRangeRegistry(repo repositories.RangeRepository, defaults map[models.TypeParam]models.EquipmentRange, m *metrics.Registry, logger *zap.Logger) RangeRegistry {
	if defaults == nil {
		defaults = models.DefaultRanges()
	}
	return &rangeRegistry{
		repo:     repo,
		defaults: defaults,
		metrics:  m,
		logger:   logger.Named("range-registry"),
	}
}

var _ RangeRegistry = (*rangeRegistry)(nil)

func (r *rangeRegistry) ResolveRange(ctx context.Context, equipmentID string, equipmentType models.EquipmentType, param models.Parameter) (models.EquipmentRange, error) {
	override, err := r.repo.Get(ctx, equipmentID, param)
	if err != nil {
		return models.EquipmentRange{}, fmt.Errorf("failed to resolve range for %s %s: %w", equipmentID, param, err)
	}
	if override != nil {
		rng := *override
		rng.Source = models.RangeSourceOverride
		return rng, nil
	}

	if rng, ok := r.defaults[models.TypeParam{Type: equipmentType, Parameter: param}]; ok {
		rng.Source = models.RangeSourceDefault
		return rng, nil
	}

	r.logger.Debug("No range configured, using fallback",
		zap.String("equipment_id", equipmentID),
		zap.String("equipment_type", string(equipmentType)),
		zap.String("parameter", string(param)))
	return models.FallbackRange(), nil
}

func (r *rangeRegistry) SetRange(ctx context.Context, req SetRangeRequest) (models.EquipmentRange, error) {
	id := strings.TrimSpace(req.EquipmentID)
	if id == "" {
		return models.EquipmentRange{}, fmt.Errorf("%w: equipment_id is required", apperrors.ErrInvalidInput)
	}
	if req.Min >= req.Max {
		return models.EquipmentRange{}, fmt.Errorf("%w: min %.2f must be less than max %.2f", apperrors.ErrInvalidRange, req.Min, req.Max)
	}

	current, err := r.ResolveRange(ctx, id, req.EquipmentType, req.Parameter)
	if err != nil {
		return models.EquipmentRange{}, err
	}

	rng := models.EquipmentRange{
		Min:         req.Min,
		Max:         req.Max,
		CriticalMin: current.CriticalMin,
		CriticalMax: current.CriticalMax,
		UOM:         current.UOM,
		Source:      models.RangeSourceOverride,
	}
	if req.UOM != "" {
		rng.UOM = req.UOM
	}

	// Explicit critical bounds must nest the normal band. Inherited ones are
	// widened until they do.
	if req.CriticalMin != nil {
		rng.CriticalMin = *req.CriticalMin
	} else if rng.CriticalMin > rng.Min {
		rng.CriticalMin = rng.Min
	}
	if req.CriticalMax != nil {
		rng.CriticalMax = *req.CriticalMax
	} else if rng.CriticalMax < rng.Max {
		rng.CriticalMax = rng.Max
	}
	if !rng.Valid() {
		return models.EquipmentRange{}, fmt.Errorf("%w: critical band [%.2f, %.2f] must contain normal band [%.2f, %.2f]",
			apperrors.ErrInvalidRange, rng.CriticalMin, rng.CriticalMax, rng.Min, rng.Max)
	}

	if err := r.repo.Set(ctx, models.RangeOverride{EquipmentID: id, Parameter: req.Parameter, Range: rng}); err != nil {
		r.logger.Error("Failed to store range override",
			zap.String("equipment_id", id),
			zap.String("parameter", string(req.Parameter)),
			zap.Error(err))
		return models.EquipmentRange{}, fmt.Errorf("failed to set range: %w", err)
	}
	r.metrics.RangeOverrideWritten()

	r.logger.Info("Range override set",
		zap.String("equipment_id", id),
		zap.String("parameter", string(req.Parameter)),
		zap.Float64("min", rng.Min),
		zap.Float64("max", rng.Max))
	return rng, nil
}

func (r *rangeRegistry) ResolveForReading(ctx context.Context, equipmentID string, equipmentType models.EquipmentType, param models.Parameter, explicitMin, explicitMax *float64) (models.EquipmentRange, error) {
	if explicitMin != nil && explicitMax != nil {
		return r.SetRange(ctx, SetRangeRequest{
			EquipmentID:   equipmentID,
			EquipmentType: equipmentType,
			Parameter:     param,
			Min:           *explicitMin,
			Max:           *explicitMax,
		})
	}
	if explicitMin != nil || explicitMax != nil {
		r.logger.Debug("Ignoring partial range bounds on reading",
			zap.String("equipment_id", equipmentID),
			zap.String("parameter", string(param)))
	}
	return r.ResolveRange(ctx, equipmentID, equipmentType, param)
}

func (r *rangeRegistry) Seed(ctx context.Context, overrides []models.RangeOverride) (int, error) {
	written := 0
	for _, o := range overrides {
		existing, err := r.repo.Get(ctx, o.EquipmentID, o.Parameter)
		if err != nil {
			return written, fmt.Errorf("failed to check existing override for %s %s: %w", o.EquipmentID, o.Parameter, err)
		}
		if existing != nil {
			continue
		}
		if !o.Range.Valid() {
			return written, fmt.Errorf("%w: seeded range for %s %s", apperrors.ErrInvalidRange, o.EquipmentID, o.Parameter)
		}
		o.Range.Source = models.RangeSourceOverride
		if err := r.repo.Set(ctx, o); err != nil {
			return written, fmt.Errorf("failed to seed override for %s %s: %w", o.EquipmentID, o.Parameter, err)
		}
		written++
	}
	if written > 0 {
		r.logger.Info("Seeded range overrides", zap.Int("count", written))
	}
	return written, nil
}
