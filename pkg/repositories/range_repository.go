package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/shiftlog/pkg/database"
	"github.com/ekaya-inc/shiftlog/pkg/models"
)

// RangeRepository stores per-equipment range overrides. Last write wins per
// (equipment ID, parameter).
type RangeRepository interface {
	// Get returns the override for the key, or nil when none exists.
	Get(ctx context.Context, equipmentID string, param models.Parameter) (*models.EquipmentRange, error)

	// Set creates or replaces the override for the key.
	Set(ctx context.Context, override models.RangeOverride) error

	// List returns every stored override.
	List(ctx context.Context) ([]models.RangeOverride, error)
}

type rangeRepository struct {
	db *database.DB
}

// NewRangeRepository returns a PostgreSQL-backed RangeRepository.
func NewRangeRepository(db *database.DB) RangeRepository {
	return &rangeRepository{db: db}
}

var _ RangeRepository = (*rangeRepository)(nil)

func (r *rangeRepository) Get(ctx context.Context, equipmentID string, param models.Parameter) (*models.EquipmentRange, error) {
	rng := &models.EquipmentRange{Source: models.RangeSourceOverride}
	err := r.db.QueryRow(ctx, `
		SELECT normal_min, normal_max, critical_min, critical_max, uom
		FROM equipment_range_overrides
		WHERE equipment_id = $1 AND parameter = $2`,
		rangeKey(equipmentID), param,
	).Scan(&rng.Min, &rng.Max, &rng.CriticalMin, &rng.CriticalMax, &rng.UOM)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get range override: %w", err)
	}
	return rng, nil
}

func (r *rangeRepository) Set(ctx context.Context, o models.RangeOverride) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO equipment_range_overrides
			(equipment_id, parameter, normal_min, normal_max, critical_min, critical_max, uom, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (equipment_id, parameter) DO UPDATE SET
			normal_min = EXCLUDED.normal_min,
			normal_max = EXCLUDED.normal_max,
			critical_min = EXCLUDED.critical_min,
			critical_max = EXCLUDED.critical_max,
			uom = EXCLUDED.uom,
			updated_at = EXCLUDED.updated_at`,
		rangeKey(o.EquipmentID), o.Parameter, o.Range.Min, o.Range.Max,
		o.Range.CriticalMin, o.Range.CriticalMax, o.Range.UOM,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert range override: %w", err)
	}
	return nil
}

func (r *rangeRepository) List(ctx context.Context) ([]models.RangeOverride, error) {
	rows, err := r.db.Query(ctx, `
		SELECT equipment_id, parameter, normal_min, normal_max, critical_min, critical_max, uom
		FROM equipment_range_overrides
		ORDER BY equipment_id, parameter`)
	if err != nil {
		return nil, fmt.Errorf("failed to list range overrides: %w", err)
	}
	defer rows.Close()

	var overrides []models.RangeOverride
	for rows.Next() {
		o := models.RangeOverride{Range: models.EquipmentRange{Source: models.RangeSourceOverride}}
		if err := rows.Scan(&o.EquipmentID, &o.Parameter, &o.Range.Min, &o.Range.Max,
			&o.Range.CriticalMin, &o.Range.CriticalMax, &o.Range.UOM); err != nil {
			return nil, fmt.Errorf("failed to scan range override: %w", err)
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating range overrides: %w", err)
	}
	return overrides, nil
}
