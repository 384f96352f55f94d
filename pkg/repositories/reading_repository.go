package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/shiftlog/pkg/database"
	"github.com/ekaya-inc/shiftlog/pkg/models"
)

// ReadingRepository is the append-only store of equipment readings.
type ReadingRepository interface {
	// Append stores a new reading. Readings are never updated or deleted.
	Append(ctx context.Context, reading *models.EquipmentReading) error

	// Query returns readings matching filter in insertion order. When
	// filter.Limit is positive only the last Limit matches are returned.
	Query(ctx context.Context, filter models.ReadingFilter) ([]*models.EquipmentReading, error)
}

type readingRepository struct {
	db *database.DB
}

// NewReadingRepository returns a PostgreSQL-backed ReadingRepository.
func NewReadingRepository(db *database.DB) ReadingRepository {
	return &readingRepository{db: db}
}

var _ ReadingRepository = (*readingRepository)(nil)

const readingColumns = `id, recorded_at, shift, equipment_id, equipment_type, unit, parameter,
	value, uom, normal_min, normal_max, critical_min, critical_max, status, deviation, operator`

func (r *readingRepository) Append(ctx context.Context, reading *models.EquipmentReading) error {
	var operator *string
	if reading.Operator != "" {
		operator = &reading.Operator
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO equipment_readings (`+readingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		reading.ID, reading.Timestamp, reading.Shift, reading.EquipmentID, reading.EquipmentType,
		reading.Unit, reading.Parameter, reading.Value, reading.UOM,
		reading.NormalMin, reading.NormalMax, reading.CriticalMin, reading.CriticalMax,
		reading.Status, reading.Deviation, operator,
	)
	if err != nil {
		return fmt.Errorf("failed to insert equipment reading: %w", err)
	}
	return nil
}

func (r *readingRepository) Query(ctx context.Context, filter models.ReadingFilter) ([]*models.EquipmentReading, error) {
	var conditions []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.EquipmentID != "" {
		conditions = append(conditions, "lower(equipment_id) = lower("+arg(filter.EquipmentID)+")")
	}
	if filter.Parameter != "" {
		conditions = append(conditions, "parameter = "+arg(filter.Parameter))
	}
	if filter.AbnormalOnly {
		conditions = append(conditions, "status <> 'normal'")
	}
	if filter.Since != nil {
		conditions = append(conditions, "recorded_at >= "+arg(*filter.Since))
	}

	inner := `SELECT seq, ` + readingColumns + ` FROM equipment_readings`
	if len(conditions) > 0 {
		inner += " WHERE " + strings.Join(conditions, " AND ")
	}
	inner += " ORDER BY seq DESC"
	if filter.Limit > 0 {
		inner += " LIMIT " + arg(filter.Limit)
	}
	query := `SELECT ` + readingColumns + ` FROM (` + inner + `) recent ORDER BY seq`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query equipment readings: %w", err)
	}
	defer rows.Close()

	var readings []*models.EquipmentReading
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating equipment readings: %w", err)
	}
	return readings, nil
}

func scanReading(rows pgx.Rows) (*models.EquipmentReading, error) {
	r := &models.EquipmentReading{}
	var operator *string
	err := rows.Scan(
		&r.ID, &r.Timestamp, &r.Shift, &r.EquipmentID, &r.EquipmentType, &r.Unit, &r.Parameter,
		&r.Value, &r.UOM, &r.NormalMin, &r.NormalMax, &r.CriticalMin, &r.CriticalMax,
		&r.Status, &r.Deviation, &operator,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan equipment reading: %w", err)
	}
	if operator != nil {
		r.Operator = *operator
	}
	return r, nil
}
