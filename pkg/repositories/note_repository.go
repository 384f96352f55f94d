package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/shiftlog/pkg/database"
	"github.com/ekaya-inc/shiftlog/pkg/models"
)

// NoteRepository is the append-only store of shift notes.
type NoteRepository interface {
	// Append stores a new note. Notes are never updated or deleted.
	Append(ctx context.Context, note *models.ShiftNote) error

	// Query returns notes matching filter in insertion order.
	Query(ctx context.Context, filter models.NoteFilter) ([]*models.ShiftNote, error)
}

type noteRepository struct {
	db *database.DB
}

// NewNoteRepository returns a PostgreSQL-backed NoteRepository.
func NewNoteRepository(db *database.DB) NoteRepository {
	return &noteRepository{db: db}
}

var _ NoteRepository = (*noteRepository)(nil)

func (r *noteRepository) Append(ctx context.Context, note *models.ShiftNote) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO shift_notes (id, created_at, shift, unit, note, note_type, priority, resolved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		note.ID, note.Timestamp, note.Shift, note.Unit, note.Note, note.Type, note.Priority, note.Resolved,
	)
	if err != nil {
		return fmt.Errorf("failed to insert shift note: %w", err)
	}
	return nil
}

func (r *noteRepository) Query(ctx context.Context, filter models.NoteFilter) ([]*models.ShiftNote, error) {
	var conditions []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Shift != "" {
		conditions = append(conditions, "shift = "+arg(filter.Shift))
	}
	if filter.Type != "" {
		conditions = append(conditions, "note_type = "+arg(filter.Type))
	}
	if filter.Since != nil {
		conditions = append(conditions, "created_at >= "+arg(*filter.Since))
	}
	if filter.Until != nil {
		conditions = append(conditions, "created_at < "+arg(*filter.Until))
	}
	if unit := strings.TrimSpace(filter.Unit); unit != "" {
		cond := "lower(unit) = lower(" + arg(unit) + ")"
		if digits := unitFilterDigits(unit); digits != "" {
			cond = "(" + cond + " OR strpos(unit, " + arg(digits) + ") > 0)"
		}
		conditions = append(conditions, cond)
	}

	query := `SELECT id, created_at, shift, unit, note, note_type, priority, resolved FROM shift_notes`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY seq"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.ShiftNote
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift notes: %w", err)
	}
	return notes, nil
}

func scanNote(rows pgx.Rows) (*models.ShiftNote, error) {
	n := &models.ShiftNote{}
	err := rows.Scan(&n.ID, &n.Timestamp, &n.Shift, &n.Unit, &n.Note, &n.Type, &n.Priority, &n.Resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to scan shift note: %w", err)
	}
	return n, nil
}
