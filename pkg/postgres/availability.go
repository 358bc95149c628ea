package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medconnect/scheduling/pkg/core/model"
	"github.com/medconnect/scheduling/pkg/db"
)

// ListShifts retrieves every availability shift for the owner
func (d *DB) ListShifts(ctx context.Context) ([]model.AvailabilityShift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, owner_id, date, shift, start_time::text, end_time::text
		FROM availability
		WHERE owner_id = $1
		ORDER BY date, start_time
	`, d.ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	shifts := make([]model.AvailabilityShift, 0)
	for rows.Next() {
		var (
			s          model.AvailabilityShift
			date       time.Time
			label      string
			start, end string
		)
		if err := rows.Scan(&s.ID, &s.OwnerID, &date, &label, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan availability: %w", err)
		}

		s.Date = model.DateOf(date)
		s.Shift, _ = model.ParseShiftLabel(label)
		if s.StartTime, err = model.ParseClock(start); err != nil {
			return nil, fmt.Errorf("invalid start_time for shift %s: %w", s.ID, err)
		}
		if s.EndTime, err = model.ParseClock(end); err != nil {
			return nil, fmt.Errorf("invalid end_time for shift %s: %w", s.ID, err)
		}
		shifts = append(shifts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating availability: %w", err)
	}

	return shifts, nil
}

// CreateShifts inserts every entry in one transaction, so the batch is
// accepted or rejected as a whole
func (d *DB) CreateShifts(ctx context.Context, entries []model.PendingShiftEntry) ([]model.AvailabilityShift, error) {
	created := make([]model.AvailabilityShift, 0, len(entries))
	if len(entries) == 0 {
		return created, nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		shift := e.AsShift()
		shift.ID = uuid.New().String()
		shift.OwnerID = d.ownerID

		_, err := tx.Exec(ctx, `
			INSERT INTO availability (id, owner_id, date, shift, start_time, end_time)
			VALUES ($1, $2, $3::date, $4, $5::time, $6::time)
		`, shift.ID, shift.OwnerID, shift.Date.String(), string(shift.Shift), shift.StartTime.Wire(), shift.EndTime.Wire())
		if err != nil {
			return nil, fmt.Errorf("failed to insert availability for %s: %w", shift.Date, err)
		}
		created = append(created, shift)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return created, nil
}

// UpdateShift applies a partial update to one of the owner's shifts
func (d *DB) UpdateShift(ctx context.Context, id string, patch model.ShiftPatch) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("update availability %s: %w", id, db.ErrNotFound)
	}

	sets, args := shiftPatchAssignments(patch)
	if len(sets) == 0 {
		return fmt.Errorf("update availability %s: nothing to update", id)
	}
	args = append(args, id, d.ownerID)

	query := fmt.Sprintf(
		`UPDATE availability SET %s WHERE id = $%d AND owner_id = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args),
	)

	tag, err := d.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update availability %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update availability %s: %w", id, db.ErrNotFound)
	}
	return nil
}

// DeleteShift removes one of the owner's shifts; a missing shift yields db.ErrNotFound
func (d *DB) DeleteShift(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("delete availability %s: %w", id, db.ErrNotFound)
	}

	tag, err := d.pool.Exec(ctx, `DELETE FROM availability WHERE id = $1 AND owner_id = $2`, id, d.ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete availability %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete availability %s: %w", id, db.ErrNotFound)
	}
	return nil
}

// shiftPatchAssignments builds the SET clauses and positional args for a patch
func shiftPatchAssignments(patch model.ShiftPatch) ([]string, []interface{}) {
	var sets []string
	var args []interface{}

	add := func(column, cast string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d%s", column, len(args), cast))
	}

	if patch.Date != nil {
		add("date", "::date", patch.Date.String())
	}
	if patch.Shift != nil {
		add("shift", "", string(*patch.Shift))
	}
	if patch.StartTime != nil {
		add("start_time", "::time", patch.StartTime.Wire())
	}
	if patch.EndTime != nil {
		add("end_time", "::time", patch.EndTime.Wire())
	}

	return sets, args
}
