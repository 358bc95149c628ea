package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/medconnect/scheduling/pkg/core/model"
	"github.com/medconnect/scheduling/pkg/db"
)

// ListAppointments retrieves the owner's appointments ordered by date and time
func (d *DB) ListAppointments(ctx context.Context) ([]model.AppointmentRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, date, time::text, patient_name, provider_name, status, reason
		FROM appointment
		WHERE owner_id = $1
		ORDER BY date, time
	`, d.ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	appointments := make([]model.AppointmentRecord, 0)
	for rows.Next() {
		var (
			a    model.AppointmentRecord
			date time.Time
			at   string
		)
		if err := rows.Scan(&a.ID, &date, &at, &a.SubjectName, &a.ProviderName, &a.Status, &a.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		a.Date = model.DateOf(date)
		if a.Time, err = model.ParseClock(at); err != nil {
			return nil, fmt.Errorf("invalid time for appointment %s: %w", a.ID, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointments: %w", err)
	}

	return appointments, nil
}

// UpdateAppointment moves one of the owner's appointments to a new date and time
func (d *DB) UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE appointment SET date = $1::date, time = $2::time
		WHERE id = $3 AND owner_id = $4
	`, patch.Date.String(), patch.Time.Wire(), id, d.ownerID)
	if err != nil {
		return fmt.Errorf("failed to update appointment %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update appointment %s: %w", id, db.ErrNotFound)
	}
	return nil
}
