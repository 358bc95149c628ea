package db

import (
	"context"
	"errors"

	"github.com/medconnect/scheduling/pkg/core/model"
)

// ErrNotFound is returned when a record addressed by id does not exist.
// Deleting an already-deleted shift returns it.
var ErrNotFound = errors.New("record not found")

// AvailabilityStore defines the operations on a provider's availability shifts.
// Both the REST client and the postgres store implement it.
type AvailabilityStore interface {
	ListShifts(ctx context.Context) ([]model.AvailabilityShift, error)
	CreateShifts(ctx context.Context, entries []model.PendingShiftEntry) ([]model.AvailabilityShift, error)
	UpdateShift(ctx context.Context, id string, patch model.ShiftPatch) error
	DeleteShift(ctx context.Context, id string) error
}

// AppointmentStore defines the operations on booked appointments
type AppointmentStore interface {
	ListAppointments(ctx context.Context) ([]model.AppointmentRecord, error)
	UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) error
}

// Store is everything the scheduling engine consumes from a backend
type Store interface {
	AvailabilityStore
	AppointmentStore
}
