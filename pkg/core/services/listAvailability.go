package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/medconnect/scheduling/pkg/core/model"
	"github.com/medconnect/scheduling/pkg/core/schedule"
)

// ShiftLister defines the read operation on availability
type ShiftLister interface {
	ListShifts(ctx context.Context) ([]model.AvailabilityShift, error)
}

// ListAvailability fetches and canonically orders the provider's shifts.
// Any failure degrades to an empty list; the caller decides whether empty
// means "no data" or "error".
func ListAvailability(ctx context.Context, store ShiftLister, logger *zap.Logger) []model.AvailabilityShift {
	shifts, err := store.ListShifts(ctx)
	if err != nil {
		logger.Warn("Failed to list availability, showing none", zap.Error(err))
		return []model.AvailabilityShift{}
	}

	logger.Debug("Fetched availability", zap.Int("count", len(shifts)))
	return schedule.SortAvailability(shifts)
}

// AvailabilityForDate returns the shifts published for a single day, in shift order
func AvailabilityForDate(shifts []model.AvailabilityShift, date model.Date) []model.AvailabilityShift {
	matching := make([]model.AvailabilityShift, 0)
	for _, s := range shifts {
		if s.Date.Equal(date) {
			matching = append(matching, s)
		}
	}
	return schedule.SortAvailability(matching)
}

// BookableSlots returns the requester-facing slots for one published shift,
// bounded by the shift's own start and end times
func BookableSlots(shift model.AvailabilityShift, granularityMinutes int) []model.TimeSlot {
	return schedule.GenerateWindowSlots(model.Window{Start: shift.StartTime, End: shift.EndTime}, granularityMinutes)
}
