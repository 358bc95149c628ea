package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/medconnect/scheduling/pkg/core/model"
	"github.com/medconnect/scheduling/pkg/db"
)

// ShiftReaperStore defines the store operations needed for reaping
type ShiftReaperStore interface {
	ListShifts(ctx context.Context) ([]model.AvailabilityShift, error)
	DeleteShift(ctx context.Context, id string) error
}

// ReapExpired deletes every shift dated strictly before today and returns how
// many were removed. It is best-effort housekeeping: fetch and delete failures
// are logged and swallowed. Shifts already deleted elsewhere count as no-ops.
func ReapExpired(ctx context.Context, store ShiftReaperStore, logger *zap.Logger, today model.Date) int {
	shifts, err := store.ListShifts(ctx)
	if err != nil {
		logger.Warn("Reaper could not list availability", zap.Error(err))
		return 0
	}

	expired := expiredShifts(shifts, today)
	if len(expired) == 0 {
		logger.Debug("No expired availability", zap.String("today", today.String()))
		return 0
	}

	logger.Info("Reaping expired availability",
		zap.Int("expired", len(expired)),
		zap.String("today", today.String()))

	removed := 0
	for _, shift := range expired {
		if ctx.Err() != nil {
			logger.Debug("Reaper stopped early", zap.Error(ctx.Err()))
			break
		}

		err := store.DeleteShift(ctx, shift.ID)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, db.ErrNotFound):
			logger.Debug("Expired shift already removed", zap.String("id", shift.ID))
		default:
			logger.Warn("Failed to delete expired shift",
				zap.String("id", shift.ID),
				zap.String("date", shift.Date.String()),
				zap.Error(err))
		}
	}

	logger.Info("Reaping complete", zap.Int("removed", removed))
	return removed
}

// ReapInBackground runs ReapExpired without blocking the caller. onRefresh is
// invoked with the removal count only when something was removed and ctx is
// still live, so a torn-down view never receives the result.
func ReapInBackground(ctx context.Context, store ShiftReaperStore, logger *zap.Logger, today model.Date, onRefresh func(removed int)) <-chan int {
	done := make(chan int, 1)

	go func() {
		defer close(done)

		removed := ReapExpired(ctx, store, logger, today)
		done <- removed

		if removed > 0 && ctx.Err() == nil && onRefresh != nil {
			onRefresh(removed)
		}
	}()

	return done
}

// expiredShifts selects shifts dated strictly before today, at day granularity.
// Shifts without a date are never reaped.
func expiredShifts(shifts []model.AvailabilityShift, today model.Date) []model.AvailabilityShift {
	expired := make([]model.AvailabilityShift, 0)
	for _, s := range shifts {
		if !s.Date.IsZero() && s.Date.Before(today) {
			expired = append(expired, s)
		}
	}
	return expired
}
