package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/medconnect/scheduling/pkg/core/model"
	"github.com/medconnect/scheduling/pkg/db"
)

// ShiftEditorStore defines the store operations needed to edit published shifts
type ShiftEditorStore interface {
	UpdateShift(ctx context.Context, id string, patch model.ShiftPatch) error
	DeleteShift(ctx context.Context, id string) error
}

// ShiftEdit is raw user input for a partial shift update. Nil fields are unchanged.
type ShiftEdit struct {
	Date      *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Shift     *string `json:"shift"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

// EditShift validates edit and sends it as a partial update of shift id.
// When both times are supplied they must still form a forward window.
func EditShift(ctx context.Context, store ShiftEditorStore, logger *zap.Logger, id string, edit ShiftEdit, allowNight bool) error {
	if id == "" {
		return newValidationError("id", "is required")
	}
	patch, err := parseShiftEdit(edit, allowNight)
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		return newValidationError("shift", "nothing to update")
	}

	if err := store.UpdateShift(ctx, id, patch); err != nil {
		logger.Warn("Failed to update shift", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update shift %s: %w", id, err)
	}

	logger.Info("Shift updated", zap.String("id", id))
	return nil
}

// RemoveShift deletes a published shift. A shift that is already gone
// reports db.ErrNotFound so the caller can tell the user.
func RemoveShift(ctx context.Context, store ShiftEditorStore, logger *zap.Logger, id string) error {
	if id == "" {
		return newValidationError("id", "is required")
	}

	if err := store.DeleteShift(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			logger.Debug("Shift already deleted", zap.String("id", id))
		} else {
			logger.Warn("Failed to delete shift", zap.String("id", id), zap.Error(err))
		}
		return fmt.Errorf("failed to delete shift %s: %w", id, err)
	}

	logger.Info("Shift deleted", zap.String("id", id))
	return nil
}

func parseShiftEdit(edit ShiftEdit, allowNight bool) (model.ShiftPatch, error) {
	if err := validateInput(edit); err != nil {
		return model.ShiftPatch{}, err
	}

	var patch model.ShiftPatch
	if edit.Date != nil {
		date, err := model.ParseDate(*edit.Date)
		if err != nil {
			return model.ShiftPatch{}, newValidationError("date", err.Error())
		}
		patch.Date = &date
	}
	if edit.Shift != nil {
		label, known := model.ParseShiftLabel(*edit.Shift)
		if !known || !label.Creatable(allowNight) {
			return model.ShiftPatch{}, newValidationError("shift", fmt.Sprintf("%q is not an available shift", *edit.Shift))
		}
		patch.Shift = &label
	}
	if edit.StartTime != nil {
		start, err := model.ParseClock(*edit.StartTime)
		if err != nil {
			return model.ShiftPatch{}, newValidationError("start_time", err.Error())
		}
		patch.StartTime = &start
	}
	if edit.EndTime != nil {
		end, err := model.ParseClock(*edit.EndTime)
		if err != nil {
			return model.ShiftPatch{}, newValidationError("end_time", err.Error())
		}
		patch.EndTime = &end
	}
	if patch.StartTime != nil && patch.EndTime != nil && !patch.StartTime.Before(*patch.EndTime) {
		return model.ShiftPatch{}, newValidationError("end_time", "must be after start time")
	}

	return patch, nil
}
