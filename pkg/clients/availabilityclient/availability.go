package availabilityclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/medconnect/scheduling/pkg/core/model"
)

const availabilityPath = "availability/"

// ListShifts fetches every shift visible to the authenticated provider
func (c *Client) ListShifts(ctx context.Context) ([]model.AvailabilityShift, error) {
	var records []shiftRecord
	if err := c.do(ctx, "list availability", http.MethodGet, availabilityPath, nil, &records); err != nil {
		return nil, err
	}

	shifts := make([]model.AvailabilityShift, len(records))
	for i, r := range records {
		shifts[i] = r.toModel()
	}
	return shifts, nil
}

// CreateShifts submits the entries as a single batch request. The server
// accepts or rejects the batch as a whole.
func (c *Client) CreateShifts(ctx context.Context, entries []model.PendingShiftEntry) ([]model.AvailabilityShift, error) {
	if len(entries) == 0 {
		return []model.AvailabilityShift{}, nil
	}

	var records []shiftRecord
	if err := c.do(ctx, "create availability", http.MethodPost, availabilityPath, newShiftCreateBodies(entries), &records); err != nil {
		return nil, err
	}

	created := make([]model.AvailabilityShift, len(records))
	for i, r := range records {
		created[i] = r.toModel()
	}

	c.logger.Debug("Created availability shifts",
		zap.Int("submitted", len(entries)),
		zap.Int("created", len(created)))

	return created, nil
}

// UpdateShift patches the date, shift or times of exactly one shift
func (c *Client) UpdateShift(ctx context.Context, id string, patch model.ShiftPatch) error {
	if id == "" {
		return fmt.Errorf("update availability: id is required")
	}
	body := shiftPatchBody{
		Date:      patch.Date,
		Shift:     patch.Shift,
		StartTime: patch.StartTime,
		EndTime:   patch.EndTime,
	}
	return c.do(ctx, "update availability", http.MethodPatch, shiftPath(id), body, nil)
}

// DeleteShift removes exactly one shift. A missing shift yields db.ErrNotFound.
func (c *Client) DeleteShift(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete availability: id is required")
	}
	return c.do(ctx, "delete availability", http.MethodDelete, shiftPath(id), nil, nil)
}

func shiftPath(id string) string {
	return availabilityPath + url.PathEscape(id) + "/"
}
