package availabilityclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/medconnect/scheduling/pkg/core/model"
)

const appointmentsPath = "appointments/"

// ListAppointments fetches the appointments visible to the authenticated user
func (c *Client) ListAppointments(ctx context.Context) ([]model.AppointmentRecord, error) {
	var records []appointmentRecord
	if err := c.do(ctx, "list appointments", http.MethodGet, appointmentsPath, nil, &records); err != nil {
		return nil, err
	}

	appointments := make([]model.AppointmentRecord, len(records))
	for i, r := range records {
		appointments[i] = r.toModel()
	}
	return appointments, nil
}

// UpdateAppointment moves one appointment to a new date and time
func (c *Client) UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) error {
	if id == "" {
		return fmt.Errorf("update appointment: id is required")
	}
	body := appointmentPatchBody{Date: patch.Date, Time: patch.Time}
	return c.do(ctx, "update appointment", http.MethodPatch, appointmentsPath+url.PathEscape(id)+"/", body, nil)
}
