package availabilityclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/medconnect/scheduling/pkg/core/model"
)

// flexID accepts numeric or string identifiers from the server
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		*id = ""
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = flexID(n.String())
	return nil
}

type shiftRecord struct {
	ID        flexID      `json:"id"`
	Owner     flexID      `json:"owner,omitempty"`
	Date      model.Date  `json:"date"`
	Shift     string      `json:"shift"`
	StartTime model.Clock `json:"start_time"`
	EndTime   model.Clock `json:"end_time"`
}

func (r shiftRecord) toModel() model.AvailabilityShift {
	label, _ := model.ParseShiftLabel(r.Shift)
	return model.AvailabilityShift{
		ID:        string(r.ID),
		OwnerID:   string(r.Owner),
		Date:      r.Date,
		Shift:     label,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}

type shiftCreateBody struct {
	Date      model.Date       `json:"date"`
	Shift     model.ShiftLabel `json:"shift"`
	StartTime model.Clock      `json:"start_time"`
	EndTime   model.Clock      `json:"end_time"`
}

func newShiftCreateBodies(entries []model.PendingShiftEntry) []shiftCreateBody {
	bodies := make([]shiftCreateBody, len(entries))
	for i, e := range entries {
		bodies[i] = shiftCreateBody{
			Date:      e.Date,
			Shift:     e.Shift,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		}
	}
	return bodies
}

type shiftPatchBody struct {
	Date      *model.Date       `json:"date,omitempty"`
	Shift     *model.ShiftLabel `json:"shift,omitempty"`
	StartTime *model.Clock      `json:"start_time,omitempty"`
	EndTime   *model.Clock      `json:"end_time,omitempty"`
}

type appointmentRecord struct {
	ID           flexID      `json:"id"`
	Date         model.Date  `json:"date"`
	Time         model.Clock `json:"time"`
	PatientName  string      `json:"patient_name"`
	ProviderName string      `json:"provider_name,omitempty"`
	Status       string      `json:"status,omitempty"`
	Reason       string      `json:"reason,omitempty"`
}

func (r appointmentRecord) toModel() model.AppointmentRecord {
	return model.AppointmentRecord{
		ID:           string(r.ID),
		Date:         r.Date,
		Time:         r.Time,
		SubjectName:  strings.TrimSpace(r.PatientName),
		ProviderName: r.ProviderName,
		Status:       r.Status,
		Reason:       r.Reason,
	}
}

type appointmentPatchBody struct {
	Date model.Date  `json:"date"`
	Time model.Clock `json:"time"`
}
