package schedule

import (
	"github.com/medconnect/scheduling/pkg/core/model"
)

// FilterAppointments returns the appointments on date whose time falls inside
// the label's window. An empty label matches any time; a zero date matches any day.
func FilterAppointments(records []model.AppointmentRecord, date model.Date, label model.ShiftLabel) []model.AppointmentRecord {
	var window model.Window
	if label != "" {
		w, ok := label.Window()
		if !ok {
			return []model.AppointmentRecord{}
		}
		window = w
	}

	filtered := make([]model.AppointmentRecord, 0)
	for _, rec := range records {
		if !date.IsZero() && !rec.Date.Equal(date) {
			continue
		}
		if label != "" && !window.Contains(rec.Time) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

// GroupAppointmentsByShift buckets appointments by the shift containing their
// time. Appointments outside every window are returned under the empty label.
func GroupAppointmentsByShift(records []model.AppointmentRecord) map[model.ShiftLabel][]model.AppointmentRecord {
	groups := make(map[model.ShiftLabel][]model.AppointmentRecord)
	for _, rec := range records {
		label, _ := model.ShiftForTime(rec.Time)
		groups[label] = append(groups[label], rec)
	}
	return groups
}
