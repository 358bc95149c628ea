package model

// AvailabilityShift is a provider's published window of bookable time
type AvailabilityShift struct {
	ID        string
	OwnerID   string // set by the server from the authenticated session
	Date      Date
	Shift     ShiftLabel
	StartTime Clock
	EndTime   Clock
}

// Overlaps reports whether both shifts are on the same date with intersecting windows
func (s AvailabilityShift) Overlaps(other AvailabilityShift) bool {
	if !s.Date.Equal(other.Date) {
		return false
	}
	return s.StartTime.Before(other.EndTime) && other.StartTime.Before(s.EndTime)
}

// ShiftPatch is a partial update of a single availability shift.
// Nil fields are left unchanged.
type ShiftPatch struct {
	Date      *Date
	Shift     *ShiftLabel
	StartTime *Clock
	EndTime   *Clock
}

// IsEmpty reports whether the patch changes nothing
func (p ShiftPatch) IsEmpty() bool {
	return p.Date == nil && p.Shift == nil && p.StartTime == nil && p.EndTime == nil
}

// PendingShiftEntry is a shift staged in the composer and not yet submitted
type PendingShiftEntry struct {
	LocalKey  string
	Date      Date
	Shift     ShiftLabel
	StartTime Clock
	EndTime   Clock
}

// AsShift returns the entry as an availability shift without an ID
func (e PendingShiftEntry) AsShift() AvailabilityShift {
	return AvailabilityShift{
		Date:      e.Date,
		Shift:     e.Shift,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
	}
}

// TimeSlot is one bookable time point derived from a shift
type TimeSlot struct {
	Time  Clock
	Label string
}

// AppointmentRecord is a booked occurrence
type AppointmentRecord struct {
	ID           string
	Date         Date
	Time         Clock
	SubjectName  string // patient
	ProviderName string
	Status       string
	Reason       string
}

// AppointmentPatch moves an appointment to a new date and time
type AppointmentPatch struct {
	Date Date
	Time Clock
}
