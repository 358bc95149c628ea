package schedule

import (
	"github.com/medconnect/scheduling/pkg/core/model"
)

// DefaultGranularity is the slot spacing in minutes used by booking screens
const DefaultGranularity = 15

// GenerateSlots returns every bookable time from the shift's start to its end
// inclusive, spaced granularityMinutes apart. Unknown labels yield no slots.
func GenerateSlots(label model.ShiftLabel, granularityMinutes int) []model.TimeSlot {
	window, ok := label.Window()
	if !ok {
		return []model.TimeSlot{}
	}
	return GenerateWindowSlots(window, granularityMinutes)
}

// GenerateWindowSlots is GenerateSlots over an explicit window, e.g. the
// start/end a provider published for one availability shift
func GenerateWindowSlots(window model.Window, granularityMinutes int) []model.TimeSlot {
	if granularityMinutes <= 0 {
		granularityMinutes = DefaultGranularity
	}

	slots := make([]model.TimeSlot, 0)
	if window.End.Before(window.Start) {
		return slots
	}

	for t := window.Start; !window.End.Before(t); t = t.Add(granularityMinutes) {
		slots = append(slots, model.TimeSlot{Time: t, Label: t.Display()})
	}

	return slots
}

// GenerateSlotLabels returns only the display labels of GenerateSlots
func GenerateSlotLabels(label model.ShiftLabel, granularityMinutes int) []string {
	slots := GenerateSlots(label, granularityMinutes)
	labels := make([]string, len(slots))
	for i, s := range slots {
		labels[i] = s.Label
	}
	return labels
}
