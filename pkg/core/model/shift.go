package model

import (
	"math"
	"strings"
)

// ShiftLabel names a bounded daily window of availability.
// Unknown labels received from the server are kept verbatim.
type ShiftLabel string

const (
	ShiftMorning   ShiftLabel = "Morning"
	ShiftAfternoon ShiftLabel = "Afternoon"
	ShiftEvening   ShiftLabel = "Evening"
	ShiftNight     ShiftLabel = "Night"
)

// Window is the inclusive wall-clock range of a shift
type Window struct {
	Start Clock
	End   Clock
}

// Contains reports whether c falls within the window, inclusive at both ends
func (w Window) Contains(c Clock) bool {
	return !c.Before(w.Start) && !w.End.Before(c)
}

// ShiftWindows is the single source of truth for shift bounds, used by slot
// generation and by appointment filtering.
var ShiftWindows = map[ShiftLabel]Window{
	ShiftMorning:   {Start: NewClock(8, 0), End: NewClock(11, 30)},
	ShiftAfternoon: {Start: NewClock(12, 0), End: NewClock(14, 0)},
	ShiftEvening:   {Start: NewClock(17, 0), End: NewClock(19, 30)},
	ShiftNight:     {Start: NewClock(20, 0), End: NewClock(21, 0)},
}

// shiftRanks orders the provider-facing labels. Night is a filtering bucket
// and deliberately unranked.
var shiftRanks = map[ShiftLabel]int{
	ShiftMorning:   1,
	ShiftAfternoon: 2,
	ShiftEvening:   3,
}

// AllShifts lists every known label in display order
var AllShifts = []ShiftLabel{ShiftMorning, ShiftAfternoon, ShiftEvening, ShiftNight}

// ParseShiftLabel matches s case-insensitively against the known labels.
// Unrecognised input is returned trimmed with ok=false.
func ParseShiftLabel(s string) (ShiftLabel, bool) {
	trimmed := strings.TrimSpace(s)
	for _, label := range AllShifts {
		if strings.EqualFold(trimmed, string(label)) {
			return label, true
		}
	}
	return ShiftLabel(trimmed), false
}

// Known reports whether the label has a configured window
func (l ShiftLabel) Known() bool {
	_, ok := ShiftWindows[l]
	return ok
}

// Window returns the label's configured bounds
func (l ShiftLabel) Window() (Window, bool) {
	w, ok := ShiftWindows[l]
	return w, ok
}

// Rank returns the canonical sort rank; unranked labels return math.MaxInt
func (l ShiftLabel) Rank() int {
	if r, ok := shiftRanks[l]; ok {
		return r
	}
	return math.MaxInt
}

// Creatable reports whether providers may publish availability under this label
func (l ShiftLabel) Creatable(allowNight bool) bool {
	switch l {
	case ShiftMorning, ShiftAfternoon, ShiftEvening:
		return true
	case ShiftNight:
		return allowNight
	default:
		return false
	}
}

// ShiftForTime returns the label whose window contains c
func ShiftForTime(c Clock) (ShiftLabel, bool) {
	for _, label := range AllShifts {
		if ShiftWindows[label].Contains(c) {
			return label, true
		}
	}
	return "", false
}
