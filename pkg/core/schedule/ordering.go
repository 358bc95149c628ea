package schedule

import (
	"sort"
	"strings"

	"github.com/medconnect/scheduling/pkg/core/model"
)

// CompareShifts orders labels Morning < Afternoon < Evening < everything else.
// Unranked labels are compared by string.
func CompareShifts(a, b model.ShiftLabel) int {
	ra, rb := a.Rank(), b.Rank()
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return strings.Compare(string(a), string(b))
	}
}

// SortAvailability returns a copy of shifts ordered by date, then shift rank.
// Ties keep their input order.
func SortAvailability(shifts []model.AvailabilityShift) []model.AvailabilityShift {
	sorted := make([]model.AvailabilityShift, len(shifts))
	copy(sorted, shifts)

	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].Date.Compare(sorted[j].Date); c != 0 {
			return c < 0
		}
		return CompareShifts(sorted[i].Shift, sorted[j].Shift) < 0
	})

	return sorted
}
