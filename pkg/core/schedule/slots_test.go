package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medconnect/scheduling/pkg/core/model"
)

func TestGenerateSlots_Morning(t *testing.T) {
	labels := GenerateSlotLabels(model.ShiftMorning, 15)

	require.Len(t, labels, 15)
	assert.Equal(t, "8:00 AM", labels[0])
	assert.Equal(t, "8:15 AM", labels[1])
	assert.Equal(t, "9:00 AM", labels[4])
	assert.Equal(t, "11:30 AM", labels[len(labels)-1])
}

func TestGenerateSlots_OtherShifts(t *testing.T) {
	tests := []struct {
		label model.ShiftLabel
		count int
		first string
		last  string
	}{
		{model.ShiftAfternoon, 9, "12:00 PM", "2:00 PM"},
		{model.ShiftEvening, 11, "5:00 PM", "7:30 PM"},
		{model.ShiftNight, 5, "8:00 PM", "9:00 PM"},
	}

	for _, tt := range tests {
		t.Run(string(tt.label), func(t *testing.T) {
			labels := GenerateSlotLabels(tt.label, 15)
			require.Len(t, labels, tt.count)
			assert.Equal(t, tt.first, labels[0])
			assert.Equal(t, tt.last, labels[len(labels)-1])
		})
	}
}

func TestGenerateSlots_MonotonicWithinWindow(t *testing.T) {
	for _, label := range model.AllShifts {
		window, _ := label.Window()
		for _, granularity := range []int{5, 10, 15, 20, 30, 45, 60} {
			slots := GenerateSlots(label, granularity)
			require.NotEmpty(t, slots)

			seen := make(map[string]bool)
			for i, slot := range slots {
				assert.True(t, window.Contains(slot.Time), "%s/%d: %s outside window", label, granularity, slot.Label)
				assert.False(t, seen[slot.Label], "duplicate label %s", slot.Label)
				seen[slot.Label] = true
				if i > 0 {
					assert.True(t, slots[i-1].Time.Before(slot.Time), "%s/%d not increasing at %d", label, granularity, i)
				}
			}
			assert.Equal(t, window.Start, slots[0].Time)
		}
	}
}

func TestGenerateSlots_UnknownLabel(t *testing.T) {
	slots := GenerateSlots(model.ShiftLabel("Brunch"), 15)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestGenerateSlots_NonPositiveGranularityUsesDefault(t *testing.T) {
	assert.Equal(t, GenerateSlotLabels(model.ShiftMorning, DefaultGranularity), GenerateSlotLabels(model.ShiftMorning, 0))
	assert.Equal(t, GenerateSlotLabels(model.ShiftMorning, DefaultGranularity), GenerateSlotLabels(model.ShiftMorning, -5))
}

func TestGenerateWindowSlots_SinglePointWindow(t *testing.T) {
	at := model.NewClock(9, 0)
	slots := GenerateWindowSlots(model.Window{Start: at, End: at}, 15)

	require.Len(t, slots, 1)
	assert.Equal(t, "9:00 AM", slots[0].Label)
}

func TestGenerateWindowSlots_EndNotOnGrid(t *testing.T) {
	// 10:00 to 10:40 at 15 minutes: 10:00, 10:15, 10:30 (10:45 is past the end)
	slots := GenerateWindowSlots(model.Window{Start: model.NewClock(10, 0), End: model.NewClock(10, 40)}, 15)

	require.Len(t, slots, 3)
	assert.Equal(t, "10:30 AM", slots[2].Label)
}

func TestGenerateWindowSlots_InvertedWindow(t *testing.T) {
	slots := GenerateWindowSlots(model.Window{Start: model.NewClock(12, 0), End: model.NewClock(11, 0)}, 15)
	assert.Empty(t, slots)
}
