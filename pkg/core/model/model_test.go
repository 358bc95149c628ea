package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2025, Month: time.February, Day: 1}, d)
	assert.Equal(t, time.Saturday, d.Weekday())
	assert.Equal(t, "2025-02-01", d.String())

	_, err = ParseDate("01/02/2025")
	assert.Error(t, err)
}

func TestDate_Compare(t *testing.T) {
	a := MustParseDate("2025-01-01")
	b := MustParseDate("2025-06-01")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
	assert.True(t, a.Equal(NewDate(2025, time.January, 1)))
	assert.Equal(t, MustParseDate("2025-03-01"), MustParseDate("2025-02-28").AddDays(1))
}

func TestDate_JSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-05-02"`), &d))
	assert.Equal(t, MustParseDate("2025-05-02"), d)

	require.NoError(t, json.Unmarshal([]byte(`"2025-05-02T10:00:00Z"`), &d))
	assert.Equal(t, MustParseDate("2025-05-02"), d)

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	out, err := json.Marshal(MustParseDate("2099-01-01"))
	require.NoError(t, err)
	assert.JSONEq(t, `"2099-01-01"`, string(out))
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input    string
		expected Clock
	}{
		{"08:00:00", Clock{Hour: 8}},
		{"14:30", Clock{Hour: 14, Minute: 30}},
		{"2:00 PM", Clock{Hour: 14}},
		{"2:00 pm", Clock{Hour: 14}},
		{"12:15 AM", Clock{Hour: 0, Minute: 15}},
		{"12:00 PM", Clock{Hour: 12}},
		{"11:30AM", Clock{Hour: 11, Minute: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := ParseClock(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}

	_, err := ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("noon")
	assert.Error(t, err)
}

func TestClock_Display(t *testing.T) {
	tests := []struct {
		clock    Clock
		expected string
	}{
		{NewClock(8, 0), "8:00 AM"},
		{NewClock(0, 5), "12:05 AM"},
		{NewClock(12, 0), "12:00 PM"},
		{NewClock(13, 45), "1:45 PM"},
		{NewClock(23, 59), "11:59 PM"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.clock.Display())
	}
}

func TestClock_AddCarriesIntoHour(t *testing.T) {
	assert.Equal(t, NewClock(9, 10), NewClock(8, 55).Add(15))
	assert.Equal(t, Clock{Hour: 10, Minute: 0}, NewClock(8, 120))
	assert.Equal(t, "08:15:00", NewClock(8, 15).Wire())
}

func TestClock_JSON(t *testing.T) {
	var c Clock
	require.NoError(t, json.Unmarshal([]byte(`"17:30:00"`), &c))
	assert.Equal(t, NewClock(17, 30), c)

	out, err := json.Marshal(NewClock(9, 5))
	require.NoError(t, err)
	assert.JSONEq(t, `"09:05:00"`, string(out))
}

func TestShiftLabel(t *testing.T) {
	label, ok := ParseShiftLabel(" morning ")
	assert.True(t, ok)
	assert.Equal(t, ShiftMorning, label)

	label, ok = ParseShiftLabel("Brunch")
	assert.False(t, ok)
	assert.Equal(t, ShiftLabel("Brunch"), label)

	assert.True(t, ShiftEvening.Creatable(false))
	assert.False(t, ShiftNight.Creatable(false))
	assert.True(t, ShiftNight.Creatable(true))
	assert.False(t, ShiftLabel("Brunch").Creatable(true))

	assert.Equal(t, 1, ShiftMorning.Rank())
	assert.Greater(t, ShiftNight.Rank(), ShiftEvening.Rank())
}

func TestShiftForTime(t *testing.T) {
	label, ok := ShiftForTime(NewClock(12, 0))
	assert.True(t, ok)
	assert.Equal(t, ShiftAfternoon, label)

	label, ok = ShiftForTime(NewClock(20, 30))
	assert.True(t, ok)
	assert.Equal(t, ShiftNight, label)

	_, ok = ShiftForTime(NewClock(15, 0))
	assert.False(t, ok)
}

func TestAvailabilityShift_Overlaps(t *testing.T) {
	day := MustParseDate("2025-05-02")
	a := AvailabilityShift{Date: day, StartTime: NewClock(8, 0), EndTime: NewClock(11, 0)}
	b := AvailabilityShift{Date: day, StartTime: NewClock(10, 30), EndTime: NewClock(12, 0)}
	c := AvailabilityShift{Date: day, StartTime: NewClock(11, 0), EndTime: NewClock(12, 0)}
	d := AvailabilityShift{Date: day.AddDays(1), StartTime: NewClock(8, 0), EndTime: NewClock(11, 0)}

	assert.True(t, a.Overlaps(b))
	assert.False(t, a.Overlaps(c), "touching windows do not overlap")
	assert.False(t, a.Overlaps(d))
}
