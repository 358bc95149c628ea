package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medconnect/scheduling/pkg/core/model"
)

func TestFilterAppointments(t *testing.T) {
	today := model.MustParseDate("2025-06-01")
	records := []model.AppointmentRecord{
		{ID: "1", Date: today, Time: model.NewClock(8, 30)},
		{ID: "2", Date: today, Time: model.NewClock(13, 0)},
		{ID: "3", Date: today, Time: model.NewClock(20, 15)},
		{ID: "4", Date: today.AddDays(1), Time: model.NewClock(9, 0)},
		{ID: "5", Date: today, Time: model.NewClock(15, 0)},
	}

	morning := FilterAppointments(records, today, model.ShiftMorning)
	assert.Len(t, morning, 1)
	assert.Equal(t, "1", morning[0].ID)

	night := FilterAppointments(records, today, model.ShiftNight)
	assert.Len(t, night, 1)
	assert.Equal(t, "3", night[0].ID)

	allToday := FilterAppointments(records, today, "")
	assert.Len(t, allToday, 4)

	assert.Empty(t, FilterAppointments(records, today, "Brunch"))
	assert.Len(t, FilterAppointments(records, model.Date{}, model.ShiftMorning), 2)
}

func TestGroupAppointmentsByShift(t *testing.T) {
	records := []model.AppointmentRecord{
		{ID: "1", Time: model.NewClock(8, 0)},
		{ID: "2", Time: model.NewClock(11, 30)},
		{ID: "3", Time: model.NewClock(15, 0)},
		{ID: "4", Time: model.NewClock(19, 30)},
	}

	groups := GroupAppointmentsByShift(records)

	assert.Len(t, groups[model.ShiftMorning], 2)
	assert.Len(t, groups[model.ShiftEvening], 1)
	assert.Len(t, groups[""], 1)
	assert.Equal(t, "3", groups[""][0].ID)
}
