package policy

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
	"github.com/stretchr/testify/assert"
)

func TestNewHolidayCalendar_DefaultsStaffTypeFromList(t *testing.T) {
	wednesday := dateutil.Date(2025, time.March, 5)
	thursday := dateutil.Date(2025, time.March, 6)

	cal := NewHolidayCalendar(Holidays{
		Office: []Holiday{{Date: thursday, Name: "Founders day"}},
		Field:  []Holiday{{Date: wednesday, Name: "Festival"}},
	})

	assert.True(t, cal.IsHoliday(StaffTypeField, wednesday))
	assert.False(t, cal.IsHoliday(StaffTypeOffice, wednesday))
	assert.True(t, cal.IsHoliday(StaffTypeOffice, thursday))
	assert.False(t, cal.IsHoliday(StaffTypeField, thursday))

	name, ok := cal.Name(StaffTypeField, wednesday)
	assert.True(t, ok)
	assert.Equal(t, "Festival", name)
}

func TestNewHolidayCalendar_ExplicitStaffTypeWins(t *testing.T) {
	wednesday := dateutil.Date(2025, time.March, 5)

	cal := NewHolidayCalendar(Holidays{
		Office: []Holiday{{Date: wednesday, StaffType: StaffTypeField, Name: "Site shutdown"}},
	})

	assert.True(t, cal.IsHoliday(StaffTypeField, wednesday))
	assert.False(t, cal.IsHoliday(StaffTypeOffice, wednesday))
}

func TestNewHolidayCalendar_IgnoresTimeOfDay(t *testing.T) {
	cal := NewHolidayCalendar(Holidays{
		Field: []Holiday{{Date: time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC), Name: "Festival"}},
	})
	assert.True(t, cal.IsHoliday(StaffTypeField, time.Date(2025, time.March, 5, 15, 30, 0, 0, time.UTC)))
}

func TestHolidays_AllFillsStaffTypeAndSorts(t *testing.T) {
	h := Holidays{
		Office: []Holiday{{Date: dateutil.Date(2025, time.March, 6), Name: "B"}},
		Field: []Holiday{
			{Date: dateutil.Date(2025, time.March, 6), Name: "C"},
			{Date: dateutil.Date(2025, time.March, 5), StaffType: StaffTypeField, Name: "A"},
		},
	}

	all := h.All()
	assert.Equal(t, []Holiday{
		{Date: dateutil.Date(2025, time.March, 5), StaffType: StaffTypeField, Name: "A"},
		{Date: dateutil.Date(2025, time.March, 6), StaffType: StaffTypeField, Name: "C"},
		{Date: dateutil.Date(2025, time.March, 6), StaffType: StaffTypeOffice, Name: "B"},
	}, all)
	assert.Empty(t, h.Office[0].StaffType)
}
