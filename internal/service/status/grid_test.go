package status

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_GridShapeAndOrder(t *testing.T) {
	field, office := fieldUser(), officeUser()
	facts := Facts{
		Events: []attendance.Event{
			ev("2", office.ID, attendance.EventCheckOut, at(monday, 18, 0)),
			ev("1", office.ID, attendance.EventCheckIn, at(monday, 9, 0)),
			ev("3", field.ID, attendance.EventCheckIn, at(tuesday, 9, 0)),
		},
		Spans: []leave.Span{{UserID: field.ID, StartDate: monday, EndDate: monday, DayOption: leave.DayOptionFull}},
		Holidays: policy.NewHolidayCalendar(policy.Holidays{
			Office: []policy.Holiday{{Date: wednesday, StaffType: policy.StaffTypeOffice}},
		}),
		Policies: testPolicies(),
	}

	grid := Evaluate([]user.User{office, field}, monday, wednesday, tuesday, facts)

	require.Len(t, grid.Days, 3)
	require.Len(t, grid.Statuses, 2)
	assert.Equal(t, office.ID, grid.At(0, 0).UserID)
	assert.Equal(t, field.ID, grid.At(1, 0).UserID)

	assert.Equal(t, attendance.StatusPresent, grid.At(0, 0).Code)
	assert.Equal(t, attendance.StatusAbsent, grid.At(0, 1).Code)
	assert.Equal(t, attendance.StatusHoliday, grid.At(0, 2).Code)

	assert.Equal(t, attendance.StatusOnLeaveFull, grid.At(1, 0).Code)
	assert.Equal(t, attendance.StatusIncomplete, grid.At(1, 1).Code)
	assert.Equal(t, attendance.StatusAbsent, grid.At(1, 2).Code)

	col := grid.Column(1)
	require.Len(t, col, 2)
	assert.Equal(t, tuesday, col[0].Date)
}

func TestEvaluate_Idempotent(t *testing.T) {
	u := fieldUser()
	facts := Facts{
		Events: []attendance.Event{
			ev("1", u.ID, attendance.EventCheckIn, at(monday, 9, 0)),
			ev("2", u.ID, attendance.EventCheckOut, at(monday, 13, 30)),
		},
		Holidays: policy.NewHolidayCalendar(policy.Holidays{}),
		Policies: testPolicies(),
	}
	today := dateutil.Date(2025, time.April, 1)
	first := Evaluate([]user.User{u}, monday, saturday, today, facts)
	second := Evaluate([]user.User{u}, monday, saturday, today, facts)
	assert.Equal(t, first, second)
	assert.Equal(t, attendance.StatusHalfDay, first.At(0, 0).Code)
	assert.Equal(t, attendance.StatusWeekOff, first.At(0, 5).Code)
}

func TestEvaluate_EmptyUsers(t *testing.T) {
	grid := Evaluate(nil, monday, tuesday, tuesday, Facts{Policies: testPolicies()})
	assert.Empty(t, grid.Statuses)
	assert.Len(t, grid.Days, 2)
}
