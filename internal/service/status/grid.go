package status

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
)

// Facts are the batched inputs for a whole range, for any number of users.
type Facts struct {
	Events   []attendance.Event
	Spans    []leave.Span
	Holidays policy.HolidayCalendar
	Policies policy.PolicySet
	Location *time.Location
}

// Grid holds one status per user per day. Rows follow the order of Users and
// columns follow Days, so output built from a Grid is deterministic.
type Grid struct {
	Users    []user.User
	Days     []time.Time
	Statuses [][]attendance.DailyStatus
}

// At returns the status of the i-th user on the j-th day.
func (g Grid) At(i, j int) attendance.DailyStatus {
	return g.Statuses[i][j]
}

// Column returns every user's status on the j-th day.
func (g Grid) Column(j int) []attendance.DailyStatus {
	col := make([]attendance.DailyStatus, len(g.Users))
	for i := range g.Users {
		col[i] = g.Statuses[i][j]
	}
	return col
}

type dayKey struct {
	userID string
	date   time.Time
}

// Evaluate derives every (user, day) pair in [start, end]. It is the only path
// from facts to statuses used by the reports.
func Evaluate(users []user.User, start, end, today time.Time, facts Facts) Grid {
	loc := location(facts.Location)
	days := dateutil.Range(start, end)

	eventsByDay := make(map[dayKey][]attendance.Event)
	for _, ev := range facts.Events {
		if ev.Timestamp.IsZero() {
			// Malformed; Derive would skip it anyway, and it has no day to file under.
			continue
		}
		k := dayKey{userID: ev.UserID, date: dateutil.In(ev.Timestamp, loc)}
		eventsByDay[k] = append(eventsByDay[k], ev)
	}

	spansByUser := make(map[string][]leave.Span)
	for _, span := range facts.Spans {
		spansByUser[span.UserID] = append(spansByUser[span.UserID], span)
	}

	grid := Grid{
		Users:    users,
		Days:     days,
		Statuses: make([][]attendance.DailyStatus, len(users)),
	}
	for i, u := range users {
		row := make([]attendance.DailyStatus, len(days))
		for j, day := range days {
			row[j] = Derive(Input{
				User:     u,
				Date:     day,
				Events:   eventsByDay[dayKey{userID: u.ID, date: day}],
				Spans:    spansByUser[u.ID],
				Holidays: facts.Holidays,
				Policies: facts.Policies,
				Today:    today,
				Location: loc,
			})
		}
		grid.Statuses[i] = row
	}
	return grid
}
