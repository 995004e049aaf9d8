// Package status derives the authoritative daily attendance status. It does no
// I/O and holds no state, so callers may evaluate disjoint (user, day) pairs in
// parallel.
package status

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
)

// Input is everything needed to derive one user's status on one day.
type Input struct {
	User     user.User
	Date     time.Time
	Events   []attendance.Event // the day's events; others are skipped
	Spans    []leave.Span       // the user's approved leave spans
	Holidays policy.HolidayCalendar
	Policies policy.PolicySet
	Today    time.Time
	// Location is the organization timezone used to place events on a day.
	// Nil means UTC.
	Location *time.Location
}

// Derive applies the status rules in order; the first match wins:
// leave, holiday, week off, then the day's punches.
func Derive(in Input) attendance.DailyStatus {
	date := dateutil.Truncate(in.Date)
	result := attendance.DailyStatus{UserID: in.User.ID, Date: date}

	if span, ok := coveringSpan(in.User.ID, date, in.Spans); ok {
		if span.DayOption == leave.DayOptionHalf {
			result.Code = attendance.StatusOnLeaveHalf
		} else {
			result.Code = attendance.StatusOnLeaveFull
		}
		return result
	}

	staffType := in.User.StaffType()
	if in.Holidays.IsHoliday(staffType, date) {
		result.Code = attendance.StatusHoliday
		return result
	}

	if dateutil.IsWeekend(date) {
		result.Code = attendance.StatusWeekOff
		return result
	}

	checkIn, checkOut := punches(in.User.ID, date, in.Events, location(in.Location))
	switch {
	case checkIn == nil:
		// A check-out without a check-in has no duration to credit.
		result.Code = attendance.StatusAbsent
	case checkOut == nil:
		result.CheckIn = checkIn
		if date.Before(dateutil.Truncate(in.Today)) {
			result.Code = attendance.StatusAbsent
		} else {
			result.Code = attendance.StatusIncomplete
		}
	default:
		result.CheckIn = checkIn
		result.CheckOut = checkOut
		worked := workedMinutes(*checkIn, *checkOut)
		result.WorkedMinutes = &worked
		result.Code = classify(worked, in.Policies.For(staffType))
	}
	return result
}

// coveringSpan finds an approved span covering date. A full-day span wins over
// a half-day span when both cover the same date.
func coveringSpan(userID string, date time.Time, spans []leave.Span) (leave.Span, bool) {
	var found leave.Span
	ok := false
	for _, span := range spans {
		if span.UserID != "" && span.UserID != userID {
			continue
		}
		if !span.Covers(date) {
			continue
		}
		if span.DayOption != leave.DayOptionHalf {
			return span, true
		}
		if !ok {
			found, ok = span, true
		}
	}
	return found, ok
}

// punches returns the earliest check-in and the latest check-out of the day.
func punches(userID string, date time.Time, events []attendance.Event, loc *time.Location) (*time.Time, *time.Time) {
	var checkIn, checkOut *time.Time
	for i := range events {
		ev := events[i]
		if reason := malformed(ev, userID, date, loc); reason != "" {
			slog.Warn("Skipping attendance event",
				"event_id", ev.ID,
				"user_id", userID,
				"date", dateutil.Format(date),
				"reason", reason,
			)
			continue
		}
		ts := ev.Timestamp
		switch ev.Type {
		case attendance.EventCheckIn:
			if checkIn == nil || ts.Before(*checkIn) {
				checkIn = &ts
			}
		case attendance.EventCheckOut:
			if checkOut == nil || ts.After(*checkOut) {
				checkOut = &ts
			}
		}
	}
	return checkIn, checkOut
}

func malformed(ev attendance.Event, userID string, date time.Time, loc *time.Location) string {
	switch {
	case ev.Timestamp.IsZero():
		return "missing or unparseable timestamp"
	case !ev.Type.IsValid():
		return "unknown event type"
	case ev.UserID != "" && ev.UserID != userID:
		return "event belongs to another user"
	case !dateutil.In(ev.Timestamp, loc).Equal(date):
		return "event is not on the evaluated day"
	}
	return ""
}

func workedMinutes(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

func classify(worked int, p policy.AttendancePolicy) attendance.StatusCode {
	switch {
	case worked >= p.FullDayMinutes():
		return attendance.StatusPresent
	case worked >= p.HalfDayMinutes():
		return attendance.StatusHalfDay
	default:
		return attendance.StatusShortHours
	}
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
