package attendance

import (
	"time"
)

type EventType string

const (
	EventCheckIn  EventType = "check_in"
	EventCheckOut EventType = "check_out"
)

func (t EventType) IsValid() bool {
	return t == EventCheckIn || t == EventCheckOut
}

// Event is one clock punch. Events are append-only and never updated.
type Event struct {
	ID        string
	UserID    string
	Timestamp time.Time
	Type      EventType
	Latitude  *float64
	Longitude *float64
	CreatedAt time.Time

	// Join
	UserName *string
}

// StatusCode is the derived state of one user on one day.
type StatusCode string

const (
	StatusPresent     StatusCode = "present"
	StatusHalfDay     StatusCode = "half_day"
	StatusShortHours  StatusCode = "short_hours"
	StatusAbsent      StatusCode = "absent"
	StatusIncomplete  StatusCode = "incomplete"
	StatusOnLeaveFull StatusCode = "on_leave_full"
	StatusOnLeaveHalf StatusCode = "on_leave_half"
	StatusHoliday     StatusCode = "holiday"
	StatusWeekOff     StatusCode = "week_off"
)

// AllStatusCodes lists every code in display order.
var AllStatusCodes = []StatusCode{
	StatusPresent,
	StatusHalfDay,
	StatusShortHours,
	StatusAbsent,
	StatusIncomplete,
	StatusOnLeaveFull,
	StatusOnLeaveHalf,
	StatusHoliday,
	StatusWeekOff,
}

var statusLabels = map[StatusCode]string{
	StatusPresent:     "Present",
	StatusHalfDay:     "Half Day",
	StatusShortHours:  "Short Hours",
	StatusAbsent:      "Absent",
	StatusIncomplete:  "Incomplete",
	StatusOnLeaveFull: "On Leave",
	StatusOnLeaveHalf: "On Leave (Half Day)",
	StatusHoliday:     "Holiday",
	StatusWeekOff:     "Week Off",
}

var musterCodes = map[StatusCode]string{
	StatusPresent:     "P",
	StatusHalfDay:     "HD",
	StatusShortHours:  "SH",
	StatusAbsent:      "A",
	StatusIncomplete:  "-",
	StatusOnLeaveFull: "L",
	StatusOnLeaveHalf: "HL",
	StatusHoliday:     "H",
	StatusWeekOff:     "WO",
}

// Label is the human readable status used by the basic report.
func (c StatusCode) Label() string {
	if l, ok := statusLabels[c]; ok {
		return l
	}
	return string(c)
}

// MusterCode is the short grid code used by the muster export.
func (c StatusCode) MusterCode() string {
	if m, ok := musterCodes[c]; ok {
		return m
	}
	return "-"
}

// IsOnLeave reports full or half day leave.
func (c StatusCode) IsOnLeave() bool {
	return c == StatusOnLeaveFull || c == StatusOnLeaveHalf
}

// IsWorked reports statuses that carry a computed duration.
func (c StatusCode) IsWorked() bool {
	return c == StatusPresent || c == StatusHalfDay || c == StatusShortHours
}

// StatusFromMusterCode reverses MusterCode.
func StatusFromMusterCode(code string) (StatusCode, bool) {
	for status, m := range musterCodes {
		if m == code {
			return status, true
		}
	}
	return "", false
}

// StatusFromLabel reverses Label.
func StatusFromLabel(label string) (StatusCode, bool) {
	for status, l := range statusLabels {
		if l == label {
			return status, true
		}
	}
	return "", false
}

// DailyStatus is derived on every read and never stored.
type DailyStatus struct {
	UserID        string
	Date          time.Time
	Code          StatusCode
	CheckIn       *time.Time
	CheckOut      *time.Time
	WorkedMinutes *int
}
