package policy

import (
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
)

// StaffType selects the holiday calendar and hour thresholds for an employee.
type StaffType string

const (
	StaffTypeOffice StaffType = "office"
	StaffTypeField  StaffType = "field"
)

func (s StaffType) IsValid() bool {
	return s == StaffTypeOffice || s == StaffTypeField
}

// AttendancePolicy holds the work-hour rules for one staff type.
type AttendancePolicy struct {
	StaffType                         StaffType
	MinimumHoursFullDay               float64
	MinimumHoursHalfDay               float64
	SickLeaveCertificateThresholdDays int
	UpdatedAt                         time.Time
}

// FullDayMinutes is the inclusive lower bound for a present day.
func (p AttendancePolicy) FullDayMinutes() int {
	return int(math.Round(p.MinimumHoursFullDay * 60))
}

// HalfDayMinutes is the inclusive lower bound for a half day.
func (p AttendancePolicy) HalfDayMinutes() int {
	return int(math.Round(p.MinimumHoursHalfDay * 60))
}

// PolicySet carries one policy per staff type.
type PolicySet struct {
	Office AttendancePolicy
	Field  AttendancePolicy
}

// For returns the policy for staffType. Unknown staff types use the field policy.
func (s PolicySet) For(staffType StaffType) AttendancePolicy {
	if staffType == StaffTypeOffice {
		return s.Office
	}
	return s.Field
}

// DefaultPolicySet is used until an administrator stores real thresholds.
func DefaultPolicySet() PolicySet {
	return PolicySet{
		Office: AttendancePolicy{
			StaffType:                         StaffTypeOffice,
			MinimumHoursFullDay:               8,
			MinimumHoursHalfDay:               4,
			SickLeaveCertificateThresholdDays: 2,
		},
		Field: AttendancePolicy{
			StaffType:                         StaffTypeField,
			MinimumHoursFullDay:               8,
			MinimumHoursHalfDay:               4,
			SickLeaveCertificateThresholdDays: 2,
		},
	}
}

// Holiday is one day off on one staff type's calendar.
type Holiday struct {
	Date      time.Time
	StaffType StaffType
	Name      string
}

// Holidays groups holiday lists per calendar as the adapter returns them.
type Holidays struct {
	Office []Holiday
	Field  []Holiday
}

// All returns both calendars merged and ordered by date then staff type. A
// holiday without a valid StaffType takes the type of the list it came from.
func (h Holidays) All() []Holiday {
	all := make([]Holiday, 0, len(h.Office)+len(h.Field))
	all = appendDefaulted(all, h.Office, StaffTypeOffice)
	all = appendDefaulted(all, h.Field, StaffTypeField)
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.Before(all[j].Date)
		}
		return all[i].StaffType < all[j].StaffType
	})
	return all
}

func appendDefaulted(dst, days []Holiday, staffType StaffType) []Holiday {
	for _, day := range days {
		if !day.StaffType.IsValid() {
			day.StaffType = staffType
		}
		dst = append(dst, day)
	}
	return dst
}

// HolidayCalendar answers "is this date a holiday for this staff type".
type HolidayCalendar struct {
	office map[time.Time]string
	field  map[time.Time]string
}

// NewHolidayCalendar indexes both calendars. A holiday is placed by its own
// StaffType when set, otherwise by the list that holds it.
func NewHolidayCalendar(h Holidays) HolidayCalendar {
	cal := HolidayCalendar{
		office: make(map[time.Time]string),
		field:  make(map[time.Time]string),
	}
	for _, day := range h.All() {
		d := dateutil.Truncate(day.Date)
		switch day.StaffType {
		case StaffTypeOffice:
			cal.office[d] = day.Name
		case StaffTypeField:
			cal.field[d] = day.Name
		}
	}
	return cal
}

// IsHoliday reports whether date is on the calendar of staffType.
func (c HolidayCalendar) IsHoliday(staffType StaffType, date time.Time) bool {
	_, ok := c.lookup(staffType)[dateutil.Truncate(date)]
	return ok
}

// Name returns the holiday's name, if any.
func (c HolidayCalendar) Name(staffType StaffType, date time.Time) (string, bool) {
	name, ok := c.lookup(staffType)[dateutil.Truncate(date)]
	return name, ok
}

func (c HolidayCalendar) lookup(staffType StaffType) map[time.Time]string {
	if staffType == StaffTypeOffice {
		return c.office
	}
	return c.field
}
