// Package dateutil treats time.Time values as naive calendar dates in the
// organization's timezone. A date is always midnight UTC of that calendar day,
// so two dates compare equal with == regardless of where they came from.
package dateutil

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Date builds a calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Parse parses a YYYY-MM-DD string into a calendar date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Format formats a calendar date as YYYY-MM-DD.
func Format(d time.Time) string {
	return d.Format(DateLayout)
}

// Truncate drops the clock part and location, keeping the calendar day as seen
// in the value's own location.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// In returns the calendar date on which instant t falls in loc.
func In(t time.Time, loc *time.Location) time.Time {
	return Truncate(t.In(loc))
}

// StartOf returns the first instant of calendar date d in loc.
func StartOf(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// AddDays shifts a calendar date.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// DaysInclusive counts the calendar days in [start, end]. It returns 0 when end
// is before start.
func DaysInclusive(start, end time.Time) int {
	start, end = Truncate(start), Truncate(end)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Range lists every calendar date in [start, end] ascending.
func Range(start, end time.Time) []time.Time {
	n := DaysInclusive(start, end)
	days := make([]time.Time, 0, n)
	d := Truncate(start)
	for i := 0; i < n; i++ {
		days = append(days, d)
		d = AddDays(d, 1)
	}
	return days
}

// IsWeekend reports whether d is a Saturday or Sunday.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Between reports whether d lies in [start, end].
func Between(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}
