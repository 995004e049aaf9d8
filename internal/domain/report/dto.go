package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

// MaxRangeDays bounds one aggregation.
const MaxRangeDays = 366

// ========================================
// QUERY
// ========================================

// Query selects a user subset (empty = all users) and an inclusive date range.
// Today is the organization-local reference date; days after it are not
// derived and Today itself is never reported as absent.
type Query struct {
	UserIDs   []string `json:"user_ids,omitempty"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Today     string   `json:"today"`
}

func (q *Query) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(q.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(q.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if _, ok := validator.IsValidDate(q.Today); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "today",
			Message: "today must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		} else if dateutil.DaysInclusive(start, end) > MaxRangeDays {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: fmt.Sprintf("date range must not exceed %d days", MaxRangeDays),
			})
		}
	}

	for _, id := range q.UserIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "user_ids",
				Message: "user_ids must not contain empty values",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Range returns the parsed inclusive range. Call after Validate.
func (q Query) Range() (time.Time, time.Time) {
	start, _ := dateutil.Parse(q.StartDate)
	end, _ := dateutil.Parse(q.EndDate)
	return start, end
}

// TodayDate returns the parsed reference date. Call after Validate.
func (q Query) TodayDate() time.Time {
	today, _ := dateutil.Parse(q.Today)
	return today
}

// ========================================
// DASHBOARD
// ========================================

type Dashboard struct {
	StartDate        string              `json:"start_date"`
	EndDate          string              `json:"end_date"`
	TotalEmployees   int                 `json:"total_employees"`
	PresentOnEndDate int                 `json:"present_on_end_date"`
	AbsentOnEndDate  int                 `json:"absent_on_end_date"`
	OnLeaveOnEndDate int                 `json:"on_leave_on_end_date"`
	EndDateBreakdown map[string]int      `json:"end_date_breakdown"`
	Trend            []TrendPoint        `json:"trend"`
	Productivity     []ProductivityPoint `json:"productivity_trend"`
	CompOff          CompOffPanel        `json:"comp_off"`
}

// TrendPoint counts present vs absent across the organization for one day.
type TrendPoint struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

// ProductivityPoint averages worked minutes over days with a computed duration.
type ProductivityPoint struct {
	Date                 string  `json:"date"`
	AverageWorkedMinutes float64 `json:"average_worked_minutes"`
	Samples              int     `json:"samples"`
}

// CompOffPanel is the optional comp-off section of the dashboard.
type CompOffPanel struct {
	Available   bool   `json:"available"`
	Message     string `json:"message,omitempty"`
	Credits     int    `json:"credits"`
	CreditedDay string `json:"credited_days"`
}

// ========================================
// BASIC DAILY REPORT
// ========================================

type BasicReportRow struct {
	UserID        string  `json:"user_id"`
	UserName      string  `json:"user_name"`
	Date          string  `json:"date"`
	Status        string  `json:"status"`
	Code          string  `json:"code"`
	CheckIn       *string `json:"check_in,omitempty"`  // HH:MM
	CheckOut      *string `json:"check_out,omitempty"` // HH:MM
	WorkedMinutes *int    `json:"worked_minutes,omitempty"`
}

// Duration renders worked minutes as H:MM, or "" when there is no duration.
func (r BasicReportRow) Duration() string {
	if r.WorkedMinutes == nil {
		return ""
	}
	return fmt.Sprintf("%d:%02d", *r.WorkedMinutes/60, *r.WorkedMinutes%60)
}

type BasicReport struct {
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Rows      []BasicReportRow `json:"rows"`
}

// ========================================
// MUSTER
// ========================================

type Muster struct {
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
	Days      []string    `json:"days"`
	Rows      []MusterRow `json:"rows"`
}

type MusterRow struct {
	UserID   string         `json:"user_id"`
	UserName string         `json:"user_name"`
	Codes    []string       `json:"codes"`
	Totals   map[string]int `json:"totals"`
}

// ========================================
// EVENT LOG
// ========================================

type EventLogEntry struct {
	EventID   string   `json:"event_id"`
	UserID    string   `json:"user_id"`
	UserName  string   `json:"user_name"`
	Timestamp string   `json:"timestamp"`
	Type      string   `json:"type"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type EventLog struct {
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Events    []EventLogEntry `json:"events"`
}
