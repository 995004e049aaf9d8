package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

// MaxImportBatch bounds one import call.
const MaxImportBatch = 5000

// ========================================
// CLOCK DTOs
// ========================================

type ClockRequest struct {
	UserID    string   `json:"-"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	errs = append(errs, validateCoordinates("", r.Latitude, r.Longitude)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateCoordinates(prefix string, lat, lng *float64) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if (lat == nil) != (lng == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   prefix + "latitude",
			Message: "latitude and longitude must be sent together",
		})
		return errs
	}
	if lat != nil && (*lat < -90 || *lat > 90) {
		errs = append(errs, validator.ValidationError{
			Field:   prefix + "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		errs = append(errs, validator.ValidationError{
			Field:   prefix + "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}
	return errs
}

// ========================================
// IMPORT DTOs
// ========================================

// ImportEvent is one device punch. Timestamp stays a string so one bad record
// does not reject the whole batch.
type ImportEvent struct {
	UserID    string   `json:"user_id"`
	Timestamp string   `json:"timestamp"`
	Type      string   `json:"type"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type ImportEventsRequest struct {
	Events []ImportEvent `json:"events"`
}

func (r *ImportEventsRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Events) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "events",
			Message: "events must not be empty",
		})
	}
	if len(r.Events) > MaxImportBatch {
		errs = append(errs, validator.ValidationError{
			Field:   "events",
			Message: fmt.Sprintf("events must not exceed %d records", MaxImportBatch),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEvent converts an imported record, returning ErrMalformedEvent (wrapped with
// the reason) when it cannot be used.
func (e ImportEvent) ToEvent(loc *time.Location) (Event, error) {
	if validator.IsEmpty(e.UserID) {
		return Event{}, fmt.Errorf("%w: user_id is required", ErrMalformedEvent)
	}
	eventType := EventType(e.Type)
	if !eventType.IsValid() {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, ErrInvalidEventType)
	}
	ts, err := ParseEventTimestamp(e.Timestamp, loc)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if errs := validateCoordinates("", e.Latitude, e.Longitude); len(errs) > 0 {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, errs)
	}
	return Event{
		UserID:    e.UserID,
		Timestamp: ts,
		Type:      eventType,
		Latitude:  e.Latitude,
		Longitude: e.Longitude,
	}, nil
}

// ParseEventTimestamp accepts RFC3339 instants and, for devices that send local
// wall-clock time, "YYYY-MM-DD HH:MM[:SS]" interpreted in loc.
func ParseEventTimestamp(s string, loc *time.Location) (time.Time, error) {
	if t, ok := validator.IsValidDateTime(s); ok {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

type SkippedRecord struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type ImportEventsResponse struct {
	Imported int             `json:"imported"`
	Skipped  int             `json:"skipped"`
	Records  []SkippedRecord `json:"skipped_records,omitempty"`
}

// ========================================
// RESPONSE DTOs
// ========================================

type EventResponse struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id"`
	Type      string   `json:"type"`
	Timestamp string   `json:"timestamp"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func NewEventResponse(e Event) EventResponse {
	return EventResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Type:      string(e.Type),
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Latitude:  e.Latitude,
		Longitude: e.Longitude,
	}
}

type DailyStatusResponse struct {
	UserID        string  `json:"user_id"`
	Date          string  `json:"date"`
	Status        string  `json:"status"`
	Label         string  `json:"label"`
	CheckIn       *string `json:"check_in,omitempty"`  // HH:MM
	CheckOut      *string `json:"check_out,omitempty"` // HH:MM
	WorkedMinutes *int    `json:"worked_minutes,omitempty"`
	// ProvisionallyPresent marks an open session on the current day.
	ProvisionallyPresent bool `json:"provisionally_present"`
}

func NewDailyStatusResponse(s DailyStatus, loc *time.Location) DailyStatusResponse {
	resp := DailyStatusResponse{
		UserID:               s.UserID,
		Date:                 dateutil.Format(s.Date),
		Status:               string(s.Code),
		Label:                s.Code.Label(),
		WorkedMinutes:        s.WorkedMinutes,
		ProvisionallyPresent: s.Code == StatusIncomplete,
	}
	if s.CheckIn != nil {
		v := s.CheckIn.In(loc).Format(dateutil.ClockLayout)
		resp.CheckIn = &v
	}
	if s.CheckOut != nil {
		v := s.CheckOut.In(loc).Format(dateutil.ClockLayout)
		resp.CheckOut = &v
	}
	return resp
}
