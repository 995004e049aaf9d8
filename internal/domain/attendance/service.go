package attendance

import (
	"context"
)

// AttendanceService records punches and answers "what is my status".
type AttendanceService interface {
	// ClockIn records a check-in for the authenticated user.
	ClockIn(ctx context.Context, req ClockRequest) (EventResponse, error)

	// ClockOut records a check-out for the authenticated user.
	ClockOut(ctx context.Context, req ClockRequest) (EventResponse, error)

	// Import stores device punches in bulk, skipping malformed records.
	Import(ctx context.Context, req ImportEventsRequest) (ImportEventsResponse, error)

	// GetDailyStatus derives a single user's status for one day.
	GetDailyStatus(ctx context.Context, userID string, date string) (DailyStatusResponse, error)
}
