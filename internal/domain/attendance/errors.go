package attendance

import "errors"

// Attendance domain errors
var (
	ErrInvalidEventType  = errors.New("event type must be one of: check_in, check_out")
	ErrAlreadyCheckedIn  = errors.New("you have already checked in and not checked out")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrMalformedEvent    = errors.New("malformed attendance event")
	ErrEventUserNotFound = errors.New("event references an unknown user")
)
