package policy

import "errors"

var (
	ErrPolicyNotFound    = errors.New("attendance policy not found")
	ErrHolidayNotFound   = errors.New("holiday not found")
	ErrHolidayExists     = errors.New("holiday already exists on this calendar")
	ErrInvalidStaffType  = errors.New("staff type must be one of: office, field")
	ErrReadOnlyPolicySet = errors.New("policies are loaded from a file and cannot be changed at runtime")
)
