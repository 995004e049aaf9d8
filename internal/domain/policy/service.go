package policy

import (
	"context"
	"time"
)

// Service administers attendance policies and holiday calendars. Changes are
// prospective only in the sense that nothing derived is stored: the next
// report run sees the new values.
type Service interface {
	GetPolicies(ctx context.Context) (PolicySetResponse, error)
	UpdatePolicy(ctx context.Context, req UpdatePolicyRequest) (PolicyResponse, error)
	ListHolidays(ctx context.Context, staffType *StaffType) ([]HolidayResponse, error)
	CreateHoliday(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	DeleteHoliday(ctx context.Context, staffType StaffType, date time.Time) error
}
