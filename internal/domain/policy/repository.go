package policy

import (
	"context"
	"time"
)

// Repository is the policy store adapter.
type Repository interface {
	GetAttendancePolicy(ctx context.Context) (PolicySet, error)
	GetHolidays(ctx context.Context) (Holidays, error)

	UpsertPolicy(ctx context.Context, p AttendancePolicy) (AttendancePolicy, error)
	CreateHoliday(ctx context.Context, h Holiday) (Holiday, error)
	DeleteHoliday(ctx context.Context, staffType StaffType, date time.Time) error
}
