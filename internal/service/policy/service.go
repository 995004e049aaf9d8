package policy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
)

type PolicyServiceImpl struct {
	policy.Repository
}

func NewPolicyService(repo policy.Repository) *PolicyServiceImpl {
	return &PolicyServiceImpl{Repository: repo}
}

// GetPolicies implements policy.Service.
func (s *PolicyServiceImpl) GetPolicies(ctx context.Context) (policy.PolicySetResponse, error) {
	set, err := s.Repository.GetAttendancePolicy(ctx)
	if err != nil {
		return policy.PolicySetResponse{}, fmt.Errorf("failed to get attendance policy: %w", err)
	}
	return policy.PolicySetResponse{
		Office: policy.NewPolicyResponse(set.Office),
		Field:  policy.NewPolicyResponse(set.Field),
	}, nil
}

// UpdatePolicy implements policy.Service.
func (s *PolicyServiceImpl) UpdatePolicy(ctx context.Context, req policy.UpdatePolicyRequest) (policy.PolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return policy.PolicyResponse{}, err
	}

	updated, err := s.Repository.UpsertPolicy(ctx, policy.AttendancePolicy{
		StaffType:                         req.StaffType,
		MinimumHoursFullDay:               req.MinimumHoursFullDay,
		MinimumHoursHalfDay:               req.MinimumHoursHalfDay,
		SickLeaveCertificateThresholdDays: req.SickLeaveCertificateThresholdDays,
	})
	if err != nil {
		return policy.PolicyResponse{}, fmt.Errorf("failed to update %s policy: %w", req.StaffType, err)
	}

	slog.Info("Attendance policy updated",
		"staff_type", updated.StaffType,
		"full_day_hours", updated.MinimumHoursFullDay,
		"half_day_hours", updated.MinimumHoursHalfDay,
	)
	return policy.NewPolicyResponse(updated), nil
}

// ListHolidays implements policy.Service. A nil staffType lists both calendars.
func (s *PolicyServiceImpl) ListHolidays(ctx context.Context, staffType *policy.StaffType) ([]policy.HolidayResponse, error) {
	if staffType != nil && !staffType.IsValid() {
		return nil, policy.ErrInvalidStaffType
	}

	holidays, err := s.Repository.GetHolidays(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get holidays: %w", err)
	}

	responses := make([]policy.HolidayResponse, 0)
	for _, h := range holidays.All() {
		if staffType != nil && h.StaffType != *staffType {
			continue
		}
		responses = append(responses, policy.NewHolidayResponse(h))
	}
	return responses, nil
}

// CreateHoliday implements policy.Service.
func (s *PolicyServiceImpl) CreateHoliday(ctx context.Context, req policy.CreateHolidayRequest) (policy.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return policy.HolidayResponse{}, err
	}
	date, _ := dateutil.Parse(req.Date)

	created, err := s.Repository.CreateHoliday(ctx, policy.Holiday{
		Date:      date,
		StaffType: req.StaffType,
		Name:      req.Name,
	})
	if err != nil {
		return policy.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return policy.NewHolidayResponse(created), nil
}

// DeleteHoliday implements policy.Service.
func (s *PolicyServiceImpl) DeleteHoliday(ctx context.Context, staffType policy.StaffType, date time.Time) error {
	if !staffType.IsValid() {
		return policy.ErrInvalidStaffType
	}
	if err := s.Repository.DeleteHoliday(ctx, staffType, dateutil.Truncate(date)); err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}

var _ policy.Service = (*PolicyServiceImpl)(nil)
