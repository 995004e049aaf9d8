package policy

import (
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

type UpdatePolicyRequest struct {
	StaffType                         StaffType `json:"-"`
	MinimumHoursFullDay               float64   `json:"minimum_hours_full_day"`
	MinimumHoursHalfDay               float64   `json:"minimum_hours_half_day"`
	SickLeaveCertificateThresholdDays int       `json:"sick_leave_certificate_threshold_days"`
}

func (r *UpdatePolicyRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.StaffType.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "staff_type",
			Message: "staff_type must be one of: office, field",
		})
	}

	if r.MinimumHoursFullDay <= 0 || r.MinimumHoursFullDay > 24 {
		errs = append(errs, validator.ValidationError{
			Field:   "minimum_hours_full_day",
			Message: "minimum_hours_full_day must be between 0 and 24",
		})
	}

	if r.MinimumHoursHalfDay <= 0 || r.MinimumHoursHalfDay > r.MinimumHoursFullDay {
		errs = append(errs, validator.ValidationError{
			Field:   "minimum_hours_half_day",
			Message: "minimum_hours_half_day must be positive and not exceed minimum_hours_full_day",
		})
	}

	if r.SickLeaveCertificateThresholdDays < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "sick_leave_certificate_threshold_days",
			Message: "sick_leave_certificate_threshold_days must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateHolidayRequest struct {
	Date      string    `json:"date"`
	StaffType StaffType `json:"staff_type"`
	Name      string    `json:"name"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !r.StaffType.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "staff_type",
			Message: "staff_type must be one of: office, field",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PolicyResponse struct {
	StaffType                         StaffType `json:"staff_type"`
	MinimumHoursFullDay               float64   `json:"minimum_hours_full_day"`
	MinimumHoursHalfDay               float64   `json:"minimum_hours_half_day"`
	SickLeaveCertificateThresholdDays int       `json:"sick_leave_certificate_threshold_days"`
}

func NewPolicyResponse(p AttendancePolicy) PolicyResponse {
	return PolicyResponse{
		StaffType:                         p.StaffType,
		MinimumHoursFullDay:               p.MinimumHoursFullDay,
		MinimumHoursHalfDay:               p.MinimumHoursHalfDay,
		SickLeaveCertificateThresholdDays: p.SickLeaveCertificateThresholdDays,
	}
}

type PolicySetResponse struct {
	Office PolicyResponse `json:"office"`
	Field  PolicyResponse `json:"field"`
}

type HolidayResponse struct {
	Date      string    `json:"date"`
	StaffType StaffType `json:"staff_type"`
	Name      string    `json:"name"`
}

func NewHolidayResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		Date:      dateutil.Format(h.Date),
		StaffType: h.StaffType,
		Name:      h.Name,
	}
}
