package leave

import (
	"mime/multipart"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

// MaxAttachmentSize bounds certificate uploads.
const MaxAttachmentSize = 5 << 20

var allowedAttachmentExts = []string{".pdf", ".jpg", ".jpeg", ".png"}

// ========================================
// LEAVE REQUEST DTOs
// ========================================

type CreateLeaveRequestRequest struct {
	UserID     string                `json:"-"`
	LeaveType  string                `json:"leave_type"`
	StartDate  string                `json:"start_date"`
	EndDate    string                `json:"end_date"`
	DayOption  string                `json:"day_option"`
	Reason     string                `json:"reason"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if !LeaveType(r.LeaveType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of: earned, sick, floating, comp_off",
		})
	}

	if r.DayOption == "" {
		r.DayOption = string(DayOptionFull)
	}
	if !DayOption(r.DayOption).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "day_option",
			Message: "day_option must be one of: full, half",
		})
	}

	startDate, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	endDate, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && endDate.Before(startDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if r.FileHeader != nil {
		ext := strings.ToLower(fileExt(r.FileHeader.Filename))
		if !validator.IsInSlice(ext, allowedAttachmentExts) {
			errs = append(errs, validator.ValidationError{
				Field:   "attachment",
				Message: "invalid file type: only pdf, jpg, jpeg, png allowed",
			})
		} else if r.FileHeader.Size > MaxAttachmentSize {
			errs = append(errs, validator.ValidationError{
				Field:   "attachment",
				Message: "attachment size must not exceed 5MB",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HasAttachment reports whether a certificate file was uploaded.
func (r *CreateLeaveRequestRequest) HasAttachment() bool {
	return r.File != nil && r.FileHeader != nil
}

// DayCount is the inclusive day count. Call after Validate.
func (r *CreateLeaveRequestRequest) DayCount() int {
	start, _ := dateutil.Parse(r.StartDate)
	end, _ := dateutil.Parse(r.EndDate)
	return dateutil.DaysInclusive(start, end)
}

func fileExt(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return name[idx:]
}

type DecisionRequest struct {
	RequestID string  `json:"-"`
	Approve   bool    `json:"approve"`
	Reason    *string `json:"reason,omitempty"`
}

func (r *DecisionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "leave request id is required",
		})
	} else if !validator.IsValidUUID(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "leave request id must be a valid UUID",
		})
	}

	if !r.Approve && (r.Reason == nil || validator.IsEmpty(*r.Reason)) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "rejection reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListLeaveRequestFilter struct {
	UserID    *string `json:"user_id,omitempty"`
	Status    *string `json:"status,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *ListLeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil {
		valid := make([]string, 0, len(AllStatuses))
		for _, s := range AllStatuses {
			valid = append(valid, string(s))
		}
		if !validator.IsInSlice(*f.Status, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: " + strings.Join(valid, ", "),
			})
		}
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToFilter converts a validated list filter into the adapter filter.
func (f ListLeaveRequestFilter) ToFilter() LeaveRequestFilter {
	var filter LeaveRequestFilter
	if f.UserID != nil && *f.UserID != "" {
		filter.UserIDs = []string{*f.UserID}
	}
	if f.Status != nil {
		filter.Status = []LeaveRequestStatus{LeaveRequestStatus(*f.Status)}
	}
	if f.StartDate != nil {
		if d, err := dateutil.Parse(*f.StartDate); err == nil {
			filter.StartDate = &d
		}
	}
	if f.EndDate != nil {
		if d, err := dateutil.Parse(*f.EndDate); err == nil {
			filter.EndDate = &d
		}
	}
	return filter
}

type LeaveRequestResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	UserName        *string `json:"user_name,omitempty"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	DayOption       string  `json:"day_option"`
	DayCount        int     `json:"day_count"`
	ChargeableDays  string  `json:"chargeable_days"`
	Reason          string  `json:"reason"`
	AttachmentURL   *string `json:"attachment_url,omitempty"`
	Status          string  `json:"status"`
	ManagerID       *string `json:"manager_id,omitempty"`
	ManagerDecided  *string `json:"manager_decided_at,omitempty"`
	FinalDecided    *string `json:"final_decided_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	SubmittedAt     string  `json:"submitted_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		UserName:        r.UserName,
		LeaveType:       string(r.LeaveType),
		StartDate:       dateutil.Format(r.StartDate),
		EndDate:         dateutil.Format(r.EndDate),
		DayOption:       string(r.DayOption),
		DayCount:        r.DayCount(),
		ChargeableDays:  r.ChargeableDays().String(),
		Reason:          r.Reason,
		AttachmentURL:   r.AttachmentPath,
		Status:          string(r.Status),
		ManagerID:       r.ManagerID,
		RejectionReason: r.RejectionReason,
		SubmittedAt:     r.SubmittedAt.Format(time.RFC3339),
	}
	if r.ManagerDecidedAt != nil {
		v := r.ManagerDecidedAt.Format(time.RFC3339)
		resp.ManagerDecided = &v
	}
	if r.FinalDecidedAt != nil {
		v := r.FinalDecidedAt.Format(time.RFC3339)
		resp.FinalDecided = &v
	}
	return resp
}

type BalanceResponse struct {
	LeaveType string `json:"leave_type"`
	Year      int    `json:"year"`
	Total     string `json:"total"`
	Used      string `json:"used"`
	Available string `json:"available"`
}

func NewBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		LeaveType: string(b.LeaveType),
		Year:      b.Year,
		Total:     b.Total.String(),
		Used:      b.Used.String(),
		Available: b.Available().String(),
	}
}
