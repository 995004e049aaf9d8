package leave

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
	"github.com/shopspring/decimal"
)

type LeaveType string

const (
	LeaveTypeEarned   LeaveType = "earned"
	LeaveTypeSick     LeaveType = "sick"
	LeaveTypeFloating LeaveType = "floating"
	LeaveTypeCompOff  LeaveType = "comp_off"
)

var AllLeaveTypes = []LeaveType{LeaveTypeEarned, LeaveTypeSick, LeaveTypeFloating, LeaveTypeCompOff}

func (t LeaveType) IsValid() bool {
	for _, lt := range AllLeaveTypes {
		if t == lt {
			return true
		}
	}
	return false
}

type DayOption string

const (
	DayOptionFull DayOption = "full"
	DayOptionHalf DayOption = "half"
)

func (d DayOption) IsValid() bool {
	return d == DayOptionFull || d == DayOptionHalf
}

type LeaveRequestStatus string

const (
	StatusSubmitted              LeaveRequestStatus = "submitted"
	StatusPendingManagerApproval LeaveRequestStatus = "pending_manager_approval"
	StatusPendingHRConfirmation  LeaveRequestStatus = "pending_hr_confirmation"
	StatusApproved               LeaveRequestStatus = "approved"
	StatusRejected               LeaveRequestStatus = "rejected"
)

var AllStatuses = []LeaveRequestStatus{
	StatusSubmitted,
	StatusPendingManagerApproval,
	StatusPendingHRConfirmation,
	StatusApproved,
	StatusRejected,
}

// IsTerminal reports approved or rejected.
func (s LeaveRequestStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s LeaveRequestStatus) IsPending() bool {
	return s == StatusPendingManagerApproval || s == StatusPendingHRConfirmation
}

// LeaveRequest entity
type LeaveRequest struct {
	ID        string
	UserID    string
	LeaveType LeaveType

	StartDate time.Time
	EndDate   time.Time // inclusive
	DayOption DayOption

	Reason         string
	AttachmentPath *string
	Status         LeaveRequestStatus

	// ManagerID is the reporting manager captured at submission.
	ManagerID        *string
	ManagerDecidedBy *string
	ManagerDecidedAt *time.Time
	FinalDecidedBy   *string
	FinalDecidedAt   *time.Time
	RejectionReason  *string

	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Join
	UserName *string
}

// DayCount is the inclusive calendar-day length of the request.
func (r LeaveRequest) DayCount() int {
	return dateutil.DaysInclusive(r.StartDate, r.EndDate)
}

// ChargeableDays is what an approval adds to LeaveBalance.Used. Half-day
// requests count 0.5 for every day they cover.
func (r LeaveRequest) ChargeableDays() decimal.Decimal {
	days := decimal.NewFromInt(int64(r.DayCount()))
	if r.DayOption == DayOptionHalf {
		return days.Mul(decimal.NewFromFloat(0.5))
	}
	return days
}

// Span returns the request's date range as a leave span.
func (r LeaveRequest) Span() Span {
	return Span{
		RequestID: r.ID,
		UserID:    r.UserID,
		LeaveType: r.LeaveType,
		StartDate: dateutil.Truncate(r.StartDate),
		EndDate:   dateutil.Truncate(r.EndDate),
		DayOption: r.DayOption,
	}
}

// Span is the inclusive date range of an approved leave request.
type Span struct {
	RequestID string
	UserID    string
	LeaveType LeaveType
	StartDate time.Time
	EndDate   time.Time
	DayOption DayOption
}

// Covers reports whether date lies in the span, both ends included.
func (s Span) Covers(date time.Time) bool {
	return dateutil.Between(dateutil.Truncate(date), s.StartDate, s.EndDate)
}

// Balance is one user's allowance for one leave type.
type Balance struct {
	UserID    string
	LeaveType LeaveType
	Year      int
	Total     decimal.Decimal
	Used      decimal.Decimal
	UpdatedAt time.Time
}

// Available may be negative: overdraft is not blocked at submission.
func (b Balance) Available() decimal.Decimal {
	return b.Total.Sub(b.Used)
}

// LeaveRequestFilter mirrors the adapter's list filter. Nil fields do not filter.
type LeaveRequestFilter struct {
	UserIDs   []string
	StartDate *time.Time // requests ending on or after
	EndDate   *time.Time // requests starting on or before
	Status    []LeaveRequestStatus
	ManagerID *string
}
