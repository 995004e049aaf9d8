package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, user.ErrActorMissing):
		Unauthorized(w, "Invalid or missing access token")
	case errors.Is(err, user.ErrInsufficientRole), errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "No open check-in to close today")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrRequestFinalized):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrNotReportingManager),
		errors.Is(err, leave.ErrNotFinalApprover),
		errors.Is(err, leave.ErrSelfApproval):
		Forbidden(w, err.Error())

	// Policy domain errors
	case errors.Is(err, policy.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, policy.ErrPolicyNotFound):
		NotFound(w, "Attendance policy not found")
	case errors.Is(err, policy.ErrInvalidStaffType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, policy.ErrHolidayExists):
		Conflict(w, err.Error())
	case errors.Is(err, policy.ErrReadOnlyPolicySet):
		Conflict(w, err.Error())

	// Storage
	case errors.Is(err, storage.ErrFileNotFound):
		NotFound(w, "File not found")

	// Reporting data sources
	case errors.Is(err, report.ErrDataUnavailable):
		ServiceUnavailable(w, "Attendance data is temporarily unavailable, please retry")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
