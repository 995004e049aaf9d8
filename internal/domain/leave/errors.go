package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")

	// State machine misuse
	ErrRequestFinalized    = errors.New("leave request has already been approved or rejected")
	ErrInvalidTransition   = errors.New("leave request is not awaiting this decision")
	ErrNotReportingManager = errors.New("only the requester's reporting manager can decide this step")
	ErrNotFinalApprover    = errors.New("only the final confirmation role can decide this step")
	ErrSelfApproval        = errors.New("you cannot decide your own leave request")

	// Submission
	ErrCertificateRequired = errors.New("a medical certificate is required for this sick leave")
)
