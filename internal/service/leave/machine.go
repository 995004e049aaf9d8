package leave

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/user"
)

// step is one of the two decisions a request waits for.
type step int

const (
	stepManager step = iota
	stepFinal
)

func (s step) awaits() leave.LeaveRequestStatus {
	if s == stepManager {
		return leave.StatusPendingManagerApproval
	}
	return leave.StatusPendingHRConfirmation
}

// initialStatus routes a submitted request. Users without a reporting manager
// skip straight to final confirmation.
func initialStatus(u user.User) leave.LeaveRequestStatus {
	if u.HasManager() {
		return leave.StatusPendingManagerApproval
	}
	return leave.StatusPendingHRConfirmation
}

// confirms reports whether role may take the final step. Admins always may,
// so a request from the only holder of the final role can still be decided.
func confirms(role, finalRole user.Role) bool {
	r := user.NormalizeRole(string(role))
	return r == user.NormalizeRole(string(finalRole)) || r == user.RoleAdmin
}

// decision is the outcome of one approval step.
type decision struct {
	actor     user.Actor
	approve   bool
	reason    *string
	finalRole user.Role
	at        time.Time
}

// transition applies d to r. It never mutates r: a rejected call leaves the
// caller's copy untouched and the returned request is only meaningful when err
// is nil.
func transition(r leave.LeaveRequest, s step, d decision) (leave.LeaveRequest, error) {
	if r.Status.IsTerminal() {
		return r, leave.ErrRequestFinalized
	}
	if r.Status != s.awaits() {
		return r, leave.ErrInvalidTransition
	}
	if d.actor.UserID == r.UserID {
		return r, leave.ErrSelfApproval
	}

	next := r
	actorID := d.actor.UserID
	at := d.at

	switch s {
	case stepManager:
		if r.ManagerID == nil || *r.ManagerID != d.actor.UserID {
			return r, leave.ErrNotReportingManager
		}
		next.ManagerDecidedBy = &actorID
		next.ManagerDecidedAt = &at
		if d.approve {
			next.Status = leave.StatusPendingHRConfirmation
		} else {
			next.Status = leave.StatusRejected
		}
	case stepFinal:
		if !confirms(d.actor.Role, d.finalRole) {
			return r, leave.ErrNotFinalApprover
		}
		next.FinalDecidedBy = &actorID
		next.FinalDecidedAt = &at
		if d.approve {
			next.Status = leave.StatusApproved
		} else {
			next.Status = leave.StatusRejected
		}
	}

	if !d.approve {
		next.RejectionReason = d.reason
	}
	next.UpdatedAt = at
	return next, nil
}
