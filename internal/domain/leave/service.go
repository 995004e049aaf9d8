package leave

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/user"
)

// LeaveService drives the approval state machine.
type LeaveService interface {
	// Submit validates and routes a new request to the first pending state.
	Submit(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	// ManagerDecide moves pending_manager_approval to pending_hr_confirmation or rejected.
	ManagerDecide(ctx context.Context, actor user.Actor, req DecisionRequest) (LeaveRequestResponse, error)
	// FinalDecide moves pending_hr_confirmation to approved or rejected.
	FinalDecide(ctx context.Context, actor user.Actor, req DecisionRequest) (LeaveRequestResponse, error)

	Get(ctx context.Context, actor user.Actor, requestID string) (LeaveRequestResponse, error)
	List(ctx context.Context, filter ListLeaveRequestFilter) ([]LeaveRequestResponse, error)
	ListMine(ctx context.Context, actor user.Actor) ([]LeaveRequestResponse, error)
	// ListPending is the actor's inbox: requests waiting on their decision.
	ListPending(ctx context.Context, actor user.Actor) ([]LeaveRequestResponse, error)
	Balances(ctx context.Context, userID string, year int) ([]BalanceResponse, error)
}
