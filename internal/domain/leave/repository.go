package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	// GetByIDForUpdate locks the row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)
	// UpdateDecision persists status and decision audit fields.
	UpdateDecision(ctx context.Context, request LeaveRequest) error
}

// BalanceRepository - interface for leave_balances table
type BalanceRepository interface {
	ListByUser(ctx context.Context, userID string, year int) ([]Balance, error)
	// IncrementUsed adds days to used, creating a zero-total row when missing.
	IncrementUsed(ctx context.Context, userID string, leaveType LeaveType, year int, days decimal.Decimal) error
}
