package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type balanceRepositoryImpl struct {
	db *database.DB
}

// ListByUser implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) ListByUser(ctx context.Context, userID string, year int) ([]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id::text, leave_type, year, total::text, used::text, updated_at
		FROM leave_balances
		WHERE user_id::text = $1 AND year = $2
		ORDER BY leave_type
	`

	rows, err := q.Query(ctx, query, userID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := []leave.Balance{}
	for rows.Next() {
		var b leave.Balance
		var leaveType, total, used string
		if err := rows.Scan(&b.UserID, &leaveType, &b.Year, &total, &used, &b.UpdatedAt); err != nil {
			return nil, err
		}
		b.LeaveType = leave.LeaveType(leaveType)
		if b.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("invalid total for %s: %w", leaveType, err)
		}
		if b.Used, err = decimal.NewFromString(used); err != nil {
			return nil, fmt.Errorf("invalid used for %s: %w", leaveType, err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// IncrementUsed implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) IncrementUsed(ctx context.Context, userID string, leaveType leave.LeaveType, year int, days decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (user_id, leave_type, year, total, used)
		VALUES ($1, $2, $3, 0, $4::numeric)
		ON CONFLICT (user_id, leave_type, year)
		DO UPDATE SET used = leave_balances.used + EXCLUDED.used, updated_at = NOW()
	`

	_, err := q.Exec(ctx, query, userID, string(leaveType), year, days.String())
	return err
}

func NewBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &balanceRepositoryImpl{db: db}
}
