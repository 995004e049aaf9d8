package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

const leaveRequestColumns = `
	lr.id::text, lr.user_id::text, lr.leave_type, lr.start_date, lr.end_date, lr.day_option,
	lr.reason, lr.attachment_path, lr.status, lr.manager_id::text,
	lr.manager_decided_by::text, lr.manager_decided_at, lr.final_decided_by::text, lr.final_decided_at,
	lr.rejection_reason, lr.submitted_at, lr.created_at, lr.updated_at, u.full_name
`

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, user_id, leave_type, start_date, end_date, day_option,
			reason, attachment_path, status, manager_id, submitted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID,
		request.UserID,
		string(request.LeaveType),
		request.StartDate,
		request.EndDate,
		string(request.DayOption),
		request.Reason,
		request.AttachmentPath,
		string(request.Status),
		request.ManagerID,
		request.SubmittedAt,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.get(ctx, id, true)
}

func (r *leaveRequestRepositoryImpl) get(ctx context.Context, id string, forUpdate bool) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		LEFT JOIN users u ON u.id = lr.user_id
		WHERE lr.id::text = $1
	`
	if forUpdate {
		query += " FOR UPDATE OF lr"
	}

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return lr, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIndex := 1

	if len(filter.UserIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("lr.user_id::text = ANY($%d)", argIndex))
		args = append(args, filter.UserIDs)
		argIndex++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("lr.end_date >= $%d", argIndex))
		args = append(args, *filter.StartDate)
		argIndex++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("lr.start_date <= $%d", argIndex))
		args = append(args, *filter.EndDate)
		argIndex++
	}
	if len(filter.Status) > 0 {
		statuses := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			statuses[i] = string(s)
		}
		conditions = append(conditions, fmt.Sprintf("lr.status = ANY($%d)", argIndex))
		args = append(args, statuses)
		argIndex++
	}
	if filter.ManagerID != nil {
		conditions = append(conditions, fmt.Sprintf("lr.manager_id::text = $%d", argIndex))
		args = append(args, *filter.ManagerID)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests lr
		LEFT JOIN users u ON u.id = lr.user_id
		%s
		ORDER BY lr.start_date, lr.submitted_at, lr.id
	`, leaveRequestColumns, whereClause)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// UpdateDecision implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateDecision(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1,
			manager_decided_by = $2,
			manager_decided_at = $3,
			final_decided_by = $4,
			final_decided_at = $5,
			rejection_reason = $6,
			updated_at = NOW()
		WHERE id::text = $7
	`

	tag, err := q.Exec(ctx, query,
		string(request.Status),
		request.ManagerDecidedBy,
		request.ManagerDecidedAt,
		request.FinalDecidedBy,
		request.FinalDecidedAt,
		request.RejectionReason,
		request.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	var leaveType, dayOption, status string
	err := row.Scan(
		&lr.ID,
		&lr.UserID,
		&leaveType,
		&lr.StartDate,
		&lr.EndDate,
		&dayOption,
		&lr.Reason,
		&lr.AttachmentPath,
		&status,
		&lr.ManagerID,
		&lr.ManagerDecidedBy,
		&lr.ManagerDecidedAt,
		&lr.FinalDecidedBy,
		&lr.FinalDecidedAt,
		&lr.RejectionReason,
		&lr.SubmittedAt,
		&lr.CreatedAt,
		&lr.UpdatedAt,
		&lr.UserName,
	)
	lr.LeaveType = leave.LeaveType(leaveType)
	lr.DayOption = leave.DayOption(dayOption)
	lr.Status = leave.LeaveRequestStatus(status)
	return lr, err
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}
