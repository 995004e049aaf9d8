package leave

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRequestRepository
	leave.BalanceRepository
	users     user.UserRepository
	policies  policy.Repository
	storage   storage.FileStorage
	finalRole user.Role
	now       func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	requestRepository leave.LeaveRequestRepository,
	balanceRepository leave.BalanceRepository,
	userRepository user.UserRepository,
	policies policy.Repository,
	fileStorage storage.FileStorage,
	finalRole user.Role,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: requestRepository,
		BalanceRepository:      balanceRepository,
		users:                  userRepository,
		policies:               policies,
		storage:                fileStorage,
		finalRole:              user.NormalizeRole(string(finalRole)),
		now:                    time.Now,
	}
}

// WithClock replaces the decision timestamp source.
func (s *LeaveServiceImpl) WithClock(now func() time.Time) *LeaveServiceImpl {
	s.now = now
	return s
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	requester, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get requester: %w", err)
	}

	policies, err := s.policies.GetAttendancePolicy(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get attendance policy: %w", err)
	}
	threshold := policies.For(requester.StaffType()).SickLeaveCertificateThresholdDays

	if leave.LeaveType(req.LeaveType) == leave.LeaveTypeSick && req.DayCount() > threshold && !req.HasAttachment() {
		return leave.LeaveRequestResponse{}, validator.ValidationErrors{{
			Field:   "attachment",
			Message: fmt.Sprintf("%s: sick leave longer than %d days needs a certificate", leave.ErrCertificateRequired.Error(), threshold),
		}}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to generate leave request id: %w", err)
	}

	startDate, _ := dateutil.Parse(req.StartDate)
	endDate, _ := dateutil.Parse(req.EndDate)
	now := s.now()

	request := leave.LeaveRequest{
		ID:          id.String(),
		UserID:      requester.ID,
		LeaveType:   leave.LeaveType(req.LeaveType),
		StartDate:   startDate,
		EndDate:     endDate,
		DayOption:   leave.DayOption(req.DayOption),
		Reason:      strings.TrimSpace(req.Reason),
		Status:      initialStatus(requester),
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if requester.HasManager() {
		managerID := *requester.ManagerID
		request.ManagerID = &managerID
	}

	if req.HasAttachment() {
		ext := strings.ToLower(filepath.Ext(req.FileHeader.Filename))
		path := fmt.Sprintf("leave/%s/%s%s", requester.ID, request.ID, ext)
		stored, err := s.storage.Upload(ctx, req.File, path)
		if err != nil {
			return leave.LeaveRequestResponse{}, fmt.Errorf("failed to store attachment: %w", err)
		}
		request.AttachmentPath = &stored
	}

	created, err := s.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		if request.AttachmentPath != nil {
			if delErr := s.storage.Delete(ctx, *request.AttachmentPath); delErr != nil {
				slog.Warn("Failed to remove orphaned attachment", "path", *request.AttachmentPath, "error", delErr)
			}
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.Info("Leave request submitted",
		"request_id", created.ID,
		"user_id", created.UserID,
		"leave_type", created.LeaveType,
		"status", created.Status,
	)
	return s.toResponse(created), nil
}

// ManagerDecide implements leave.LeaveService.
func (s *LeaveServiceImpl) ManagerDecide(ctx context.Context, actor user.Actor, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	return s.decide(ctx, actor, req, stepManager)
}

// FinalDecide implements leave.LeaveService.
func (s *LeaveServiceImpl) FinalDecide(ctx context.Context, actor user.Actor, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	return s.decide(ctx, actor, req, stepFinal)
}

func (s *LeaveServiceImpl) decide(ctx context.Context, actor user.Actor, req leave.DecisionRequest, st step) (leave.LeaveRequestResponse, error) {
	if actor.UserID == "" {
		return leave.LeaveRequestResponse{}, user.ErrActorMissing
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var decided leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.LeaveRequestRepository.GetByIDForUpdate(txCtx, req.RequestID)
		if err != nil {
			return err
		}

		next, err := transition(current, st, decision{
			actor:     actor,
			approve:   req.Approve,
			reason:    req.Reason,
			finalRole: s.finalRole,
			at:        s.now(),
		})
		if err != nil {
			return err
		}

		if err := s.LeaveRequestRepository.UpdateDecision(txCtx, next); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		if next.Status == leave.StatusApproved {
			for year, days := range chargesByYear(next) {
				if err := s.BalanceRepository.IncrementUsed(txCtx, next.UserID, next.LeaveType, year, days); err != nil {
					return fmt.Errorf("failed to charge leave balance: %w", err)
				}
			}
		}

		decided = next
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request decided",
		"request_id", decided.ID,
		"actor_id", actor.UserID,
		"approve", req.Approve,
		"status", decided.Status,
	)
	return s.toResponse(decided), nil
}

// chargesByYear splits a request's chargeable days across the calendar years
// it covers, so a December–January request charges both balances.
func chargesByYear(r leave.LeaveRequest) map[int]decimal.Decimal {
	perDay := decimal.NewFromInt(1)
	if r.DayOption == leave.DayOptionHalf {
		perDay = decimal.NewFromFloat(0.5)
	}
	charges := make(map[int]decimal.Decimal)
	for _, day := range dateutil.Range(r.StartDate, r.EndDate) {
		charges[day.Year()] = charges[day.Year()].Add(perDay)
	}
	return charges
}

// Get implements leave.LeaveService. Requesters, their manager, the final
// approver role and admins may read a request.
func (s *LeaveServiceImpl) Get(ctx context.Context, actor user.Actor, requestID string) (leave.LeaveRequestResponse, error) {
	if actor.UserID == "" {
		return leave.LeaveRequestResponse{}, user.ErrActorMissing
	}

	if !validator.IsValidUUID(requestID) {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	role := user.NormalizeRole(string(actor.Role))
	allowed := request.UserID == actor.UserID ||
		(request.ManagerID != nil && *request.ManagerID == actor.UserID) ||
		role == s.finalRole ||
		role == user.RoleAdmin
	if !allowed {
		return leave.LeaveRequestResponse{}, user.ErrInsufficientRole
	}

	return s.toResponse(request), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.ListLeaveRequestFilter) ([]leave.LeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	requests, err := s.LeaveRequestRepository.List(ctx, filter.ToFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return s.toResponses(requests), nil
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, actor user.Actor) ([]leave.LeaveRequestResponse, error) {
	if actor.UserID == "" {
		return nil, user.ErrActorMissing
	}

	requests, err := s.LeaveRequestRepository.List(ctx, leave.LeaveRequestFilter{UserIDs: []string{actor.UserID}})
	if err != nil {
		return nil, fmt.Errorf("failed to list own leave requests: %w", err)
	}
	return s.toResponses(requests), nil
}

// ListPending implements leave.LeaveService. Managers see requests awaiting
// their approval; the final approver role and admins also see every request
// awaiting confirmation. The actor's own requests are never in their inbox.
func (s *LeaveServiceImpl) ListPending(ctx context.Context, actor user.Actor) ([]leave.LeaveRequestResponse, error) {
	if actor.UserID == "" {
		return nil, user.ErrActorMissing
	}

	managerID := actor.UserID
	pending, err := s.LeaveRequestRepository.List(ctx, leave.LeaveRequestFilter{
		ManagerID: &managerID,
		Status:    []leave.LeaveRequestStatus{leave.StatusPendingManagerApproval},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list manager inbox: %w", err)
	}

	if confirms(actor.Role, s.finalRole) {
		awaiting, err := s.LeaveRequestRepository.List(ctx, leave.LeaveRequestFilter{
			Status: []leave.LeaveRequestStatus{leave.StatusPendingHRConfirmation},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list confirmation inbox: %w", err)
		}
		pending = append(pending, awaiting...)
	}

	inbox := pending[:0]
	for _, r := range pending {
		if r.UserID != actor.UserID {
			inbox = append(inbox, r)
		}
	}
	sort.SliceStable(inbox, func(i, j int) bool {
		if !inbox[i].SubmittedAt.Equal(inbox[j].SubmittedAt) {
			return inbox[i].SubmittedAt.Before(inbox[j].SubmittedAt)
		}
		return inbox[i].ID < inbox[j].ID
	})
	return s.toResponses(inbox), nil
}

// Balances implements leave.LeaveService.
func (s *LeaveServiceImpl) Balances(ctx context.Context, userID string, year int) ([]leave.BalanceResponse, error) {
	if userID == "" {
		return nil, user.ErrActorMissing
	}
	if year == 0 {
		year = s.now().Year()
	}

	balances, err := s.BalanceRepository.ListByUser(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave balances: %w", err)
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.NewBalanceResponse(b))
	}
	return responses, nil
}

func (s *LeaveServiceImpl) toResponse(r leave.LeaveRequest) leave.LeaveRequestResponse {
	resp := leave.NewLeaveRequestResponse(r)
	if r.AttachmentPath != nil && *r.AttachmentPath != "" {
		url := s.storage.URL(*r.AttachmentPath)
		resp.AttachmentURL = &url
	}
	return resp
}

func (s *LeaveServiceImpl) toResponses(requests []leave.LeaveRequest) []leave.LeaveRequestResponse {
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, s.toResponse(r))
	}
	return responses
}

var _ leave.LeaveService = (*LeaveServiceImpl)(nil)
