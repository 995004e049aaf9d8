package http

import (
	"context"
	"io"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/user"
)

type fakeAttendance struct {
	clockReqs []attendance.ClockRequest
	clockErr  error
	statusFor string
	statusDay string
}

func (f *fakeAttendance) ClockIn(ctx context.Context, req attendance.ClockRequest) (attendance.EventResponse, error) {
	f.clockReqs = append(f.clockReqs, req)
	if f.clockErr != nil {
		return attendance.EventResponse{}, f.clockErr
	}
	return attendance.EventResponse{ID: "evt-1", UserID: req.UserID, Type: string(attendance.EventCheckIn)}, nil
}

func (f *fakeAttendance) ClockOut(ctx context.Context, req attendance.ClockRequest) (attendance.EventResponse, error) {
	f.clockReqs = append(f.clockReqs, req)
	if f.clockErr != nil {
		return attendance.EventResponse{}, f.clockErr
	}
	return attendance.EventResponse{ID: "evt-2", UserID: req.UserID, Type: string(attendance.EventCheckOut)}, nil
}

func (f *fakeAttendance) Import(ctx context.Context, req attendance.ImportEventsRequest) (attendance.ImportEventsResponse, error) {
	return attendance.ImportEventsResponse{Imported: len(req.Events)}, nil
}

func (f *fakeAttendance) GetDailyStatus(ctx context.Context, userID string, date string) (attendance.DailyStatusResponse, error) {
	f.statusFor, f.statusDay = userID, date
	return attendance.DailyStatusResponse{UserID: userID, Date: "2025-03-05", Status: string(attendance.StatusIncomplete), ProvisionallyPresent: true}, nil
}

type fakeLeave struct {
	submitted   *leave.CreateLeaveRequestRequest
	attachment  []byte
	decisions   []leave.DecisionRequest
	decisionErr error
	actor       user.Actor
	year        int
}

func (f *fakeLeave) Submit(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	f.submitted = &req
	if req.File != nil {
		f.attachment, _ = io.ReadAll(req.File)
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.LeaveRequestResponse{ID: "lr-1", UserID: req.UserID, Status: string(leave.StatusPendingManagerApproval)}, nil
}

func (f *fakeLeave) ManagerDecide(ctx context.Context, actor user.Actor, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	return f.decide(actor, req, leave.StatusPendingHRConfirmation)
}

func (f *fakeLeave) FinalDecide(ctx context.Context, actor user.Actor, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	return f.decide(actor, req, leave.StatusApproved)
}

func (f *fakeLeave) decide(actor user.Actor, req leave.DecisionRequest, next leave.LeaveRequestStatus) (leave.LeaveRequestResponse, error) {
	f.actor = actor
	f.decisions = append(f.decisions, req)
	if f.decisionErr != nil {
		return leave.LeaveRequestResponse{}, f.decisionErr
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.LeaveRequestResponse{ID: req.RequestID, Status: string(next)}, nil
}

func (f *fakeLeave) Get(ctx context.Context, actor user.Actor, requestID string) (leave.LeaveRequestResponse, error) {
	return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
}

func (f *fakeLeave) List(ctx context.Context, filter leave.ListLeaveRequestFilter) ([]leave.LeaveRequestResponse, error) {
	return []leave.LeaveRequestResponse{{ID: "lr-1"}, {ID: "lr-2"}}, nil
}

func (f *fakeLeave) ListMine(ctx context.Context, actor user.Actor) ([]leave.LeaveRequestResponse, error) {
	f.actor = actor
	return []leave.LeaveRequestResponse{}, nil
}

func (f *fakeLeave) ListPending(ctx context.Context, actor user.Actor) ([]leave.LeaveRequestResponse, error) {
	f.actor = actor
	return []leave.LeaveRequestResponse{}, nil
}

func (f *fakeLeave) Balances(ctx context.Context, userID string, year int) ([]leave.BalanceResponse, error) {
	f.year = year
	return []leave.BalanceResponse{{LeaveType: "earned", Year: 2025, Total: "12", Used: "1.5", Available: "10.5"}}, nil
}

type fakeReports struct {
	query report.Query
	err   error
}

func (f *fakeReports) ComputeDashboard(ctx context.Context, q report.Query) (report.Dashboard, error) {
	f.query = q
	if f.err != nil {
		return report.Dashboard{}, f.err
	}
	return report.Dashboard{StartDate: q.StartDate, EndDate: q.EndDate, TotalEmployees: 2}, nil
}

func (f *fakeReports) ComputeBasicReport(ctx context.Context, q report.Query) (report.BasicReport, error) {
	f.query = q
	if f.err != nil {
		return report.BasicReport{}, f.err
	}
	return report.BasicReport{
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Rows: []report.BasicReportRow{
			{UserID: "emp-1", UserName: "Arun", Date: q.StartDate, Status: "Present", Code: "present"},
		},
	}, nil
}

func (f *fakeReports) ComputeMuster(ctx context.Context, q report.Query) (report.Muster, error) {
	f.query = q
	if f.err != nil {
		return report.Muster{}, f.err
	}
	return report.Muster{
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Days:      []string{q.StartDate},
		Rows: []report.MusterRow{
			{UserID: "emp-1", UserName: "Arun", Codes: []string{"P"}, Totals: map[string]int{"P": 1}},
		},
	}, nil
}

func (f *fakeReports) CollectEventLog(ctx context.Context, q report.Query) (report.EventLog, error) {
	f.query = q
	if f.err != nil {
		return report.EventLog{}, f.err
	}
	return report.EventLog{StartDate: q.StartDate, EndDate: q.EndDate, Events: []report.EventLogEntry{}}, nil
}

type fakePolicy struct {
	updated   *policy.UpdatePolicyRequest
	deleted   time.Time
	deleteErr error
}

func (f *fakePolicy) GetPolicies(ctx context.Context) (policy.PolicySetResponse, error) {
	set := policy.DefaultPolicySet()
	return policy.PolicySetResponse{Office: policy.NewPolicyResponse(set.Office), Field: policy.NewPolicyResponse(set.Field)}, nil
}

func (f *fakePolicy) UpdatePolicy(ctx context.Context, req policy.UpdatePolicyRequest) (policy.PolicyResponse, error) {
	f.updated = &req
	if err := req.Validate(); err != nil {
		return policy.PolicyResponse{}, err
	}
	return policy.PolicyResponse{StaffType: req.StaffType, MinimumHoursFullDay: req.MinimumHoursFullDay}, nil
}

func (f *fakePolicy) ListHolidays(ctx context.Context, staffType *policy.StaffType) ([]policy.HolidayResponse, error) {
	return []policy.HolidayResponse{}, nil
}

func (f *fakePolicy) CreateHoliday(ctx context.Context, req policy.CreateHolidayRequest) (policy.HolidayResponse, error) {
	return policy.HolidayResponse{}, policy.ErrHolidayExists
}

func (f *fakePolicy) DeleteHoliday(ctx context.Context, staffType policy.StaffType, date time.Time) error {
	f.deleted = date
	return f.deleteErr
}
