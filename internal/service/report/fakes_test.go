package report

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/compoff"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/user"
)

type fakeUsers struct {
	users []user.User
	err   error
}

func (f fakeUsers) List(ctx context.Context) ([]user.User, error) {
	return f.users, f.err
}

func (f fakeUsers) ListByIDs(ctx context.Context, ids []string) ([]user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []user.User
	for _, u := range f.users {
		if want[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f fakeUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

type fakeEvents struct {
	events []attendance.Event
	err    error
}

func (f *fakeEvents) Create(ctx context.Context, e attendance.Event) (attendance.Event, error) {
	f.events = append(f.events, e)
	return e, nil
}

func (f *fakeEvents) CreateBatch(ctx context.Context, events []attendance.Event) (int, error) {
	f.events = append(f.events, events...)
	return len(events), nil
}

func (f *fakeEvents) ListByRange(ctx context.Context, start, end time.Time) ([]attendance.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []attendance.Event
	for _, e := range f.events {
		if !e.Timestamp.Before(start) && e.Timestamp.Before(end) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (f *fakeEvents) LastForUser(ctx context.Context, userID string) (*attendance.Event, error) {
	var last *attendance.Event
	for i := range f.events {
		e := f.events[i]
		if e.UserID == userID && (last == nil || e.Timestamp.After(last.Timestamp)) {
			last = &e
		}
	}
	return last, nil
}

type fakeLeaves struct {
	requests []leave.LeaveRequest
}

func (f fakeLeaves) Create(ctx context.Context, r leave.LeaveRequest) (leave.LeaveRequest, error) {
	return r, nil
}

func (f fakeLeaves) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
}

func (f fakeLeaves) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
}

func (f fakeLeaves) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		if len(filter.Status) > 0 && r.Status != filter.Status[0] {
			continue
		}
		if filter.StartDate != nil && r.EndDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && r.StartDate.After(*filter.EndDate) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f fakeLeaves) UpdateDecision(ctx context.Context, r leave.LeaveRequest) error {
	return nil
}

type fakePolicies struct {
	set      policy.PolicySet
	holidays policy.Holidays
	err      error
}

func (f fakePolicies) GetAttendancePolicy(ctx context.Context) (policy.PolicySet, error) {
	return f.set, f.err
}

func (f fakePolicies) GetHolidays(ctx context.Context) (policy.Holidays, error) {
	return f.holidays, f.err
}

func (f fakePolicies) UpsertPolicy(ctx context.Context, p policy.AttendancePolicy) (policy.AttendancePolicy, error) {
	return p, nil
}

func (f fakePolicies) CreateHoliday(ctx context.Context, h policy.Holiday) (policy.Holiday, error) {
	return h, nil
}

func (f fakePolicies) DeleteHoliday(ctx context.Context, staffType policy.StaffType, date time.Time) error {
	return nil
}

type fakeCompOff struct {
	history compoff.History
	err     error
}

func (f fakeCompOff) History(ctx context.Context, userIDs []string, start, end time.Time) (compoff.History, error) {
	return f.history, f.err
}

var errConnection = errors.New("connection refused")
