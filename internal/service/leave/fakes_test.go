package leave

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/user"
	"github.com/shopspring/decimal"
)

type fakeTx struct{ calls int }

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeRequests struct {
	mu        sync.Mutex
	byID      map[string]leave.LeaveRequest
	createErr error
}

func newFakeRequests() *fakeRequests {
	return &fakeRequests{byID: make(map[string]leave.LeaveRequest)}
}

func (f *fakeRequests) Create(ctx context.Context, r leave.LeaveRequest) (leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return leave.LeaveRequest{}, f.createErr
	}
	f.byID[r.ID] = r
	return r, nil
}

func (f *fakeRequests) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r, nil
}

func (f *fakeRequests) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeRequests) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []leave.LeaveRequest
	for _, r := range f.byID {
		if len(filter.UserIDs) > 0 && !contains(filter.UserIDs, r.UserID) {
			continue
		}
		if len(filter.Status) > 0 && !containsStatus(filter.Status, r.Status) {
			continue
		}
		if filter.ManagerID != nil && (r.ManagerID == nil || *r.ManagerID != *filter.ManagerID) {
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
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRequests) UpdateDecision(ctx context.Context, r leave.LeaveRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[r.ID]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	f.byID[r.ID] = r
	return nil
}

type balanceKey struct {
	userID    string
	leaveType leave.LeaveType
	year      int
}

type fakeBalances struct {
	mu   sync.Mutex
	used map[balanceKey]decimal.Decimal
	err  error
}

func newFakeBalances() *fakeBalances {
	return &fakeBalances{used: make(map[balanceKey]decimal.Decimal)}
}

func (f *fakeBalances) ListByUser(ctx context.Context, userID string, year int) ([]leave.Balance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []leave.Balance
	for _, lt := range leave.AllLeaveTypes {
		if used, ok := f.used[balanceKey{userID, lt, year}]; ok {
			out = append(out, leave.Balance{UserID: userID, LeaveType: lt, Year: year, Total: decimal.NewFromInt(12), Used: used})
		}
	}
	return out, nil
}

func (f *fakeBalances) IncrementUsed(ctx context.Context, userID string, lt leave.LeaveType, year int, days decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	k := balanceKey{userID, lt, year}
	f.used[k] = f.used[k].Add(days)
	return nil
}

func (f *fakeBalances) usedFor(userID string, lt leave.LeaveType, year int) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.used[balanceKey{userID, lt, year}]
}

type fakeUsers map[string]user.User

func (f fakeUsers) List(ctx context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range f {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (f fakeUsers) ListByIDs(ctx context.Context, ids []string) ([]user.User, error) {
	var out []user.User
	for _, id := range ids {
		if u, ok := f[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f fakeUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

type fakePolicies struct {
	set policy.PolicySet
}

func (f fakePolicies) GetAttendancePolicy(ctx context.Context) (policy.PolicySet, error) {
	return f.set, nil
}

func (f fakePolicies) GetHolidays(ctx context.Context) (policy.Holidays, error) {
	return policy.Holidays{}, nil
}

func (f fakePolicies) UpsertPolicy(ctx context.Context, p policy.AttendancePolicy) (policy.AttendancePolicy, error) {
	return policy.AttendancePolicy{}, errors.New("not supported")
}

func (f fakePolicies) CreateHoliday(ctx context.Context, h policy.Holiday) (policy.Holiday, error) {
	return policy.Holiday{}, errors.New("not supported")
}

func (f fakePolicies) DeleteHoliday(ctx context.Context, staffType policy.StaffType, date time.Time) error {
	return errors.New("not supported")
}

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func attachment(name string, body []byte) (multipart.File, *multipart.FileHeader) {
	return memFile{bytes.NewReader(body)}, &multipart.FileHeader{Filename: name, Size: int64(len(body))}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsStatus(list []leave.LeaveRequestStatus, v leave.LeaveRequestStatus) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}
