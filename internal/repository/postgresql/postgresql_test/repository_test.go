package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/compoff"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	managerID  = "00000000-0000-0000-0000-00000000000a"
	employeeID = "00000000-0000-0000-0000-00000000000b"
	hrID       = "00000000-0000-0000-0000-00000000000c"
)

func seedUsers(t *testing.T, s *TestDatabaseSetup) {
	s.CreateUser(t, managerID, "Meera Manager", "manager", nil)
	mgr := managerID
	s.CreateUser(t, employeeID, "Arun Employee", "employee", &mgr)
	s.CreateUser(t, hrID, "Hema HR", "HR", nil)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUserRepository(t *testing.T) {
	s := NewTestDatabase(t)
	seedUsers(t, s)
	repo := postgresql.NewUserRepository(s.DB)
	ctx := context.Background()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Arun Employee", all[0].FullName)

	emp, err := repo.GetByID(ctx, employeeID)
	require.NoError(t, err)
	require.NotNil(t, emp.ManagerID)
	assert.Equal(t, managerID, *emp.ManagerID)
	assert.Equal(t, user.RoleEmployee, emp.Role)

	hr, err := repo.GetByID(ctx, hrID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleHR, hr.Role)

	subset, err := repo.ListByIDs(ctx, []string{hrID, managerID})
	require.NoError(t, err)
	assert.Len(t, subset, 2)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestEventRepository(t *testing.T) {
	s := NewTestDatabase(t)
	seedUsers(t, s)
	repo := postgresql.NewEventRepository(s.DB)
	ctx := context.Background()

	base := time.Date(2025, 3, 3, 3, 30, 0, 0, time.UTC)
	in := attendance.Event{ID: uuid.NewString(), UserID: employeeID, Timestamp: base, Type: attendance.EventCheckIn}
	created, err := repo.Create(ctx, in)
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	n, err := repo.CreateBatch(ctx, []attendance.Event{
		{ID: uuid.NewString(), UserID: employeeID, Timestamp: base.Add(8 * time.Hour), Type: attendance.EventCheckOut},
		{ID: uuid.NewString(), UserID: hrID, Timestamp: base.Add(time.Hour), Type: attendance.EventCheckIn},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	events, err := repo.ListByRange(ctx, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, in.ID, events[0].ID)
	assert.Equal(t, hrID, events[1].UserID)
	require.NotNil(t, events[1].UserName)
	assert.Equal(t, "Hema HR", *events[1].UserName)

	last, err := repo.LastForUser(ctx, employeeID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, attendance.EventCheckOut, last.Type)

	none, err := repo.LastForUser(ctx, managerID)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestLeaveRepositories_DecisionInTransaction(t *testing.T) {
	s := NewTestDatabase(t)
	seedUsers(t, s)
	requests := postgresql.NewLeaveRequestRepository(s.DB)
	balances := postgresql.NewBalanceRepository(s.DB)
	tx := postgresql.NewTxManager(s.DB)
	ctx := context.Background()

	mgr := managerID
	req := leave.LeaveRequest{
		ID:          uuid.NewString(),
		UserID:      employeeID,
		LeaveType:   leave.LeaveTypeSick,
		StartDate:   day(2025, 3, 3),
		EndDate:     day(2025, 3, 5),
		DayOption:   leave.DayOptionFull,
		Reason:      "flu",
		Status:      leave.StatusPendingManagerApproval,
		ManagerID:   &mgr,
		SubmittedAt: time.Now().UTC(),
	}
	_, err := requests.Create(ctx, req)
	require.NoError(t, err)

	inbox, err := requests.List(ctx, leave.LeaveRequestFilter{
		ManagerID: &mgr,
		Status:    []leave.LeaveRequestStatus{leave.StatusPendingManagerApproval},
	})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.NotNil(t, inbox[0].UserName)
	assert.Equal(t, "Arun Employee", *inbox[0].UserName)

	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := requests.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		locked.Status = leave.StatusApproved
		if err := requests.UpdateDecision(ctx, locked); err != nil {
			return err
		}
		return balances.IncrementUsed(ctx, employeeID, leave.LeaveTypeSick, 2025, decimal.NewFromInt(3))
	})
	require.NoError(t, err)

	got, err := requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, got.Status)
	assert.True(t, day(2025, 3, 5).Equal(got.EndDate))

	require.NoError(t, balances.IncrementUsed(ctx, employeeID, leave.LeaveTypeSick, 2025, decimal.RequireFromString("0.5")))
	list, err := balances.ListByUser(ctx, employeeID, 2025)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "3.5", list[0].Used.String())

	start, end := day(2025, 3, 4), day(2025, 3, 4)
	overlapping, err := requests.List(ctx, leave.LeaveRequestFilter{
		StartDate: &start,
		EndDate:   &end,
		Status:    []leave.LeaveRequestStatus{leave.StatusApproved},
	})
	require.NoError(t, err)
	assert.Len(t, overlapping, 1)

	_, err = requests.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveRepositories_RollbackOnError(t *testing.T) {
	s := NewTestDatabase(t)
	seedUsers(t, s)
	balances := postgresql.NewBalanceRepository(s.DB)
	tx := postgresql.NewTxManager(s.DB)
	ctx := context.Background()

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := balances.IncrementUsed(ctx, employeeID, leave.LeaveTypeEarned, 2025, decimal.NewFromInt(2)); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	list, err := balances.ListByUser(ctx, employeeID, 2025)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPolicyRepository(t *testing.T) {
	s := NewTestDatabase(t)
	repo := postgresql.NewPolicyRepository(s.DB)
	ctx := context.Background()

	set, err := repo.GetAttendancePolicy(ctx)
	require.NoError(t, err)
	assert.Equal(t, policy.DefaultPolicySet().Field.MinimumHoursFullDay, set.Field.MinimumHoursFullDay)

	_, err = repo.UpsertPolicy(ctx, policy.AttendancePolicy{
		StaffType:                         policy.StaffTypeOffice,
		MinimumHoursFullDay:               9,
		MinimumHoursHalfDay:               4.5,
		SickLeaveCertificateThresholdDays: 3,
	})
	require.NoError(t, err)

	set, err = repo.GetAttendancePolicy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9.0, set.Office.MinimumHoursFullDay)
	assert.Equal(t, 4.5, set.Office.MinimumHoursHalfDay)
	assert.Equal(t, 3, set.Office.SickLeaveCertificateThresholdDays)

	holi := policy.Holiday{Date: day(2025, 3, 14), StaffType: policy.StaffTypeField, Name: "Holi"}
	_, err = repo.CreateHoliday(ctx, holi)
	require.NoError(t, err)
	_, err = repo.CreateHoliday(ctx, holi)
	assert.ErrorIs(t, err, policy.ErrHolidayExists)

	holidays, err := repo.GetHolidays(ctx)
	require.NoError(t, err)
	assert.Empty(t, holidays.Office)
	require.Len(t, holidays.Field, 1)
	assert.Equal(t, "Holi", holidays.Field[0].Name)

	require.NoError(t, repo.DeleteHoliday(ctx, policy.StaffTypeField, holi.Date))
	assert.ErrorIs(t, repo.DeleteHoliday(ctx, policy.StaffTypeField, holi.Date), policy.ErrHolidayNotFound)
}

func TestCompOffRepository(t *testing.T) {
	s := NewTestDatabase(t)
	seedUsers(t, s)
	repo := postgresql.NewCompOffRepository(s.DB)
	ctx := context.Background()

	_, err := s.DB.Exec(ctx, `
		INSERT INTO comp_off_credits (id, user_id, worked_date, days)
		VALUES ($1, $2, $3, 1.5)
	`, uuid.NewString(), employeeID, day(2025, 3, 8))
	require.NoError(t, err)

	history, err := repo.History(ctx, nil, day(2025, 3, 1), day(2025, 3, 31))
	require.NoError(t, err)
	require.True(t, history.IsAvailable())
	require.Len(t, history.Credits, 1)
	assert.Equal(t, "1.5", history.Credits[0].Days.String())

	history, err = repo.History(ctx, []string{hrID}, day(2025, 3, 1), day(2025, 3, 31))
	require.NoError(t, err)
	assert.Empty(t, history.Credits)

	_, err = s.DB.Exec(ctx, "DROP TABLE comp_off_credits")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Migrate(context.Background(), "002_comp_off.sql")
	})

	history, err = repo.History(ctx, nil, day(2025, 3, 1), day(2025, 3, 31))
	require.NoError(t, err)
	assert.Equal(t, compoff.Unavailable, history.Availability)
}
