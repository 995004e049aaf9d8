package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/compoff"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-engine/internal/service/status"
	"golang.org/x/sync/errgroup"
)

// Dataset is everything one aggregation needs, fetched before any derivation.
type Dataset struct {
	Users   []user.User
	Start   time.Time
	End     time.Time
	Facts   status.Facts
	CompOff compoff.History
}

// Evaluate runs the status engine over the whole dataset.
func (d Dataset) Evaluate(today time.Time) status.Grid {
	return status.Evaluate(d.Users, d.Start, d.End, today, d.Facts)
}

// Loader issues the batched fetches for a range concurrently.
type Loader struct {
	users    user.UserRepository
	events   attendance.EventRepository
	leaves   leave.LeaveRequestRepository
	policies policy.Repository
	compOff  compoff.Repository
	loc      *time.Location
}

// NewLoader builds a loader. compOff may be nil in deployments without the
// comp-off module; the dashboard then reports the panel as unavailable.
func NewLoader(
	users user.UserRepository,
	events attendance.EventRepository,
	leaves leave.LeaveRequestRepository,
	policies policy.Repository,
	compOff compoff.Repository,
	loc *time.Location,
) *Loader {
	if loc == nil {
		loc = time.UTC
	}
	return &Loader{
		users:    users,
		events:   events,
		leaves:   leaves,
		policies: policies,
		compOff:  compOff,
		loc:      loc,
	}
}

// Location is the organization timezone the loader places events in.
func (l *Loader) Location() *time.Location {
	return l.loc
}

// Load fetches users, events, approved leave, holidays, policies and comp-off
// history for [start, end]. Any failure other than a missing comp-off table
// fails the whole load with report.ErrDataUnavailable; nothing partial is
// returned.
func (l *Loader) Load(ctx context.Context, userIDs []string, start, end time.Time) (Dataset, error) {
	start, end = dateutil.Truncate(start), dateutil.Truncate(end)

	var (
		users    []user.User
		events   []attendance.Event
		requests []leave.LeaveRequest
		holidays policy.Holidays
		policies policy.PolicySet
		history  compoff.History
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Users
	g.Go(func() error {
		var err error
		if len(userIDs) == 0 {
			users, err = l.users.List(gCtx)
		} else {
			users, err = l.users.ListByIDs(gCtx, userIDs)
		}
		if err != nil {
			return unavailable("users", err)
		}
		return nil
	})

	// 2. Events in [start 00:00, end+1 00:00) in the org timezone
	g.Go(func() error {
		from := dateutil.StartOf(start, l.loc)
		to := dateutil.StartOf(dateutil.AddDays(end, 1), l.loc)
		var err error
		if events, err = l.events.ListByRange(gCtx, from, to); err != nil {
			return unavailable("attendance events", err)
		}
		return nil
	})

	// 3. Approved leave overlapping the range
	g.Go(func() error {
		filter := leave.LeaveRequestFilter{
			UserIDs:   userIDs,
			StartDate: &start,
			EndDate:   &end,
			Status:    []leave.LeaveRequestStatus{leave.StatusApproved},
		}
		var err error
		if requests, err = l.leaves.List(gCtx, filter); err != nil {
			return unavailable("approved leave", err)
		}
		return nil
	})

	// 4. Holidays
	g.Go(func() error {
		var err error
		if holidays, err = l.policies.GetHolidays(gCtx); err != nil {
			return unavailable("holidays", err)
		}
		return nil
	})

	// 5. Policies
	g.Go(func() error {
		var err error
		if policies, err = l.policies.GetAttendancePolicy(gCtx); err != nil {
			return unavailable("attendance policy", err)
		}
		return nil
	})

	// 6. Comp-off history (optional feature)
	g.Go(func() error {
		if l.compOff == nil {
			history = compoff.UnavailableHistory("comp-off tracking is not enabled")
			return nil
		}
		var err error
		if history, err = l.compOff.History(gCtx, userIDs, start, end); err != nil {
			return unavailable("comp-off history", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Dataset{}, err
	}

	selected := make(map[string]bool, len(users))
	for _, u := range users {
		selected[u.ID] = true
	}

	scoped := make([]attendance.Event, 0, len(events))
	for _, ev := range events {
		if selected[ev.UserID] {
			scoped = append(scoped, ev)
		}
	}

	spans := make([]leave.Span, 0, len(requests))
	for _, r := range requests {
		if r.Status == leave.StatusApproved && selected[r.UserID] {
			spans = append(spans, r.Span())
		}
	}

	return Dataset{
		Users: users,
		Start: start,
		End:   end,
		Facts: status.Facts{
			Events:   scoped,
			Spans:    spans,
			Holidays: policy.NewHolidayCalendar(holidays),
			Policies: policies,
			Location: l.loc,
		},
		CompOff: history,
	}, nil
}

func unavailable(what string, err error) error {
	return fmt.Errorf("%w: failed to load %s: %w", report.ErrDataUnavailable, what, err)
}
