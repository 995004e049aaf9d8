package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-engine/internal/service/report"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	attendance.EventRepository
	users  user.UserRepository
	loader *report.Loader
	now    func() time.Time
}

func NewAttendanceService(
	eventRepository attendance.EventRepository,
	userRepository user.UserRepository,
	loader *report.Loader,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		EventRepository: eventRepository,
		users:           userRepository,
		loader:          loader,
		now:             time.Now,
	}
}

// WithClock replaces the punch timestamp source.
func (a *AttendanceServiceImpl) WithClock(now func() time.Time) *AttendanceServiceImpl {
	a.now = now
	return a
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockRequest) (attendance.EventResponse, error) {
	return a.clock(ctx, req, attendance.EventCheckIn)
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockRequest) (attendance.EventResponse, error) {
	return a.clock(ctx, req, attendance.EventCheckOut)
}

// clock records a live punch. A check-in is refused while today's session is
// still open and a check-out needs an open session from today; a session left
// open on an earlier day does not block a new check-in.
func (a *AttendanceServiceImpl) clock(ctx context.Context, req attendance.ClockRequest, eventType attendance.EventType) (attendance.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	if _, err := a.users.GetByID(ctx, req.UserID); err != nil {
		return attendance.EventResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	now := a.now().UTC()
	loc := a.loader.Location()

	last, err := a.EventRepository.LastForUser(ctx, req.UserID)
	if err != nil {
		return attendance.EventResponse{}, fmt.Errorf("failed to get last attendance event: %w", err)
	}
	openToday := last != nil &&
		last.Type == attendance.EventCheckIn &&
		dateutil.In(last.Timestamp, loc).Equal(dateutil.In(now, loc))

	switch eventType {
	case attendance.EventCheckIn:
		if openToday {
			return attendance.EventResponse{}, attendance.ErrAlreadyCheckedIn
		}
	case attendance.EventCheckOut:
		if !openToday {
			return attendance.EventResponse{}, attendance.ErrNotCheckedIn
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.EventResponse{}, fmt.Errorf("failed to generate event id: %w", err)
	}

	created, err := a.EventRepository.Create(ctx, attendance.Event{
		ID:        id.String(),
		UserID:    req.UserID,
		Timestamp: now,
		Type:      eventType,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		CreatedAt: now,
	})
	if err != nil {
		return attendance.EventResponse{}, fmt.Errorf("failed to record %s: %w", eventType, err)
	}

	return attendance.NewEventResponse(created), nil
}

// Import implements attendance.AttendanceService. Malformed records and
// records for unknown users are skipped and reported; the rest are stored in
// one batch.
func (a *AttendanceServiceImpl) Import(ctx context.Context, req attendance.ImportEventsRequest) (attendance.ImportEventsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ImportEventsResponse{}, err
	}

	loc := a.loader.Location()
	now := a.now().UTC()

	var resp attendance.ImportEventsResponse
	skip := func(index int, reason error) {
		resp.Skipped++
		resp.Records = append(resp.Records, attendance.SkippedRecord{Index: index, Reason: reason.Error()})
		slog.Warn("Skipping imported attendance event", "index", index, "reason", reason)
	}

	type parsed struct {
		index int
		event attendance.Event
	}
	candidates := make([]parsed, 0, len(req.Events))
	userIDs := make([]string, 0)
	seen := make(map[string]bool)
	for i, rec := range req.Events {
		ev, err := rec.ToEvent(loc)
		if err != nil {
			skip(i, err)
			continue
		}
		candidates = append(candidates, parsed{index: i, event: ev})
		if !seen[ev.UserID] {
			seen[ev.UserID] = true
			userIDs = append(userIDs, ev.UserID)
		}
	}

	known := make(map[string]bool, len(userIDs))
	if len(userIDs) > 0 {
		users, err := a.users.ListByIDs(ctx, userIDs)
		if err != nil {
			return attendance.ImportEventsResponse{}, fmt.Errorf("failed to resolve users: %w", err)
		}
		for _, u := range users {
			known[u.ID] = true
		}
	}

	batch := make([]attendance.Event, 0, len(candidates))
	for _, c := range candidates {
		if !known[c.event.UserID] {
			skip(c.index, attendance.ErrEventUserNotFound)
			continue
		}
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.ImportEventsResponse{}, fmt.Errorf("failed to generate event id: %w", err)
		}
		c.event.ID = id.String()
		c.event.CreatedAt = now
		batch = append(batch, c.event)
	}

	if len(batch) == 0 {
		slog.Warn("Attendance import stored nothing", "skipped", resp.Skipped)
		return resp, nil
	}

	imported, err := a.EventRepository.CreateBatch(ctx, batch)
	if err != nil {
		return attendance.ImportEventsResponse{}, fmt.Errorf("failed to import attendance events: %w", err)
	}
	resp.Imported = imported

	slog.Info("Attendance events imported", "imported", resp.Imported, "skipped", resp.Skipped)
	return resp, nil
}

// GetDailyStatus implements attendance.AttendanceService. It goes through the
// same loader and engine as the reports, so it always agrees with them.
func (a *AttendanceServiceImpl) GetDailyStatus(ctx context.Context, userID string, date string) (attendance.DailyStatusResponse, error) {
	if userID == "" {
		return attendance.DailyStatusResponse{}, user.ErrActorMissing
	}

	loc := a.loader.Location()
	today := dateutil.In(a.now(), loc)

	day := today
	if date != "" {
		parsed, ok := validator.IsValidDate(date)
		if !ok {
			return attendance.DailyStatusResponse{}, validator.ValidationErrors{{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			}}
		}
		day = parsed
	}

	ds, err := a.loader.Load(ctx, []string{userID}, day, day)
	if err != nil {
		return attendance.DailyStatusResponse{}, err
	}
	if len(ds.Users) == 0 {
		return attendance.DailyStatusResponse{}, user.ErrUserNotFound
	}

	grid := ds.Evaluate(today)
	return attendance.NewDailyStatusResponse(grid.At(0, 0), loc), nil
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
