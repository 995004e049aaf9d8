package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
)

// SnapshotJobs logs yesterday's derived attendance counters once per day.
type SnapshotJobs struct {
	reports report.ReportService
	loc     *time.Location
	now     func() time.Time

	mu      sync.Mutex
	lastDay time.Time
}

func NewSnapshotJobs(reports report.ReportService, loc *time.Location) *SnapshotJobs {
	if loc == nil {
		loc = time.UTC
	}
	return &SnapshotJobs{reports: reports, loc: loc, now: time.Now}
}

// WithClock replaces the wall clock.
func (j *SnapshotJobs) WithClock(now func() time.Time) *SnapshotJobs {
	j.now = now
	return j
}

func (j *SnapshotJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("daily_attendance_snapshot", 1*time.Hour, j.DailySnapshot)
}

// DailySnapshot summarizes the previous local day. It is a no-op when that day
// was already summarized by this process.
func (j *SnapshotJobs) DailySnapshot(ctx context.Context) error {
	today := dateutil.In(j.now(), j.loc)
	yesterday := dateutil.AddDays(today, -1)

	j.mu.Lock()
	if j.lastDay.Equal(yesterday) {
		j.mu.Unlock()
		return nil
	}
	j.mu.Unlock()

	day := dateutil.Format(yesterday)
	dashboard, err := j.reports.ComputeDashboard(ctx, report.Query{
		StartDate: day,
		EndDate:   day,
		Today:     dateutil.Format(today),
	})
	if err != nil {
		return fmt.Errorf("failed to compute snapshot for %s: %w", day, err)
	}

	attrs := []any{
		"date", day,
		"total_employees", dashboard.TotalEmployees,
		"present", dashboard.PresentOnEndDate,
		"absent", dashboard.AbsentOnEndDate,
		"on_leave", dashboard.OnLeaveOnEndDate,
	}
	for code, count := range dashboard.EndDateBreakdown {
		attrs = append(attrs, "count_"+code, count)
	}
	slog.Info("Cron: Daily attendance snapshot", attrs...)

	j.mu.Lock()
	j.lastDay = yesterday
	j.mu.Unlock()
	return nil
}
