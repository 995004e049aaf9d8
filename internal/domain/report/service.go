package report

import "context"

// ReportService runs the status engine over a user set and date range. All four
// operations reach identical per-day conclusions; only the output shape differs.
type ReportService interface {
	ComputeDashboard(ctx context.Context, q Query) (Dashboard, error)
	ComputeBasicReport(ctx context.Context, q Query) (BasicReport, error)
	ComputeMuster(ctx context.Context, q Query) (Muster, error)
	CollectEventLog(ctx context.Context, q Query) (EventLog, error)
}
