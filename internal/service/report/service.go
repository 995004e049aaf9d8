package report

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
)

// ReportServiceImpl reads no clock: "today" arrives in every query, so the
// same query over the same stored data yields the same result.
type ReportServiceImpl struct {
	loader *Loader
}

func NewReportService(loader *Loader) *ReportServiceImpl {
	return &ReportServiceImpl{loader: loader}
}

// load validates q and fetches the dataset.
func (s *ReportServiceImpl) load(ctx context.Context, q report.Query) (Dataset, error) {
	if err := q.Validate(); err != nil {
		return Dataset{}, err
	}
	start, end := q.Range()

	ds, err := s.loader.Load(ctx, q.UserIDs, start, end)
	if err != nil {
		slog.Error("Report data load failed",
			"start_date", q.StartDate,
			"end_date", q.EndDate,
			"error", err,
		)
		return Dataset{}, err
	}
	return ds, nil
}

// ComputeDashboard implements report.ReportService.
func (s *ReportServiceImpl) ComputeDashboard(ctx context.Context, q report.Query) (report.Dashboard, error) {
	ds, err := s.load(ctx, q)
	if err != nil {
		return report.Dashboard{}, err
	}
	return foldDashboard(ds, ds.Evaluate(q.TodayDate())), nil
}

// ComputeBasicReport implements report.ReportService.
func (s *ReportServiceImpl) ComputeBasicReport(ctx context.Context, q report.Query) (report.BasicReport, error) {
	ds, err := s.load(ctx, q)
	if err != nil {
		return report.BasicReport{}, err
	}
	return foldBasicReport(ds, ds.Evaluate(q.TodayDate())), nil
}

// ComputeMuster implements report.ReportService.
func (s *ReportServiceImpl) ComputeMuster(ctx context.Context, q report.Query) (report.Muster, error) {
	ds, err := s.load(ctx, q)
	if err != nil {
		return report.Muster{}, err
	}
	return foldMuster(ds, ds.Evaluate(q.TodayDate())), nil
}

// CollectEventLog implements report.ReportService. It does no derivation.
func (s *ReportServiceImpl) CollectEventLog(ctx context.Context, q report.Query) (report.EventLog, error) {
	ds, err := s.load(ctx, q)
	if err != nil {
		return report.EventLog{}, err
	}
	return foldEventLog(ds), nil
}

var _ report.ReportService = (*ReportServiceImpl)(nil)
