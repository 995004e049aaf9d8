package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
	reportService "github.com/cmlabs-hris/attendance-engine/internal/service/report"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ReportHandler interface {
	GetDashboard(w http.ResponseWriter, r *http.Request)
	GetBasicReport(w http.ResponseWriter, r *http.Request)
	GetBasicReportCSV(w http.ResponseWriter, r *http.Request)
	GetMuster(w http.ResponseWriter, r *http.Request)
	GetMusterXLSX(w http.ResponseWriter, r *http.Request)
	GetEventLog(w http.ResponseWriter, r *http.Request)
	GetEventLogCSV(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
	loc           *time.Location
	now           func() time.Time
}

// NewReportHandler resolves a missing today parameter against loc.
func NewReportHandler(reportService report.ReportService, loc *time.Location) ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &reportHandlerImpl{
		reportService: reportService,
		loc:           loc,
		now:           time.Now,
	}
}

// parseQuery reads start_date, end_date, an optional today and an optional
// comma separated user_ids. Today defaults to the current organization date.
func (h *reportHandlerImpl) parseQuery(r *http.Request) report.Query {
	values := r.URL.Query()
	q := report.Query{
		StartDate: values.Get("start_date"),
		EndDate:   values.Get("end_date"),
		Today:     values.Get("today"),
	}
	if q.Today == "" {
		q.Today = dateutil.Format(dateutil.In(h.now(), h.loc))
	}
	if raw := values.Get("user_ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			q.UserIDs = append(q.UserIDs, strings.TrimSpace(id))
		}
	}
	return q
}

// GetDashboard handles GET /reports/dashboard
func (h *reportHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.ComputeDashboard(r.Context(), h.parseQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetBasicReport handles GET /reports/basic
func (h *reportHandlerImpl) GetBasicReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.ComputeBasicReport(r.Context(), h.parseQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetBasicReportCSV handles GET /reports/basic.csv
func (h *reportHandlerImpl) GetBasicReportCSV(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.ComputeBasicReport(r.Context(), h.parseQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.csv", result.StartDate, result.EndDate)
	h.download(w, contentTypeCSV, filename, func(out io.Writer) error {
		return reportService.WriteBasicReportCSV(out, result)
	})
}

// GetMuster handles GET /reports/muster
func (h *reportHandlerImpl) GetMuster(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.ComputeMuster(r.Context(), h.parseQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMusterXLSX handles GET /reports/muster.xlsx
func (h *reportHandlerImpl) GetMusterXLSX(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.ComputeMuster(r.Context(), h.parseQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("muster_%s_%s.xlsx", result.StartDate, result.EndDate)
	h.download(w, contentTypeXLSX, filename, func(out io.Writer) error {
		return reportService.WriteMusterXLSX(out, result)
	})
}

// GetEventLog handles GET /reports/events
func (h *reportHandlerImpl) GetEventLog(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.CollectEventLog(r.Context(), h.parseQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(len(result.Events))})
}

// GetEventLogCSV handles GET /reports/events.csv
func (h *reportHandlerImpl) GetEventLogCSV(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.CollectEventLog(r.Context(), h.parseQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("events_%s_%s.csv", result.StartDate, result.EndDate)
	h.download(w, contentTypeCSV, filename, func(out io.Writer) error {
		return reportService.WriteEventLogCSV(out, result)
	})
}

func (h *reportHandlerImpl) download(w http.ResponseWriter, contentType, filename string, write func(io.Writer) error) {
	if err := response.Attachment(w, contentType, filename, write); err != nil {
		slog.Error("Failed to render export", "file", filename, "error", err)
		response.InternalServerError(w, "Failed to render export")
	}
}
