package report

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-engine/internal/service/status"
	"github.com/shopspring/decimal"
)

// The fold functions below are pure: the same dataset and grid always give
// the same output.

func foldDashboard(ds Dataset, grid status.Grid) report.Dashboard {
	d := report.Dashboard{
		StartDate:        dateutil.Format(ds.Start),
		EndDate:          dateutil.Format(ds.End),
		TotalEmployees:   len(grid.Users),
		EndDateBreakdown: make(map[string]int, len(attendance.AllStatusCodes)),
		Trend:            make([]report.TrendPoint, 0, len(grid.Days)),
		Productivity:     make([]report.ProductivityPoint, 0, len(grid.Days)),
		CompOff:          compOffPanel(ds),
	}
	for _, code := range attendance.AllStatusCodes {
		d.EndDateBreakdown[string(code)] = 0
	}

	for j, day := range grid.Days {
		column := grid.Column(j)

		trend := report.TrendPoint{Date: dateutil.Format(day)}
		productivity := report.ProductivityPoint{Date: dateutil.Format(day)}
		total := 0
		for _, s := range column {
			switch s.Code {
			case attendance.StatusPresent:
				trend.Present++
			case attendance.StatusAbsent:
				trend.Absent++
			}
			if s.WorkedMinutes != nil {
				total += *s.WorkedMinutes
				productivity.Samples++
			}
		}
		if productivity.Samples > 0 {
			productivity.AverageWorkedMinutes = float64(total) / float64(productivity.Samples)
		}
		d.Trend = append(d.Trend, trend)
		d.Productivity = append(d.Productivity, productivity)
	}

	if n := len(grid.Days); n > 0 {
		for _, s := range grid.Column(n - 1) {
			d.EndDateBreakdown[string(s.Code)]++
			switch {
			case s.Code == attendance.StatusPresent:
				d.PresentOnEndDate++
			case s.Code == attendance.StatusAbsent:
				d.AbsentOnEndDate++
			case s.Code.IsOnLeave():
				d.OnLeaveOnEndDate++
			}
		}
	}
	return d
}

func compOffPanel(ds Dataset) report.CompOffPanel {
	if !ds.CompOff.IsAvailable() {
		return report.CompOffPanel{
			Available:   false,
			Message:     ds.CompOff.Reason,
			CreditedDay: "0",
		}
	}
	days := decimal.Zero
	for _, c := range ds.CompOff.Credits {
		days = days.Add(c.Days)
	}
	return report.CompOffPanel{
		Available:   true,
		Credits:     len(ds.CompOff.Credits),
		CreditedDay: days.String(),
	}
}

func foldBasicReport(ds Dataset, grid status.Grid) report.BasicReport {
	loc := ds.Facts.Location
	if loc == nil {
		loc = time.UTC
	}
	rows := make([]report.BasicReportRow, 0, len(grid.Users)*len(grid.Days))
	for i, u := range grid.Users {
		for j := range grid.Days {
			s := grid.At(i, j)
			rows = append(rows, report.BasicReportRow{
				UserID:        u.ID,
				UserName:      u.FullName,
				Date:          dateutil.Format(s.Date),
				Status:        s.Code.Label(),
				Code:          string(s.Code),
				CheckIn:       clock(s.CheckIn, loc),
				CheckOut:      clock(s.CheckOut, loc),
				WorkedMinutes: s.WorkedMinutes,
			})
		}
	}
	return report.BasicReport{
		StartDate: dateutil.Format(ds.Start),
		EndDate:   dateutil.Format(ds.End),
		Rows:      rows,
	}
}

func foldMuster(ds Dataset, grid status.Grid) report.Muster {
	m := report.Muster{
		StartDate: dateutil.Format(ds.Start),
		EndDate:   dateutil.Format(ds.End),
		Days:      make([]string, 0, len(grid.Days)),
		Rows:      make([]report.MusterRow, 0, len(grid.Users)),
	}
	for _, day := range grid.Days {
		m.Days = append(m.Days, dateutil.Format(day))
	}

	for i, u := range grid.Users {
		row := report.MusterRow{
			UserID:   u.ID,
			UserName: u.FullName,
			Codes:    make([]string, 0, len(grid.Days)),
			Totals:   make(map[string]int, len(attendance.AllStatusCodes)),
		}
		for _, code := range attendance.AllStatusCodes {
			row.Totals[code.MusterCode()] = 0
		}
		for j := range grid.Days {
			code := grid.At(i, j).Code.MusterCode()
			row.Codes = append(row.Codes, code)
			row.Totals[code]++
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

func foldEventLog(ds Dataset) report.EventLog {
	names := make(map[string]string, len(ds.Users))
	for _, u := range ds.Users {
		names[u.ID] = u.FullName
	}

	events := make([]attendance.Event, len(ds.Facts.Events))
	copy(events, ds.Facts.Events)
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.Before(events[j].Timestamp)
		}
		return events[i].ID < events[j].ID
	})

	loc := ds.Facts.Location
	if loc == nil {
		loc = time.UTC
	}
	entries := make([]report.EventLogEntry, 0, len(events))
	for _, ev := range events {
		name := names[ev.UserID]
		if name == "" && ev.UserName != nil {
			name = *ev.UserName
		}
		entries = append(entries, report.EventLogEntry{
			EventID:   ev.ID,
			UserID:    ev.UserID,
			UserName:  name,
			Timestamp: ev.Timestamp.In(loc).Format(time.RFC3339),
			Type:      string(ev.Type),
			Latitude:  ev.Latitude,
			Longitude: ev.Longitude,
		})
	}
	return report.EventLog{
		StartDate: dateutil.Format(ds.Start),
		EndDate:   dateutil.Format(ds.End),
		Events:    entries,
	}
}

func clock(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	v := t.In(loc).Format(dateutil.ClockLayout)
	return &v
}
