package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

// MusterSheet is the worksheet name of the muster workbook.
const MusterSheet = "Muster"

var basicReportHeader = []string{"User ID", "Name", "Date", "Status", "Code", "Check In", "Check Out", "Duration", "Worked Minutes"}

// WriteBasicReportCSV serializes computed rows; it derives nothing.
func WriteBasicReportCSV(w io.Writer, r report.BasicReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(basicReportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range r.Rows {
		worked := ""
		if row.WorkedMinutes != nil {
			worked = strconv.Itoa(*row.WorkedMinutes)
		}
		record := []string{
			row.UserID,
			row.UserName,
			row.Date,
			row.Status,
			row.Code,
			deref(row.CheckIn),
			deref(row.CheckOut),
			row.Duration(),
			worked,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var eventLogHeader = []string{"Event ID", "User ID", "Name", "Timestamp", "Type", "Latitude", "Longitude"}

// WriteEventLogCSV serializes the raw event log.
func WriteEventLogCSV(w io.Writer, log report.EventLog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(eventLogHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range log.Events {
		record := []string{
			e.EventID,
			e.UserID,
			e.UserName,
			e.Timestamp,
			e.Type,
			coordinate(e.Latitude),
			coordinate(e.Longitude),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMusterXLSX renders the muster grid as a workbook: one row per user, one
// column per day, then one total column per code.
func WriteMusterXLSX(w io.Writer, m report.Muster) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), MusterSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	codes := make([]string, 0, len(attendance.AllStatusCodes))
	for _, c := range attendance.AllStatusCodes {
		codes = append(codes, c.MusterCode())
	}

	header := []interface{}{"User ID", "Name"}
	for _, d := range m.Days {
		header = append(header, d)
	}
	for _, c := range codes {
		header = append(header, "Total "+c)
	}
	if err := f.SetSheetRow(MusterSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("failed to resolve header range: %w", err)
	}
	if err := f.SetCellStyle(MusterSheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range m.Rows {
		values := []interface{}{row.UserID, row.UserName}
		for _, c := range row.Codes {
			values = append(values, c)
		}
		for _, c := range codes {
			values = append(values, row.Totals[c])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to resolve row %d: %w", i, err)
		}
		if err := f.SetSheetRow(MusterSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", row.UserID, err)
		}
	}

	if err := f.SetColWidth(MusterSheet, "B", "B", 24); err != nil {
		return fmt.Errorf("failed to size name column: %w", err)
	}
	if err := f.SetPanes(MusterSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      2,
		YSplit:      1,
		TopLeftCell: "C2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func coordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
