package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteBasicReportCSV(t *testing.T) {
	r, err := newScenario().service().ComputeBasicReport(context.Background(), query("2025-03-03", "2025-03-04", "emp-1"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteBasicReportCSV(&buf, r))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, basicReportHeader, records[0])
	assert.Equal(t, []string{"emp-1", "Asha", "2025-03-03", "Present", "present", "09:00", "17:30", "8:30", "510"}, records[1])
	assert.Equal(t, []string{"emp-1", "Asha", "2025-03-04", "Short Hours", "short_hours", "09:00", "12:30", "3:30", "210"}, records[2])
}

func TestWriteEventLogCSV(t *testing.T) {
	s := newScenario()
	lat, lng := 12.9716, 77.5946
	s.events.events[0].Latitude = &lat
	s.events.events[0].Longitude = &lng

	log, err := s.service().CollectEventLog(context.Background(), query("2025-03-03", "2025-03-03", "emp-1"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteEventLogCSV(&buf, log))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, eventLogHeader, records[0])
	assert.Equal(t, []string{"e01", "emp-1", "Asha", "2025-03-03T09:00:00+05:30", "check_in", "12.9716", "77.5946"}, records[1])
	assert.Equal(t, "", records[2][5])
}

func TestWriteMusterXLSX(t *testing.T) {
	m, err := newScenario().service().ComputeMuster(context.Background(), query("2025-03-03", "2025-03-08"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMusterXLSX(&buf, m))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(MusterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"User ID", "Name", "2025-03-03", "2025-03-04"}, rows[0][:4])
	assert.Equal(t, "Total P", rows[0][8])
	assert.Equal(t, []string{"emp-1", "Asha", "P", "SH", "-", "H", "A", "WO"}, rows[1][:8])
	assert.Equal(t, []string{"hr-1", "Hema", "A", "P", "L", "A", "A", "WO"}, rows[2][:8])
	// Totals follow the day columns in code order: P, HD, SH, A, -, L, HL, H, WO.
	assert.Equal(t, []string{"1", "0", "1", "1", "1", "0", "0", "1", "1"}, rows[1][8:17])
}
