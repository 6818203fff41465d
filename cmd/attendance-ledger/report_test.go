package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/config"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/holiday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPrintReport(t *testing.T) {
	ist := time.FixedZone("IST", 19800)
	in := time.Date(2025, 3, 3, 3, 45, 0, 0, time.UTC)
	out := time.Date(2025, 3, 3, 12, 15, 0, 0, time.UTC)

	report := attendance.Report{
		UserID: "user-1",
		From:   dateutil.Day(2025, 3, 1),
		To:     dateutil.Day(2025, 3, 3),
		Records: []attendance.AttendanceRecord{
			{UserID: "user-1", Date: dateutil.Day(2025, 3, 1), Status: attendance.StatusWeekend, Synthesized: true},
			{UserID: "user-1", Date: dateutil.Day(2025, 3, 2), Status: attendance.StatusHoliday, HolidayName: "Founders Day", Overridden: true},
			{UserID: "user-1", Date: dateutil.Day(2025, 3, 3), Status: attendance.StatusPresent, ClockIn: &in, ClockOut: &out,
				WorkDuration: &attendance.WorkDuration{Milliseconds: 30600000, Hours: 8, Minutes: 30, DecimalHours: 8.5}},
		},
		Summary: attendance.MonthlySummary{Days: 3, PresentCount: 1, WeekendCount: 1, HolidayCount: 1, TotalWorkHours: 8.5},
	}

	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, report, ist))

	output := buf.String()
	assert.Contains(t, output, "2025-03-03  Mon  present  09:15  17:45  8h30m")
	assert.Contains(t, output, "edited Founders Day")
	assert.Contains(t, output, "3 days: 1 present (0 late), 0 absent, 1 weekend, 1 holiday, 8.50 hours worked")
}

func TestNewHolidayProvider(t *testing.T) {
	log := zap.NewNop()

	tests := []struct {
		provider string
		want     any
	}{
		{config.CalendarProviderCalendarific, &holiday.CalendarificProvider{}},
		{config.CalendarProviderFile, &holiday.FileProvider{}},
		{config.CalendarProviderComposite, &holiday.CompositeProvider{}},
		{config.CalendarProviderNone, holiday.NoopProvider{}},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			got := newHolidayProvider(config.CalendarConfig{
				Provider:           tt.provider,
				CalendarificAPIKey: "key",
				File:               "holidays.txt",
			}, log)
			assert.IsType(t, tt.want, got)
		})
	}
}
