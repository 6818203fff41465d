package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	var (
		userID  string
		month   int
		year    int
		country string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the reconciled monthly report of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg, logger, false)
			if err != nil {
				return err
			}
			defer a.Close()

			now := time.Now().In(a.location)
			if month == 0 {
				month = int(now.Month())
			}
			if year == 0 {
				year = now.Year()
			}

			filter := attendance.ReportFilter{UserID: userID, Month: month, Year: year, Country: country}
			if err := filter.Validate(); err != nil {
				return err
			}

			svc := a.newAttendanceService(cfg, nil, logger.Named("attendance"))
			report, err := svc.GetMonthlyReport(cmd.Context(), userID, time.Month(month), year, country)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(attendance.NewReportResponse(report))
			}
			return printReport(cmd.OutOrStdout(), report, a.location)
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID (required)")
	cmd.Flags().IntVarP(&month, "month", "m", 0, "Month 1-12 (default current month)")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year (default current year)")
	cmd.Flags().StringVar(&country, "country", "", "Holiday country code (default CALENDAR_COUNTRY)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func printReport(out io.Writer, report attendance.Report, loc *time.Location) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "DATE\tDAY\tSTATUS\tIN\tOUT\tWORKED\tNOTE\n")
	for _, rec := range report.Records {
		note := rec.HolidayName
		if rec.Overridden {
			note = "edited " + note
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.Date.Format("2006-01-02"),
			rec.Date.Weekday().String()[:3],
			rec.Status,
			clockLabel(rec.ClockIn, loc),
			clockLabel(rec.ClockOut, loc),
			workedLabel(rec.WorkDuration),
			note,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	s := report.Summary
	_, err := fmt.Fprintf(out, "\n%d days: %d present (%d late), %d absent, %d weekend, %d holiday, %.2f hours worked\n",
		s.Days, s.PresentCount, s.LateCount, s.AbsentCount, s.WeekendCount, s.HolidayCount, s.TotalWorkHours)
	return err
}

func clockLabel(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(loc).Format("15:04")
}

func workedLabel(d *attendance.WorkDuration) string {
	if d == nil {
		return "-"
	}
	return fmt.Sprintf("%dh%02dm", d.Hours, d.Minutes)
}
