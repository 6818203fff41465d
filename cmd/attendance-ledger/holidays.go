package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/calendar"
	calendarService "github.com/cmlabs-hris/attendance-ledger/internal/service/calendar"
	"github.com/spf13/cobra"
)

func holidaysCmd() *cobra.Command {
	var (
		year    int
		month   int
		country string
	)

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List public holidays from the configured calendar provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				year = time.Now().Year()
			}

			provider := newHolidayProvider(cfg.Calendar, logger)
			svc := calendarService.NewHolidayService(provider, cfg.Calendar.Country, cfg.Calendar.Timeout, logger)

			holidays, err := svc.ListHolidays(cmd.Context(), country, year, time.Month(month))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "DATE\tDAY\tCOUNTRY\tNAME\n")
			for _, h := range calendar.NewHolidayResponses(holidays) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", h.Date, h.Weekday[:3], h.Country, h.Name)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year (default current year)")
	cmd.Flags().IntVarP(&month, "month", "m", 0, "Month 1-12, 0 for the whole year")
	cmd.Flags().StringVar(&country, "country", "", "Country code (default CALENDAR_COUNTRY)")

	return cmd
}
