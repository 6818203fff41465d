package calendar

import (
	"context"
	"time"
)

// HolidayProvider supplies the public holidays of a country for one year.
// Implementations may fail or be rate limited.
type HolidayProvider interface {
	ListHolidays(ctx context.Context, country string, year int) ([]PublicHoliday, error)
}

// HolidayService lists holidays for display. Unlike the overlay it surfaces
// provider failures as ErrCalendarUnavailable.
type HolidayService interface {
	// ListHolidays returns holidays sorted by date; month 0 means the whole year
	ListHolidays(ctx context.Context, country string, year int, month time.Month) ([]PublicHoliday, error)
}
