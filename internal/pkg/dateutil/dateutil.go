// Package dateutil handles calendar days. A day is a time.Time at 00:00 UTC;
// instants are converted to days through an explicit location.
package dateutil

import (
	"fmt"
	"time"
)

const DayLayout = "2006-01-02"

// Day returns the calendar day y-m-d at 00:00 UTC.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DayOf returns the calendar day the instant falls on in loc
func DayOf(instant time.Time, loc *time.Location) time.Time {
	local := instant.In(loc)
	return Day(local.Year(), local.Month(), local.Day())
}

// Normalize strips the clock and zone of an already-calendar date
func Normalize(date time.Time) time.Time {
	return Day(date.Year(), date.Month(), date.Day())
}

// ParseDay parses a YYYY-MM-DD string
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func FormatDay(day time.Time) string {
	return day.Format(DayLayout)
}

// DaysInMonth returns 28, 29, 30 or 31
func DaysInMonth(year int, month time.Month) int {
	return Day(year, month+1, 0).Day()
}

// MonthRange returns the first and last day of the month
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	first := Day(year, month, 1)
	return first, Day(year, month, DaysInMonth(year, month))
}

// StartOfWeek returns the Monday of the week for the given day
func StartOfWeek(day time.Time) time.Time {
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday = 7
	}
	return Normalize(day).AddDate(0, 0, -(weekday - 1))
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(day time.Time) bool {
	weekday := day.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// MinuteOfDay returns hour*60+minute of the instant in loc. Seconds are dropped.
func MinuteOfDay(instant time.Time, loc *time.Location) int {
	local := instant.In(loc)
	return local.Hour()*60 + local.Minute()
}

// EachDay calls fn for every day from..to inclusive, stopping at the first error.
func EachDay(from, to time.Time, fn func(day time.Time) error) error {
	for d := Normalize(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}
