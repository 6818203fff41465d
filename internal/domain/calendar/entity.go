package calendar

import "time"

// DayType classifies a calendar day
type DayType string

const (
	DayTypeWeekday DayType = "weekday"
	DayTypeWeekend DayType = "weekend"
	DayTypeHoliday DayType = "holiday"
)

// Kind is the overlay classification of a date. HolidayName is set only for holidays.
type Kind struct {
	Type        DayType
	HolidayName string
}

func (k Kind) IsHoliday() bool { return k.Type == DayTypeHoliday }
func (k Kind) IsWeekend() bool { return k.Type == DayTypeWeekend }

var (
	Weekday = Kind{Type: DayTypeWeekday}
	Weekend = Kind{Type: DayTypeWeekend}
)

func Holiday(name string) Kind {
	return Kind{Type: DayTypeHoliday, HolidayName: name}
}

// PublicHoliday is one provider entry. Date is the calendar day at 00:00 UTC.
type PublicHoliday struct {
	Date    time.Time
	Name    string
	Country string
}
