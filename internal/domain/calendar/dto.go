package calendar

import (
	"strconv"

	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/validator"
)

// HolidayFilter is the parsed query of a holiday listing. Month 0 means the whole year.
type HolidayFilter struct {
	Country string
	Year    int
	Month   int
}

// ParseHolidayFilter reads year, month and country query values.
// An empty year falls back to defaultYear.
func ParseHolidayFilter(year, month, country string, defaultYear int) (HolidayFilter, error) {
	var errs validator.ValidationErrors
	f := HolidayFilter{Country: country, Year: defaultYear}

	if year != "" {
		y, err := strconv.Atoi(year)
		if err != nil || y < 1970 || y > 9999 {
			errs = append(errs, validator.ValidationError{
				Field:   "year",
				Message: "year must be between 1970 and 9999",
			})
		}
		f.Year = y
	}

	if month != "" {
		m, err := strconv.Atoi(month)
		if err != nil || m < 1 || m > 12 {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be between 1 and 12",
			})
		}
		f.Month = m
	}

	if country != "" && !validator.IsCountryCode(country) {
		errs = append(errs, validator.ValidationError{
			Field:   "country",
			Message: "country must be an ISO 3166-1 alpha-2 code",
		})
	}

	if len(errs) > 0 {
		return HolidayFilter{}, errs
	}
	return f, nil
}

type HolidayResponse struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

func NewHolidayResponses(holidays []PublicHoliday) []HolidayResponse {
	result := make([]HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		result = append(result, HolidayResponse{
			Date:    dateutil.FormatDay(h.Date),
			Weekday: h.Date.Weekday().String(),
			Name:    h.Name,
			Country: h.Country,
		})
	}
	return result
}
