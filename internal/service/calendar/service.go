package calendar

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/validator"
	"go.uber.org/zap"
)

type HolidayServiceImpl struct {
	provider       calendar.HolidayProvider
	defaultCountry string
	timeout        time.Duration
	logger         *zap.Logger
}

// ListHolidays implements calendar.HolidayService.
func (s *HolidayServiceImpl) ListHolidays(ctx context.Context, country string, year int, month time.Month) ([]calendar.PublicHoliday, error) {
	if country == "" {
		country = s.defaultCountry
	}
	if !validator.IsCountryCode(country) {
		return nil, calendar.ErrInvalidCountry
	}
	if year < 1970 || year > 9999 || month < 0 || month > 12 {
		return nil, calendar.ErrInvalidYear
	}
	country = strings.ToUpper(country)

	if s.provider == nil {
		return []calendar.PublicHoliday{}, nil
	}

	lookupCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	holidays, err := s.provider.ListHolidays(lookupCtx, country, year)
	if err != nil {
		s.logger.Warn("Failed to list holidays",
			zap.String("country", country),
			zap.Int("year", year),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", calendar.ErrCalendarUnavailable, err)
	}

	result := make([]calendar.PublicHoliday, 0, len(holidays))
	for _, h := range holidays {
		if h.Date.Year() != year {
			continue
		}
		if month != 0 && h.Date.Month() != month {
			continue
		}
		result = append(result, h)
	}

	slices.SortStableFunc(result, func(a, b calendar.PublicHoliday) int {
		return a.Date.Compare(b.Date)
	})

	return result, nil
}

func NewHolidayService(provider calendar.HolidayProvider, defaultCountry string, timeout time.Duration, logger *zap.Logger) calendar.HolidayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HolidayServiceImpl{
		provider:       provider,
		defaultCountry: defaultCountry,
		timeout:        timeout,
		logger:         logger,
	}
}
