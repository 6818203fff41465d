package holiday

import (
	"context"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/calendar"
	"go.uber.org/zap"
)

// CompositeProvider implements calendar.HolidayProvider with a fallback strategy.
// Primary: Calendarific (API)
// Fallback: FileProvider (local file)
type CompositeProvider struct {
	primary  calendar.HolidayProvider
	fallback calendar.HolidayProvider
	logger   *zap.Logger
}

func NewCompositeProvider(primary, fallback calendar.HolidayProvider, logger *zap.Logger) *CompositeProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompositeProvider{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// ListHolidays implements calendar.HolidayProvider.
func (cp *CompositeProvider) ListHolidays(ctx context.Context, country string, year int) ([]calendar.PublicHoliday, error) {
	holidays, err := cp.primary.ListHolidays(ctx, country, year)
	if err == nil {
		return holidays, nil
	}

	cp.logger.Warn("Primary holiday provider failed, falling back",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Error(err))

	return cp.fallback.ListHolidays(ctx, country, year)
}

// NoopProvider knows no holidays.
type NoopProvider struct{}

func (NoopProvider) ListHolidays(ctx context.Context, country string, year int) ([]calendar.PublicHoliday, error) {
	return []calendar.PublicHoliday{}, nil
}
