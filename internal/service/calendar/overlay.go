package calendar

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
	"go.uber.org/zap"
)

// Overlay classifies dates for one country. It is built per reconciliation
// pass and asks the provider at most once per year.
type Overlay struct {
	provider calendar.HolidayProvider
	country  string
	timeout  time.Duration
	logger   *zap.Logger

	mu    sync.Mutex
	years map[int]map[time.Time]string // year -> day -> holiday name
	calls int
}

func NewOverlay(provider calendar.HolidayProvider, country string, timeout time.Duration, logger *zap.Logger) *Overlay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Overlay{
		provider: provider,
		country:  strings.ToUpper(country),
		timeout:  timeout,
		logger:   logger,
		years:    make(map[int]map[time.Time]string),
	}
}

// Classify returns Holiday(name), Weekend or Weekday. A holiday falling on a
// weekend is reported as Holiday. Provider failures degrade to weekday/weekend.
func (o *Overlay) Classify(ctx context.Context, date time.Time) calendar.Kind {
	day := dateutil.Normalize(date)

	if name, ok := o.holidaysFor(ctx, day.Year())[day]; ok {
		return calendar.Holiday(name)
	}
	if dateutil.IsWeekend(day) {
		return calendar.Weekend
	}
	return calendar.Weekday
}

// ProviderCalls reports how many provider lookups this overlay made.
func (o *Overlay) ProviderCalls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

func (o *Overlay) holidaysFor(ctx context.Context, year int) map[time.Time]string {
	o.mu.Lock()
	defer o.mu.Unlock()

	if days, ok := o.years[year]; ok {
		return days
	}

	days := make(map[time.Time]string)
	o.years[year] = days
	if o.provider == nil {
		return days
	}

	o.calls++
	lookupCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	holidays, err := o.provider.ListHolidays(lookupCtx, o.country, year)
	if err != nil {
		o.logger.Warn("Holiday calendar unavailable, classifying weekday/weekend only",
			zap.String("country", o.country),
			zap.Int("year", year),
			zap.Error(err))
		return days
	}

	for _, h := range holidays {
		d := dateutil.Normalize(h.Date)
		if d.Year() != year {
			continue
		}
		// First entry wins when a provider lists several holidays on one day.
		if _, exists := days[d]; !exists {
			days[d] = h.Name
		}
	}

	o.logger.Debug("Holiday calendar loaded",
		zap.String("country", o.country),
		zap.Int("year", year),
		zap.Int("holidays", len(days)))

	return days
}
