package calendar

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProvider struct {
	mu       sync.Mutex
	holidays map[int][]calendar.PublicHoliday
	err      error
	block    bool
	calls    map[int]int
}

func (p *stubProvider) ListHolidays(ctx context.Context, country string, year int) ([]calendar.PublicHoliday, error) {
	p.mu.Lock()
	if p.calls == nil {
		p.calls = make(map[int]int)
	}
	p.calls[year]++
	p.mu.Unlock()

	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.holidays[year], nil
}

func newStub() *stubProvider {
	return &stubProvider{
		holidays: map[int][]calendar.PublicHoliday{
			2025: {
				{Date: dateutil.Day(2025, 1, 26), Name: "Republic Day", Country: "IN"}, // Sunday
				{Date: dateutil.Day(2025, 8, 15), Name: "Independence Day", Country: "IN"},
			},
			2026: {
				{Date: dateutil.Day(2026, 1, 1), Name: "New Year's Day", Country: "IN"},
			},
		},
	}
}

func TestOverlay_Classify(t *testing.T) {
	overlay := NewOverlay(newStub(), "in", time.Second, zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name string
		date time.Time
		want calendar.Kind
	}{
		{"plain weekday", dateutil.Day(2025, 8, 14), calendar.Weekday},
		{"saturday", dateutil.Day(2025, 8, 16), calendar.Weekend},
		{"holiday on weekday", dateutil.Day(2025, 8, 15), calendar.Holiday("Independence Day")},
		{"holiday on sunday outranks weekend", dateutil.Day(2025, 1, 26), calendar.Holiday("Republic Day")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overlay.Classify(ctx, tt.date))
		})
	}
}

func TestOverlay_QueriesProviderOncePerYear(t *testing.T) {
	stub := newStub()
	overlay := NewOverlay(stub, "IN", time.Second, zap.NewNop())
	ctx := context.Background()

	err := dateutil.EachDay(dateutil.Day(2025, 12, 1), dateutil.Day(2026, 1, 31), func(d time.Time) error {
		overlay.Classify(ctx, d)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, stub.calls[2025])
	assert.Equal(t, 1, stub.calls[2026])
	assert.Equal(t, 2, overlay.ProviderCalls())
	assert.Equal(t, calendar.Holiday("New Year's Day"), overlay.Classify(ctx, dateutil.Day(2026, 1, 1)))
}

func TestOverlay_ProviderFailureDegrades(t *testing.T) {
	stub := &stubProvider{err: errors.New("rate limited")}
	overlay := NewOverlay(stub, "IN", time.Second, zap.NewNop())
	ctx := context.Background()

	assert.Equal(t, calendar.Weekday, overlay.Classify(ctx, dateutil.Day(2025, 8, 15)))
	assert.Equal(t, calendar.Weekend, overlay.Classify(ctx, dateutil.Day(2025, 8, 16)))

	// The failed year is not retried within the same pass.
	assert.Equal(t, 1, stub.calls[2025])
}

func TestOverlay_ProviderTimeoutDegrades(t *testing.T) {
	stub := &stubProvider{block: true}
	overlay := NewOverlay(stub, "IN", 20*time.Millisecond, zap.NewNop())

	start := time.Now()
	kind := overlay.Classify(context.Background(), dateutil.Day(2025, 8, 15))

	assert.Equal(t, calendar.Weekday, kind)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestOverlay_NilProvider(t *testing.T) {
	overlay := NewOverlay(nil, "IN", time.Second, nil)

	assert.Equal(t, calendar.Weekend, overlay.Classify(context.Background(), dateutil.Day(2025, 1, 26)))
	assert.Equal(t, 0, overlay.ProviderCalls())
}

func TestHolidayService_ListHolidays(t *testing.T) {
	svc := NewHolidayService(newStub(), "IN", time.Second, zap.NewNop())
	ctx := context.Background()

	t.Run("whole year sorted", func(t *testing.T) {
		holidays, err := svc.ListHolidays(ctx, "", 2025, 0)
		require.NoError(t, err)
		require.Len(t, holidays, 2)
		assert.Equal(t, "Republic Day", holidays[0].Name)
		assert.Equal(t, "Independence Day", holidays[1].Name)
	})

	t.Run("single month", func(t *testing.T) {
		holidays, err := svc.ListHolidays(ctx, "in", 2025, time.August)
		require.NoError(t, err)
		require.Len(t, holidays, 1)
		assert.Equal(t, dateutil.Day(2025, 8, 15), holidays[0].Date)
	})

	t.Run("invalid country", func(t *testing.T) {
		_, err := svc.ListHolidays(ctx, "IND", 2025, 0)
		assert.ErrorIs(t, err, calendar.ErrInvalidCountry)
	})

	t.Run("provider failure surfaces", func(t *testing.T) {
		failing := NewHolidayService(&stubProvider{err: errors.New("boom")}, "IN", time.Second, zap.NewNop())
		_, err := failing.ListHolidays(ctx, "IN", 2025, 0)
		assert.ErrorIs(t, err, calendar.ErrCalendarUnavailable)
	})
}
