package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/sse"
	calendarsvc "github.com/cmlabs-hris/attendance-ledger/internal/service/calendar"
	"go.uber.org/zap"
)

const (
	DefaultLateThreshold   = 9*time.Hour + 30*time.Minute
	DefaultCountry         = "IN"
	DefaultCalendarTimeout = 5 * time.Second

	// A lost compare-and-write is retried once after re-reading the session.
	maxConflictRetries = 1

	EventRecordUpdated = "attendance.record_updated"
)

// RecordPublisher receives the authoritative record after every mutation.
type RecordPublisher interface {
	Publish(userID string, event sse.Event)
}

// Options configures the engine. Zero values take the defaults above and UTC.
type Options struct {
	Location        *time.Location
	LateThreshold   time.Duration // offset from local midnight
	DefaultCountry  string
	CalendarTimeout time.Duration
	Now             func() time.Time
}

type AttendanceServiceImpl struct {
	store     attendance.LedgerStore
	holidays  calendar.HolidayProvider
	publisher RecordPublisher
	logger    *zap.Logger

	policy          LatePolicy
	country         string
	calendarTimeout time.Duration
	now             func() time.Time
}

func NewAttendanceService(
	store attendance.LedgerStore,
	holidays calendar.HolidayProvider,
	publisher RecordPublisher,
	opts Options,
	logger *zap.Logger,
) *AttendanceServiceImpl {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.LateThreshold <= 0 {
		opts.LateThreshold = DefaultLateThreshold
	}
	if opts.DefaultCountry == "" {
		opts.DefaultCountry = DefaultCountry
	}
	if opts.CalendarTimeout <= 0 {
		opts.CalendarTimeout = DefaultCalendarTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AttendanceServiceImpl{
		store:     store,
		holidays:  holidays,
		publisher: publisher,
		logger:    logger,
		policy: LatePolicy{
			Location:        opts.Location,
			ThresholdMinute: int(opts.LateThreshold / time.Minute),
		},
		country:         opts.DefaultCountry,
		calendarTimeout: opts.CalendarTimeout,
		now:             opts.Now,
	}
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)

// Location is the zone used to turn instants into calendar days.
func (a *AttendanceServiceImpl) Location() *time.Location {
	return a.policy.Location
}

// newOverlay returns a calendar overlay scoped to one reconciliation pass.
func (a *AttendanceServiceImpl) newOverlay(country string) *calendarsvc.Overlay {
	if country == "" {
		country = a.country
	}
	return calendarsvc.NewOverlay(a.holidays, country, a.calendarTimeout, a.logger)
}

// currentInstant is now in UTC at millisecond precision, the resolution of
// WorkDuration.
func (a *AttendanceServiceImpl) currentInstant() time.Time {
	return a.now().UTC().Truncate(time.Millisecond)
}

func (a *AttendanceServiceImpl) retryOnConflict(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		err = op()
		if !errors.Is(err, attendance.ErrConcurrencyConflict) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		a.logger.Debug("Compare-and-write conflict, re-reading session", zap.Int("attempt", attempt+1))
	}
	return err
}

func (a *AttendanceServiceImpl) publish(rec attendance.AttendanceRecord) {
	if a.publisher == nil {
		return
	}
	a.publisher.Publish(rec.UserID, sse.Event{
		UserID: rec.UserID,
		Event:  EventRecordUpdated,
		Data:   attendance.NewRecordResponse(rec),
	})
}
