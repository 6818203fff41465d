package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
	"go.uber.org/zap"
)

// AttendanceJobs reports on the ledger. The jobs only read sessions.
type AttendanceJobs struct {
	store  attendance.LedgerStore
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

func NewAttendanceJobs(store attendance.LedgerStore, loc *time.Location, logger *zap.Logger) *AttendanceJobs {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceJobs{
		store:  store,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("report_stale_sessions", interval, j.ReportStaleSessions)
}

// StaleSessions lists sessions clocked in before today and never clocked out.
func (j *AttendanceJobs) StaleSessions(ctx context.Context) ([]attendance.Session, error) {
	today := dateutil.DayOf(j.now(), j.loc)

	sessions, err := j.store.ListOpenSessions(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}
	return sessions, nil
}

// ReportStaleSessions logs every stale session. Closing them needs a manual edit.
func (j *AttendanceJobs) ReportStaleSessions(ctx context.Context) error {
	sessions, err := j.StaleSessions(ctx)
	if err != nil {
		return err
	}

	for _, s := range sessions {
		j.logger.Warn("Session was never clocked out",
			zap.String("user_id", s.UserID),
			zap.String("date", dateutil.FormatDay(s.Date)),
			zap.Timep("clock_in", s.ClockIn))
	}

	j.logger.Info("Stale session report finished", zap.Int("stale_sessions", len(sessions)))
	return nil
}
