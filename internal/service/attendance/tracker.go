package attendance

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, userID string) (attendance.Session, error) {
	if validator.IsEmpty(userID) {
		return attendance.Session{}, attendance.ErrInvalidUserID
	}

	now := a.currentInstant()
	date := dateutil.DayOf(now, a.policy.Location)

	var saved attendance.Session
	err := a.retryOnConflict(ctx, func() error {
		current, err := a.store.GetSession(ctx, userID, date)
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}

		// One session per day: a second clock-in is rejected even after clock-out.
		if current != nil && current.ClockIn != nil {
			return attendance.NewStateError(attendance.ErrAlreadyClockedIn, current)
		}

		var next attendance.Session
		if current != nil {
			// Row created by a status-only edit
			next = *current
		} else {
			next = attendance.Session{
				ID:     uuid.NewString(),
				UserID: userID,
				Date:   date,
			}
		}
		next.ClockIn = &now

		saved, err = a.store.PutSessionIfMatching(ctx, current, next)
		return err
	})
	if err != nil {
		return attendance.Session{}, err
	}

	a.logger.Info("User clocked in",
		zap.String("user_id", userID),
		zap.String("date", dateutil.FormatDay(date)),
		zap.Time("clock_in", now))

	a.publish(a.reconcileSession(ctx, userID, date, &saved))

	return saved, nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, userID string) (attendance.Session, error) {
	if validator.IsEmpty(userID) {
		return attendance.Session{}, attendance.ErrInvalidUserID
	}

	now := a.currentInstant()
	date := dateutil.DayOf(now, a.policy.Location)

	var saved attendance.Session
	err := a.retryOnConflict(ctx, func() error {
		current, err := a.store.GetSession(ctx, userID, date)
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}

		switch current.State() {
		case attendance.StateNoSession:
			return attendance.NewStateError(attendance.ErrNoActiveSession, current)
		case attendance.StateClockedOut:
			return attendance.NewStateError(attendance.ErrAlreadyClockedOut, current)
		}

		duration, err := Duration(*current.ClockIn, now)
		if err != nil {
			return attendance.NewStateError(err, current)
		}

		next := *current
		next.ClockOut = &now
		next.WorkDuration = &duration

		saved, err = a.store.PutSessionIfMatching(ctx, current, next)
		return err
	})
	if err != nil {
		return attendance.Session{}, err
	}

	a.logger.Info("User clocked out",
		zap.String("user_id", userID),
		zap.String("date", dateutil.FormatDay(date)),
		zap.Time("clock_out", now),
		zap.String("work_duration", formatDuration(sessionDuration(&saved))))

	a.publish(a.reconcileSession(ctx, userID, date, &saved))

	return saved, nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, userID string) (attendance.TodayStatus, error) {
	if validator.IsEmpty(userID) {
		return attendance.TodayStatus{}, attendance.ErrInvalidUserID
	}

	date := dateutil.DayOf(a.currentInstant(), a.policy.Location)

	current, err := a.store.GetSession(ctx, userID, date)
	if err != nil {
		return attendance.TodayStatus{}, fmt.Errorf("failed to get session: %w", err)
	}

	status := attendance.TodayStatus{
		Date:    date,
		Session: current,
	}

	switch current.State() {
	case attendance.StateNoSession:
		status.CanClockIn = true
		status.Message = "You have not clocked in today"
	case attendance.StateClockedIn:
		status.CanClockOut = true
		status.Message = fmt.Sprintf("Clocked in at %s", current.ClockIn.In(a.policy.Location).Format("15:04"))
	case attendance.StateClockedOut:
		status.Message = fmt.Sprintf("Clocked out at %s, worked %s",
			current.ClockOut.In(a.policy.Location).Format("15:04"),
			formatDuration(sessionDuration(current)))
	}

	return status, nil
}
