package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EditSession implements attendance.AttendanceService.
// A field missing from the patch keeps its stored value and the result is
// validated as a whole. Re-applying the same patch does not write again.
func (a *AttendanceServiceImpl) EditSession(ctx context.Context, userID string, date time.Time, patch attendance.SessionPatch) (attendance.AttendanceRecord, error) {
	if validator.IsEmpty(userID) {
		return attendance.AttendanceRecord{}, attendance.ErrInvalidUserID
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return attendance.AttendanceRecord{}, attendance.ErrInvalidStatus
	}
	day := dateutil.Normalize(date)
	patch = truncatePatch(patch)

	var stored *attendance.Session
	var written bool
	err := a.retryOnConflict(ctx, func() error {
		current, err := a.store.GetSession(ctx, userID, day)
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}

		next, changed, err := applyPatch(current, userID, day, a.policy.Location, patch)
		if err != nil {
			return err
		}
		if !changed {
			stored, written = current, false
			return nil
		}

		saved, err := a.store.PutSessionIfMatching(ctx, current, *next)
		if err != nil {
			return err
		}
		stored, written = &saved, true
		return nil
	})
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	rec := a.reconcileSession(ctx, userID, day, stored)

	if written {
		a.logger.Info("Attendance session edited",
			zap.String("user_id", userID),
			zap.String("date", dateutil.FormatDay(day)),
			zap.String("status", string(rec.Status)))
		a.publish(rec)
	}

	return rec, nil
}

// maxSessionSpan bounds how far past clock-in an edited clock-out may lie,
// so a night shift can end after midnight.
const maxSessionSpan = 24 * time.Hour

// applyPatch returns the session that results from patching current, and
// whether it differs from current. current is never modified. The clock-in
// must fall on day in loc.
func applyPatch(current *attendance.Session, userID string, day time.Time, loc *time.Location, patch attendance.SessionPatch) (*attendance.Session, bool, error) {
	var next attendance.Session
	if current != nil {
		next = *current
	} else {
		next = attendance.Session{
			ID:     uuid.NewString(),
			UserID: userID,
			Date:   day,
		}
	}

	if patch.ClockIn != nil {
		next.ClockIn = patch.ClockIn
	}
	if patch.ClockOut != nil {
		next.ClockOut = patch.ClockOut
	}

	if next.ClockIn != nil && !dateutil.DayOf(*next.ClockIn, loc).Equal(day) {
		return nil, false, attendance.NewStateError(attendance.ErrInvalidEditWindow, current)
	}
	if next.ClockOut != nil {
		if next.ClockIn == nil || !next.ClockOut.After(*next.ClockIn) {
			return nil, false, attendance.NewStateError(attendance.ErrInvalidEditWindow, current)
		}
		if next.ClockOut.Sub(*next.ClockIn) > maxSessionSpan {
			return nil, false, attendance.NewStateError(attendance.ErrInvalidEditWindow, current)
		}
	}
	next.WorkDuration = sessionDuration(&next)

	switch {
	case patch.ClearStatus:
		next.StatusOverride = nil
		next.OverrideHolidayName = nil
	case patch.Status != nil:
		status := *patch.Status
		next.StatusOverride = &status
		next.OverrideHolidayName = nil
		if status == attendance.StatusHoliday && patch.HolidayName != nil && *patch.HolidayName != "" {
			name := *patch.HolidayName
			next.OverrideHolidayName = &name
		}
	}

	if current == nil && next.ClockIn == nil && next.StatusOverride == nil {
		// Nothing to record for a day that has no session.
		return nil, false, nil
	}

	return &next, !sameSession(current, &next), nil
}

// sameSession compares the user-editable fields of two sessions.
func sameSession(a, b *attendance.Session) bool {
	if a == nil || b == nil {
		return a == b
	}
	return sameInstant(a.ClockIn, b.ClockIn) &&
		sameInstant(a.ClockOut, b.ClockOut) &&
		sameStatus(a.StatusOverride, b.StatusOverride) &&
		sameString(a.OverrideHolidayName, b.OverrideHolidayName)
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func sameStatus(a, b *attendance.Status) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func truncatePatch(patch attendance.SessionPatch) attendance.SessionPatch {
	if patch.ClockIn != nil {
		t := patch.ClockIn.UTC().Truncate(time.Millisecond)
		patch.ClockIn = &t
	}
	if patch.ClockOut != nil {
		t := patch.ClockOut.UTC().Truncate(time.Millisecond)
		patch.ClockOut = &t
	}
	return patch
}
