package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
)

const (
	msPerSecond = int64(time.Second / time.Millisecond)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// Duration computes the worked time between clockIn and clockOut. The whole
// hours/minutes/seconds are truncated and DecimalHours is exact, both taken
// from the same millisecond difference. A non-positive interval is rejected.
func Duration(clockIn, clockOut time.Time) (attendance.WorkDuration, error) {
	if !clockOut.After(clockIn) {
		return attendance.WorkDuration{}, attendance.ErrInvalidInterval
	}

	ms := clockOut.UnixMilli() - clockIn.UnixMilli()
	if ms <= 0 {
		return attendance.WorkDuration{}, attendance.ErrInvalidInterval
	}

	return attendance.WorkDuration{
		Milliseconds: ms,
		Hours:        int(ms / msPerHour),
		Minutes:      int(ms % msPerHour / msPerMinute),
		Seconds:      int(ms % msPerMinute / msPerSecond),
		DecimalHours: float64(ms) / float64(msPerHour),
	}, nil
}

// sessionDuration is the duration of a closed session, nil otherwise.
func sessionDuration(s *attendance.Session) *attendance.WorkDuration {
	if s == nil || s.ClockIn == nil || s.ClockOut == nil {
		return nil
	}
	d, err := Duration(*s.ClockIn, *s.ClockOut)
	if err != nil {
		return nil
	}
	return &d
}

// formatDuration renders "8h30m0s", or "0s" for a nil duration.
func formatDuration(d *attendance.WorkDuration) string {
	if d == nil {
		return "0s"
	}
	return fmt.Sprintf("%dh%dm%ds", d.Hours, d.Minutes, d.Seconds)
}
