package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Clock errors
	ErrAlreadyClockedIn  = errors.New("already clocked in today")
	ErrAlreadyClockedOut = errors.New("already clocked out today")
	ErrNoActiveSession   = errors.New("no active session for today")

	// Interval errors
	ErrInvalidInterval   = errors.New("clock-out must be later than clock-in")
	ErrInvalidEditWindow = errors.New("edit would place the session outside its day or clock-out at or before clock-in")

	// Edit permission errors
	ErrStatusEditForbidden = errors.New("only a manager can change the attendance status")

	// Store errors
	ErrConcurrencyConflict = errors.New("session was modified concurrently")

	// General errors
	ErrInvalidUserID = errors.New("user id is required")
	ErrInvalidStatus = errors.New("invalid attendance status")
	ErrInvalidPeriod = errors.New("invalid report period")
)

// StateError is a rejected clock or edit action together with the session
// state that caused the rejection.
type StateError struct {
	Err     error
	Session *Session
}

func (e *StateError) Error() string {
	if e.Session == nil {
		return e.Err.Error()
	}
	switch {
	case errors.Is(e.Err, ErrAlreadyClockedIn) && e.Session.ClockIn != nil:
		return fmt.Sprintf("%s at %s", e.Err, e.Session.ClockIn.UTC().Format("15:04:05 MST"))
	case errors.Is(e.Err, ErrAlreadyClockedOut) && e.Session.ClockOut != nil:
		return fmt.Sprintf("%s at %s", e.Err, e.Session.ClockOut.UTC().Format("15:04:05 MST"))
	}
	return fmt.Sprintf("%s (state: %s)", e.Err, e.Session.State())
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// NewStateError wraps err with a copy of the current session.
func NewStateError(err error, s *Session) error {
	var snapshot *Session
	if s != nil {
		c := *s
		snapshot = &c
	}
	return &StateError{Err: err, Session: snapshot}
}
