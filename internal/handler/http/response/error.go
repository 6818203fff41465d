package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Rejected clock and edit actions carry the session that caused them
	var details any
	var stateErr *attendance.StateError
	if errors.As(err, &stateErr) && stateErr.Session != nil {
		details = map[string]any{"session": attendance.NewSessionResponse(*stateErr.Session)}
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "ALREADY_CLOCKED_IN", err.Error(), details)
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		Conflict(w, "ALREADY_CLOCKED_OUT", err.Error(), details)
	case errors.Is(err, attendance.ErrNoActiveSession):
		Conflict(w, "NO_ACTIVE_SESSION", err.Error(), details)
	case errors.Is(err, attendance.ErrConcurrencyConflict):
		Conflict(w, "CONCURRENCY_CONFLICT", "Attendance was modified concurrently, please retry", details)
	case errors.Is(err, attendance.ErrInvalidInterval):
		Error(w, http.StatusUnprocessableEntity, "INVALID_INTERVAL", err.Error(), details)
	case errors.Is(err, attendance.ErrInvalidEditWindow):
		Error(w, http.StatusUnprocessableEntity, "INVALID_EDIT_WINDOW", err.Error(), details)
	case errors.Is(err, attendance.ErrStatusEditForbidden):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrInvalidStatus):
		Error(w, http.StatusUnprocessableEntity, "INVALID_STATUS", err.Error(), nil)
	case errors.Is(err, attendance.ErrInvalidUserID):
		BadRequest(w, "User ID is required", nil)
	case errors.Is(err, attendance.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)

	// Calendar domain errors
	case errors.Is(err, calendar.ErrInvalidCountry):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, calendar.ErrInvalidYear):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, calendar.ErrCalendarUnavailable):
		ServiceUnavailable(w, "Holiday calendar is unavailable")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
