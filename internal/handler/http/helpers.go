package http

import (
	"errors"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/validator"
)

var expectedErrors = []error{
	attendance.ErrAlreadyClockedIn,
	attendance.ErrAlreadyClockedOut,
	attendance.ErrNoActiveSession,
	attendance.ErrInvalidInterval,
	attendance.ErrInvalidEditWindow,
	attendance.ErrStatusEditForbidden,
	attendance.ErrConcurrencyConflict,
	attendance.ErrInvalidUserID,
	attendance.ErrInvalidStatus,
	attendance.ErrInvalidPeriod,
	calendar.ErrInvalidCountry,
	calendar.ErrInvalidYear,
}

// isUnexpected reports whether err is neither a validation failure nor a known domain error.
func isUnexpected(err error) bool {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return false
	}
	for _, target := range expectedErrors {
		if errors.Is(err, target) {
			return false
		}
	}
	return true
}
