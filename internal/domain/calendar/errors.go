package calendar

import "errors"

var (
	ErrCalendarUnavailable = errors.New("holiday calendar unavailable")
	ErrInvalidCountry      = errors.New("invalid country code")
	ErrInvalidYear         = errors.New("invalid year")
)
