package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// ISO 3166-1 alpha-2, either case.
var countryCodeRegex = regexp.MustCompile(`^[A-Za-z]{2}$`)

func IsCountryCode(code string) bool {
	return countryCodeRegex.MatchString(code)
}

// IsValidClockTime checks a wall-clock time in "15:04" format, as used for thresholds.
func IsValidClockTime(s string) (time.Time, bool) {
	t, err := time.Parse("15:04", s)
	return t, err == nil
}

var dateTimeLayouts = []string{time.RFC3339, time.RFC3339Nano}

// IsValidDateTime parses an RFC3339 instant, with or without fractional seconds.
func IsValidDateTime(dateTimeStr string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, dateTimeStr); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
