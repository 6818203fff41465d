package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31", "2024-02-29"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023-02-29", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsCountryCode(t *testing.T) {
	valid := []string{"IN", "us", "Id"}
	invalid := []string{"", "IND", "1N", "I"}
	for _, s := range valid {
		if !IsCountryCode(s) {
			t.Errorf("IsCountryCode(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsCountryCode(s) {
			t.Errorf("IsCountryCode(%q) = true, want false", s)
		}
	}
}

func TestIsValidClockTime(t *testing.T) {
	got, ok := IsValidClockTime("09:30")
	if !ok || got.Hour() != 9 || got.Minute() != 30 {
		t.Errorf("IsValidClockTime(\"09:30\") = %v, %v", got, ok)
	}
	for _, s := range []string{"24:00", "9.30", "", "09:30:00"} {
		if _, ok := IsValidClockTime(s); ok {
			t.Errorf("IsValidClockTime(%q) = true, want false", s)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	got, ok := IsValidDateTime("2024-01-15T10:30:00+05:30")
	if !ok {
		t.Fatalf("IsValidDateTime() = false, want true")
	}
	if want := time.Date(2024, 1, 15, 5, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("IsValidDateTime() = %v, want %v", got, want)
	}
	if _, ok := IsValidDateTime("2024-01-15 10:30:00"); ok {
		t.Errorf("IsValidDateTime() without zone = true, want false")
	}

	nano, ok := IsValidDateTime("2024-01-15T10:30:00.123456789Z")
	if !ok {
		t.Fatalf("IsValidDateTime() with nanoseconds = false, want true")
	}
	if want := time.Date(2024, 1, 15, 10, 30, 0, 123456789, time.UTC); !nano.Equal(want) {
		t.Errorf("IsValidDateTime() = %v, want %v", nano, want)
	}

	milli, ok := IsValidDateTime("2025-03-03T09:15:00.250+05:30")
	if !ok {
		t.Fatalf("IsValidDateTime() with milliseconds = false, want true")
	}
	if want := time.Date(2025, 3, 3, 3, 45, 0, 250000000, time.UTC); !milli.Equal(want) {
		t.Errorf("IsValidDateTime() = %v, want %v", milli, want)
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "invalid"},
		{Field: "status", Message: "required"},
	}
	got := errs.Error()
	want := "date: invalid; status: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "invalid"},
		{Field: "status", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"date": "invalid", "status": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
