// Package timeutil provides calendar-date helpers.
// Dates are represented as time.Time at UTC midnight; the zero value means
// "no date".
package timeutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the only accepted textual date form (yyyy-MM-dd).
const DateLayout = "2006-01-02"

// Date creates a calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// StartOfDay returns the calendar date of t as seen in t's own location.
func StartOfDay(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ErrReservedDate is returned for 0001-01-01, which collides with the zero
// value used for "no date".
var ErrReservedDate = errors.New("0001-01-01 is reserved for a missing date")

// ParseDate parses a yyyy-MM-dd string strictly.
// Out-of-range days such as 2024-02-30 are rejected, and so is 0001-01-01.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, ErrReservedDate)
	}
	return t, nil
}

// FormatDate formats a date as yyyy-MM-dd. The zero value formats as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// Now implements Clock.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now implements Clock.
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// Today returns the current calendar date according to clock.
func Today(clock Clock) time.Time {
	return StartOfDay(clock.Now())
}

// LoadLocation resolves a timezone name. "" and "Local" mean the host zone.
func LoadLocation(name string) (*time.Location, error) {
	switch name {
	case "", "Local":
		return time.Local, nil
	default:
		return time.LoadLocation(name)
	}
}
