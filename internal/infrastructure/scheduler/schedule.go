package scheduler

import (
	"fmt"
	"time"
)

// IntervalSchedule runs a job every Interval.
type IntervalSchedule struct {
	Interval time.Duration
}

// Next returns t + Interval.
func (s IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

func (s IntervalSchedule) String() string {
	return "@every " + s.Interval.String()
}

// DailySchedule runs a job once a day at a wall-clock time, in the
// location of the time passed to Next.
type DailySchedule struct {
	Hour   int
	Minute int
}

// ParseDaily parses "HH:MM" (24h).
func ParseDaily(s string) (DailySchedule, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return DailySchedule{}, fmt.Errorf("invalid daily time %q, want HH:MM", s)
	}
	return DailySchedule{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Next returns the first HH:MM after t.
func (s DailySchedule) Next(t time.Time) time.Time {
	next := time.Date(t.Year(), t.Month(), t.Day(), s.Hour, s.Minute, 0, 0, t.Location())
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s DailySchedule) String() string {
	return fmt.Sprintf("@daily %02d:%02d", s.Hour, s.Minute)
}
