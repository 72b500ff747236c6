package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Clock is a wall-clock time expressed in minutes since midnight.
type Clock int

// NewClock builds a Clock from an hour and minute pair.
func NewClock(hour, min int) Clock {
	return Clock(hour*60 + min)
}

// ParseClock parses a "HH:MM" string into a Clock.
func ParseClock(raw string) (Clock, error) {
	s := strings.TrimSpace(raw)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock format: %q", raw)
	}

	var hour, min int
	if _, err := fmt.Sscanf(parts[0], "%d", &hour); err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &min); err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, fmt.Errorf("clock out of range: %q", raw)
	}

	return NewClock(hour, min), nil
}

// ClockOf extracts the Clock from a time.Time, dropping the date.
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute())
}

// Hour returns the hour component (0-23 for in-day values).
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute component.
func (c Clock) Minute() int { return int(c) % 60 }

// Add returns the clock shifted by the given number of minutes.
func (c Clock) Add(minutes int) Clock { return c + Clock(minutes) }

// Floor5 rounds down to the previous multiple of five minutes.
func (c Clock) Floor5() Clock { return Clock(floorDiv(int(c), 5) * 5) }

// Ceil5 rounds up to the next multiple of five minutes.
func (c Clock) Ceil5() Clock { return Clock(floorDiv(int(c)+4, 5) * 5) }

// At anchors the clock onto a calendar date in the given location.
func (c Clock) At(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour(), c.Minute(), 0, 0, loc)
}

// String renders the clock as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// floorDiv divides rounding toward negative infinity, matching the
// rounding the derivation rules are defined with.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
