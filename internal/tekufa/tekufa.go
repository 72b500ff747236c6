// Package tekufa generates and matches the four seasonal quarter markers of
// Shmuel's reckoning, spaced 91 days and 7.5 hours apart from a reference
// autumn equinox.
package tekufa

import "time"

// Interval separates consecutive markers.
const Interval = 91*24*time.Hour + 7*time.Hour + 30*time.Minute

// Names cycle through the four seasons starting from the autumn reference.
var Names = [4]string{"Tekufat Tishri", "Tekufat Tevet", "Tekufat Nisan", "Tekufat Tammuz"}

// Event is one quarter marker.
type Event struct {
	Time  time.Time
	Label string
}

// Epoch returns the reference marker, Tekufat Tishri of 5784, read as wall
// time in loc.
func Epoch(loc *time.Location) time.Time {
	return time.Date(2023, time.October, 7, 21, 39, 0, 0, loc)
}

// Series produces count events spaced Interval apart from start, cycling the
// four labels. Spacing is wall-clock arithmetic: a daylight-saving change
// never shifts the printed hour.
func Series(start time.Time, count int) []Event {
	base := time.Date(start.Year(), start.Month(), start.Day(),
		start.Hour(), start.Minute(), start.Second(), 0, time.UTC)
	loc := start.Location()

	events := make([]Event, 0, count)
	for i := 0; i < count; i++ {
		t := base.Add(time.Duration(i) * Interval)
		events = append(events, Event{
			Time: time.Date(t.Year(), t.Month(), t.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, loc),
			Label: Names[i%len(Names)],
		})
	}
	return events
}

// Through generates the series from the reference epoch to at least until,
// with a margin so the weeks that follow stay covered.
func Through(until time.Time, loc *time.Location) []Event {
	epoch := Epoch(loc)
	n := 8
	if until.After(epoch) {
		n += int(until.Sub(epoch) / Interval)
	}
	return Series(epoch, n)
}

// Next returns the first event at or after from, or nil when the series
// ends before it.
func Next(series []Event, from time.Time) *Event {
	for i := range series {
		if !series[i].Time.Before(from) {
			return &series[i]
		}
	}
	return nil
}

// MatchWeek returns the first event falling inside the week beginning on
// weekStart's date, through 23:59 on the seventh day. It returns nil when
// the week holds none; given the interval, a week never holds two.
func MatchWeek(series []Event, weekStart time.Time) *Event {
	y, m, d := weekStart.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, weekStart.Location())
	end := start.AddDate(0, 0, 6).Add(23*time.Hour + 59*time.Minute)

	for i := range series {
		if t := series[i].Time; !t.Before(start) && !t.After(end) {
			return &series[i]
		}
	}
	return nil
}
