package schedule

import "time"

// Season is the seasonal regime a schedule is derived under.
type Season int

const (
	Winter Season = iota
	Summer
)

// Summer runs from March 29 through October 26 inclusive, per the
// community's fixed yearly boundaries.
const (
	summerStartMonth = time.March
	summerStartDay   = 29
	summerEndMonth   = time.October
	summerEndDay     = 26
)

// String returns "summer" or "winter".
func (s Season) String() string {
	if s == Summer {
		return "summer"
	}
	return "winter"
}

// ResolveSeason reports the seasonal regime in effect on the given date.
// The boundaries are fixed calendar dates within the date's own year.
func ResolveSeason(date time.Time) Season {
	year := date.Year()
	start := time.Date(year, summerStartMonth, summerStartDay, 0, 0, 0, 0, date.Location())
	end := time.Date(year, summerEndMonth, summerEndDay, 23, 59, 59, 0, date.Location())
	if !date.Before(start) && !date.After(end) {
		return Summer
	}
	return Winter
}
