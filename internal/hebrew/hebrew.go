// Package hebrew computes the lunar-calendar annotations of the weekly
// schedule: month states, molad moments, Rosh Chodesh windows, Shabbat
// Mevarchim detection and the Birkat HaLevana eligibility window.
//
// Gregorian/Hebrew date conversion is delegated to github.com/hebcal/hdate;
// everything layered on top of the raw conversion lives here. All functions
// are pure and operate on calendar days, so results are independent of the
// clock component of their inputs.
package hebrew

import (
	"errors"
	"time"

	"github.com/hebcal/hdate"
)

var (
	// ErrInvalidMonth reports a month state that does not exist, such as
	// Adar II of a common year.
	ErrInvalidMonth = errors.New("hebrew: invalid month state")

	// ErrMonthLength reports a month length outside the 29-30 day range.
	ErrMonthLength = errors.New("hebrew: cannot determine month length")

	// ErrNoRoshChodesh reports that no month boundary was found within the
	// scan horizon.
	ErrNoRoshChodesh = errors.New("hebrew: no rosh chodesh found")
)

// MonthState identifies one lunar month. Months follow the hdate numbering,
// Nisan is 1 and Adar II is 13; the year number changes at Tishrei.
type MonthState struct {
	Year  int
	Month hdate.HMonth
}

// MonthStateAt returns the lunar month containing the given Gregorian date.
func MonthStateAt(date time.Time) MonthState {
	hd := hdate.FromGregorian(date.Year(), date.Month(), date.Day())
	return MonthState{Year: hd.Year(), Month: hd.Month()}
}

// Leap reports whether the state's year has thirteen months.
func (s MonthState) Leap() bool { return hdate.IsLeapYear(s.Year) }

// Valid reports whether the month exists in the state's year.
func (s MonthState) Valid() bool {
	if s.Month < hdate.Nisan || s.Month > hdate.Adar2 {
		return false
	}
	return s.Month != hdate.Adar2 || s.Leap()
}

// Days returns the number of days in the month, 29 or 30.
func (s MonthState) Days() int { return hdate.DaysInMonth(s.Month, s.Year) }

// Next returns the month that follows s. Adar II is always followed by Nisan
// of the same numbered year, and Elul by Tishrei of the next year.
func (s MonthState) Next() MonthState {
	switch {
	case s.Month == hdate.Elul:
		return MonthState{Year: s.Year + 1, Month: hdate.Tishrei}
	case s.Month == hdate.Adar2:
		return MonthState{Year: s.Year, Month: hdate.Nisan}
	case s.Month == hdate.Adar1 && !s.Leap():
		return MonthState{Year: s.Year, Month: hdate.Nisan}
	default:
		return MonthState{Year: s.Year, Month: s.Month + 1}
	}
}

// FirstDay returns the Gregorian date of the 1st of the month, at midnight
// in loc.
func (s MonthState) FirstDay(loc *time.Location) time.Time {
	y, m, d := hdate.New(s.Year, s.Month, 1).Greg()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// dateOnly truncates a moment to midnight of its calendar day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// sameDay reports whether two moments share a calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// dayBefore reports whether a's calendar day precedes b's.
func dayBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
