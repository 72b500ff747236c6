package hebrew

import (
	"fmt"
	"time"

	"github.com/hebcal/hdate"
)

// RoshChodeshDay is one public new-month day.
type RoshChodeshDay struct {
	Date  time.Time
	Month hdate.HMonth
	Year  int
	Day   int // 30 for the closing day of the outgoing month, else 1
}

// RoshChodeshWindow lists the Rosh Chodesh day(s) of the month following the
// one containing ref: two days when the current month has 30 days, otherwise
// one. Dates carry ref's location at midnight.
func RoshChodeshWindow(ref time.Time) ([]RoshChodeshDay, error) {
	cur := MonthStateAt(ref)
	next := cur.Next()
	loc := ref.Location()

	days := cur.Days()
	if days != 29 && days != 30 {
		return nil, fmt.Errorf("%w: %d days in month %d of %d", ErrMonthLength, days, cur.Month, cur.Year)
	}

	var window []RoshChodeshDay
	if days == 30 {
		y, m, d := hdate.New(cur.Year, cur.Month, 30).Greg()
		window = append(window, RoshChodeshDay{
			Date:  time.Date(y, m, d, 0, 0, 0, 0, loc),
			Month: cur.Month,
			Year:  cur.Year,
			Day:   30,
		})
	}
	window = append(window, RoshChodeshDay{
		Date:  next.FirstDay(loc),
		Month: next.Month,
		Year:  next.Year,
		Day:   1,
	})
	return window, nil
}

// PreviousRoshChodesh finds the most recent first-of-month on or before ref.
func PreviousRoshChodesh(ref time.Time) (time.Time, error) {
	day := dateOnly(ref)
	for i := 0; i < 31; i++ {
		if hdate.FromGregorian(day.Year(), day.Month(), day.Day()).Day() == 1 {
			return day, nil
		}
		day = day.AddDate(0, 0, -1)
	}
	return time.Time{}, fmt.Errorf("%w: searched 31 days back from %s",
		ErrNoRoshChodesh, dateOnly(ref).Format("2006-01-02"))
}

// NextRoshChodesh finds the first first-of-month on or after ref.
func NextRoshChodesh(ref time.Time) (time.Time, error) {
	day := dateOnly(ref)
	for i := 0; i < 31; i++ {
		if hdate.FromGregorian(day.Year(), day.Month(), day.Day()).Day() == 1 {
			return day, nil
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, fmt.Errorf("%w: searched 31 days forward from %s",
		ErrNoRoshChodesh, dateOnly(ref).Format("2006-01-02"))
}

// MevarchimFriday maps a Rosh Chodesh date to the Friday of the Shabbat on
// which the coming month is announced. A Rosh Chodesh falling on Friday or
// Shabbat is announced the week before.
func MevarchimFriday(roshChodesh time.Time) time.Time {
	rc := dateOnly(roshChodesh)
	switch rc.Weekday() {
	case time.Friday:
		return rc.AddDate(0, 0, -7)
	case time.Saturday:
		return rc.AddDate(0, 0, -8)
	default:
		delta := (int(rc.Weekday()) - int(time.Friday) + 7) % 7
		return rc.AddDate(0, 0, -delta)
	}
}

// IsMevarchim reports whether candidateFriday is the announcement Friday for
// roshChodesh. It is false whenever Rosh Chodesh does not fall strictly
// after the candidate.
func IsMevarchim(candidateFriday, roshChodesh time.Time) bool {
	friday := MevarchimFriday(roshChodesh)
	return sameDay(friday, candidateFriday) && dayBefore(friday, roshChodesh)
}
