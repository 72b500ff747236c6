package hebrew

import (
	"fmt"
	"time"
)

// Classical molad constants. A chelek is 1/18 of a minute; the mean lunar
// month is 29 days, 12 hours and 793 chalakim, and the epoch molad (BeHaRaD)
// fell 1 day, 5 hours and 204 chalakim into the calendar's first week.
const (
	chalakimPerMinute = 18
	chalakimPerHour   = 60 * chalakimPerMinute
	chalakimPerDay    = 24 * chalakimPerHour
	chalakimPerMonth  = 29*chalakimPerDay + 12*chalakimPerHour + 793
	chalakimMoladTohu = 1*chalakimPerDay + 5*chalakimPerHour + 204
)

// Rata-die offset of the calendar epoch: day 1 of the molad count falls
// 1_373_429 days before Monday, January 1 of year 1.
const epochToRD = 1373429

// Molad is the calculated moment a lunar month begins, expressed on the
// civil clock. WeekdayName and MonthStart describe the evening the month
// begins on: the Gregorian day before the 1st of the month.
type Molad struct {
	Hour     int // 0-23
	Minute   int // 0-59
	Chalakim int // 0-17

	Moment      time.Time
	WeekdayName string
	MonthStart  time.Time
}

// MoladOf computes the molad of the given month. It fails only when the
// month state does not exist in its year.
func MoladOf(state MonthState, loc *time.Location) (Molad, error) {
	if !state.Valid() {
		return Molad{}, fmt.Errorf("%w: month %d of %d", ErrInvalidMonth, state.Month, state.Year)
	}

	total := chalakimSinceTohu(state)
	day := int(total / chalakimPerDay)
	parts := int(total % chalakimPerDay)

	// Hours count from 18:00 on the evening the Jewish day begins, so the
	// civil day advances once the count passes midnight.
	rawHours := parts / chalakimPerHour
	rem := parts % chalakimPerHour

	m := Molad{
		Hour:     (rawHours + 18) % 24,
		Minute:   rem / chalakimPerMinute,
		Chalakim: rem % chalakimPerMinute,
	}

	rd := day - epochToRD
	if rawHours >= 6 {
		rd++
	}
	m.Moment = rdDate(rd, loc).Add(
		time.Duration(m.Hour)*time.Hour +
			time.Duration(m.Minute)*time.Minute +
			chalakimDuration(m.Chalakim))

	m.MonthStart = state.FirstDay(loc).AddDate(0, 0, -1)
	m.WeekdayName = WeekdayName(m.MonthStart)
	return m, nil
}

// chalakimSinceTohu counts chalakim from the epoch molad to the molad of the
// given month.
func chalakimSinceTohu(state MonthState) int64 {
	return chalakimMoladTohu + chalakimPerMonth*monthsSinceTohu(state)
}

// monthsSinceTohu counts whole lunar months from Tishrei of year 1, walking
// 19-year cycles with leap years at positions where (7y+1) mod 19 < 7.
func monthsSinceTohu(state MonthState) int64 {
	elapsed := state.Year - 1
	cycles := elapsed / 19
	rem := elapsed % 19
	months := 235*cycles + 12*rem + (7*rem+1)/19
	return int64(months + monthOrdinal(state) - 1)
}

// monthOrdinal positions the month within its year counting from Tishrei,
// the month the year number changes on.
func monthOrdinal(state MonthState) int {
	shift := 5
	if state.Leap() {
		shift = 6
	}
	return (int(state.Month)+shift)%(shift+7) + 1
}

// chalakimDuration converts chalakim to wall time; 18 chalakim make a minute.
func chalakimDuration(n int) time.Duration {
	return time.Duration(n) * 10 * time.Second / 3
}

// rdDate converts a rata-die day number to midnight of that Gregorian day.
func rdDate(rd int, loc *time.Location) time.Time {
	return time.Date(1, time.January, 1, 0, 0, 0, 0, loc).AddDate(0, 0, rd-1)
}
