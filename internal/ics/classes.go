package ics

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/pilou73/horaires-shabbat/internal/schedule"
)

// classProductID identifies the weekly class calendar.
const classProductID = "-//Horaires Chabbat (cours hebdomadaires)//"

// icalLocalLayout is the floating local-time form. Class hours are fixed
// wall-clock times; a timezone reference would shift them across DST.
const icalLocalLayout = "20060102T150405"

const defaultClassLength = time.Hour

// rruleWeekdays maps time.Weekday (Sunday first) onto rrule weekdays.
var rruleWeekdays = [...]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// icalByDay maps time.Weekday onto RRULE BYDAY codes.
var icalByDay = [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// WeeklyClass is a fixed weekly appointment on the community board.
type WeeklyClass struct {
	ID      schedule.ServiceID
	Weekday time.Weekday
	At      schedule.Clock
	Length  time.Duration
}

// WeeklyClasses returns the fixed classes for the season: the women's class
// and the children's psalms reading at the seasonal hour.
func WeeklyClasses(season schedule.Season) []WeeklyClass {
	children := schedule.NewClock(14, 0)
	if season == schedule.Summer {
		children = schedule.NewClock(17, 0)
	}
	return []WeeklyClass{
		{ID: schedule.WomensClass, Weekday: time.Saturday, At: schedule.NewClock(16, 15)},
		{ID: schedule.ChildrenPsalms, Weekday: time.Saturday, At: children},
	}
}

// WriteClasses serializes the classes as weekly recurring VEVENTs starting
// from the first matching weekday on or after from.
func WriteClasses(w io.Writer, classes []WeeklyClass, from time.Time) error {
	cal := ical.NewCalendar()
	cal.SetProductId(classProductID)
	cal.SetVersion("2.0")

	now := time.Now().UTC()
	for _, c := range classes {
		first, err := firstOccurrence(c, from)
		if err != nil {
			return err
		}
		length := c.Length
		if length <= 0 {
			length = defaultClassLength
		}

		e := cal.AddEvent(fmt.Sprintf("class-%s@horaires-shabbat", c.ID))
		e.SetDtStampTime(now)
		e.SetSummary(schedule.Labels[c.ID])
		e.SetProperty(ical.ComponentPropertyDtStart, first.Format(icalLocalLayout))
		e.SetProperty(ical.ComponentPropertyDtEnd, first.Add(length).Format(icalLocalLayout))
		e.SetProperty(ical.ComponentPropertyRrule, "FREQ=WEEKLY;BYDAY="+icalByDay[c.Weekday])
	}
	return cal.SerializeTo(w)
}

// firstOccurrence resolves the first date on or after from that falls on the
// class weekday, at the class hour.
func firstOccurrence(c WeeklyClass, from time.Time) (time.Time, error) {
	y, m, d := from.Date()
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rruleWeekdays[c.Weekday]},
		Dtstart:   time.Date(y, m, d, c.At.Hour(), c.At.Minute(), 0, 0, from.Location()),
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("ics: build recurrence for %s: %w", c.ID, err)
	}

	first := r.After(time.Date(y, m, d, 0, 0, 0, 0, from.Location()), true)
	if first.IsZero() {
		return time.Time{}, fmt.Errorf("ics: no occurrence for %s", c.ID)
	}
	return first, nil
}
