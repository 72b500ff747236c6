package schedule

import (
	"fmt"
	"sort"
	"time"
)

// Service is a schedule entry materialized onto a calendar instant.
type Service struct {
	ID    ServiceID
	Label string
	Time  time.Time
}

// ShortLabels maps service identifiers to compact status-bar labels.
var ShortLabels = map[ServiceID]string{
	EveningPsalms:         "Chir",
	CandleMincha:          "Min'ha",
	MorningService:        "Cha'h",
	AfternoonMincha:       "M.Gdola",
	ChildrenPsalms:        "Téhilim",
	WomensClass:           "Nachim",
	AfternoonClass:        "Chiour",
	PreSunsetClass:        "Paracha",
	SecondMincha:          "Min'ha 2",
	ClosingEveningService: "Arvit",
	WeekdayMincha:         "Min'ha",
	WeekdayEveningService: "Arvit",
}

// Materialize spreads the schedule entries over their calendar days relative
// to the Shabbat (Saturday) date: entry services land on the preceding Friday,
// day services on Saturday, and the weekday services on each of the following
// Sunday through Thursday. Absent entries are skipped. The result is sorted
// chronologically.
func Materialize(s Schedule, shabbatDate time.Time, loc *time.Location) []Service {
	friday := shabbatDate.AddDate(0, 0, -1)

	var out []Service
	add := func(id ServiceID, day time.Time, c Clock) {
		out = append(out, Service{ID: id, Label: Labels[id], Time: c.At(day, loc)})
	}

	for _, e := range s.Entries {
		t, ok := e.Time()
		if !ok {
			continue
		}
		switch e.ID {
		case EveningPsalms, CandleMincha:
			add(e.ID, friday, t)
		case WeekdayMincha, WeekdayEveningService:
			for d := 1; d <= 5; d++ {
				add(e.ID, shabbatDate.AddDate(0, 0, d), t)
			}
		default:
			add(e.ID, shabbatDate, t)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

// NextService finds the next upcoming service relative to now.
// It returns nil when every service in the slice has passed.
func NextService(services []Service, now time.Time) *Service {
	for i := range services {
		if services[i].Time.After(now) {
			return &services[i]
		}
	}
	return nil
}

// TimeRemaining returns the duration until the given service.
func TimeRemaining(svc Service, now time.Time) time.Duration {
	return svc.Time.Sub(now)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
