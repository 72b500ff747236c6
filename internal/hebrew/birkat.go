package hebrew

import "time"

// Birkat HaLevana is recited from 6 days after the molad until 12 days and
// 18 hours after it, half the mean lunation.
const (
	birkatStartDays = 6
	birkatEndDays   = 12
	birkatEndHours  = 18
)

// BirkatStatus classifies a date against a BirkatWindow.
type BirkatStatus int

const (
	BirkatBefore BirkatStatus = iota
	BirkatWithin
	BirkatAfter
)

func (s BirkatStatus) String() string {
	switch s {
	case BirkatBefore:
		return "before"
	case BirkatWithin:
		return "within"
	case BirkatAfter:
		return "after"
	default:
		return "unknown"
	}
}

// BirkatWindow is the eligibility window for the new-month blessing.
type BirkatWindow struct {
	Molad time.Time
	Start time.Time
	End   time.Time
}

// BirkatWindowFor computes the blessing window of the month that begins on
// roshChodesh. The molad clock is read as wall time on the Rosh Chodesh
// date itself.
func BirkatWindowFor(roshChodesh time.Time) (BirkatWindow, error) {
	m, err := MoladOf(MonthStateAt(roshChodesh), roshChodesh.Location())
	if err != nil {
		return BirkatWindow{}, err
	}

	anchor := dateOnly(roshChodesh).Add(
		time.Duration(m.Hour)*time.Hour +
			time.Duration(m.Minute)*time.Minute +
			chalakimDuration(m.Chalakim))

	return BirkatWindow{
		Molad: anchor,
		Start: anchor.AddDate(0, 0, birkatStartDays),
		End:   anchor.AddDate(0, 0, birkatEndDays).Add(birkatEndHours * time.Hour),
	}, nil
}

// Classify places a date relative to the window. Comparison is by calendar
// day: a date sharing the start or end day is within.
func (w BirkatWindow) Classify(date time.Time) BirkatStatus {
	switch {
	case dayBefore(date, w.Start):
		return BirkatBefore
	case dayBefore(w.End, date):
		return BirkatAfter
	default:
		return BirkatWithin
	}
}
