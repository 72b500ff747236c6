package schedule

// ServiceID identifies one derived service time.
type ServiceID string

const (
	EveningPsalms         ServiceID = "evening-psalms"
	CandleMincha          ServiceID = "candle-related-mincha"
	MorningService        ServiceID = "morning-service"
	AfternoonMincha       ServiceID = "afternoon-mincha"
	ChildrenPsalms        ServiceID = "children-psalms"
	WomensClass           ServiceID = "womens-class"
	AfternoonClass        ServiceID = "afternoon-class"
	PreSunsetClass        ServiceID = "pre-sunset-class"
	SecondMincha          ServiceID = "second-mincha"
	ClosingEveningService ServiceID = "closing-evening-service"
	WeekdayMincha         ServiceID = "weekday-mincha"
	WeekdayEveningService ServiceID = "weekday-evening-service"
)

// AllServiceIDs lists every service in canonical display order. The order is
// for deterministic external consumption only; it carries no computational
// meaning.
var AllServiceIDs = []ServiceID{
	EveningPsalms,
	CandleMincha,
	MorningService,
	AfternoonMincha,
	ChildrenPsalms,
	WomensClass,
	AfternoonClass,
	PreSunsetClass,
	SecondMincha,
	ClosingEveningService,
	WeekdayMincha,
	WeekdayEveningService,
}

// Labels maps service identifiers to their board labels.
var Labels = map[ServiceID]string{
	EveningPsalms:         "Chir Hachirim",
	CandleMincha:          "Min'ha & Kabbalat Chabbat",
	MorningService:        "Cha'harit",
	AfternoonMincha:       "Min'ha Guedola",
	ChildrenPsalms:        "Téhilim enfants",
	WomensClass:           "Chiour Nachim",
	AfternoonClass:        "Chiour du Rav",
	PreSunsetClass:        "Parachat Hachavoua",
	SecondMincha:          "Min'ha 2",
	ClosingEveningService: "Arvit Motsaé Chabbat",
	WeekdayMincha:         "Min'ha (semaine)",
	WeekdayEveningService: "Arvit (semaine)",
}

// Offsets and fixed anchors of the derivation rules, in minutes.
// Consolidated here so a drifted constant is a one-line product decision.
const (
	eveningPsalmsLead  = 10 // before Shabbat start, also the minimum gap
	secondMinchaLead   = 90 // before Shabbat end
	afternoonClassLead = 45 // before second mincha
	preSunsetClassLead = 45 // before afternoon class
	closingServiceLead = 9  // before Shabbat end
	weekdayMinchaLead  = 18 // before the earliest weekday sunset
	weekdayEveningLag  = 20 // after the latest weekday sunset
)

var (
	morningServiceAt       = NewClock(7, 45)
	afternoonMinchaWinter  = NewClock(12, 30)
	afternoonMinchaSummer  = NewClock(13, 0)
	childrenPsalmsSummerAt = NewClock(17, 0)
	childrenPsalmsWinterAt = NewClock(14, 0)
	womensClassAt          = NewClock(16, 15)
)

// Entry is one derived schedule value. Times is empty for an absent entry,
// holds one Clock for a plain service, and two for the seasonal pair exposed
// by the summer regime (summer value first, winter value second).
type Entry struct {
	ID    ServiceID
	Times []Clock
}

// Absent reports whether the entry has no value.
func (e Entry) Absent() bool { return len(e.Times) == 0 }

// Time returns the single (or primary) value of the entry.
func (e Entry) Time() (Clock, bool) {
	if len(e.Times) == 0 {
		return 0, false
	}
	return e.Times[0], true
}

// Pair returns both values of a seasonal pair entry.
func (e Entry) Pair() (Clock, Clock, bool) {
	if len(e.Times) != 2 {
		return 0, 0, false
	}
	return e.Times[0], e.Times[1], true
}

// String renders the entry for display: "HH:MM", "HH:MM/HH:MM" for a pair,
// or "--:--" when absent.
func (e Entry) String() string {
	switch len(e.Times) {
	case 1:
		return e.Times[0].String()
	case 2:
		return e.Times[0].String() + "/" + e.Times[1].String()
	default:
		return "--:--"
	}
}

// Schedule is the full derived set for one Shabbat cycle, entries in
// canonical order. Never mutated after Derive returns it.
type Schedule struct {
	Season  Season
	Entries []Entry
}

// Get looks up the entry for a service identifier.
func (s Schedule) Get(id ServiceID) (Entry, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Derive computes the full service schedule from the anchor times under the
// given seasonal regime. It never fails for anchors built by NewAnchorTimes:
// entries whose inputs are missing come out absent, never zeroed.
func Derive(a AnchorTimes, season Season) Schedule {
	single := func(id ServiceID, t Clock) Entry { return Entry{ID: id, Times: []Clock{t}} }
	absent := func(id ServiceID) Entry { return Entry{ID: id} }

	// Evening psalms lead Shabbat entry by at least ten minutes; rounding
	// may widen the gap but never shrink it below the floor.
	eveningPsalms := a.Start.Add(-eveningPsalmsLead).Floor5()
	if int(a.Start-eveningPsalms) < eveningPsalmsLead {
		eveningPsalms = a.Start.Add(-eveningPsalmsLead)
	}

	afternoonMincha := afternoonMinchaWinter
	if season == Summer {
		afternoonMincha = afternoonMinchaSummer
	}

	childrenPsalms := single(ChildrenPsalms, childrenPsalmsWinterAt.Floor5())
	if season == Summer {
		childrenPsalms = Entry{ID: ChildrenPsalms, Times: []Clock{
			childrenPsalmsSummerAt.Floor5(),
			childrenPsalmsWinterAt.Floor5(),
		}}
	}

	secondMincha := a.End.Add(-secondMinchaLead).Floor5()
	afternoonClass := secondMincha.Add(-afternoonClassLead).Floor5()
	preSunsetClass := afternoonClass.Add(-preSunsetClassLead).Floor5()
	closing := a.End.Add(-closingServiceLead).Floor5()

	weekdayMincha := absent(WeekdayMincha)
	weekdayEvening := absent(WeekdayEveningService)
	if earliest, latest, ok := ReduceWeekdayMarkers(a.Markers.SunsetA, a.Markers.SunsetB); ok {
		weekdayMincha = single(WeekdayMincha, earliest.Add(-weekdayMinchaLead).Floor5())
		weekdayEvening = single(WeekdayEveningService, latest.Add(weekdayEveningLag).Ceil5())
	}

	return Schedule{
		Season: season,
		Entries: []Entry{
			single(EveningPsalms, eveningPsalms),
			single(CandleMincha, a.Start),
			single(MorningService, morningServiceAt.Floor5()),
			single(AfternoonMincha, afternoonMincha.Floor5()),
			childrenPsalms,
			single(WomensClass, womensClassAt),
			single(AfternoonClass, afternoonClass),
			single(PreSunsetClass, preSunsetClass),
			single(SecondMincha, secondMincha),
			single(ClosingEveningService, closing),
			weekdayMincha,
			weekdayEvening,
		},
	}
}
