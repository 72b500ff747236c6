package schedule

import "errors"

// ErrInvalidAnchors is returned when anchor times violate the end-after-start
// contract. No sensible schedule can be derived from such anchors.
var ErrInvalidAnchors = errors.New("anchor times: end must be after start")

// WeekdayMarkers carries the optional sunset and dusk samples for the two
// reference weekdays of the following week (Sunday and Thursday). A nil field
// means the sample is unavailable; dependent services come out absent.
type WeekdayMarkers struct {
	SunsetA *Clock
	SunsetB *Clock
	DuskA   *Clock
	DuskB   *Clock
}

// AnchorTimes are the per-cycle inputs of the derivation engine: the Shabbat
// entry and exit instants plus the weekday markers. Construct once per cycle
// with NewAnchorTimes and treat as immutable.
type AnchorTimes struct {
	Start   Clock
	End     Clock
	Markers WeekdayMarkers
}

// NewAnchorTimes validates and builds the anchor set.
// End at or before Start is a contract violation and is rejected outright.
func NewAnchorTimes(start, end Clock, markers WeekdayMarkers) (AnchorTimes, error) {
	if end <= start {
		return AnchorTimes{}, ErrInvalidAnchors
	}
	return AnchorTimes{Start: start, End: end, Markers: markers}, nil
}

// ReduceWeekdayMarkers reduces two weekday samples to the earliest and latest
// markers used by the weekday services. ok is false when either sample is
// missing; callers must then treat the dependent entries as absent rather
// than substituting a default.
func ReduceWeekdayMarkers(a, b *Clock) (earliest, latest Clock, ok bool) {
	if a == nil || b == nil {
		return 0, 0, false
	}
	if *a <= *b {
		return *a, *b, true
	}
	return *b, *a, true
}
