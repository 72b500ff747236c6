// Package ics writes and reads the calendar artifacts of the community
// schedule: the tekufa marker calendar and the weekly class calendar.
package ics

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/pilou73/horaires-shabbat/internal/tekufa"
)

// ProductID identifies the tekufa calendar.
const ProductID = "-//Tekufot 2025–2035 (שיטת שמואל)//"

// tevetShift moves Tekufat Tevet entries back one hour on export. The
// published calendars carry the winter marker an hour earlier than the plain
// 91d7h30m arithmetic yields.
const tevetShift = -time.Hour

// WriteTekufot serializes the series as one-minute VEVENTs.
func WriteTekufot(w io.Writer, series []tekufa.Event) error {
	cal := ical.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetVersion("2.0")

	now := time.Now().UTC()
	for _, ev := range series {
		t := ev.Time
		if ev.Label == "Tekufat Tevet" {
			t = t.Add(tevetShift)
		}
		e := cal.AddEvent(fmt.Sprintf("tekufa-%s@horaires-shabbat", t.UTC().Format("20060102T150405Z")))
		e.SetDtStampTime(now)
		e.SetSummary(ev.Label)
		e.SetStartAt(t)
		e.SetEndAt(t.Add(time.Minute))
	}
	return cal.SerializeTo(w)
}

// ParseTekufot reads a calendar stream back into tekufa events, converted to
// loc and sorted by time. Events whose summary is not a tekufa name are
// skipped. Exported Tevet entries keep their shifted hour; the series is
// returned as published.
func ParseTekufot(r io.Reader, loc *time.Location) ([]tekufa.Event, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("ics: parse calendar: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}

	var events []tekufa.Event
	for _, ve := range cal.Events() {
		summary := ve.GetProperty(ical.ComponentPropertySummary)
		if summary == nil || !strings.HasPrefix(summary.Value, "Tekufat ") {
			continue
		}
		start, err := ve.GetStartAt()
		if err != nil {
			return nil, fmt.Errorf("ics: event %q has no usable start: %w", summary.Value, err)
		}
		events = append(events, tekufa.Event{Time: start.In(loc), Label: summary.Value})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Time.Before(events[j].Time) })
	return events, nil
}
