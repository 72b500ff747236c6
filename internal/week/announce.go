package week

import (
	"fmt"

	"github.com/pilou73/horaires-shabbat/internal/hebrew"
)

// Annotation lines as published on the board, matching the community's
// wording. Dates print as dd/mm/yyyy.

const announceDateLayout = "02/01/2006"

var tekufaHebrewMonths = map[string]string{
	"Tekufat Tishri": "תשרי",
	"Tekufat Tevet":  "טבת",
	"Tekufat Nisan":  "ניסן",
	"Tekufat Tammuz": "תמוז",
}

// MoladAnnouncement returns the molad line of a mevarchim week, empty
// otherwise.
func (w *Week) MoladAnnouncement() string {
	if w.Molad == nil {
		return ""
	}
	return fmt.Sprintf("מולד %s: יום %s בשעה %d:%02d + %d",
		w.MoladMonth, w.Molad.WeekdayName, w.Molad.Hour, w.Molad.Minute, w.Molad.Chalakim)
}

// RoshChodeshAnnouncements returns one line per Rosh Chodesh day of a
// mevarchim week.
func (w *Week) RoshChodeshAnnouncements() []string {
	lines := make([]string, 0, len(w.RoshChodesh))
	for _, rc := range w.RoshChodesh {
		state := hebrew.MonthState{Year: rc.Year, Month: rc.Month}
		lines = append(lines, fmt.Sprintf("ראש חודש: יום %s %s %s (%d)",
			hebrew.WeekdayName(rc.Date), rc.Date.Format(announceDateLayout), state.Name(), rc.Day))
	}
	return lines
}

// BirkatAnnouncements returns the Birkat HaLevana lines for the week,
// classified against the board date: the start and end dates before the
// window opens, the last day while it is open, and a closing notice after.
func (w *Week) BirkatAnnouncements() []string {
	if w.Birkat == nil {
		return nil
	}
	switch w.Birkat.Classify(w.CandleDate) {
	case hebrew.BirkatBefore:
		return []string{
			"תאריך תחילת אמירה ברכת הלבנה: " + w.Birkat.Start.Format(announceDateLayout),
			"תאריך סיום אמירה ברכת הלבנה: " + w.Birkat.End.Format(announceDateLayout),
		}
	case hebrew.BirkatWithin:
		return []string{
			"תאריך אחרון לאמירת ברכת הלבנה: " + w.Birkat.End.Format(announceDateLayout),
		}
	default:
		return []string{"התקופה של ברכת הלבנה הסתיימה."}
	}
}

// TekufaAnnouncement returns the quarter-marker line when one falls in the
// week, empty otherwise.
func (w *Week) TekufaAnnouncement() string {
	if w.Tekufa == nil {
		return ""
	}
	name, ok := tekufaHebrewMonths[w.Tekufa.Label]
	if !ok {
		name = w.Tekufa.Label
	}
	return fmt.Sprintf("תקופת %s ביום %s בשעה %s",
		name, w.Tekufa.Time.Format(announceDateLayout), w.Tekufa.Time.Format("15:04"))
}

// Annotations collects the announcement lines in board order: molad and
// Rosh Chodesh on a mevarchim week, Birkat HaLevana otherwise, then the
// tekufa line.
func (w *Week) Annotations() []string {
	var lines []string
	if w.Mevarchim {
		if s := w.MoladAnnouncement(); s != "" {
			lines = append(lines, s)
		}
		lines = append(lines, w.RoshChodeshAnnouncements()...)
	} else {
		lines = append(lines, w.BirkatAnnouncements()...)
	}
	if s := w.TekufaAnnouncement(); s != "" {
		lines = append(lines, s)
	}
	return lines
}
