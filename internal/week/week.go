// Package week assembles the community board for one Shabbat: anchor times
// fetched from hebcal.com, the derived service schedule, and the lunar and
// seasonal annotations framing it.
package week

import (
	"context"
	"fmt"
	"time"

	"github.com/pilou73/horaires-shabbat/internal/cache"
	"github.com/pilou73/horaires-shabbat/internal/hebcal"
	"github.com/pilou73/horaires-shabbat/internal/hebrew"
	"github.com/pilou73/horaires-shabbat/internal/logging"
	"github.com/pilou73/horaires-shabbat/internal/schedule"
	"github.com/pilou73/horaires-shabbat/internal/store"
	"github.com/pilou73/horaires-shabbat/internal/tekufa"
)

const dateLayout = "2006-01-02"

// Source is the slice of the calendar client the assembler needs.
type Source interface {
	FetchShabbat(ctx context.Context, start, end time.Time) (*hebcal.ShabbatResponse, error)
	FetchZmanim(ctx context.Context, date time.Time) (*hebcal.ZmanimResponse, error)
}

// Week is one fully assembled board.
type Week struct {
	ShabbatDate   time.Time // Saturday
	CandleDate    time.Time // the Friday before
	Parasha       string
	ParashaHebrew string
	Anchors       schedule.AnchorTimes
	Season        schedule.Season
	Schedule      schedule.Schedule

	Mevarchim   bool
	Molad       *hebrew.Molad
	MoladMonth  string
	RoshChodesh []hebrew.RoshChodeshDay
	Birkat      *hebrew.BirkatWindow
	Tekufa      *tekufa.Event
}

// Builder assembles weeks. Cache is optional; a nil cache disables caching.
type Builder struct {
	Source    Source
	Cache     *cache.Cache
	GeonameID int
	Loc       *time.Location
	Log       logging.Logger
}

// Build assembles the board for the Shabbat on or after date. Anchor times
// are required; annotation failures degrade to an absent annotation with a
// warning, the way the board has always been published.
func (b *Builder) Build(ctx context.Context, date time.Time) (*Week, error) {
	loc := b.location()
	shabbat := nextShabbat(date.In(loc))
	friday := shabbat.AddDate(0, 0, -1)

	resp, err := b.fetchShabbat(ctx, friday, shabbat)
	if err != nil {
		return nil, err
	}
	candles, err := resp.Candles(loc)
	if err != nil {
		return nil, fmt.Errorf("week %s: candle lighting: %w", shabbat.Format(dateLayout), err)
	}
	havdalah, err := resp.Havdalah(loc)
	if err != nil {
		return nil, fmt.Errorf("week %s: havdalah: %w", shabbat.Format(dateLayout), err)
	}

	anchors, err := schedule.NewAnchorTimes(
		schedule.ClockOf(candles), schedule.ClockOf(havdalah),
		b.weekdayMarkers(ctx, shabbat, loc))
	if err != nil {
		return nil, fmt.Errorf("week %s: %w", shabbat.Format(dateLayout), err)
	}

	season := schedule.ResolveSeason(shabbat)
	w := &Week{
		ShabbatDate: shabbat,
		CandleDate:  friday,
		Anchors:     anchors,
		Season:      season,
		Schedule:    schedule.Derive(anchors, season),
	}
	w.Parasha, w.ParashaHebrew, _ = resp.Parasha()

	b.annotate(w, loc)
	return w, nil
}

// annotate fills the lunar and seasonal annotations. Mevarchim weeks carry
// the molad and Rosh Chodesh days; the other weeks carry the Birkat HaLevana
// window of the running month.
func (b *Builder) annotate(w *Week, loc *time.Location) {
	rcDays, err := hebrew.RoshChodeshWindow(w.ShabbatDate)
	if err != nil {
		b.Log.Warn("rosh chodesh window unavailable",
			logging.String("shabbat", w.ShabbatDate.Format(dateLayout)), logging.Err(err))
	} else {
		for _, rc := range rcDays {
			if hebrew.IsMevarchim(w.CandleDate, rc.Date) {
				w.Mevarchim = true
			}
		}
	}

	if w.Mevarchim {
		w.RoshChodesh = rcDays
		state := hebrew.MonthStateAt(w.ShabbatDate).Next()
		if m, err := hebrew.MoladOf(state, loc); err != nil {
			b.Log.Warn("molad unavailable",
				logging.Int("year", state.Year), logging.Err(err))
		} else {
			w.Molad = &m
			w.MoladMonth = state.Name()
		}
	} else {
		if prev, err := hebrew.PreviousRoshChodesh(w.ShabbatDate); err != nil {
			b.Log.Warn("previous rosh chodesh unavailable", logging.Err(err))
		} else if bw, err := hebrew.BirkatWindowFor(prev); err != nil {
			b.Log.Warn("birkat window unavailable", logging.Err(err))
		} else {
			w.Birkat = &bw
		}
	}

	w.Tekufa = tekufa.MatchWeek(tekufa.Through(w.CandleDate, loc), w.CandleDate)
}

// Record converts the week to its archive row.
func (w *Week) Record() store.WeekRecord {
	entries := make([]store.EntryRecord, 0, len(w.Schedule.Entries))
	for _, e := range w.Schedule.Entries {
		rec := store.EntryRecord{ID: string(e.ID)}
		for _, t := range e.Times {
			rec.Times = append(rec.Times, t.String())
		}
		entries = append(entries, rec)
	}
	return store.WeekRecord{
		ShabbatDate:   w.ShabbatDate,
		Parasha:       w.Parasha,
		ParashaHebrew: w.ParashaHebrew,
		Start:         w.Anchors.Start.String(),
		End:           w.Anchors.End.String(),
		Season:        w.Season.String(),
		Entries:       entries,
		Mevarchim:     w.Mevarchim,
		Molad:         w.MoladAnnouncement(),
		Tekufa:        w.TekufaAnnouncement(),
	}
}

func (b *Builder) location() *time.Location {
	if b.Loc != nil {
		return b.Loc
	}
	return time.UTC
}

func (b *Builder) fetchShabbat(ctx context.Context, friday, shabbat time.Time) (*hebcal.ShabbatResponse, error) {
	params := fmt.Sprintf("%d|%s|%s", b.GeonameID,
		friday.Format(dateLayout), shabbat.Format(dateLayout))

	var cached hebcal.ShabbatResponse
	if b.Cache != nil && b.Cache.Load("shabbat", params, cache.ShabbatTTL, &cached) {
		return &cached, nil
	}

	resp, err := b.Source.FetchShabbat(ctx, friday, shabbat)
	if err != nil {
		return nil, err
	}
	if b.Cache != nil {
		if err := b.Cache.Save("shabbat", params, resp); err != nil {
			b.Log.Warn("cache save failed", logging.Err(err))
		}
	}
	return resp, nil
}

// weekdayMarkers samples sunset and dusk for the Sunday and Thursday after
// the Shabbat. A failed or incomplete sample leaves its markers nil.
func (b *Builder) weekdayMarkers(ctx context.Context, shabbat time.Time, loc *time.Location) schedule.WeekdayMarkers {
	var m schedule.WeekdayMarkers
	m.SunsetA, m.DuskA = b.zmanim(ctx, shabbat.AddDate(0, 0, 1), loc)
	m.SunsetB, m.DuskB = b.zmanim(ctx, shabbat.AddDate(0, 0, 5), loc)
	return m
}

func (b *Builder) zmanim(ctx context.Context, date time.Time, loc *time.Location) (sunset, dusk *schedule.Clock) {
	params := fmt.Sprintf("%d|%s", b.GeonameID, date.Format(dateLayout))

	resp := new(hebcal.ZmanimResponse)
	if b.Cache == nil || !b.Cache.Load("zmanim", params, cache.ZmanimTTL, resp) {
		fresh, err := b.Source.FetchZmanim(ctx, date)
		if err != nil {
			b.Log.Warn("zmanim unavailable",
				logging.String("date", date.Format(dateLayout)), logging.Err(err))
			return nil, nil
		}
		resp = fresh
		if b.Cache != nil {
			if err := b.Cache.Save("zmanim", params, resp); err != nil {
				b.Log.Warn("cache save failed", logging.Err(err))
			}
		}
	}

	if t, err := resp.Times.SunsetAt(loc); err == nil {
		c := schedule.ClockOf(t)
		sunset = &c
	}
	if t, err := resp.Times.DuskAt(loc); err == nil {
		c := schedule.ClockOf(t)
		dusk = &c
	}
	return sunset, dusk
}

// nextShabbat returns midnight of the Saturday on or after t.
func nextShabbat(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(time.Saturday) - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, offset)
}
