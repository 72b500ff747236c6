package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pilou73/horaires-shabbat/internal/hebrew"
	"github.com/pilou73/horaires-shabbat/internal/logging"
	"github.com/pilou73/horaires-shabbat/internal/schedule"
	"github.com/pilou73/horaires-shabbat/internal/store"
	"github.com/pilou73/horaires-shabbat/internal/tekufa"
	"github.com/pilou73/horaires-shabbat/internal/week"
)

const dateLayout = "2006-01-02"

type scheduleDTO struct {
	ShabbatDate   string     `json:"shabbat_date"`
	CandleDate    string     `json:"candle_date"`
	Parasha       string     `json:"parasha,omitempty"`
	ParashaHebrew string     `json:"parasha_hebrew,omitempty"`
	Season        string     `json:"season"`
	Start         string     `json:"start"`
	End           string     `json:"end"`
	Mevarchim     bool       `json:"mevarchim"`
	Entries       []entryDTO `json:"entries"`
	Annotations   []string   `json:"annotations,omitempty"`
}

// entryDTO is one derived service. An empty times list marks an absent
// service, never a missing key.
type entryDTO struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Times []string `json:"times"`
}

type moladDTO struct {
	Month        string           `json:"month"`
	Year         int              `json:"year"`
	Weekday      string           `json:"weekday"`
	Hour         int              `json:"hour"`
	Minute       int              `json:"minute"`
	Chalakim     int              `json:"chalakim"`
	Moment       time.Time        `json:"moment"`
	MonthStart   string           `json:"month_start"`
	Announcement string           `json:"announcement"`
	RoshChodesh  []roshChodeshDTO `json:"rosh_chodesh,omitempty"`
}

type roshChodeshDTO struct {
	Date         string `json:"date"`
	Month        string `json:"month"`
	Day          int    `json:"day"`
	Announcement string `json:"announcement,omitempty"`
}

type tekufaDTO struct {
	InWeek *tekufaEventDTO `json:"in_week,omitempty"`
	Next   *tekufaEventDTO `json:"next,omitempty"`
}

type tekufaEventDTO struct {
	Label        string    `json:"label"`
	Time         time.Time `json:"time"`
	Announcement string    `json:"announcement"`
}

type archivedWeekDTO struct {
	ShabbatDate   string              `json:"shabbat_date"`
	Parasha       string              `json:"parasha,omitempty"`
	ParashaHebrew string              `json:"parasha_hebrew,omitempty"`
	Start         string              `json:"start"`
	End           string              `json:"end"`
	Season        string              `json:"season"`
	Mevarchim     bool                `json:"mevarchim"`
	Molad         string              `json:"molad,omitempty"`
	Tekufa        string              `json:"tekufa,omitempty"`
	Entries       []store.EntryRecord `json:"entries"`
	CreatedAt     time.Time           `json:"created_at"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]string{"status": "ok"})
}

// handleSchedule serves the derived board for the Shabbat on or after
// ?date, defaulting to the coming one.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	date, ok := s.queryDate(w, r)
	if !ok {
		return
	}

	wk, err := s.buildWeek(r.Context(), date)
	if err != nil {
		s.log.Error("schedule build failed",
			logging.String("date", date.Format(dateLayout)), logging.Err(err))
		writeError(w, http.StatusBadGateway, "calendar source unavailable", "UPSTREAM")
		return
	}
	writeData(w, newScheduleDTO(wk))
}

// handleMolad serves the molad of the month following the one containing
// ?date, the month a mevarchim Shabbat would announce.
func (s *Server) handleMolad(w http.ResponseWriter, r *http.Request) {
	date, ok := s.queryDate(w, r)
	if !ok {
		return
	}

	state := hebrew.MonthStateAt(date).Next()
	m, err := hebrew.MoladOf(state, date.Location())
	if err != nil {
		s.log.Error("molad computation failed",
			logging.Int("year", state.Year), logging.Err(err))
		writeError(w, http.StatusInternalServerError, "molad computation failed", "INTERNAL")
		return
	}

	days, err := hebrew.RoshChodeshWindow(date)
	if err != nil {
		s.log.Warn("rosh chodesh window unavailable", logging.Err(err))
		days = nil
	}
	writeData(w, newMoladDTO(m, state, days))
}

// handleTekufa serves the quarter marker falling in the week of ?date, if
// any, and the first marker at or after it.
func (s *Server) handleTekufa(w http.ResponseWriter, r *http.Request) {
	date, ok := s.queryDate(w, r)
	if !ok {
		return
	}

	series := tekufa.Through(date.AddDate(1, 0, 0), date.Location())
	writeData(w, tekufaDTO{
		InWeek: newTekufaEventDTO(tekufa.MatchWeek(series, date)),
		Next:   newTekufaEventDTO(tekufa.Next(series, date)),
	})
}

// handleArchive serves the stored weeks between ?from and ?to inclusive.
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "archive store not configured", "ARCHIVE_DISABLED")
		return
	}

	from, ok := s.queryDateParam(w, r, "from")
	if !ok {
		return
	}
	to, ok := s.queryDateParam(w, r, "to")
	if !ok {
		return
	}

	recs, err := s.store.Weeks(r.Context(), from, to)
	if err != nil {
		s.log.Error("archive query failed", logging.Err(err))
		writeError(w, http.StatusInternalServerError, "archive query failed", "INTERNAL")
		return
	}

	weeks := make([]archivedWeekDTO, 0, len(recs))
	for _, rec := range recs {
		weeks = append(weeks, newArchivedWeekDTO(rec))
	}
	writeData(w, weeks)
}

// handleArchivedWeek serves one stored week by its Shabbat date.
func (s *Server) handleArchivedWeek(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "archive store not configured", "ARCHIVE_DISABLED")
		return
	}

	raw := chi.URLParam(r, "date")
	loc, err := s.location()
	if err != nil {
		s.internalError(w, err)
		return
	}
	date, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, use YYYY-MM-DD", "BAD_REQUEST")
		return
	}

	rec, err := s.store.Week(r.Context(), date)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no archived week for "+raw, "NOT_FOUND")
		return
	}
	if err != nil {
		s.log.Error("archive query failed", logging.Err(err))
		writeError(w, http.StatusInternalServerError, "archive query failed", "INTERNAL")
		return
	}
	writeData(w, newArchivedWeekDTO(rec))
}

// queryDate reads the optional ?date parameter, defaulting to the current
// day in the configured timezone.
func (s *Server) queryDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	loc, err := s.location()
	if err != nil {
		s.internalError(w, err)
		return time.Time{}, false
	}

	raw := r.URL.Query().Get("date")
	if raw == "" {
		return s.now().In(loc), true
	}
	date, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, use YYYY-MM-DD", "BAD_REQUEST")
		return time.Time{}, false
	}
	return date, true
}

// queryDateParam reads a required date parameter.
func (s *Server) queryDateParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	loc, err := s.location()
	if err != nil {
		s.internalError(w, err)
		return time.Time{}, false
	}

	raw := r.URL.Query().Get(name)
	if raw == "" {
		writeError(w, http.StatusBadRequest, name+" parameter is required", "BAD_REQUEST")
		return time.Time{}, false
	}
	date, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name+", use YYYY-MM-DD", "BAD_REQUEST")
		return time.Time{}, false
	}
	return date, true
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.log.Error("request failed", logging.Err(err))
	writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL")
}

func newScheduleDTO(wk *week.Week) scheduleDTO {
	entries := make([]entryDTO, 0, len(wk.Schedule.Entries))
	for _, e := range wk.Schedule.Entries {
		dto := entryDTO{
			ID:    string(e.ID),
			Label: schedule.Labels[e.ID],
			Times: make([]string, 0, len(e.Times)),
		}
		for _, c := range e.Times {
			dto.Times = append(dto.Times, c.String())
		}
		entries = append(entries, dto)
	}
	return scheduleDTO{
		ShabbatDate:   wk.ShabbatDate.Format(dateLayout),
		CandleDate:    wk.CandleDate.Format(dateLayout),
		Parasha:       wk.Parasha,
		ParashaHebrew: wk.ParashaHebrew,
		Season:        wk.Season.String(),
		Start:         wk.Anchors.Start.String(),
		End:           wk.Anchors.End.String(),
		Mevarchim:     wk.Mevarchim,
		Entries:       entries,
		Annotations:   wk.Annotations(),
	}
}

// newMoladDTO leans on the board's announcement formats by assembling a
// partial week holding only the lunar annotations.
func newMoladDTO(m hebrew.Molad, state hebrew.MonthState, days []hebrew.RoshChodeshDay) moladDTO {
	wk := week.Week{Mevarchim: true, Molad: &m, MoladMonth: state.Name(), RoshChodesh: days}
	lines := wk.RoshChodeshAnnouncements()

	dto := moladDTO{
		Month:        state.Name(),
		Year:         state.Year,
		Weekday:      m.WeekdayName,
		Hour:         m.Hour,
		Minute:       m.Minute,
		Chalakim:     m.Chalakim,
		Moment:       m.Moment,
		MonthStart:   m.MonthStart.Format(dateLayout),
		Announcement: wk.MoladAnnouncement(),
	}
	for i, rc := range days {
		d := roshChodeshDTO{
			Date:  rc.Date.Format(dateLayout),
			Month: hebrew.MonthState{Year: rc.Year, Month: rc.Month}.Name(),
			Day:   rc.Day,
		}
		if i < len(lines) {
			d.Announcement = lines[i]
		}
		dto.RoshChodesh = append(dto.RoshChodesh, d)
	}
	return dto
}

func newTekufaEventDTO(ev *tekufa.Event) *tekufaEventDTO {
	if ev == nil {
		return nil
	}
	wk := week.Week{Tekufa: ev}
	return &tekufaEventDTO{
		Label:        ev.Label,
		Time:         ev.Time,
		Announcement: wk.TekufaAnnouncement(),
	}
}

func newArchivedWeekDTO(rec store.WeekRecord) archivedWeekDTO {
	entries := rec.Entries
	if entries == nil {
		entries = []store.EntryRecord{}
	}
	return archivedWeekDTO{
		ShabbatDate:   rec.ShabbatDate.Format(dateLayout),
		Parasha:       rec.Parasha,
		ParashaHebrew: rec.ParashaHebrew,
		Start:         rec.Start,
		End:           rec.End,
		Season:        rec.Season,
		Mevarchim:     rec.Mevarchim,
		Molad:         rec.Molad,
		Tekufa:        rec.Tekufa,
		Entries:       entries,
		CreatedAt:     rec.CreatedAt,
	}
}
