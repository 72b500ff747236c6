package hebcal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrMissingItem reports that an expected event category was absent from an
// API response. Callers treat the dependent value as absent, not as zero.
var ErrMissingItem = errors.New("hebcal: item missing from response")

// ShabbatResponse represents the top-level /shabbat API response.
type ShabbatResponse struct {
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Location Location `json:"location"`
	Items    []Item   `json:"items"`
}

// Item is one calendar event. Date is RFC 3339 for timed events such as
// candle lighting, and a bare YYYY-MM-DD for all-day events such as
// Rosh Chodesh.
type Item struct {
	Title    string `json:"title"`
	Hebrew   string `json:"hebrew"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Memo     string `json:"memo,omitempty"`
}

// Location echoes the queried location.
type Location struct {
	Title     string  `json:"title"`
	City      string  `json:"city"`
	Tzid      string  `json:"tzid"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Geonameid int     `json:"geonameid"`
}

// Event categories used by the schedule.
const (
	CategoryCandles     = "candles"
	CategoryHavdalah    = "havdalah"
	CategoryParashat    = "parashat"
	CategoryRoshChodesh = "roshchodesh"
)

// When parses the item's date in the given location.
func (i Item) When(loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, i.Date); err == nil {
		return t.In(loc), nil
	}
	t, err := time.ParseInLocation("2006-01-02", i.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("hebcal: parse item date %q: %w", i.Date, err)
	}
	return t, nil
}

func (r *ShabbatResponse) first(category string) (Item, bool) {
	for _, item := range r.Items {
		if item.Category == category {
			return item, true
		}
	}
	return Item{}, false
}

// Candles returns the candle-lighting instant of the response.
func (r *ShabbatResponse) Candles(loc *time.Location) (time.Time, error) {
	item, ok := r.first(CategoryCandles)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", ErrMissingItem, CategoryCandles)
	}
	return item.When(loc)
}

// Havdalah returns the Shabbat-end instant of the response.
func (r *ShabbatResponse) Havdalah(loc *time.Location) (time.Time, error) {
	item, ok := r.first(CategoryHavdalah)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", ErrMissingItem, CategoryHavdalah)
	}
	return item.When(loc)
}

// Parasha returns the weekly portion's title and Hebrew name, with the
// "Parashat " prefix stripped from the title.
func (r *ShabbatResponse) Parasha() (title, hebrew string, ok bool) {
	item, found := r.first(CategoryParashat)
	if !found {
		return "", "", false
	}
	return strings.TrimPrefix(item.Title, "Parashat "), item.Hebrew, true
}

// ZmanimResponse represents the /zmanim API response for a single day.
type ZmanimResponse struct {
	Date     string      `json:"date"`
	Location Location    `json:"location"`
	Times    ZmanimTimes `json:"times"`
}

// ZmanimTimes carries the halachic day markers consumed downstream as
// RFC 3339 strings.
type ZmanimTimes struct {
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
	Dusk    string `json:"dusk"`
}

func parseZman(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: zman", ErrMissingItem)
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("hebcal: parse zman %q: %w", value, err)
	}
	return t.In(loc), nil
}

// SunsetAt returns the day's sunset instant.
func (z ZmanimTimes) SunsetAt(loc *time.Location) (time.Time, error) {
	return parseZman(z.Sunset, loc)
}

// DuskAt returns the day's dusk instant.
func (z ZmanimTimes) DuskAt(loc *time.Location) (time.Time, error) {
	return parseZman(z.Dusk, loc)
}

// CalendarResponse represents the /hebcal calendar API response.
type CalendarResponse struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// RoshChodeshDates extracts the distinct Rosh Chodesh days of the response
// in chronological order.
func (r *CalendarResponse) RoshChodeshDates(loc *time.Location) ([]time.Time, error) {
	seen := map[string]bool{}
	var dates []time.Time
	for _, item := range r.Items {
		if item.Category != CategoryRoshChodesh {
			continue
		}
		t, err := item.When(loc)
		if err != nil {
			return nil, err
		}
		day := t.Format("2006-01-02")
		if seen[day] {
			continue
		}
		seen[day] = true
		dates = append(dates, time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc))
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}
