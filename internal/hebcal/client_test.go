package hebcal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// sampleShabbatResponse returns a valid /shabbat API response for testing.
func sampleShabbatResponse() ShabbatResponse {
	return ShabbatResponse{
		Title: "Hebcal Ramat Gan January 2026",
		Date:  "2026-01-08T10:00:00+02:00",
		Location: Location{
			Title:     "Ramat Gan, Israel",
			City:      "Ramat Gan",
			Tzid:      "Asia/Jerusalem",
			Latitude:  32.0680,
			Longitude: 34.8248,
			Geonameid: 293397,
		},
		Items: []Item{
			{
				Title:    "Candle lighting: 16:36",
				Hebrew:   "הדלקת נרות",
				Category: CategoryCandles,
				Date:     "2026-01-09T16:36:00+02:00",
			},
			{
				Title:    "Parashat Shemot",
				Hebrew:   "פרשת שמות",
				Category: CategoryParashat,
				Date:     "2026-01-10",
			},
			{
				Title:    "Havdalah: 17:29",
				Hebrew:   "הבדלה",
				Category: CategoryHavdalah,
				Date:     "2026-01-10T17:29:00+02:00",
			},
		},
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient(0)
	if c == nil {
		t.Fatal("NewClient returned nil")
	}
	if c.BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.BaseURL, defaultBaseURL)
	}
	if c.GeonameID != DefaultGeonameID {
		t.Errorf("GeonameID = %d, want %d", c.GeonameID, DefaultGeonameID)
	}
	if c.CandleOffset != 18 {
		t.Errorf("CandleOffset = %d, want 18", c.CandleOffset)
	}

	c = NewClient(281184)
	if c.GeonameID != 281184 {
		t.Errorf("GeonameID = %d, want 281184", c.GeonameID)
	}
}

func TestFetchShabbat_Success(t *testing.T) {
	resp := sampleShabbatResponse()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/shabbat") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		// Verify query params.
		q := r.URL.Query()
		if q.Get("cfg") != "json" {
			t.Errorf("cfg = %q, want %q", q.Get("cfg"), "json")
		}
		if q.Get("geonameid") != "293397" {
			t.Errorf("geonameid = %q, want %q", q.Get("geonameid"), "293397")
		}
		if q.Get("b") != "18" {
			t.Errorf("b = %q, want %q", q.Get("b"), "18")
		}
		if q.Get("M") != "on" {
			t.Errorf("M = %q, want %q", q.Get("M"), "on")
		}
		if q.Get("lg") != "he" {
			t.Errorf("lg = %q, want %q", q.Get("lg"), "he")
		}
		if q.Get("start") != "2026-01-09" {
			t.Errorf("start = %q, want %q", q.Get("start"), "2026-01-09")
		}
		if q.Get("end") != "2026-01-10" {
			t.Errorf("end = %q, want %q", q.Get("end"), "2026-01-10")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewClient(0)
	c.BaseURL = server.URL

	start := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	got, err := c.FetchShabbat(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(got.Items))
	}
	if got.Location.Geonameid != 293397 {
		t.Errorf("Geonameid = %d, want 293397", got.Location.Geonameid)
	}

	candles, err := got.Candles(time.UTC)
	if err != nil {
		t.Fatalf("Candles: %v", err)
	}
	want := time.Date(2026, 1, 9, 14, 36, 0, 0, time.UTC)
	if !candles.Equal(want) {
		t.Errorf("Candles = %v, want %v", candles, want)
	}

	title, hebrew, ok := got.Parasha()
	if !ok {
		t.Fatal("Parasha not found")
	}
	if title != "Shemot" {
		t.Errorf("Parasha title = %q, want %q", title, "Shemot")
	}
	if hebrew != "פרשת שמות" {
		t.Errorf("Parasha hebrew = %q, want %q", hebrew, "פרשת שמות")
	}
}

func TestFetchShabbat_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(0)
	c.BaseURL = server.URL

	start := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	_, err := c.FetchShabbat(context.Background(), start, start.AddDate(0, 0, 1))
	if err == nil {
		t.Fatal("expected error for HTTP 503, got nil")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error should mention 503, got: %v", err)
	}
}

func TestFetchShabbat_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := NewClient(0)
	c.BaseURL = server.URL

	start := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	_, err := c.FetchShabbat(context.Background(), start, start.AddDate(0, 0, 1))
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
	if !strings.Contains(err.Error(), "decode") {
		t.Errorf("error should mention decode, got: %v", err)
	}
}

func TestFetchShabbat_ConnectionRefused(t *testing.T) {
	c := NewClient(0)
	c.BaseURL = "http://127.0.0.1:1" // nothing listening

	start := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	_, err := c.FetchShabbat(context.Background(), start, start.AddDate(0, 0, 1))
	if err == nil {
		t.Fatal("expected error for connection refused, got nil")
	}
}

func TestFetchShabbat_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(0)
	start := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	_, err := c.FetchShabbat(ctx, start, start.AddDate(0, 0, 1))
	if err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}

func TestFetchZmanim_Success(t *testing.T) {
	resp := ZmanimResponse{
		Date: "2026-01-09",
		Location: Location{
			City:      "Ramat Gan",
			Tzid:      "Asia/Jerusalem",
			Geonameid: 293397,
		},
		Times: ZmanimTimes{
			Sunrise: "2026-01-09T06:38:00+02:00",
			Sunset:  "2026-01-09T16:54:00+02:00",
			Dusk:    "2026-01-09T17:21:00+02:00",
		},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/zmanim") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("cfg") != "json" {
			t.Errorf("cfg = %q, want %q", q.Get("cfg"), "json")
		}
		if q.Get("geonameid") != "293397" {
			t.Errorf("geonameid = %q, want %q", q.Get("geonameid"), "293397")
		}
		if q.Get("date") != "2026-01-09" {
			t.Errorf("date = %q, want %q", q.Get("date"), "2026-01-09")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewClient(0)
	c.BaseURL = server.URL

	date := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	got, err := c.FetchZmanim(context.Background(), date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sunset, err := got.Times.SunsetAt(time.UTC)
	if err != nil {
		t.Fatalf("SunsetAt: %v", err)
	}
	want := time.Date(2026, 1, 9, 14, 54, 0, 0, time.UTC)
	if !sunset.Equal(want) {
		t.Errorf("Sunset = %v, want %v", sunset, want)
	}

	dusk, err := got.Times.DuskAt(time.UTC)
	if err != nil {
		t.Fatalf("DuskAt: %v", err)
	}
	want = time.Date(2026, 1, 9, 15, 21, 0, 0, time.UTC)
	if !dusk.Equal(want) {
		t.Errorf("Dusk = %v, want %v", dusk, want)
	}
}

func TestFetchRoshChodesh_Success(t *testing.T) {
	// Duplicated and unordered items, plus one non-Rosh-Chodesh event
	// that must be skipped.
	resp := CalendarResponse{
		Title: "Hebcal Ramat Gan 5786",
		Items: []Item{
			{Title: "Rosh Chodesh Adar", Category: CategoryRoshChodesh, Date: "2026-02-18"},
			{Title: "Rosh Chodesh Sh'vat", Category: CategoryRoshChodesh, Date: "2026-01-19"},
			{Title: "Tu BiShvat", Category: "holiday", Date: "2026-02-02"},
			{Title: "Rosh Chodesh Adar", Category: CategoryRoshChodesh, Date: "2026-02-17"},
			{Title: "Rosh Chodesh Sh'vat", Category: CategoryRoshChodesh, Date: "2026-01-19T00:00:00+02:00"},
		},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/hebcal") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("v") != "1" {
			t.Errorf("v = %q, want %q", q.Get("v"), "1")
		}
		if q.Get("cfg") != "json" {
			t.Errorf("cfg = %q, want %q", q.Get("cfg"), "json")
		}
		if q.Get("category") != CategoryRoshChodesh {
			t.Errorf("category = %q, want %q", q.Get("category"), CategoryRoshChodesh)
		}
		if q.Get("nx") != "on" {
			t.Errorf("nx = %q, want %q", q.Get("nx"), "on")
		}
		if q.Get("start") != "2026-01-01" {
			t.Errorf("start = %q, want %q", q.Get("start"), "2026-01-01")
		}
		if q.Get("end") != "2026-03-01" {
			t.Errorf("end = %q, want %q", q.Get("end"), "2026-03-01")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewClient(0)
	c.BaseURL = server.URL

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	got, err := c.FetchRoshChodesh(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loc := time.FixedZone("IST", 2*60*60)
	dates, err := got.RoshChodeshDates(loc)
	if err != nil {
		t.Fatalf("RoshChodeshDates: %v", err)
	}
	want := []time.Time{
		time.Date(2026, 1, 19, 0, 0, 0, 0, loc),
		time.Date(2026, 2, 17, 0, 0, 0, 0, loc),
		time.Date(2026, 2, 18, 0, 0, 0, 0, loc),
	}
	if len(dates) != len(want) {
		t.Fatalf("got %d dates, want %d: %v", len(dates), len(want), dates)
	}
	for i := range want {
		if dates[i].Year() != want[i].Year() || dates[i].Month() != want[i].Month() || dates[i].Day() != want[i].Day() {
			t.Errorf("dates[%d] = %v, want %v", i, dates[i], want[i])
		}
	}
}

func TestFetchRoshChodesh_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(0)
	c.BaseURL = server.URL

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := c.FetchRoshChodesh(context.Background(), start, start.AddDate(0, 2, 0))
	if err == nil {
		t.Fatal("expected error for HTTP 429, got nil")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should mention 429, got: %v", err)
	}
}
