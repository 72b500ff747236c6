package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/hebcal/hdate"

	"github.com/pilou73/horaires-shabbat/internal/hebrew"
	"github.com/pilou73/horaires-shabbat/internal/schedule"
	"github.com/pilou73/horaires-shabbat/internal/tekufa"
	"github.com/pilou73/horaires-shabbat/internal/week"
)

func testLoc() *time.Location {
	return time.FixedZone("IST", 2*60*60)
}

// winterWeek is the Shabbat of 2024-12-07 with the Kislev Birkat HaLevana
// window still ahead of the candle date.
func winterWeek(t *testing.T) *week.Week {
	t.Helper()
	loc := testLoc()

	sunA := schedule.NewClock(17, 40)
	sunB := schedule.NewClock(17, 52)
	anchors, err := schedule.NewAnchorTimes(
		schedule.NewClock(16, 17),
		schedule.NewClock(17, 16),
		schedule.WeekdayMarkers{SunsetA: &sunA, SunsetB: &sunB},
	)
	if err != nil {
		t.Fatalf("NewAnchorTimes() error = %v", err)
	}

	return &week.Week{
		ShabbatDate:   time.Date(2024, time.December, 7, 0, 0, 0, 0, loc),
		CandleDate:    time.Date(2024, time.December, 6, 0, 0, 0, 0, loc),
		Parasha:       "Vayetzei",
		ParashaHebrew: "פרשת ויצא",
		Anchors:       anchors,
		Season:        schedule.Winter,
		Schedule:      schedule.Derive(anchors, schedule.Winter),
		Birkat: &hebrew.BirkatWindow{
			Start: time.Date(2024, time.December, 8, 4, 49, 0, 0, loc),
			End:   time.Date(2024, time.December, 14, 22, 49, 0, 0, loc),
		},
	}
}

func renderBoard(t *testing.T, wk *week.Week) string {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteBoardHTML(&buf, wk); err != nil {
		t.Fatalf("WriteBoardHTML() error = %v", err)
	}
	return buf.String()
}

func TestWriteBoardHTML_Rows(t *testing.T) {
	got := renderBoard(t, winterWeek(t))

	if !strings.Contains(got, `data-ready="true"`) {
		t.Error("page missing data-ready attribute")
	}
	if !strings.Contains(got, "פרשת ויצא") {
		t.Error("page missing Hebrew parasha")
	}
	if !strings.Contains(got, "06/12/2024 · 07/12/2024") {
		t.Error("page missing date range")
	}

	// Poster order: psalms, then the candle lighting anchor row, then the
	// opening mincha; the pre-sunset class precedes the afternoon class.
	psalms := strings.Index(got, "Chir Hachirim")
	candles := strings.Index(got, "Entrée de Chabbat")
	kabbalat := strings.Index(got, "Kabbalat Chabbat")
	if psalms < 0 || candles < 0 || kabbalat < 0 {
		t.Fatalf("page missing service rows:\n%s", got)
	}
	if !(psalms < candles && candles < kabbalat) {
		t.Errorf("row order = psalms@%d candles@%d kabbalat@%d, want ascending", psalms, candles, kabbalat)
	}
	parashat := strings.Index(got, "Parachat Hachavoua")
	rav := strings.Index(got, "Chiour du Rav")
	if parashat < 0 || rav < 0 || parashat > rav {
		t.Errorf("class rows out of poster order: parashat@%d rav@%d", parashat, rav)
	}

	for _, want := range []string{"16:17", "17:16", "17:05", "15:45", "14:00"} {
		if !strings.Contains(got, want) {
			t.Errorf("page missing time %s", want)
		}
	}

	// Weekday services render in the green row style.
	if !strings.Contains(got, `class="weekday"`) {
		t.Error("page missing weekday rows")
	}
	if !strings.Contains(got, "17:20") || !strings.Contains(got, "18:15") {
		t.Error("page missing weekday service times")
	}
}

func TestWriteBoardHTML_RowCount(t *testing.T) {
	d := boardView(winterWeek(t))
	// Ten services, two anchor rows, two weekday rows.
	if len(d.Rows) != 14 {
		t.Errorf("len(Rows) = %d, want 14", len(d.Rows))
	}
}

func TestWriteBoardHTML_AbsentWeekday(t *testing.T) {
	wk := winterWeek(t)
	anchors, err := schedule.NewAnchorTimes(wk.Anchors.Start, wk.Anchors.End, schedule.WeekdayMarkers{})
	if err != nil {
		t.Fatalf("NewAnchorTimes() error = %v", err)
	}
	wk.Anchors = anchors
	wk.Schedule = schedule.Derive(anchors, schedule.Winter)

	got := renderBoard(t, wk)
	if !strings.Contains(got, "--:--") {
		t.Error("absent weekday services should render as --:--")
	}
}

func TestWriteBoardHTML_BirkatNotes(t *testing.T) {
	got := renderBoard(t, winterWeek(t))

	if !strings.Contains(got, `class="birkat"`) {
		t.Error("page missing birkat note class")
	}
	if !strings.Contains(got, "תאריך תחילת אמירה ברכת הלבנה: 08/12/2024") {
		t.Error("page missing birkat start line")
	}
	if !strings.Contains(got, "תאריך סיום אמירה ברכת הלבנה: 14/12/2024") {
		t.Error("page missing birkat end line")
	}
	if strings.Contains(got, `class="molad"`) {
		t.Error("non-mevarchim page carries molad notes")
	}
	if strings.Contains(got, "שבת מברכים") {
		t.Error("non-mevarchim page carries the mevarchim badge")
	}
}

func TestWriteBoardHTML_BirkatEnded(t *testing.T) {
	wk := winterWeek(t)
	// Candle date after the window end.
	wk.CandleDate = time.Date(2024, time.December, 20, 0, 0, 0, 0, testLoc())

	got := renderBoard(t, wk)
	if !strings.Contains(got, `class="birkat-ended"`) {
		t.Error("page missing ended note class")
	}
	if !strings.Contains(got, "התקופה של ברכת הלבנה הסתיימה.") {
		t.Error("page missing ended line")
	}
}

func TestWriteBoardHTML_MevarchimNotes(t *testing.T) {
	loc := testLoc()
	wk := winterWeek(t)
	wk.Birkat = nil
	wk.Mevarchim = true
	wk.Molad = &hebrew.Molad{Hour: 17, Minute: 33, Chalakim: 16, WeekdayName: "שלישי"}
	wk.MoladMonth = "טבת"
	wk.RoshChodesh = []hebrew.RoshChodeshDay{
		{Date: time.Date(2024, time.December, 31, 0, 0, 0, 0, loc), Month: hdate.Kislev, Year: 5785, Day: 30},
		{Date: time.Date(2025, time.January, 1, 0, 0, 0, 0, loc), Month: hdate.Tevet, Year: 5785, Day: 1},
	}

	got := renderBoard(t, wk)
	if !strings.Contains(got, "שבת מברכים") {
		t.Error("page missing mevarchim badge")
	}
	if !strings.Contains(got, "מולד טבת: יום שלישי בשעה 17:33 + 16") {
		t.Error("page missing molad line")
	}
	if !strings.Contains(got, "ראש חודש: יום רביעי 01/01/2025 טבת (1)") {
		t.Error("page missing rosh chodesh line")
	}
	if strings.Contains(got, `class="birkat"`) {
		t.Error("mevarchim page carries birkat notes")
	}
}

func TestWriteBoardHTML_TekufaNote(t *testing.T) {
	wk := winterWeek(t)
	wk.Tekufa = &tekufa.Event{
		Time:  time.Date(2025, time.January, 6, 11, 9, 0, 0, testLoc()),
		Label: "Tekufat Tevet",
	}

	got := renderBoard(t, wk)
	if !strings.Contains(got, `class="tekufa"`) {
		t.Error("page missing tekufa note class")
	}
	if !strings.Contains(got, "תקופת טבת ביום 06/01/2025 בשעה 11:09") {
		t.Error("page missing tekufa line")
	}
}

func TestCaptureOptions_Defaults(t *testing.T) {
	var opts Options
	if opts.Width != 0 || opts.Height != 0 {
		t.Fatal("zero options should start empty")
	}
	if DefaultWidth <= 0 || DefaultHeight <= 0 || DefaultTimeout <= 0 {
		t.Error("capture defaults must be positive")
	}
}
