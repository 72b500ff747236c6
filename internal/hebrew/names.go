package hebrew

import (
	"strings"
	"time"

	"github.com/hebcal/hdate"
)

// Day names indexed Sunday first, the Biblical first day of the week.
var dayNames = [7]string{"ראשון", "שני", "שלישי", "רביעי", "חמישי", "שישי", "שבת"}

var monthNames = map[hdate.HMonth]string{
	hdate.Nisan:    "ניסן",
	hdate.Iyyar:    "אייר",
	hdate.Sivan:    "סיון",
	hdate.Tamuz:    "תמוז",
	hdate.Av:       "אב",
	hdate.Elul:     "אלול",
	hdate.Tishrei:  "תשרי",
	hdate.Cheshvan: "חשוון",
	hdate.Kislev:   "כסלו",
	hdate.Tevet:    "טבת",
	hdate.Shvat:    "שבט",
	hdate.Adar1:    "אדר",
	hdate.Adar2:    "אדר ב׳",
}

// WeekdayName returns the Hebrew day name of the date's weekday.
func WeekdayName(t time.Time) string { return dayNames[int(t.Weekday())] }

// Name returns the Hebrew month name. In a leap year month 12 reads Adar I
// rather than plain Adar.
func (s MonthState) Name() string {
	if s.Month == hdate.Adar1 && s.Leap() {
		return "אדר א׳"
	}
	return monthNames[s.Month]
}

var hebrewNumerals = []struct {
	value  int
	letter string
}{
	{400, "ת"}, {300, "ש"}, {200, "ר"}, {100, "ק"},
	{90, "צ"}, {80, "פ"}, {70, "ע"}, {60, "ס"}, {50, "נ"},
	{40, "מ"}, {30, "ל"}, {20, "כ"}, {10, "י"},
	{9, "ט"}, {8, "ח"}, {7, "ז"}, {6, "ו"}, {5, "ה"},
	{4, "ד"}, {3, "ג"}, {2, "ב"}, {1, "א"},
}

// YearName renders a Hebrew year in traditional letter numerals with geresh
// and gershayim marks, e.g. 5785 becomes ה׳תשפ״ה.
func YearName(year int) string {
	var b strings.Builder
	rest := year
	if rest >= 1000 {
		b.WriteString(numeralLetters(rest / 1000))
		b.WriteString("׳")
		rest %= 1000
	}

	body := []rune(numeralLetters(rest))
	switch len(body) {
	case 0:
	case 1:
		b.WriteString(string(body))
		b.WriteString("׳")
	default:
		b.WriteString(string(body[:len(body)-1]))
		b.WriteString("״")
		b.WriteString(string(body[len(body)-1:]))
	}
	return b.String()
}

// numeralLetters converts 0-999 to letters. 15 and 16 are written ט+ו and
// ט+ז so the letters never spell the divine name.
func numeralLetters(n int) string {
	var b strings.Builder
	for _, d := range hebrewNumerals {
		if d.value == 10 {
			switch n {
			case 15:
				b.WriteString("טו")
				n = 0
				continue
			case 16:
				b.WriteString("טז")
				n = 0
				continue
			}
		}
		for n >= d.value {
			b.WriteString(d.letter)
			n -= d.value
		}
	}
	return b.String()
}
