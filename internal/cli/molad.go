package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pilou73/horaires-shabbat/internal/display"
	"github.com/pilou73/horaires-shabbat/internal/hebrew"
	"github.com/pilou73/horaires-shabbat/internal/week"
	"github.com/spf13/cobra"
)

func newMoladCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "molad",
		Short: "Show the coming month's molad and Rosh Chodesh",
		Long:  "Compute the molad of the month following the anchor date, its Rosh Chodesh day(s), the mevarchim Shabbat and the Birkat HaLevana window. Works offline.",
		RunE:  runMolad,
	}
}

func runMolad(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	loc, err := cfg.Timezone()
	if err != nil {
		return err
	}
	date, err := anchorDate(loc)
	if err != nil {
		return err
	}

	next := hebrew.MonthStateAt(date).Next()
	m, err := hebrew.MoladOf(next, loc)
	if err != nil {
		return fmt.Errorf("molad of %s: %w", next.Name(), err)
	}
	days, err := hebrew.RoshChodeshWindow(date)
	if err != nil {
		return fmt.Errorf("rosh chodesh window: %w", err)
	}
	mevarchim := hebrew.MevarchimFriday(days[0].Date)

	// Blessing window of the month already under way.
	prev, err := hebrew.PreviousRoshChodesh(date)
	if err != nil {
		return fmt.Errorf("previous rosh chodesh: %w", err)
	}
	bw, err := hebrew.BirkatWindowFor(prev)
	if err != nil {
		return fmt.Errorf("birkat window: %w", err)
	}
	status := bw.Classify(date)

	// A partial week carrying only the lunar annotations reuses the
	// board's announcement wording.
	wk := week.Week{
		CandleDate:  date,
		Mevarchim:   true,
		Molad:       &m,
		MoladMonth:  next.Name(),
		RoshChodesh: days,
		Birkat:      &bw,
	}

	if FlagJSON {
		return printMoladJSON(&wk, next, mevarchim, status)
	}

	fmt.Println()
	fmt.Printf("  %s\n", display.Bold(fmt.Sprintf("Molad %s %s", next.Name(), hebrew.YearName(next.Year))))
	fmt.Println()
	fmt.Printf("  %s\n", display.Blue(wk.MoladAnnouncement()))
	for _, line := range wk.RoshChodeshAnnouncements() {
		fmt.Printf("  %s\n", display.Blue(line))
	}
	fmt.Println()
	fmt.Printf("  %-18s %s\n", "Chabbat Mevarchim", mevarchim.AddDate(0, 0, 1).Format("02/01/2006"))
	fmt.Printf("  %-18s %s -> %s (%s)\n", "Birkat HaLevana",
		bw.Start.Format("02/01/2006"), bw.End.Format("02/01/2006"), status)
	fmt.Println()
	return nil
}

// moladJSON is the JSON output structure for the molad command.
type moladJSON struct {
	Month        string            `json:"month"`
	Year         int               `json:"year"`
	Weekday      string            `json:"weekday"`
	Hour         int               `json:"hour"`
	Minute       int               `json:"minute"`
	Chalakim     int               `json:"chalakim"`
	Moment       string            `json:"moment"`
	MonthStart   string            `json:"month_start"`
	Announcement string            `json:"announcement"`
	RoshChodesh  []roshChodeshJSON `json:"rosh_chodesh"`
	Mevarchim    string            `json:"mevarchim_shabbat"`
	Birkat       birkatJSON        `json:"birkat"`
}

type roshChodeshJSON struct {
	Date         string `json:"date"`
	Month        string `json:"month"`
	Day          int    `json:"day"`
	Announcement string `json:"announcement"`
}

type birkatJSON struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Status string `json:"status"`
}

func printMoladJSON(wk *week.Week, state hebrew.MonthState, mevarchim time.Time, status hebrew.BirkatStatus) error {
	out := moladJSON{
		Month:        state.Name(),
		Year:         state.Year,
		Weekday:      wk.Molad.WeekdayName,
		Hour:         wk.Molad.Hour,
		Minute:       wk.Molad.Minute,
		Chalakim:     wk.Molad.Chalakim,
		Moment:       wk.Molad.Moment.Format(time.RFC3339),
		MonthStart:   wk.Molad.MonthStart.Format(dateLayout),
		Announcement: wk.MoladAnnouncement(),
		Mevarchim:    mevarchim.AddDate(0, 0, 1).Format(dateLayout),
		Birkat: birkatJSON{
			Start:  wk.Birkat.Start.Format(dateLayout),
			End:    wk.Birkat.End.Format(dateLayout),
			Status: status.String(),
		},
	}
	rcLines := wk.RoshChodeshAnnouncements()
	for i, rc := range wk.RoshChodesh {
		state := hebrew.MonthState{Year: rc.Year, Month: rc.Month}
		out.RoshChodesh = append(out.RoshChodesh, roshChodeshJSON{
			Date:         rc.Date.Format(dateLayout),
			Month:        state.Name(),
			Day:          rc.Day,
			Announcement: rcLines[i],
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
