package cli

import (
	"encoding/json"
	"fmt"

	"github.com/pilou73/horaires-shabbat/internal/display"
	"github.com/pilou73/horaires-shabbat/internal/hebrew"
	"github.com/pilou73/horaires-shabbat/internal/week"
	"github.com/spf13/cobra"
)

func newShabbatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shabbat",
		Short: "Show the weekly board",
		Long:  "Fetch the anchors of the coming Shabbat, derive the service times and print the board with its announcements. Same as running without a subcommand.",
		RunE:  runShabbat,
	}
}

func runShabbat(cmd *cobra.Command, args []string) error {
	// Get merged config (CLI flags > config file > defaults).
	cfg := effectiveConfig(cmd)

	wk, err := buildWeek(cmd, cfg)
	if err != nil {
		return err
	}

	timeFormat := goTimeFormat(cfg)

	// JSON output.
	if FlagJSON {
		return printWeekJSON(wk, timeFormat)
	}

	// Rich terminal output.
	printWeekRich(wk, cfg.Location.Name, timeFormat)
	return nil
}

// printWeekRich renders the colored board for one week.
func printWeekRich(wk *week.Week, locationName, timeFormat string) {
	fmt.Println()
	fmt.Printf("  %s\n", display.Bold("Horaires de Chabbat"))
	fmt.Println()

	fmt.Printf("  %s (%s)\n", wk.Parasha, wk.ParashaHebrew)
	fmt.Printf("  %s\n", locationName)
	fmt.Printf("  %s (%s)\n", wk.ShabbatDate.Format("02/01/2006"), wk.Season)
	fmt.Println()

	tbl := display.NewTable([]string{"Office", "Horaire"})
	for i, row := range wk.BoardRows() {
		tbl.AddRow([]string{row.Label, formatEntryTimes(row.Time, timeFormat)})
		// Highlight the candle lighting anchor, the line people look for.
		if row.Kind == week.RowAnchor && i == 1 {
			tbl.SetHighlightRow(i)
		}
	}

	if wk.Mevarchim {
		tbl.AddFooter(display.Yellow("שבת מברכים"))
	}
	if s := wk.MoladAnnouncement(); s != "" {
		tbl.AddFooter(display.Blue(s))
	}
	for _, s := range wk.RoshChodeshAnnouncements() {
		tbl.AddFooter(display.Blue(s))
	}
	closed := wk.Birkat != nil && wk.Birkat.Classify(wk.CandleDate) == hebrew.BirkatAfter
	for _, s := range wk.BirkatAnnouncements() {
		if closed {
			tbl.AddFooter(display.Red(s))
		} else {
			tbl.AddFooter(display.Magenta(s))
		}
	}
	if s := wk.TekufaAnnouncement(); s != "" {
		tbl.AddFooter(display.Cyan(s))
	}

	fmt.Print(tbl.Render())
	fmt.Println()
}

// weekJSON is the JSON output structure for the board commands.
type weekJSON struct {
	ShabbatDate   string        `json:"shabbat_date"`
	CandleDate    string        `json:"candle_date"`
	Parasha       string        `json:"parasha"`
	ParashaHebrew string        `json:"parasha_hebrew,omitempty"`
	Season        string        `json:"season"`
	Start         string        `json:"start"`
	End           string        `json:"end"`
	Mevarchim     bool          `json:"mevarchim"`
	Services      []serviceJSON `json:"services"`
	Annotations   []string      `json:"annotations,omitempty"`
}

type serviceJSON struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Time  string `json:"time"`
}

// newWeekJSON flattens a week into the JSON shape shared by the board
// commands.
func newWeekJSON(wk *week.Week, timeFormat string) weekJSON {
	rows := wk.BoardRows()
	services := make([]serviceJSON, 0, len(rows))
	for _, r := range rows {
		if r.Kind == week.RowAnchor {
			continue
		}
		services = append(services, serviceJSON{
			ID:    string(r.ID),
			Label: r.Label,
			Time:  formatEntryTimes(r.Time, timeFormat),
		})
	}

	return weekJSON{
		ShabbatDate:   wk.ShabbatDate.Format(dateLayout),
		CandleDate:    wk.CandleDate.Format(dateLayout),
		Parasha:       wk.Parasha,
		ParashaHebrew: wk.ParashaHebrew,
		Season:        wk.Season.String(),
		Start:         wk.Anchors.Start.String(),
		End:           wk.Anchors.End.String(),
		Mevarchim:     wk.Mevarchim,
		Services:      services,
		Annotations:   wk.Annotations(),
	}
}

// printWeekJSON renders structured JSON output.
func printWeekJSON(wk *week.Week, timeFormat string) error {
	data, err := json.MarshalIndent(newWeekJSON(wk, timeFormat), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
