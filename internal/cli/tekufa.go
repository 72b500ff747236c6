package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pilou73/horaires-shabbat/internal/display"
	"github.com/pilou73/horaires-shabbat/internal/ics"
	"github.com/pilou73/horaires-shabbat/internal/tekufa"
	"github.com/pilou73/horaires-shabbat/internal/week"
	"github.com/spf13/cobra"
)

func newTekufaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tekufa",
		Short: "Show the seasonal quarter markers",
		Long:  "List the upcoming tekufa markers (91d 7h 30m apart) and whether one falls in the week starting at the anchor date. Works offline.",
		RunE:  runTekufa,
	}

	cmd.Flags().Int("count", 4, "Number of upcoming markers to list")
	cmd.AddCommand(newTekufaExportCmd())

	return cmd
}

func runTekufa(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	loc, err := cfg.Timezone()
	if err != nil {
		return err
	}
	date, err := anchorDate(loc)
	if err != nil {
		return err
	}
	count, err := cmd.Flags().GetInt("count")
	if err != nil {
		return err
	}
	if count < 1 {
		count = 1
	}

	// 92 days per marker leaves room past the last requested one.
	series := tekufa.Through(date.AddDate(0, 0, count*92), loc)
	inWeek := tekufa.MatchWeek(series, date)

	upcoming := make([]tekufa.Event, 0, count)
	for _, ev := range series {
		if ev.Time.Before(date) {
			continue
		}
		upcoming = append(upcoming, ev)
		if len(upcoming) == count {
			break
		}
	}

	if FlagJSON {
		return printTekufaJSON(inWeek, upcoming)
	}

	fmt.Println()
	fmt.Printf("  %s\n", display.Bold("Tekufot"))
	fmt.Println()
	if inWeek != nil {
		wk := week.Week{Tekufa: inWeek}
		fmt.Printf("  %s\n", display.Cyan(wk.TekufaAnnouncement()))
		fmt.Println()
	}
	for _, ev := range upcoming {
		fmt.Printf("  %-16s %s\n", ev.Label, ev.Time.Format("02/01/2006 15:04"))
	}
	fmt.Println()
	return nil
}

// tekufaJSON is the JSON output structure for the tekufa command.
type tekufaJSON struct {
	InWeek   *tekufaEventJSON  `json:"in_week"`
	Upcoming []tekufaEventJSON `json:"upcoming"`
}

type tekufaEventJSON struct {
	Label        string `json:"label"`
	Time         string `json:"time"`
	Announcement string `json:"announcement"`
}

func newTekufaEventJSON(ev tekufa.Event) tekufaEventJSON {
	wk := week.Week{Tekufa: &ev}
	return tekufaEventJSON{
		Label:        ev.Label,
		Time:         ev.Time.Format("2006-01-02T15:04:05-07:00"),
		Announcement: wk.TekufaAnnouncement(),
	}
}

func printTekufaJSON(inWeek *tekufa.Event, upcoming []tekufa.Event) error {
	out := tekufaJSON{Upcoming: make([]tekufaEventJSON, 0, len(upcoming))}
	if inWeek != nil {
		ev := newTekufaEventJSON(*inWeek)
		out.InWeek = &ev
	}
	for _, ev := range upcoming {
		out.Upcoming = append(out.Upcoming, newTekufaEventJSON(ev))
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func newTekufaExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the tekufa series as an iCalendar file",
		Long:  "Write the tekufa markers from the reference epoch through the given horizon as VEVENTs. Tekufat Tevet events are shifted one hour back, matching the published calendar.",
		RunE:  runTekufaExport,
	}

	cmd.Flags().String("out", "tekufot.ics", "Output file")
	cmd.Flags().Int("years", 10, "Horizon in years from the anchor date")

	return cmd
}

func runTekufaExport(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	loc, err := cfg.Timezone()
	if err != nil {
		return err
	}
	date, err := anchorDate(loc)
	if err != nil {
		return err
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	years, err := cmd.Flags().GetInt("years")
	if err != nil {
		return err
	}
	if years < 1 {
		years = 1
	}

	series := tekufa.Through(date.AddDate(years, 0, 0), loc)

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := ics.WriteTekufot(f, series); err != nil {
		f.Close()
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}

	fmt.Printf("Wrote %d events to %s\n", len(series), out)
	return nil
}
