package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pilou73/horaires-shabbat/internal/display"
	"github.com/pilou73/horaires-shabbat/internal/hebcal"
	"github.com/pilou73/horaires-shabbat/internal/logging"
	"github.com/pilou73/horaires-shabbat/internal/store"
	"github.com/pilou73/horaires-shabbat/internal/week"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Precompute several weeks into the archive",
		Long:  "Build the board for the next N weeks, archive each into the schedule store (store.dsn, SQLite by default), and list the Rosh Chodesh days over the covered range.",
		RunE:  runGenerate,
	}

	cmd.Flags().Int("weeks", 4, "Number of weeks to precompute")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	weeks, err := cmd.Flags().GetInt("weeks")
	if err != nil {
		return err
	}
	if weeks < 1 {
		return fmt.Errorf("invalid --weeks %d: must be a positive integer", weeks)
	}

	loc, err := cfg.Timezone()
	if err != nil {
		return err
	}
	date, err := anchorDate(loc)
	if err != nil {
		return err
	}

	client := hebcal.NewClient(cfg.Location.GeonameID)
	b := &week.Builder{
		Source:    client,
		Cache:     newCache(cfg),
		GeonameID: cfg.Location.GeonameID,
		Loc:       loc,
		Log:       logging.NewConsole(cfg.Log.Level),
	}

	st, err := store.Open(cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	// One calendar call covers the Rosh Chodesh days of the whole range.
	var rcDates []time.Time
	if resp, err := client.FetchRoshChodesh(ctx, date, date.AddDate(0, 0, weeks*7)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: rosh chodesh calendar unavailable: %v\n", err)
	} else if rcDates, err = resp.RoshChodeshDates(loc); err != nil {
		fmt.Fprintf(os.Stderr, "warning: rosh chodesh calendar unreadable: %v\n", err)
	}

	built := make([]*week.Week, 0, weeks)
	cur := date
	for i := 0; i < weeks; i++ {
		wk, err := b.Build(ctx, cur)
		if err != nil {
			return fmt.Errorf("week %d (%s): %w", i+1, cur.Format(dateLayout), err)
		}
		built = append(built, wk)
		if err := st.SaveWeek(ctx, wk.Record()); err != nil {
			return fmt.Errorf("failed to archive %s: %w", wk.ShabbatDate.Format(dateLayout), err)
		}
		cur = wk.ShabbatDate.AddDate(0, 0, 1)
	}

	timeFormat := goTimeFormat(cfg)

	if FlagJSON {
		return printGenerateJSON(built, rcDates, timeFormat)
	}

	fmt.Println()
	fmt.Printf("  %s\n", display.Bold(fmt.Sprintf("Horaires sur %d semaines", weeks)))
	fmt.Println()
	for _, wk := range built {
		badges := ""
		if wk.Mevarchim {
			badges += "  " + display.Yellow("מברכים")
		}
		if wk.Tekufa != nil {
			badges += "  " + display.Cyan("תקופה")
		}
		fmt.Printf("  %s  %-16s %s  %s%s\n",
			wk.ShabbatDate.Format("02/01/2006"), wk.Parasha,
			formatEntryTimes(wk.Anchors.Start.String(), timeFormat),
			formatEntryTimes(wk.Anchors.End.String(), timeFormat), badges)
	}

	if len(rcDates) > 0 {
		fmt.Println()
		fmt.Printf("  %s\n", display.Bold("Roch Hodech"))
		for _, d := range rcDates {
			fmt.Printf("  %s\n", d.Format("02/01/2006"))
		}
	}

	fmt.Println()
	fmt.Printf("Archived %d weeks.\n", len(built))
	return nil
}

// generateJSON is the JSON output structure for the generate command.
type generateJSON struct {
	Weeks       []weekJSON `json:"weeks"`
	RoshChodesh []string   `json:"rosh_chodesh,omitempty"`
}

func printGenerateJSON(built []*week.Week, rcDates []time.Time, timeFormat string) error {
	out := generateJSON{Weeks: make([]weekJSON, 0, len(built))}
	for _, wk := range built {
		out.Weeks = append(out.Weeks, newWeekJSON(wk, timeFormat))
	}
	for _, d := range rcDates {
		out.RoshChodesh = append(out.RoshChodesh, d.Format(dateLayout))
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
