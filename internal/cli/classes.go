package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pilou73/horaires-shabbat/internal/display"
	"github.com/pilou73/horaires-shabbat/internal/ics"
	"github.com/pilou73/horaires-shabbat/internal/schedule"
	"github.com/spf13/cobra"
)

func newClassesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "Show the fixed weekly classes",
		Long:  "Print the weekly classes at the seasonal hour for the anchor date, or export them as a recurring iCalendar file with --ics. Works offline.",
		RunE:  runClasses,
	}

	cmd.Flags().String("ics", "", "Write a recurring calendar to this file instead of printing")

	return cmd
}

func runClasses(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	loc, err := cfg.Timezone()
	if err != nil {
		return err
	}
	date, err := anchorDate(loc)
	if err != nil {
		return err
	}

	season := schedule.ResolveSeason(date)
	classes := ics.WeeklyClasses(season)

	if out, err := cmd.Flags().GetString("ics"); err != nil {
		return err
	} else if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		if err := ics.WriteClasses(f, classes, date); err != nil {
			f.Close()
			return fmt.Errorf("failed to write calendar: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write calendar: %w", err)
		}
		fmt.Printf("Wrote %d classes to %s\n", len(classes), out)
		return nil
	}

	timeFormat := goTimeFormat(cfg)

	if FlagJSON {
		out := make([]classJSON, 0, len(classes))
		for _, c := range classes {
			out = append(out, classJSON{
				ID:      string(c.ID),
				Label:   schedule.Labels[c.ID],
				Weekday: c.Weekday.String(),
				Time:    formatEntryTimes(c.At.String(), timeFormat),
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println()
	fmt.Printf("  %s (%s)\n", display.Bold("Cours hebdomadaires"), season)
	fmt.Println()
	for _, c := range classes {
		fmt.Printf("  %-16s %-9s %s\n", schedule.Labels[c.ID], c.Weekday, formatEntryTimes(c.At.String(), timeFormat))
	}
	fmt.Println()
	return nil
}

// classJSON is the JSON output structure for the classes command.
type classJSON struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Weekday string `json:"weekday"`
	Time    string `json:"time"`
}
