package cli

import (
	"encoding/json"
	"fmt"

	"github.com/pilou73/horaires-shabbat/internal/display"
	"github.com/pilou73/horaires-shabbat/internal/schedule"
	"github.com/spf13/cobra"
)

func newWeekdayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weekday",
		Short: "Show the weekday services",
		Long:  "Print the weekday mincha and evening service posted for the week following the coming Shabbat (valid Sunday through Thursday).",
		RunE:  runWeekday,
	}
}

func runWeekday(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	wk, err := buildWeek(cmd, cfg)
	if err != nil {
		return err
	}

	timeFormat := goTimeFormat(cfg)
	from := wk.ShabbatDate.AddDate(0, 0, 1)
	to := wk.ShabbatDate.AddDate(0, 0, 5)

	if FlagJSON {
		out := weekdayJSON{
			ValidFrom: from.Format(dateLayout),
			ValidTo:   to.Format(dateLayout),
		}
		for _, id := range []schedule.ServiceID{schedule.WeekdayMincha, schedule.WeekdayEveningService} {
			entry, _ := wk.Schedule.Get(id)
			out.Services = append(out.Services, serviceJSON{
				ID:    string(id),
				Label: schedule.Labels[id],
				Time:  formatEntryTimes(entry.String(), timeFormat),
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
	fmt.Printf("  %s\n", display.Bold("Offices de semaine"))
	fmt.Println()
	fmt.Printf("  Du %s au %s\n", from.Format("02/01/2006"), to.Format("02/01/2006"))
	fmt.Println()
	for _, id := range []schedule.ServiceID{schedule.WeekdayMincha, schedule.WeekdayEveningService} {
		entry, _ := wk.Schedule.Get(id)
		fmt.Printf("  %-18s %s\n", schedule.Labels[id], formatEntryTimes(entry.String(), timeFormat))
	}
	fmt.Println()
	return nil
}

// weekdayJSON is the JSON output structure for the weekday command.
type weekdayJSON struct {
	ValidFrom string        `json:"valid_from"`
	ValidTo   string        `json:"valid_to"`
	Services  []serviceJSON `json:"services"`
}
