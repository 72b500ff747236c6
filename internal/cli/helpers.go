package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pilou73/horaires-shabbat/internal/cache"
	"github.com/pilou73/horaires-shabbat/internal/config"
	"github.com/pilou73/horaires-shabbat/internal/hebcal"
	"github.com/pilou73/horaires-shabbat/internal/logging"
	"github.com/pilou73/horaires-shabbat/internal/week"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// anchorDate resolves the --date flag in the configured timezone,
// defaulting to the current moment.
func anchorDate(loc *time.Location) (time.Time, error) {
	if FlagDate == "" {
		return time.Now().In(loc), nil
	}
	d, err := time.ParseInLocation(dateLayout, FlagDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", FlagDate)
	}
	return d, nil
}

// newCache opens the response cache. A failure disables caching with a
// warning rather than aborting the command.
func newCache(cfg *config.Config) *cache.Cache {
	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
		return nil
	}
	return c
}

// newBuilder assembles the week builder from the merged config.
func newBuilder(cfg *config.Config) (*week.Builder, *time.Location, error) {
	loc, err := cfg.Timezone()
	if err != nil {
		return nil, nil, err
	}
	b := &week.Builder{
		Source:    hebcal.NewClient(cfg.Location.GeonameID),
		Cache:     newCache(cfg),
		GeonameID: cfg.Location.GeonameID,
		Loc:       loc,
		Log:       logging.NewConsole(cfg.Log.Level),
	}
	return b, loc, nil
}

// buildWeek fetches and assembles the board for the Shabbat on or after the
// anchor date.
func buildWeek(cmd *cobra.Command, cfg *config.Config) (*week.Week, error) {
	b, loc, err := newBuilder(cfg)
	if err != nil {
		return nil, err
	}
	date, err := anchorDate(loc)
	if err != nil {
		return nil, err
	}
	return b.Build(cmd.Context(), date)
}

// goTimeFormat maps the config's 12h/24h switch to a Go layout.
func goTimeFormat(cfg *config.Config) string {
	if cfg.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

// formatEntryTimes re-renders a board time cell ("16:17", "17:00/14:00" or
// "--:--") in the given Go layout. Absent and unparseable cells pass
// through unchanged.
func formatEntryTimes(cell, timeFormat string) string {
	if timeFormat == "15:04" || cell == "--:--" {
		return cell
	}
	parts := strings.Split(cell, "/")
	for i, p := range parts {
		t, err := time.Parse("15:04", p)
		if err != nil {
			return cell
		}
		parts[i] = t.Format(timeFormat)
	}
	return strings.Join(parts, "/")
}
