package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pilou73/horaires-shabbat/internal/cache"
	"github.com/pilou73/horaires-shabbat/internal/config"
	"github.com/pilou73/horaires-shabbat/internal/hebcal"
	"github.com/pilou73/horaires-shabbat/internal/logging"
	"github.com/pilou73/horaires-shabbat/internal/schedule"
	"github.com/pilou73/horaires-shabbat/internal/week"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	def := config.Defaults()

	geonameID := flag.Int("geonameid", def.Location.GeonameID, "geonames.org location ID")
	timezone := flag.String("timezone", def.Location.Timezone, "IANA timezone of the community")

	format := flag.String("format", schedule.FormatNameAndTime, "Display format: time-remaining, next-service-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template (e.g. '{{.Name}} dans {{.Remaining}}'). Template fields: .Name, .ShortName, .Time, .Remaining, .Hours, .Minutes")
	timeFormat := flag.String("time-format", "24h", "Time format: 12h or 24h")

	cacheDir := flag.String("cache-dir", "", "Cache directory (default: ~/.cache/horaires-shabbat/)")

	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("shabbat-status %s\n", version)
		return
	}

	if err := run(*geonameID, *timezone, *format, *timeFormat, *cacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(geonameID int, timezone, format, timeFmt, cacheDir string) error {
	goTimeFmt := "15:04" // 24h
	if timeFmt == "12h" {
		goTimeFmt = "3:04 PM"
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	c, err := cache.New(cacheDir)
	if err != nil {
		// Cache init failure is non-fatal; we just skip caching.
		c = nil
		fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
	}

	b := &week.Builder{
		Source:    hebcal.NewClient(geonameID),
		Cache:     c,
		GeonameID: geonameID,
		Loc:       loc,
		Log:       logging.Nop(),
	}

	ctx := context.Background()
	now := time.Now().In(loc)

	wk, err := b.Build(ctx, now)
	if err != nil {
		return err
	}

	services := schedule.Materialize(wk.Schedule, wk.ShabbatDate, loc)
	next := schedule.NextService(services, now)

	// Late Thursday the current cycle is exhausted; roll over to the
	// following Shabbat.
	if next == nil {
		nextWeek, fetchErr := b.Build(ctx, wk.ShabbatDate.AddDate(0, 0, 1))
		if fetchErr != nil {
			// Network failure for next week's data: show the last service
			// with a "done" indicator rather than crashing the status bar.
			if len(services) > 0 {
				last := services[len(services)-1]
				fmt.Printf("%s --:--", last.Label)
				return nil
			}
			return fmt.Errorf("failed to fetch next week's times: %w", fetchErr)
		}

		upcoming := schedule.Materialize(nextWeek.Schedule, nextWeek.ShabbatDate, loc)
		next = schedule.NextService(upcoming, now)
	}

	if next == nil {
		return fmt.Errorf("could not determine next service")
	}

	fmt.Print(schedule.FormatOutput(*next, now, format, goTimeFmt))
	return nil
}
