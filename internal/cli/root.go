package cli

import (
	"fmt"

	"github.com/pilou73/horaires-shabbat/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Global flags shared across all subcommands.
var (
	FlagGeonameID  int
	FlagTimezone   string
	FlagCacheDir   string
	FlagDate       string
	FlagJSON       bool
	FlagTimeFormat string
)

// loadedConfig holds the config loaded during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// NewRootCmd creates the root command for the horaires-shabbat CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "horaires-shabbat",
		Short:   "Weekly Shabbat schedule board",
		Long:    "Computes and publishes the weekly Shabbat schedule board: service times derived from the candle lighting and havdalah anchors, with molad, Rosh Chodesh, Birkat HaLevana and tekufa announcements.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loadedConfig = cfg
			return nil
		},
		// Default action: show the coming week's board.
		RunE:          runShabbat,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&FlagGeonameID, "geonameid", 0, "Override the geonames.org location ID")
	pf.StringVar(&FlagTimezone, "timezone", "", "Override the IANA timezone")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/horaires-shabbat/)")
	pf.StringVar(&FlagDate, "date", "", "Anchor date as YYYY-MM-DD (default: today)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")

	// Register subcommands.
	rootCmd.AddCommand(newShabbatCmd())
	rootCmd.AddCommand(newWeekdayCmd())
	rootCmd.AddCommand(newMoladCmd())
	rootCmd.AddCommand(newTekufaCmd())
	rootCmd.AddCommand(newClassesCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newNotifyCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newArchiveCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) *config.Config {
	cfg := loadedConfig
	if cfg == nil {
		empty := config.Config{}
		cfg = &empty
	}

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if flagWasSet(flags, root, "geonameid") {
		cfg.Location.GeonameID = FlagGeonameID
	}
	if flagWasSet(flags, root, "timezone") {
		cfg.Location.Timezone = FlagTimezone
	}
	if flagWasSet(flags, root, "cache-dir") {
		cfg.CacheDir = FlagCacheDir
	}
	if flagWasSet(flags, root, "time-format") {
		cfg.TimeFormat = FlagTimeFormat
	}

	cfg.ApplyDefaults()
	return cfg
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}
