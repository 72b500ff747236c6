package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pilou73/horaires-shabbat/internal/display"
	"github.com/pilou73/horaires-shabbat/internal/store"
	"github.com/spf13/cobra"
)

func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Query archived weeks",
		Long:  "List or show weeks archived by 'generate' or by the server's weekly refresh.",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List archived weeks",
		RunE:  runArchiveList,
	}
	listCmd.Flags().String("from", "", "Range start as YYYY-MM-DD (default: one year before the anchor date)")
	listCmd.Flags().String("to", "", "Range end as YYYY-MM-DD (default: one year after the anchor date)")

	showCmd := &cobra.Command{
		Use:   "show <date>",
		Short: "Show one archived week",
		Args:  cobra.ExactArgs(1),
		RunE:  runArchiveShow,
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(showCmd)

	return cmd
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	loc, err := cfg.Timezone()
	if err != nil {
		return err
	}
	date, err := anchorDate(loc)
	if err != nil {
		return err
	}

	from := date.AddDate(-1, 0, 0)
	to := date.AddDate(1, 0, 0)
	if s, err := cmd.Flags().GetString("from"); err != nil {
		return err
	} else if s != "" {
		if from, err = time.ParseInLocation(dateLayout, s, loc); err != nil {
			return fmt.Errorf("invalid --from %q: expected YYYY-MM-DD", s)
		}
	}
	if s, err := cmd.Flags().GetString("to"); err != nil {
		return err
	} else if s != "" {
		if to, err = time.ParseInLocation(dateLayout, s, loc); err != nil {
			return fmt.Errorf("invalid --to %q: expected YYYY-MM-DD", s)
		}
	}

	st, err := store.Open(cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer st.Close()

	recs, err := st.Weeks(cmd.Context(), from, to)
	if err != nil {
		return err
	}

	if FlagJSON {
		out := make([]archiveWeekJSON, 0, len(recs))
		for _, rec := range recs {
			out = append(out, newArchiveWeekJSON(rec))
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(recs) == 0 {
		fmt.Println("No archived weeks in range.")
		return nil
	}

	fmt.Println()
	for _, rec := range recs {
		badge := ""
		if rec.Mevarchim {
			badge = "  " + display.Yellow("מברכים")
		}
		fmt.Printf("  %s  %-16s %s  %s%s\n",
			rec.ShabbatDate.Format("02/01/2006"), rec.Parasha, rec.Start, rec.End, badge)
	}
	fmt.Println()
	return nil
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	loc, err := cfg.Timezone()
	if err != nil {
		return err
	}
	date, err := time.ParseInLocation(dateLayout, args[0], loc)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", args[0])
	}

	st, err := store.Open(cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer st.Close()

	rec, err := st.Week(cmd.Context(), date)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no archived week for %s", args[0])
	}
	if err != nil {
		return err
	}

	if FlagJSON {
		data, err := json.MarshalIndent(newArchiveWeekJSON(rec), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println()
	fmt.Printf("  %s\n", display.Bold(fmt.Sprintf("%s (%s)", rec.Parasha, rec.ShabbatDate.Format("02/01/2006"))))
	fmt.Println()
	fmt.Printf("  %-24s %s\n", "Entrée de Chabbat", rec.Start)
	for _, e := range rec.Entries {
		cell := "--:--"
		if len(e.Times) > 0 {
			cell = strings.Join(e.Times, "/")
		}
		fmt.Printf("  %-24s %s\n", e.ID, cell)
	}
	fmt.Printf("  %-24s %s\n", "Sortie de Chabbat", rec.End)
	if rec.Molad != "" {
		fmt.Println()
		fmt.Printf("  %s\n", display.Blue(rec.Molad))
	}
	if rec.Tekufa != "" {
		fmt.Printf("  %s\n", display.Cyan(rec.Tekufa))
	}
	fmt.Println()
	return nil
}

// archiveWeekJSON is the JSON output structure for the archive commands.
type archiveWeekJSON struct {
	ShabbatDate   string              `json:"shabbat_date"`
	Parasha       string              `json:"parasha"`
	ParashaHebrew string              `json:"parasha_hebrew,omitempty"`
	Start         string              `json:"start"`
	End           string              `json:"end"`
	Season        string              `json:"season"`
	Mevarchim     bool                `json:"mevarchim"`
	Molad         string              `json:"molad,omitempty"`
	Tekufa        string              `json:"tekufa,omitempty"`
	Entries       []store.EntryRecord `json:"entries"`
}

func newArchiveWeekJSON(rec store.WeekRecord) archiveWeekJSON {
	return archiveWeekJSON{
		ShabbatDate:   rec.ShabbatDate.Format(dateLayout),
		Parasha:       rec.Parasha,
		ParashaHebrew: rec.ParashaHebrew,
		Start:         rec.Start,
		End:           rec.End,
		Season:        rec.Season,
		Mevarchim:     rec.Mevarchim,
		Molad:         rec.Molad,
		Tekufa:        rec.Tekufa,
		Entries:       rec.Entries,
	}
}
