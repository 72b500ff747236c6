package cli

import (
	"fmt"
	"os"

	"github.com/pilou73/horaires-shabbat/internal/render"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the board as a PNG image",
		Long:  "Render the week's board page with headless Chromium and write the PNG poster. --html writes the intermediate page instead, useful for checking the layout.",
		RunE:  runRender,
	}

	cmd.Flags().String("out", "", "Output file (default: board-<date>.png)")
	cmd.Flags().Bool("html", false, "Write the board page as HTML instead of capturing a PNG")

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	wk, err := buildWeek(cmd, cfg)
	if err != nil {
		return err
	}

	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	asHTML, err := cmd.Flags().GetBool("html")
	if err != nil {
		return err
	}

	if asHTML {
		if out == "" {
			out = fmt.Sprintf("board-%s.html", wk.ShabbatDate.Format(dateLayout))
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		if err := render.WriteBoardHTML(f, wk); err != nil {
			f.Close()
			return fmt.Errorf("failed to write board page: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write board page: %w", err)
		}
		fmt.Printf("Wrote %s\n", out)
		return nil
	}

	if out == "" {
		out = fmt.Sprintf("board-%s.png", wk.ShabbatDate.Format(dateLayout))
	}
	opts := render.Options{Width: cfg.Render.Width, Height: cfg.Render.Height}
	if err := render.WriteBoardPNG(cmd.Context(), wk, out, opts); err != nil {
		return fmt.Errorf("failed to render board: %w", err)
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}
