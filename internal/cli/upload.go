package cli

import (
	"bytes"
	"fmt"

	"github.com/pilou73/horaires-shabbat/internal/ics"
	"github.com/pilou73/horaires-shabbat/internal/logging"
	"github.com/pilou73/horaires-shabbat/internal/render"
	"github.com/pilou73/horaires-shabbat/internal/tekufa"
	"github.com/pilou73/horaires-shabbat/internal/upload"
	"github.com/spf13/cobra"
)

func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload the board image to the artifact store",
		Long:  "Render the week's board and put the PNG into the configured S3/MinIO bucket. --tekufot also uploads the tekufa calendar. Credentials come from the default AWS chain.",
		RunE:  runUpload,
	}

	cmd.Flags().Bool("tekufot", false, "Also upload the tekufa iCalendar file")

	return cmd
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	wk, err := buildWeek(cmd, cfg)
	if err != nil {
		return err
	}

	withTekufot, err := cmd.Flags().GetBool("tekufot")
	if err != nil {
		return err
	}

	// Path-style addressing defaults to on for custom endpoints (MinIO).
	pathStyle := cfg.Upload.Endpoint != ""
	if cfg.Upload.PathStyle != nil {
		pathStyle = *cfg.Upload.PathStyle
	}

	ctx := cmd.Context()
	u, err := upload.New(ctx, upload.Config{
		Region:    cfg.Upload.Region,
		Bucket:    cfg.Upload.Bucket,
		Endpoint:  cfg.Upload.Endpoint,
		Prefix:    cfg.Upload.Prefix,
		PathStyle: pathStyle,
	}, logging.NewConsole(cfg.Log.Level))
	if err != nil {
		return err
	}

	opts := render.Options{Width: cfg.Render.Width, Height: cfg.Render.Height}
	png, err := render.CapturePNG(ctx, wk, opts)
	if err != nil {
		return fmt.Errorf("failed to render board: %w", err)
	}

	key, err := u.PutBoard(ctx, wk.ShabbatDate, png)
	if err != nil {
		return err
	}
	fmt.Printf("Uploaded %s\n", key)

	if withTekufot {
		loc := wk.ShabbatDate.Location()
		series := tekufa.Through(wk.ShabbatDate.AddDate(10, 0, 0), loc)
		var buf bytes.Buffer
		if err := ics.WriteTekufot(&buf, series); err != nil {
			return fmt.Errorf("failed to write calendar: %w", err)
		}
		key, err := u.PutICS(ctx, "tekufot.ics", buf.Bytes())
		if err != nil {
			return err
		}
		fmt.Printf("Uploaded %s\n", key)
	}

	return nil
}
