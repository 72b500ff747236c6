package cli

import (
	"fmt"

	"github.com/pilou73/horaires-shabbat/internal/logging"
	"github.com/pilou73/horaires-shabbat/internal/notify"
	"github.com/pilou73/horaires-shabbat/internal/render"
	"github.com/spf13/cobra"
)

func newNotifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send the week's announcements to Telegram",
		Long:  "Post the weekly announcement message to the configured Telegram chat. --board renders the PNG poster and sends it as a photo with a caption. The bot token comes from TELEGRAM_BOT_TOKEN.",
		RunE:  runNotify,
	}

	cmd.Flags().Bool("board", false, "Render and attach the board image")

	return cmd
}

func runNotify(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	wk, err := buildWeek(cmd, cfg)
	if err != nil {
		return err
	}

	board, err := cmd.Flags().GetBool("board")
	if err != nil {
		return err
	}

	n, err := notify.New(notify.Config{
		Token:  cfg.Telegram.Token,
		ChatID: cfg.Telegram.ChatID,
	}, logging.NewConsole(cfg.Log.Level))
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if board {
		opts := render.Options{Width: cfg.Render.Width, Height: cfg.Render.Height}
		png, err := render.CapturePNG(ctx, wk, opts)
		if err != nil {
			return fmt.Errorf("failed to render board: %w", err)
		}
		if err := n.SendBoard(ctx, wk, png); err != nil {
			return err
		}
		fmt.Printf("Sent board for %s.\n", wk.ShabbatDate.Format(dateLayout))
		return nil
	}

	if err := n.SendWeek(ctx, wk); err != nil {
		return err
	}
	fmt.Printf("Sent announcements for %s.\n", wk.ShabbatDate.Format(dateLayout))
	return nil
}
