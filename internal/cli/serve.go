package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pilou73/horaires-shabbat/internal/logging"
	"github.com/pilou73/horaires-shabbat/internal/server"
	"github.com/pilou73/horaires-shabbat/internal/store"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long:  "Serve the board over HTTP with a scheduled weekly refresh into the archive. The configuration file is watched for live edits.",
		RunE:  runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)
	if addr, err := cmd.Flags().GetString("addr"); err != nil {
		return err
	} else if addr != "" {
		cfg.Server.Addr = addr
	}

	logSvc, log := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Console: true,
		File:    logging.FileConfig{Enabled: cfg.Log.File != "", Path: cfg.Log.File},
	})
	defer logSvc.Close()

	st, err := store.Open(cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer st.Close()

	srv, err := server.New(*cfg, server.Options{
		Cache: newCache(cfg),
		Store: st,
		Log:   log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
