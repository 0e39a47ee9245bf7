package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/gitfolio/internal/config"
	"github.com/jonathan/gitfolio/internal/logger"
	"github.com/jonathan/gitfolio/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	log, err := logger.New(flagJSONLogs, flagDebug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	assembler, cleanup, err := buildAssembler(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := server.New(":"+cfg.Port, assembler, cfg.RequestTimeout*4, log)
	if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
