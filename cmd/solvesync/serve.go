package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/solvesync/internal/app"
	"github.com/noah-isme/solvesync/internal/config"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local capture API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := newLogger(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			container, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := container.Close(); err != nil {
					logger.Error().Err(err).Msg("failed to close storage")
				}
			}()

			go container.RunJanitor(ctx)

			server := container.HTTP()
			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("address", cfg.HTTPAddress()).Str("storage", cfg.Storage).Msg("capture api listening")
				errCh <- server.Listen(cfg.HTTPAddress())
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("server stopped: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.ShutdownWithContext(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("graceful shutdown failed")
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}
}
