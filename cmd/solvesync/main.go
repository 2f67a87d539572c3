package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/noah-isme/solvesync/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "solvesync",
		Short:        "Capture accepted judge submissions and push them to GitHub",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newPushCmd(), newInspectCmd())
	return root
}

func newLogger(cfg config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.AppEnv == "development" {
		level = zerolog.DebugLevel
	}

	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("service", cfg.AppName).Logger()
}
