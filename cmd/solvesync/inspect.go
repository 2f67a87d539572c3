package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/solvesync/internal/app"
	"github.com/noah-isme/solvesync/internal/config"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print captured state",
	}

	cmd.AddCommand(
		inspectCommand("pending", "List solutions waiting to be pushed", func(cmd *cobra.Command, container *app.Container) (interface{}, error) {
			return container.Capture.ListPending(cmd.Context())
		}),
		inspectCommand("stats", "Show streak, counts and recent solves", func(cmd *cobra.Command, container *app.Container) (interface{}, error) {
			return container.Capture.Stats(cmd.Context())
		}),
	)
	return cmd
}

func inspectCommand(use, short string, load func(*cobra.Command, *app.Container) (interface{}, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			container, err := app.New(cmd.Context(), cfg, newLogger(cfg))
			if err != nil {
				return err
			}
			defer container.Close()

			payload, err := load(cmd, container)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(payload)
		},
	}
}
