package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/solvesync/internal/app"
	"github.com/noah-isme/solvesync/internal/config"
	"github.com/noah-isme/solvesync/internal/dto"
)

func newPushCmd() *cobra.Command {
	var (
		ids    []string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Commit pending solutions to the configured repository",
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

			response, err := container.Push.Push(cmd.Context(), dto.PushRequest{IDs: ids, DryRun: dryRun})
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(response); err != nil {
				return err
			}
			if len(response.Failed) > 0 {
				return fmt.Errorf("%d of %d solutions failed to push", len(response.Failed), len(response.Failed)+len(response.Pushed))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&ids, "id", nil, "pending solution id to push (repeatable, default all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print target paths without committing")
	return cmd
}
