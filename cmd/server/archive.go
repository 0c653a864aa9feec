package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"protokollo/internal/platform/config"
)

func newArchiveCmd(cfg config.Server, log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Move the previous month's registrations into the archive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			batch, err := a.archive.Run(ctx)
			if err != nil {
				return err
			}
			log.Info("archive run complete",
				"month", batch.Month.String(),
				"items_moved", batch.ItemsMoved,
			)
			return nil
		},
	}
}
