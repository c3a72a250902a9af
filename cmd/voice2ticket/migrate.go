package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/spec-kit/voice2ticket/internal/persistence"
)

func newMigrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQL migrations to the ticket database",
		Long:  "Applies every .sql file in the migrations directory in lexical order. Safe to run multiple times.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			pg, err := openPostgres(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer pg.Close()
			return persistence.RunMigrations(ctx, pg.PoolHandle(), dir, logger)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", persistence.DefaultMigrationsDir, "directory holding the .sql migrations")
	return cmd
}
