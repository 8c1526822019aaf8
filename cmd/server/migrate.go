package main

import (
	"context"

	"condo-backend/internal/database"
	"condo-backend/internal/db"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		ctx := context.Background()
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()
		return database.NewMigrator(pool, logger).RunMigrations(ctx)
	},
}
