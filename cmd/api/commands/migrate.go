package commands

import (
	"fmt"

	"gestionale/internal/config"
	"gestionale/internal/database"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database if needed and apply the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.StorageDriver != config.StoragePostgres {
				return fmt.Errorf("migrate requires STORAGE_DRIVER=%s", config.StoragePostgres)
			}
			ctx := cmd.Context()
			if err := cfg.Database.RequireAdmin(); err == nil {
				if err := database.EnsureDatabaseExists(ctx, cfg.Database, log); err != nil {
					return err
				}
			} else {
				log.Warn("admin credentials not set, assuming the database exists")
			}

			pool, err := database.Connect(ctx, cfg.Database, log)
			if err != nil {
				return err
			}
			defer pool.Close()
			return database.RunMigrations(ctx, pool, log)
		},
	}
}
