package main

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-ledger/internal/config"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-ledger/internal/repository/postgresql"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the ledger schema to PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Storage.Type != config.StoragePostgres {
				return fmt.Errorf("migrate requires STORAGE_TYPE=postgres, got %q", cfg.Storage.Type)
			}

			db, err := database.NewPostgreSQLDB(cmd.Context(), cfg.DatabaseURL(), poolOptions(cfg.Database))
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			applied, err := postgresql.Migrate(cmd.Context(), db)
			if err != nil {
				return err
			}

			if len(applied) == 0 {
				logger.Info("Schema is up to date")
				return nil
			}
			logger.Info("Schema migrated", zap.Ints("applied_versions", applied))
			return nil
		},
	}
}
