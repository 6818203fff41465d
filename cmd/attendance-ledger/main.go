package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cmlabs-hris/attendance-ledger/internal/config"
	applog "github.com/cmlabs-hris/attendance-ledger/internal/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

var (
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "attendance-ledger",
		Short:        "Attendance reconciliation engine",
		Long:         "Tracks clock-in/clock-out sessions and reconciles them against weekends and public holidays",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err = applog.New(applog.Options{
				Level:      cfg.App.LogLevel,
				File:       cfg.App.LogFile,
				Production: cfg.IsProduction(),
			})
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Optional YAML config file; environment variables take precedence")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(holidaysCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
