// Package commands holds the cobra commands of the api binary.
package commands

import (
	"gestionale/internal/config"
	"gestionale/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg *config.Config
	log *zap.Logger
)

func Execute() error {
	root := &cobra.Command{
		Use:           "api",
		Short:         "Back office API for quotes, purchases and material orders",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			l, err := logger.New(loaded.LogLevel, loaded.IsDevelopment())
			if err != nil {
				return err
			}
			cfg, log = loaded, l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}

	serve := serveCmd()
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, migrateCmd(), seedCmd())
	return root.Execute()
}
