package main

import (
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellodiary/internal/http/server"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes del driver configurado",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx := logger.ToContext(cmd.Context(), logger.L())

			cfg.Storage.AutoMigrate = false
			conn, err := server.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.Migrate(ctx); err != nil {
				return err
			}
			logger.L().Info("migrations up to date", logger.String("storage", conn.Name()))
			return nil
		},
	}
}
