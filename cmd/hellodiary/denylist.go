package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellodiary/internal/http/server"
	"github.com/dropDatabas3/hellodiary/internal/jwt"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
	"github.com/dropDatabas3/hellodiary/internal/security/token"
)

func newDenylistCmd(opts *rootOptions) *cobra.Command {
	denylistCmd := &cobra.Command{
		Use:   "denylist",
		Short: "Operaciones sobre refresh tokens revocados",
	}

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Borra las entradas ya vencidas",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx := logger.ToContext(cmd.Context(), logger.L())

			conn, err := server.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			// sin claves: solo hace falta el leeway para no podar tokens todavía aceptados
			svc := token.NewService(token.Deps{
				Issuer:   &jwt.Issuer{Leeway: cfg.JWT.Leeway},
				Denylist: conn.Denylist(),
				Users:    conn.Users(),
			})
			n, err := svc.Prune(ctx, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d entries\n", n)
			return nil
		},
	}

	denylistCmd.AddCommand(pruneCmd)
	return denylistCmd
}
