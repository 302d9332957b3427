package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellodiary/internal/bootstrap"
	"github.com/dropDatabas3/hellodiary/internal/http/server"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var (
		username string
		email    string
		prompt   bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea el usuario admin y sus diarios de ejemplo (idempotente)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx := logger.ToContext(cmd.Context(), logger.L())

			var pwd string
			if prompt {
				pwd, err = bootstrap.PromptPassword(os.Stdin, cmd.OutOrStdout())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
			}

			conn, err := server.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			res, err := bootstrap.Seed(ctx, bootstrap.SeedConfig{
				Users:         conn.Users(),
				Diaries:       conn.Diaries(),
				Username:      username,
				Email:         email,
				AdminPassword: pwd,
			})
			if err != nil {
				return err
			}

			status := "existing"
			if res.UserCreated {
				status = "created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s (%s), diaries created: %d\n", res.User.Username, status, res.DiariesCreated)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", bootstrap.DefaultAdminUsername, "Username del admin")
	cmd.Flags().StringVar(&email, "email", bootstrap.DefaultAdminEmail, "Email del admin")
	cmd.Flags().BoolVar(&prompt, "prompt-password", false, "Pedir el password del admin por terminal (default: admin123)")
	return cmd
}
