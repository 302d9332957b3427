package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellodiary/internal/jwt"
	"github.com/dropDatabas3/hellodiary/internal/util/atomicwrite"
)

func newKeysCmd() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Claves de firma de JWT",
	}

	var (
		kid     string
		outPath string
	)
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Genera un seed Ed25519 para JWT_SIGNING_SEED e imprime su JWKS",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := jwt.GenerateSeed()
			if err != nil {
				return err
			}
			ks, err := jwt.NewEd25519FromSeed(kid, seed)
			if err != nil {
				return err
			}

			var env bytes.Buffer
			fmt.Fprintf(&env, "JWT_KID=%s\n", kid)
			fmt.Fprintf(&env, "JWT_SIGNING_SEED=%s\n", seed)

			out := cmd.OutOrStdout()
			if outPath == "" {
				_, _ = out.Write(env.Bytes())
			} else {
				// el seed es secreto: 0600 y escritura atómica
				if err := atomicwrite.WriteFile(outPath, env.Bytes(), 0o600); err != nil {
					return fmt.Errorf("write %s: %w", outPath, err)
				}
				fmt.Fprintf(out, "wrote %s\n", outPath)
			}
			fmt.Fprintf(out, "# jwks: %s\n", ks.JWKSJSON())
			return nil
		},
	}
	generateCmd.Flags().StringVar(&kid, "kid", "hd-ed25519-1", "Key ID")
	generateCmd.Flags().StringVar(&outPath, "out", "", "Escribe JWT_KID/JWT_SIGNING_SEED en este archivo (formato .env) en vez de stdout")

	keysCmd.AddCommand(generateCmd)
	return keysCmd
}
