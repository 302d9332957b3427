package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/hellodiary/internal/config"
	"github.com/dropDatabas3/hellodiary/internal/http/server"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
	"github.com/dropDatabas3/hellodiary/internal/observability/tracing"
	"github.com/dropDatabas3/hellodiary/internal/security/token"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP y el pruner del denylist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.L()
	ctx = logger.ToContext(ctx, log)

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:     cfg.Observability.OTELEnabled,
		Endpoint:    cfg.Observability.OTELEndpoint,
		ServiceName: cfg.App.Name,
		Version:     version,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown failed", logger.Err(err))
		}
	}()

	app, err := server.Build(ctx, cfg, server.Options{Version: version})
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("close resources failed", logger.Err(err))
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(gctx, cfg, app.Handler)
	})
	g.Go(func() error {
		runPruner(gctx, app.Tokens, cfg.Denylist.PruneInterval)
		return nil
	})

	err = g.Wait()
	log.Info("hellodiary stopped")
	return err
}

// runPruner borra entradas vencidas del denylist cada interval hasta que ctx
// se cancela. interval <= 0 lo deshabilita.
func runPruner(ctx context.Context, tokens *token.Service, interval time.Duration) {
	if interval <= 0 {
		return
	}
	log := logger.From(ctx).With(logger.Component("denylist"), logger.Op("prune"))

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := tokens.Prune(ctx, now)
			if err != nil {
				log.Warn("denylist prune failed", logger.Err(err))
				continue
			}
			if n > 0 {
				log.Info("denylist pruned", logger.Count(int(n)))
			}
		}
	}
}
