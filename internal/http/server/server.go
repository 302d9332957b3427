package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/dropDatabas3/hellodiary/internal/config"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
)

// Serve atiende en cfg.Server.Addr hasta que ctx se cancela y luego hace un
// shutdown con gracia (cfg.Server.ShutdownTimeout).
func Serve(ctx context.Context, cfg *config.Config, h http.Handler) error {
	log := logger.From(ctx).With(logger.Component("http"))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	log.Info("http server shutting down")
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	return <-errCh
}
