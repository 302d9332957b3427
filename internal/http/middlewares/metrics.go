package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/dropDatabas3/hellodiary/internal/metrics"
)

// WithMetrics instrumenta requests HTTP (contador, latencia, inflight).
func WithMetrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method := strings.ToUpper(r.Method)
			path := metrics.NormalizePath(r.URL.Path)

			done := metrics.Inflight(method, path)
			start := time.Now()
			rec := newStatusRecorder(w)
			defer func() {
				done()
				metrics.ObserveHTTP(method, path, rec.status, time.Since(start))
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
