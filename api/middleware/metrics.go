package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quanmat/fasalmitra-backend/pkg/metrics"
)

// Metrics observes every request against the Prometheus instruments, labelled
// by chi route pattern rather than raw path so IDs do not explode cardinality.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}

			done := m.TrackInFlight()
			defer done()

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			m.Observe(r.Method, route, rec.status, time.Since(start))
		})
	}
}
