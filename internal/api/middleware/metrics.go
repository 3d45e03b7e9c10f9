package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// Metrics records request count, latency and in-flight requests, labelled by
// the matched chi route pattern.
func Metrics(c *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			c.RequestStarted()
			defer c.RequestFinished()

			start := time.Now()
			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			c.ObserveRequest(strings.ToUpper(r.Method), route, rw.statusCode, time.Since(start))
		})
	}
}
