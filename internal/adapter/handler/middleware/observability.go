package middleware

import (
	"context"
	"net/http"
	"time"
)

// HTTPMetrics records request metrics.
type HTTPMetrics interface {
	AddActiveRequests(ctx context.Context, delta int64)
	RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// Observability records HTTP metrics for requests. Paths not in knownPaths
// are recorded as "other" to keep label cardinality bounded.
func Observability(metrics HTTPMetrics, knownPaths ...string) func(http.Handler) http.Handler {
	known := make(map[string]bool, len(knownPaths))
	for _, p := range knownPaths {
		known[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			metrics.AddActiveRequests(r.Context(), 1)
			defer metrics.AddActiveRequests(r.Context(), -1)

			// Wrap response writer to capture status code
			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			path := r.URL.Path
			if len(known) > 0 && !known[path] {
				path = "other"
			}
			metrics.RecordHTTPRequest(r.Context(), r.Method, path, rw.statusCode, time.Since(start))
		})
	}
}
