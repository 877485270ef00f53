package middleware

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/logger"
)

// Timeout creates middleware that sets a timeout for request processing.
// If the handler has not written a response when the timeout fires, the
// client gets 504 Gateway Timeout. Requests to exempt paths run unbounded.
func Timeout(timeout time.Duration, log logger.Logger, exempt ...string) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(exempt))
	for _, p := range exempt {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] || timeout <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			tw := &timeoutResponseWriter{ResponseWriter: w}
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case <-done:
			case p := <-panicked:
				// Re-raise on the request goroutine so Recovery sees it.
				panic(p)
			case <-ctx.Done():
			}

			// A handler that gave up on the deadline without writing also
			// ends here.
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				if tw.timeout() {
					log.Warn("request timeout",
						"path", r.URL.Path,
						"method", r.Method,
						"timeout", timeout.String(),
						"request_id", GetRequestID(r.Context()),
					)
					http.Error(w, "Gateway Timeout", http.StatusGatewayTimeout)
				}
			}
		})
	}
}

// timeoutResponseWriter drops writes once the request has timed out.
type timeoutResponseWriter struct {
	http.ResponseWriter

	mu          sync.Mutex
	wroteHeader bool
	timedOut    bool
}

func (w *timeoutResponseWriter) WriteHeader(statusCode int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut || w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *timeoutResponseWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !w.wroteHeader {
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// timeout marks the writer as timed out and reports whether the caller
// should send the timeout response, which is only the case if nothing was
// written yet.
func (w *timeoutResponseWriter) timeout() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timedOut = true
	return !w.wroteHeader
}
