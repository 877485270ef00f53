package server

import (
	"net/http"
	"time"

	"github.com/qj0r9j0vc2/ticket-bot/internal/adapter/handler/middleware"
	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/logger"
)

// Routes served by the bot.
const (
	PathKeepAlive = "/"
	PathHealth    = "/health"
	PathReady     = "/ready"
	PathMetrics   = "/metrics"
	PathReload    = "/-/reload"
)

// Handlers holds all HTTP handlers. Nil handlers are not routed.
type Handlers struct {
	KeepAlive http.Handler
	Health    http.Handler
	Ready     http.Handler
	Metrics   http.Handler
	Reload    http.Handler
}

// RouterConfig holds the middleware settings.
type RouterConfig struct {
	RequestTimeout time.Duration
	Metrics        middleware.HTTPMetrics
}

// NewRouter creates the HTTP router with all handlers.
func NewRouter(handlers *Handlers, log logger.Logger, cfg *RouterConfig) http.Handler {
	mux := http.NewServeMux()

	routes := map[string]http.Handler{
		PathKeepAlive: handlers.KeepAlive,
		PathHealth:    handlers.Health,
		PathReady:     handlers.Ready,
		PathMetrics:   handlers.Metrics,
		PathReload:    handlers.Reload,
	}
	var known []string
	for path, h := range routes {
		if h == nil {
			continue
		}
		mux.Handle(path, h)
		known = append(known, path)
	}

	// Apply middleware stack, innermost first
	var h http.Handler = mux
	if cfg != nil {
		h = middleware.Timeout(cfg.RequestTimeout, log, PathKeepAlive, PathHealth, PathReady, PathMetrics)(h)
		if cfg.Metrics != nil {
			h = middleware.Observability(cfg.Metrics, known...)(h)
		}
	}
	h = middleware.Logging(log, PathKeepAlive, PathHealth, PathReady, PathMetrics)(h)
	h = middleware.Recovery(log)(h)
	h = middleware.RequestID(h)

	return h
}
