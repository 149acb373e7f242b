package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries the transport-level knobs.
type RouterConfig struct {
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter assembles the full server handler: middleware chain, health and
// metrics endpoints, and the dataset API.
func NewRouter(store *Store, metrics *Metrics, logger *slog.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(Instrument(logger, metrics))
	r.Use(middleware.Recoverer)
	r.Use(RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, metrics))

	r.Get("/healthz", Health(store))
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	NewHandler(store, logger).RegisterRoutes(r)
	return r
}
