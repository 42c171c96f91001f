package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chrisstorey/community-building-manager/internal/platform/metrics"
	"github.com/chrisstorey/community-building-manager/internal/platform/middleware"
	"github.com/chrisstorey/community-building-manager/internal/transport/http/shared"
)

// Registrar is implemented by module handlers that mount their own routes.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter assembles the API router: global middleware, health and metrics
// endpoints, and every module's routes.
func NewRouter(logger *slog.Logger, m *metrics.Metrics, handlers ...Registrar) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.LatencyMiddleware(m))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(r)
	}
	return r
}
