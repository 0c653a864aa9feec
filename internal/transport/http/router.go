// Package httptransport assembles the public HTTP surface. Handlers stay in
// their feature packages; this is only wiring.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"protokollo/internal/archive"
	"protokollo/internal/catalog"
	"protokollo/internal/platform/middleware"
	reghandler "protokollo/internal/registration/handler"
	"protokollo/internal/transport/http/shared"
)

// Deps are the feature handlers the router mounts.
type Deps struct {
	Registrations *reghandler.Handler
	Meta          *catalog.Handler
	Archive       *archive.Handler
}

// NewRouter wires all public endpoints behind the shared middleware chain.
func NewRouter(logger *slog.Logger, requestTimeout time.Duration, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.ContentTypeJSON)

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	deps.Registrations.Register(r)
	deps.Meta.Register(r)
	deps.Archive.Register(r)
	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
