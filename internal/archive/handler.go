package archive

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"protokollo/internal/platform/middleware"
	"protokollo/internal/transport/http/shared"
	dErrors "protokollo/pkg/domain-errors"
)

// Handler exposes the archive operations to the admin surface.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler creates an archive Handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register mounts the admin archive routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/archive/run", h.handleRun)
	r.Get("/admin/archive/batches", h.handleBatches)
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	batch, err := h.service.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "archive run failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.Wrap(dErrors.CodeUnavailable, "archive run failed", err))
		return
	}
	shared.WriteJSON(w, http.StatusOK, batch)
}

func (h *Handler) handleBatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	batches, err := h.service.History(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "archive history failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.Wrap(dErrors.CodeUnavailable, "archive history unavailable", err))
		return
	}
	if batches == nil {
		batches = []Batch{}
	}
	shared.WriteJSON(w, http.StatusOK, batches)
}
