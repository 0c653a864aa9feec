// Package handler is the thin HTTP layer over the registration service. It
// decodes, delegates and encodes; business rules stay in the service.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"protokollo/internal/platform/middleware"
	"protokollo/internal/registration/models"
	"protokollo/internal/transport/http/shared"
	dErrors "protokollo/pkg/domain-errors"
)

// Service defines the registration operations the handler needs.
type Service interface {
	Create(ctx context.Context, tag string, req models.CreateRequest, actor string) (*models.Registration, error)
	Delete(ctx context.Context, id uuid.UUID, actor string) error
	List(ctx context.Context, q models.ListQuery) (*models.ListResult, error)
}

// Handler handles the /registrations endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a registration Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register mounts the registration routes. The shared middleware chain is
// installed by the top-level router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/registrations/{category}", h.handleCreate)
	r.Get("/registrations", h.handleList)
	r.Delete("/registrations/{id}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tag := chi.URLParam(r, "category")
	actor := actorFrom(r)

	var req models.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	reg, err := h.service.Create(ctx, tag, req, actor)
	if err != nil {
		h.logFailure(ctx, "create registration failed", tag, err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, reg)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	qp := r.URL.Query()

	if qp.Get("month") == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "month is required").WithField("month"))
		return
	}
	period, err := models.ParsePeriod(qp.Get("month"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var tier models.Tier
	if v := qp.Get("tier"); v != "" {
		if tier, err = models.ParseTier(v); err != nil {
			shared.WriteError(w, err)
			return
		}
	}
	sortKey, err := models.ParseSortKey(qp.Get("sort"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.service.List(ctx, models.ListQuery{Period: period, Tier: tier, Sort: sortKey})
	if err != nil {
		h.logFailure(ctx, "list registrations failed", period.String(), err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid registration id").WithField("id"))
		return
	}
	if err := h.service.Delete(ctx, id, actorFrom(r)); err != nil {
		h.logFailure(ctx, "delete registration failed", id.String(), err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// actorFrom reads the staff identity the desktop client forwards. The header
// is bookkeeping for the audit trail, not a credential.
func actorFrom(r *http.Request) string {
	if actor := r.Header.Get("X-Actor"); actor != "" {
		return actor
	}
	return "unknown"
}

func (h *Handler) logFailure(ctx context.Context, msg, subject string, err error) {
	if dErrors.Is(err, dErrors.CodeValidation) || dErrors.Is(err, dErrors.CodeNotFound) {
		h.logger.WarnContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"subject", subject,
			"error", err.Error(),
		)
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"subject", subject,
		"error", err.Error(),
	)
}
