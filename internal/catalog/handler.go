package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"protokollo/internal/transport/http/shared"
)

// Handler serves the read-only meta endpoints the form UI renders from.
type Handler struct {
	catalog *Catalog
}

// NewHandler creates a meta Handler.
func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// Register mounts the meta routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/meta/offices", h.handleOffices)
	r.Get("/meta/fields", h.handleFields)
}

func (h *Handler) handleOffices(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, h.catalog.Offices())
}

func (h *Handler) handleFields(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, FieldLabels())
}
