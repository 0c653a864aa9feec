// Package shared centralizes the JSON envelope and domain-error translation
// used by every handler, so all endpoints fail the same way.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "protokollo/pkg/domain-errors"
)

// ErrorBody is the error envelope returned on every failure.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the error envelope. Internal
// details never leak: non-domain errors report only their code.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := ErrorBody{Error: string(code)}
	var de *dErrors.Error
	if errors.As(err, &de) {
		body.Message = de.Message
		body.Field = de.Field
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}
