package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"resale-ledger/internal/app"
	"resale-ledger/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	writeErrorBody(w, r, status, errorResponse{Error: message, Code: code})
}

func writeErrorBody(w http.ResponseWriter, r *http.Request, status int, resp errorResponse) {
	resp.RequestID = requestIDFromContext(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

// writeJSONStatus writes a JSON response with the given status.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps a service error to its HTTP status. Unexpected errors are
// logged and reported without detail.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *core.ValidationError
		se *core.InsufficientStockError
		pe *core.PersistenceError
	)
	switch {
	case errors.As(err, &ve):
		writeErrorBody(w, r, http.StatusBadRequest, errorResponse{Error: ve.Error(), Code: "VALIDATION_ERROR", Field: ve.Field})
	case errors.As(err, &se):
		writeError(w, r, se.Error(), "INSUFFICIENT_STOCK", http.StatusBadRequest)
	case errors.Is(err, core.ErrNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrUnauthorized):
		writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
	case errors.Is(err, core.ErrAlreadyExists):
		writeError(w, r, err.Error(), "CONFLICT", http.StatusConflict)
	case errors.Is(err, app.ErrIntakeUnavailable):
		writeError(w, r, err.Error(), "NOT_IMPLEMENTED", http.StatusNotImplemented)
	case errors.As(err, &pe):
		h.log.Error("persistence failure",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.String("op", pe.Op),
			zap.String("stage", string(pe.Stage)),
			zap.Error(pe.Err),
		)
		writeError(w, r, fmt.Sprintf("%s sale failed at the %s stage; nothing was saved", pe.Op, pe.Stage),
			"PERSISTENCE_ERROR", http.StatusInternalServerError)
	default:
		h.log.Error("unhandled service error",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
