package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/traininghub/training-api/internal/auth"
	"github.com/traininghub/training-api/internal/models"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// Actor extracts the authenticated user placed in the context by the auth
// middleware, responding 401 if it is missing.
func (h *BaseHandler) Actor(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return actor, true
}

// RespondServiceError maps a service error to its HTTP status and responds.
// Unrecognized errors are logged and surfaced as 500.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		h.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrUnsupportedFormat):
		h.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrUnauthenticated), errors.Is(err, models.ErrInvalidToken):
		h.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrForbidden):
		h.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrNotFound):
		h.RespondError(w, http.StatusNotFound, err.Error())
	default:
		h.Logger.Error("unexpected service error", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
