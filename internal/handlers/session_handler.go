package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/traininghub/training-api/internal/models"
)

// SessionService is the interface that wraps methods for training session business logic
type SessionService interface {
	// Method List retrieves a paginated list of training sessions.
	//
	// Any authenticated role may list sessions.
	List(ctx context.Context, actor *models.User, page, count int) ([]models.Session, error)
	// Method Get retrieves one training session by ID.
	//
	// If session with such ID does not exist, models.ErrNotFound will be returned together with "nil" value.
	Get(ctx context.Context, actor *models.User, sessionID int) (*models.Session, error)
	// Method Create validates and creates a new training session and broadcasts the change.
	//
	// If the trainer or trainee reference is invalid, models.ErrValidation will be returned.
	Create(ctx context.Context, actor *models.User, req *models.CreateSessionRequest) (*models.Session, error)
	// Method Update applies a partial update to a training session and broadcasts the change.
	//
	// If session with such ID does not exist, models.ErrNotFound will be returned together with "nil" value.
	Update(ctx context.Context, actor *models.User, sessionID int, req *models.UpdateSessionRequest) (*models.Session, error)
	// Method Delete removes a training session and broadcasts the change.
	//
	// If session with such ID does not exist, models.ErrNotFound will be returned.
	Delete(ctx context.Context, actor *models.User, sessionID int) error
}

// SessionHandler handles training session HTTP requests
type SessionHandler struct {
	BaseHandler
	sessionService SessionService
}

// NewSessionHandler creates a new training session handler
func NewSessionHandler(sessionService SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		sessionService: sessionService,
	}
}

// RegisterRoutes registers all session handler routes.
// Note: This assumes the router already applies the auth middleware.
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /sessions
// @Summary List training sessions
// @Description Get a paginated list of training sessions. Any authenticated role.
// @Tags sessions
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param count query int false "Items per page (default: 100)"
// @Success 200 {array} models.Session "List of sessions"
// @Security ApiKeyAuth
// @Router /sessions [get]
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	page, count := parsePagination(r)

	sessions, err := h.sessionService.List(r.Context(), actor, page, count)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, sessions)
}

// Get handles GET /sessions/{id}
// @Summary Get training session by ID
// @Description Get one training session. Any authenticated role.
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} models.Session "Session"
// @Failure 404 {object} map[string]string "Session not found"
// @Security ApiKeyAuth
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	sessionID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	session, err := h.sessionService.Get(r.Context(), actor, sessionID)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, session)
}

// Create handles POST /sessions
// @Summary Create training session
// @Description Create a new training session. Admin and trainer only.
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body models.CreateSessionRequest true "Session to create"
// @Success 201 {object} models.Session "Created session"
// @Failure 403 {object} map[string]string "Not authorized"
// @Failure 422 {object} map[string]string "Malformed input"
// @Security ApiKeyAuth
// @Router /sessions [post]
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessionService.Create(r.Context(), actor, &req)
	if err != nil {
		h.Logger.Error("failed to create session", zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, session)
}

// Update handles PUT /sessions/{id}
// @Summary Update training session
// @Description Apply a partial update to a training session. Admin and trainer only.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param request body models.UpdateSessionRequest true "Fields to update"
// @Success 200 {object} models.Session "Updated session"
// @Failure 403 {object} map[string]string "Not authorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Security ApiKeyAuth
// @Router /sessions/{id} [put]
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	sessionID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req models.UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessionService.Update(r.Context(), actor, sessionID, &req)
	if err != nil {
		h.Logger.Error("failed to update session", zap.Int("session_id", sessionID), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, session)
}

// Delete handles DELETE /sessions/{id}
// @Summary Delete training session
// @Description Delete a training session. Admin only.
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} map[string]string "Session deleted"
// @Failure 403 {object} map[string]string "Not authorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Security ApiKeyAuth
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	sessionID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	if err := h.sessionService.Delete(r.Context(), actor, sessionID); err != nil {
		h.Logger.Error("failed to delete session", zap.Int("session_id", sessionID), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "session deleted successfully"})
}
