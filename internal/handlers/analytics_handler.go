package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/traininghub/training-api/internal/models"
)

// AnalyticsService is the interface that wraps methods for aggregate counts
type AnalyticsService interface {
	// Method UsersByRole returns user counts grouped by role. Admin only.
	UsersByRole(ctx context.Context, actor *models.User) (map[string]int, error)
	// Method SessionsByStatus returns training session counts grouped by status. Admin only.
	SessionsByStatus(ctx context.Context, actor *models.User) (map[string]int, error)
}

// AnalyticsHandler handles analytics HTTP requests
type AnalyticsHandler struct {
	BaseHandler
	analyticsService AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      BaseHandler{Logger: logger},
		analyticsService: analyticsService,
	}
}

// RegisterRoutes registers all analytics handler routes.
// Note: This assumes the router already applies the auth middleware.
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/users", h.Users)
		r.Get("/sessions", h.Sessions)
	})
}

// Users handles GET /analytics/users
// @Summary User counts by role
// @Description Get the number of users per role. Admin only.
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]int "Counts by role"
// @Failure 403 {object} map[string]string "Not authorized"
// @Security ApiKeyAuth
// @Router /analytics/users [get]
func (h *AnalyticsHandler) Users(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	counts, err := h.analyticsService.UsersByRole(r.Context(), actor)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, counts)
}

// Sessions handles GET /analytics/sessions
// @Summary Session counts by status
// @Description Get the number of training sessions per status. Admin only.
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]int "Counts by status"
// @Failure 403 {object} map[string]string "Not authorized"
// @Security ApiKeyAuth
// @Router /analytics/sessions [get]
func (h *AnalyticsHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	counts, err := h.analyticsService.SessionsByStatus(r.Context(), actor)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, counts)
}
