package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HealthHandler serves the root and health probes
type HealthHandler struct {
	BaseHandler
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers the probe routes
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
}

// Root handles GET /
// @Summary API root
// @Description Static service banner
// @Tags probes
// @Produce json
// @Success 200 {object} map[string]string "Service banner"
// @Router / [get]
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	h.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Training Management API",
		"docs":    "/swagger/index.html",
		"health":  "/health",
	})
}

// Health handles GET /health
// @Summary Health check
// @Description Static liveness probe
// @Tags probes
// @Produce json
// @Success 200 {object} map[string]string "Healthy"
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
