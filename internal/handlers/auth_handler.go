package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/traininghub/training-api/internal/models"
)

// AuthService is the interface that wraps methods for authentication business logic
type AuthService interface {
	// Method Login performs a user credentials validation and issues an access token.
	//
	// "req" parameter contains username and password.
	//
	// If user passed invalid credentials, or such user does not exist, models.ErrUnauthenticated
	// will be returned together with "nil" value.
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		authService: authService,
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
	})
}

// Login handles POST /auth/login
// @Summary Login user
// @Description Authenticate user with username and password. Returns an access token, the user, and a force-password-change flag.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.LoginResponse "Login successful"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 422 {object} map[string]string "Malformed request"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.Logger.Warn("failed login attempt", zap.String("username", req.Username), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, resp)
}
