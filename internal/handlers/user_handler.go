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

// UserService is the interface that wraps methods for user management business logic
type UserService interface {
	// Method List retrieves a paginated list of users.
	//
	// "actor" parameter is the authenticated user making the request.
	// "page" and "count" parameters control pagination.
	//
	// If the actor is not allowed to list users, models.ErrForbidden will be returned together with "nil" value.
	List(ctx context.Context, actor *models.User, page, count int) ([]models.User, error)
	// Method Get retrieves one user by ID.
	//
	// If the actor is not allowed to read the user, models.ErrForbidden will be returned.
	// If user with such ID does not exist, models.ErrNotFound will be returned together with "nil" value.
	Get(ctx context.Context, actor *models.User, userID int) (*models.User, error)
	// Method Create validates and creates a new user and broadcasts the change.
	//
	// If the username or email is taken, models.ErrConflict will be returned and no write is performed.
	Create(ctx context.Context, actor *models.User, req *models.CreateUserRequest) (*models.User, error)
	// Method Update applies a partial update to a user and broadcasts the change.
	//
	// If user with such ID does not exist, models.ErrNotFound will be returned together with "nil" value.
	Update(ctx context.Context, actor *models.User, userID int, req *models.UpdateUserRequest) (*models.User, error)
	// Method Delete removes a user and broadcasts the change.
	//
	// If user with such ID does not exist, models.ErrNotFound will be returned.
	Delete(ctx context.Context, actor *models.User, userID int) error
}

// UserHandler handles user management HTTP requests
type UserHandler struct {
	BaseHandler
	userService UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: BaseHandler{Logger: logger},
		userService: userService,
	}
}

// RegisterRoutes registers all user handler routes.
// Note: This assumes the router already applies the auth middleware.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /users
// @Summary List users
// @Description Get a paginated list of users. Admin and trainer only.
// @Tags users
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param count query int false "Items per page (default: 100)"
// @Success 200 {array} models.User "List of users"
// @Failure 403 {object} map[string]string "Not authorized"
// @Security ApiKeyAuth
// @Router /users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	page, count := parsePagination(r)

	users, err := h.userService.List(r.Context(), actor, page, count)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, users)
}

// Get handles GET /users/{id}
// @Summary Get user by ID
// @Description Get one user. Admin, trainer, or the user itself.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User "User"
// @Failure 403 {object} map[string]string "Not authorized"
// @Failure 404 {object} map[string]string "User not found"
// @Security ApiKeyAuth
// @Router /users/{id} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.userService.Get(r.Context(), actor, userID)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// Create handles POST /users
// @Summary Create user
// @Description Create a new user. Admin only.
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.CreateUserRequest true "User to create"
// @Success 201 {object} models.User "Created user"
// @Failure 400 {object} map[string]string "Username or email already exists"
// @Failure 403 {object} map[string]string "Not authorized"
// @Failure 422 {object} map[string]string "Malformed input"
// @Security ApiKeyAuth
// @Router /users [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Create(r.Context(), actor, &req)
	if err != nil {
		h.Logger.Error("failed to create user", zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, user)
}

// Update handles PUT /users/{id}
// @Summary Update user
// @Description Apply a partial update to a user. Admin or the user itself.
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body models.UpdateUserRequest true "Fields to update"
// @Success 200 {object} models.User "Updated user"
// @Failure 403 {object} map[string]string "Not authorized"
// @Failure 404 {object} map[string]string "User not found"
// @Security ApiKeyAuth
// @Router /users/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Update(r.Context(), actor, userID, &req)
	if err != nil {
		h.Logger.Error("failed to update user", zap.Int("user_id", userID), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /users/{id}
// @Summary Delete user
// @Description Delete a user. Admin only.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string "User deleted"
// @Failure 403 {object} map[string]string "Not authorized"
// @Failure 404 {object} map[string]string "User not found"
// @Security ApiKeyAuth
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.userService.Delete(r.Context(), actor, userID); err != nil {
		h.Logger.Error("failed to delete user", zap.Int("user_id", userID), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "user deleted successfully"})
}

// parsePagination reads page/count query parameters with defaults
func parsePagination(r *http.Request) (int, int) {
	page := 1
	count := 100

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if countStr := r.URL.Query().Get("count"); countStr != "" {
		if c, err := strconv.Atoi(countStr); err == nil && c > 0 {
			count = c
		}
	}

	return page, count
}
