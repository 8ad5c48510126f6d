package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/traininghub/training-api/internal/models"
)

type contextKey string

const actorKey contextKey = "actor"

// UserResolver resolves a token subject to a current user record
type UserResolver interface {
	// Method GetByUsername retrieves a user by username.
	//
	// "username" parameter is used to retrieve a user by username.
	//
	// If user with such username does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Middleware validates the bearer token and resolves the actor from the
// user store. Token verification yields only a username; the username is
// re-resolved on every request so that a deleted user's still-valid token
// fails here rather than at the signature check.
func Middleware(tokenGenerator *TokenGenerator, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header or cookie
			var token string

			// Try Authorization header first
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				// Expected format: "Bearer <token>"
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
					token = parts[1]
				}
			}

			// If not in header, try cookie
			if token == "" {
				cookie, err := r.Cookie("access_token")
				if err == nil {
					token = cookie.Value
				}
			}

			// If no token found, return 401
			if token == "" {
				respondJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			// Validate token and extract username
			username, err := tokenGenerator.ValidateToken(token)
			if err != nil {
				respondJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			// Resolve the actor from the user store
			user, err := users.GetByUsername(r.Context(), username)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					respondJSONError(w, http.StatusNotFound, "user not found")
					return
				}
				respondJSONError(w, http.StatusInternalServerError, "failed to resolve user")
				return
			}

			// Add actor to context
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), user)))
		})
	}
}

// WithActor returns a context carrying the authenticated user
func WithActor(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, actorKey, user)
}

// GetActor retrieves the authenticated user from context
func GetActor(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(actorKey).(*models.User)
	return user, ok
}

func respondJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
