package models

import "time"

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	AccessToken         string `json:"access_token"`
	TokenType           string `json:"token_type"`
	User                *User  `json:"user"`
	ForcePasswordChange bool   `json:"force_password_change"`
}

// CreateUserRequest represents a user creation request
type CreateUserRequest struct {
	Username            string `json:"username"`
	Email               string `json:"email"`
	Password            string `json:"password"`
	Role                Role   `json:"role"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	IsTemporaryPassword *bool  `json:"is_temporary_password,omitempty"`
}

// UpdateUserRequest represents a partial user update request.
// Nil fields are left untouched.
type UpdateUserRequest struct {
	Username            *string `json:"username,omitempty"`
	Email               *string `json:"email,omitempty"`
	Role                *Role   `json:"role,omitempty"`
	FirstName           *string `json:"first_name,omitempty"`
	LastName            *string `json:"last_name,omitempty"`
	Password            *string `json:"password,omitempty"`
	IsTemporaryPassword *bool   `json:"is_temporary_password,omitempty"`
}

// CreateSessionRequest represents a training session creation request
type CreateSessionRequest struct {
	Title           string         `json:"title"`
	Description     *string        `json:"description,omitempty"`
	TrainerID       int            `json:"trainer_id"`
	TraineeID       int            `json:"trainee_id"`
	ScheduledDate   time.Time      `json:"scheduled_date"`
	DurationMinutes int            `json:"duration_minutes"`
	Status          *SessionStatus `json:"status,omitempty"`
}

// UpdateSessionRequest represents a partial training session update request.
// Nil fields are left untouched.
type UpdateSessionRequest struct {
	Title           *string        `json:"title,omitempty"`
	Description     *string        `json:"description,omitempty"`
	TrainerID       *int           `json:"trainer_id,omitempty"`
	TraineeID       *int           `json:"trainee_id,omitempty"`
	ScheduledDate   *time.Time     `json:"scheduled_date,omitempty"`
	DurationMinutes *int           `json:"duration_minutes,omitempty"`
	Status          *SessionStatus `json:"status,omitempty"`
}
