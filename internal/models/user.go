package models

import "time"

// Role defines the permission level of a user
type Role string

// User roles
const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleTrainee Role = "trainee"
)

// Valid reports whether the role is one of the three known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTrainer, RoleTrainee:
		return true
	}
	return false
}

// User represents a user in the system
type User struct {
	ID                  int       `json:"id"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	PasswordHash        string    `json:"-"` // Never serialize password hash
	Role                Role      `json:"role"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	IsTemporaryPassword bool      `json:"is_temporary_password"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
