package models

import "time"

// SessionStatus defines the lifecycle state of a training session
type SessionStatus string

// Training session statuses
const (
	StatusScheduled SessionStatus = "scheduled"
	StatusCompleted SessionStatus = "completed"
	StatusCancelled SessionStatus = "cancelled"
)

// Valid reports whether the status is one of the three known statuses
func (s SessionStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Session represents a training session between a trainer and a trainee.
// Not to be confused with a connection session on the real-time channel.
type Session struct {
	ID              int           `json:"id"`
	Title           string        `json:"title"`
	Description     *string       `json:"description,omitempty"`
	TrainerID       int           `json:"trainer_id"`
	TraineeID       int           `json:"trainee_id"`
	ScheduledDate   time.Time     `json:"scheduled_date"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          SessionStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
