package services

import (
	"context"

	"github.com/traininghub/training-api/internal/auth"
	"github.com/traininghub/training-api/internal/models"
)

// UserAnalyticsRepository counts users grouped by role
type UserAnalyticsRepository interface {
	// Method CountByRole returns the number of users grouped by role.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	CountByRole(ctx context.Context) (map[string]int, error)
}

// SessionAnalyticsRepository counts training sessions grouped by status
type SessionAnalyticsRepository interface {
	// Method CountByStatus returns the number of training sessions grouped by status.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// analyticsService implements the admin-only aggregate counts
type analyticsService struct {
	userRepo    UserAnalyticsRepository
	sessionRepo SessionAnalyticsRepository
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(userRepo UserAnalyticsRepository, sessionRepo SessionAnalyticsRepository) *analyticsService {
	return &analyticsService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}

// UsersByRole returns user counts grouped by role
func (s *analyticsService) UsersByRole(ctx context.Context, actor *models.User) (map[string]int, error) {
	if err := auth.Authorize(actor.Role, actor.ID, auth.ActionReadAnalytics, nil); err != nil {
		return nil, err
	}

	return s.userRepo.CountByRole(ctx)
}

// SessionsByStatus returns training session counts grouped by status
func (s *analyticsService) SessionsByStatus(ctx context.Context, actor *models.User) (map[string]int, error) {
	if err := auth.Authorize(actor.Role, actor.ID, auth.ActionReadAnalytics, nil); err != nil {
		return nil, err
	}

	return s.sessionRepo.CountByStatus(ctx)
}
