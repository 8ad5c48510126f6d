package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traininghub/training-api/internal/models"
)

// mockUserAnalyticsRepository is a mock implementation of UserAnalyticsRepository
type mockUserAnalyticsRepository struct {
	counts map[string]int
	err    error
}

func (m *mockUserAnalyticsRepository) CountByRole(ctx context.Context) (map[string]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.counts, nil
}

// mockSessionAnalyticsRepository is a mock implementation of SessionAnalyticsRepository
type mockSessionAnalyticsRepository struct {
	counts map[string]int
	err    error
}

func (m *mockSessionAnalyticsRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.counts, nil
}

func TestAnalyticsService_UsersByRole(t *testing.T) {
	t.Run("admin gets counts", func(t *testing.T) {
		userRepo := &mockUserAnalyticsRepository{counts: map[string]int{"admin": 1, "trainee": 5}}
		service := NewAnalyticsService(userRepo, &mockSessionAnalyticsRepository{})

		counts, err := service.UsersByRole(context.Background(), adminActor())

		require.NoError(t, err)
		assert.Equal(t, map[string]int{"admin": 1, "trainee": 5}, counts)
	})

	t.Run("trainer is forbidden", func(t *testing.T) {
		service := NewAnalyticsService(&mockUserAnalyticsRepository{}, &mockSessionAnalyticsRepository{})

		counts, err := service.UsersByRole(context.Background(), trainerActor())

		assert.ErrorIs(t, err, models.ErrForbidden)
		assert.Nil(t, counts)
	})
}

func TestAnalyticsService_SessionsByStatus(t *testing.T) {
	t.Run("admin gets counts", func(t *testing.T) {
		sessionRepo := &mockSessionAnalyticsRepository{counts: map[string]int{"scheduled": 3, "cancelled": 1}}
		service := NewAnalyticsService(&mockUserAnalyticsRepository{}, sessionRepo)

		counts, err := service.SessionsByStatus(context.Background(), adminActor())

		require.NoError(t, err)
		assert.Equal(t, map[string]int{"scheduled": 3, "cancelled": 1}, counts)
	})

	t.Run("trainee is forbidden", func(t *testing.T) {
		service := NewAnalyticsService(&mockUserAnalyticsRepository{}, &mockSessionAnalyticsRepository{})

		counts, err := service.SessionsByStatus(context.Background(), traineeActor(3))

		assert.ErrorIs(t, err, models.ErrForbidden)
		assert.Nil(t, counts)
	})
}
