package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/traininghub/training-api/internal/models"
)

// mockSessionRepository is a mock implementation of SessionRepository
type mockSessionRepository struct {
	session   *models.Session
	sessions  []models.Session
	getErr    error
	createErr error
	updateErr error
	deleteErr error

	created *models.Session
	updated *models.Session
	deleted []int
}

func (m *mockSessionRepository) Create(ctx context.Context, session *models.Session) error {
	if m.createErr != nil {
		return m.createErr
	}
	session.ID = 20
	m.created = session
	return nil
}

func (m *mockSessionRepository) GetByID(ctx context.Context, sessionID int) (*models.Session, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.session, nil
}

func (m *mockSessionRepository) GetAll(ctx context.Context, page, count int) ([]models.Session, error) {
	return m.sessions, nil
}

func (m *mockSessionRepository) Update(ctx context.Context, session *models.Session) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = session
	return nil
}

func (m *mockSessionRepository) Delete(ctx context.Context, sessionID int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, sessionID)
	return nil
}

// mockParticipantRepository resolves user IDs to fixed user records
type mockParticipantRepository struct {
	users map[int]*models.User
}

func (m *mockParticipantRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	user, ok := m.users[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return user, nil
}

func participants() *mockParticipantRepository {
	return &mockParticipantRepository{users: map[int]*models.User{
		1: {ID: 1, Role: models.RoleAdmin},
		2: {ID: 2, Role: models.RoleTrainer},
		3: {ID: 3, Role: models.RoleTrainee},
	}}
}

func validCreateSessionRequest() *models.CreateSessionRequest {
	return &models.CreateSessionRequest{
		Title:           "Onboarding",
		TrainerID:       2,
		TraineeID:       3,
		ScheduledDate:   time.Now().Add(24 * time.Hour),
		DurationMinutes: 60,
	}
}

func trainerActor() *models.User {
	return &models.User{ID: 2, Username: "trainer", Role: models.RoleTrainer}
}

func TestSessionService_List(t *testing.T) {
	t.Run("trainee may list sessions", func(t *testing.T) {
		repo := &mockSessionRepository{sessions: []models.Session{{ID: 1}, {ID: 2}}}
		service := NewSessionService(repo, participants(), &mockBroadcaster{}, zap.NewNop())

		sessions, err := service.List(context.Background(), traineeActor(3), 1, 100)

		require.NoError(t, err)
		assert.Len(t, sessions, 2)
	})
}

func TestSessionService_Get(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		repo := &mockSessionRepository{getErr: models.ErrNotFound}
		service := NewSessionService(repo, participants(), &mockBroadcaster{}, zap.NewNop())

		session, err := service.Get(context.Background(), trainerActor(), 99)

		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Nil(t, session)
	})
}

func TestSessionService_Create(t *testing.T) {
	t.Run("trainer creates session and broadcasts", func(t *testing.T) {
		repo := &mockSessionRepository{
			session: &models.Session{ID: 20, Title: "Onboarding", Status: models.StatusScheduled},
		}
		broadcaster := &mockBroadcaster{}
		service := NewSessionService(repo, participants(), broadcaster, zap.NewNop())

		session, err := service.Create(context.Background(), trainerActor(), validCreateSessionRequest())

		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, 20, session.ID)

		require.NotNil(t, repo.created)
		assert.Equal(t, models.StatusScheduled, repo.created.Status)

		require.Len(t, broadcaster.events, 1)
		assert.Equal(t, models.EventSessionCreated, broadcaster.events[0].Type)
		data, ok := broadcaster.events[0].Data.(models.SessionEventData)
		require.True(t, ok)
		assert.Equal(t, 20, data.SessionID)
		require.NotNil(t, data.Session)
	})

	t.Run("trainee is forbidden", func(t *testing.T) {
		repo := &mockSessionRepository{}
		broadcaster := &mockBroadcaster{}
		service := NewSessionService(repo, participants(), broadcaster, zap.NewNop())

		session, err := service.Create(context.Background(), traineeActor(3), validCreateSessionRequest())

		assert.ErrorIs(t, err, models.ErrForbidden)
		assert.Nil(t, session)
		assert.Nil(t, repo.created)
		assert.Empty(t, broadcaster.events)
	})

	t.Run("admin may be the trainer reference", func(t *testing.T) {
		repo := &mockSessionRepository{session: &models.Session{ID: 20}}
		service := NewSessionService(repo, participants(), &mockBroadcaster{}, zap.NewNop())

		req := validCreateSessionRequest()
		req.TrainerID = 1
		_, err := service.Create(context.Background(), adminActor(), req)

		assert.NoError(t, err)
	})

	t.Run("validation failures", func(t *testing.T) {
		badStatus := models.SessionStatus("paused")
		tests := []struct {
			name   string
			mutate func(*models.CreateSessionRequest)
		}{
			{"empty title", func(r *models.CreateSessionRequest) { r.Title = "  " }},
			{"zero duration", func(r *models.CreateSessionRequest) { r.DurationMinutes = 0 }},
			{"negative duration", func(r *models.CreateSessionRequest) { r.DurationMinutes = -30 }},
			{"bad status", func(r *models.CreateSessionRequest) { r.Status = &badStatus }},
			{"trainer does not exist", func(r *models.CreateSessionRequest) { r.TrainerID = 99 }},
			{"trainee does not exist", func(r *models.CreateSessionRequest) { r.TraineeID = 99 }},
			{"trainer reference is a trainee", func(r *models.CreateSessionRequest) { r.TrainerID = 3 }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := &mockSessionRepository{}
				service := NewSessionService(repo, participants(), &mockBroadcaster{}, zap.NewNop())

				req := validCreateSessionRequest()
				tt.mutate(req)
				session, err := service.Create(context.Background(), trainerActor(), req)

				assert.ErrorIs(t, err, models.ErrValidation)
				assert.Nil(t, session)
				assert.Nil(t, repo.created)
			})
		}
	})
}

func TestSessionService_Update(t *testing.T) {
	existing := func() *models.Session {
		return &models.Session{
			ID:              7,
			Title:           "Onboarding",
			TrainerID:       2,
			TraineeID:       3,
			ScheduledDate:   time.Now(),
			DurationMinutes: 60,
			Status:          models.StatusScheduled,
			UpdatedAt:       time.Now(),
		}
	}

	t.Run("status change broadcasts updated event", func(t *testing.T) {
		repo := &mockSessionRepository{session: existing()}
		broadcaster := &mockBroadcaster{}
		service := NewSessionService(repo, participants(), broadcaster, zap.NewNop())

		status := models.StatusCompleted
		session, err := service.Update(context.Background(), trainerActor(), 7, &models.UpdateSessionRequest{Status: &status})

		require.NoError(t, err)
		require.NotNil(t, session)
		require.NotNil(t, repo.updated)
		assert.Equal(t, models.StatusCompleted, repo.updated.Status)

		require.Len(t, broadcaster.events, 1)
		assert.Equal(t, models.EventSessionUpdated, broadcaster.events[0].Type)
		data, ok := broadcaster.events[0].Data.(models.SessionEventData)
		require.True(t, ok)
		assert.Equal(t, 7, data.SessionID)
		require.NotNil(t, data.Status)
	})

	t.Run("changed participants are re-validated", func(t *testing.T) {
		repo := &mockSessionRepository{session: existing()}
		service := NewSessionService(repo, participants(), &mockBroadcaster{}, zap.NewNop())

		trainerID := 3
		_, err := service.Update(context.Background(), trainerActor(), 7, &models.UpdateSessionRequest{TrainerID: &trainerID})

		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Nil(t, repo.updated)
	})

	t.Run("trainee is forbidden", func(t *testing.T) {
		repo := &mockSessionRepository{session: existing()}
		service := NewSessionService(repo, participants(), &mockBroadcaster{}, zap.NewNop())

		status := models.StatusCancelled
		_, err := service.Update(context.Background(), traineeActor(3), 7, &models.UpdateSessionRequest{Status: &status})

		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("session not found", func(t *testing.T) {
		repo := &mockSessionRepository{getErr: models.ErrNotFound}
		service := NewSessionService(repo, participants(), &mockBroadcaster{}, zap.NewNop())

		status := models.StatusCancelled
		_, err := service.Update(context.Background(), trainerActor(), 99, &models.UpdateSessionRequest{Status: &status})

		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("zero duration is rejected", func(t *testing.T) {
		repo := &mockSessionRepository{session: existing()}
		service := NewSessionService(repo, participants(), &mockBroadcaster{}, zap.NewNop())

		duration := 0
		_, err := service.Update(context.Background(), trainerActor(), 7, &models.UpdateSessionRequest{DurationMinutes: &duration})

		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Nil(t, repo.updated)
	})
}

func TestSessionService_Delete(t *testing.T) {
	t.Run("admin deletes and broadcasts", func(t *testing.T) {
		repo := &mockSessionRepository{}
		broadcaster := &mockBroadcaster{}
		service := NewSessionService(repo, participants(), broadcaster, zap.NewNop())

		err := service.Delete(context.Background(), adminActor(), 7)

		require.NoError(t, err)
		assert.Equal(t, []int{7}, repo.deleted)

		require.Len(t, broadcaster.events, 1)
		assert.Equal(t, models.EventSessionDeleted, broadcaster.events[0].Type)
		data, ok := broadcaster.events[0].Data.(models.SessionEventData)
		require.True(t, ok)
		assert.Equal(t, 7, data.SessionID)
		assert.Nil(t, data.Session)
	})

	t.Run("trainer is forbidden", func(t *testing.T) {
		repo := &mockSessionRepository{}
		broadcaster := &mockBroadcaster{}
		service := NewSessionService(repo, participants(), broadcaster, zap.NewNop())

		err := service.Delete(context.Background(), trainerActor(), 7)

		assert.ErrorIs(t, err, models.ErrForbidden)
		assert.Empty(t, repo.deleted)
		assert.Empty(t, broadcaster.events)
	})

	t.Run("not found emits no event", func(t *testing.T) {
		repo := &mockSessionRepository{deleteErr: models.ErrNotFound}
		broadcaster := &mockBroadcaster{}
		service := NewSessionService(repo, participants(), broadcaster, zap.NewNop())

		err := service.Delete(context.Background(), adminActor(), 99)

		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Empty(t, broadcaster.events)
	})
}
