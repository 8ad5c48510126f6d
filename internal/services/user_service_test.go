package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/traininghub/training-api/internal/models"
)

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	user           *models.User
	users          []models.User
	getErr         error
	createErr      error
	updateErr      error
	deleteErr      error
	usernameExists bool
	emailExists    bool

	created *models.User
	updated *models.User
	deleted []int
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = 10
	m.created = user
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockUserRepository) GetAll(ctx context.Context, page, count int) ([]models.User, error) {
	return m.users, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = user
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, userID int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, userID)
	return nil
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return m.usernameExists, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.emailExists, nil
}

// mockBroadcaster records broadcast events
type mockBroadcaster struct {
	events []models.ChangeEvent
}

func (m *mockBroadcaster) Broadcast(event models.ChangeEvent) {
	m.events = append(m.events, event)
}

func adminActor() *models.User {
	return &models.User{ID: 1, Username: "root", Role: models.RoleAdmin}
}

func traineeActor(id int) *models.User {
	return &models.User{ID: id, Username: "trainee", Role: models.RoleTrainee}
}

func validCreateUserRequest() *models.CreateUserRequest {
	return &models.CreateUserRequest{
		Username:  "newuser",
		Email:     "NewUser@Example.com",
		Password:  "long-enough-password",
		Role:      models.RoleTrainee,
		FirstName: "New",
		LastName:  "User",
	}
}

func TestUserService_List(t *testing.T) {
	t.Run("admin lists users", func(t *testing.T) {
		repo := &mockUserRepository{users: []models.User{{ID: 1}, {ID: 2}}}
		service := NewUserService(repo, &mockBroadcaster{}, zap.NewNop())

		users, err := service.List(context.Background(), adminActor(), 1, 100)

		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("trainee is forbidden", func(t *testing.T) {
		repo := &mockUserRepository{}
		service := NewUserService(repo, &mockBroadcaster{}, zap.NewNop())

		users, err := service.List(context.Background(), traineeActor(3), 1, 100)

		assert.ErrorIs(t, err, models.ErrForbidden)
		assert.Nil(t, users)
	})
}

func TestUserService_Get(t *testing.T) {
	t.Run("trainee reads self", func(t *testing.T) {
		repo := &mockUserRepository{user: &models.User{ID: 3, Username: "trainee"}}
		service := NewUserService(repo, &mockBroadcaster{}, zap.NewNop())

		user, err := service.Get(context.Background(), traineeActor(3), 3)

		require.NoError(t, err)
		assert.Equal(t, 3, user.ID)
	})

	t.Run("trainee cannot read others", func(t *testing.T) {
		repo := &mockUserRepository{user: &models.User{ID: 4}}
		service := NewUserService(repo, &mockBroadcaster{}, zap.NewNop())

		user, err := service.Get(context.Background(), traineeActor(3), 4)

		assert.ErrorIs(t, err, models.ErrForbidden)
		assert.Nil(t, user)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &mockUserRepository{getErr: models.ErrNotFound}
		service := NewUserService(repo, &mockBroadcaster{}, zap.NewNop())

		user, err := service.Get(context.Background(), adminActor(), 99)

		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Nil(t, user)
	})
}

func TestUserService_Create(t *testing.T) {
	t.Run("success broadcasts created event", func(t *testing.T) {
		repo := &mockUserRepository{
			user: &models.User{ID: 10, Username: "newuser", Email: "newuser@example.com", Role: models.RoleTrainee},
		}
		broadcaster := &mockBroadcaster{}
		service := NewUserService(repo, broadcaster, zap.NewNop())

		user, err := service.Create(context.Background(), adminActor(), validCreateUserRequest())

		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, 10, user.ID)

		require.NotNil(t, repo.created)
		assert.Equal(t, "newuser", repo.created.Username)
		assert.Equal(t, "newuser@example.com", repo.created.Email)
		assert.True(t, repo.created.IsTemporaryPassword)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(repo.created.PasswordHash), []byte("long-enough-password")))

		require.Len(t, broadcaster.events, 1)
		assert.Equal(t, models.EventUserCreated, broadcaster.events[0].Type)
		data, ok := broadcaster.events[0].Data.(models.UserEventData)
		require.True(t, ok)
		assert.Equal(t, 10, data.UserID)
		assert.Equal(t, "created", data.Action)
		require.NotNil(t, data.User)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		repo := &mockUserRepository{}
		broadcaster := &mockBroadcaster{}
		service := NewUserService(repo, broadcaster, zap.NewNop())

		actor := &models.User{ID: 2, Role: models.RoleTrainer}
		user, err := service.Create(context.Background(), actor, validCreateUserRequest())

		assert.ErrorIs(t, err, models.ErrForbidden)
		assert.Nil(t, user)
		assert.Nil(t, repo.created)
		assert.Empty(t, broadcaster.events)
	})

	t.Run("duplicate username performs no write", func(t *testing.T) {
		repo := &mockUserRepository{usernameExists: true}
		broadcaster := &mockBroadcaster{}
		service := NewUserService(repo, broadcaster, zap.NewNop())

		user, err := service.Create(context.Background(), adminActor(), validCreateUserRequest())

		assert.ErrorIs(t, err, models.ErrConflict)
		assert.Nil(t, user)
		assert.Nil(t, repo.created)
		assert.Empty(t, broadcaster.events)
	})

	t.Run("duplicate email performs no write", func(t *testing.T) {
		repo := &mockUserRepository{emailExists: true}
		broadcaster := &mockBroadcaster{}
		service := NewUserService(repo, broadcaster, zap.NewNop())

		user, err := service.Create(context.Background(), adminActor(), validCreateUserRequest())

		assert.ErrorIs(t, err, models.ErrConflict)
		assert.Nil(t, user)
		assert.Nil(t, repo.created)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*models.CreateUserRequest)
		}{
			{"empty username", func(r *models.CreateUserRequest) { r.Username = "  " }},
			{"bad email", func(r *models.CreateUserRequest) { r.Email = "not-an-email" }},
			{"short password", func(r *models.CreateUserRequest) { r.Password = "short" }},
			{"bad role", func(r *models.CreateUserRequest) { r.Role = "superuser" }},
			{"missing first name", func(r *models.CreateUserRequest) { r.FirstName = "" }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := &mockUserRepository{}
				service := NewUserService(repo, &mockBroadcaster{}, zap.NewNop())

				req := validCreateUserRequest()
				tt.mutate(req)
				user, err := service.Create(context.Background(), adminActor(), req)

				assert.ErrorIs(t, err, models.ErrValidation)
				assert.Nil(t, user)
				assert.Nil(t, repo.created)
			})
		}
	})
}

func TestUserService_Update(t *testing.T) {
	existing := func() *models.User {
		return &models.User{
			ID:           5,
			Username:     "carol",
			Email:        "carol@example.com",
			PasswordHash: "old-hash",
			Role:         models.RoleTrainee,
			FirstName:    "Carol",
			LastName:     "Brown",
			UpdatedAt:    time.Now(),
		}
	}

	t.Run("admin updates role and broadcasts", func(t *testing.T) {
		repo := &mockUserRepository{user: existing()}
		broadcaster := &mockBroadcaster{}
		service := NewUserService(repo, broadcaster, zap.NewNop())

		role := models.RoleTrainer
		user, err := service.Update(context.Background(), adminActor(), 5, &models.UpdateUserRequest{Role: &role})

		require.NoError(t, err)
		require.NotNil(t, user)
		require.NotNil(t, repo.updated)
		assert.Equal(t, models.RoleTrainer, repo.updated.Role)

		require.Len(t, broadcaster.events, 1)
		assert.Equal(t, models.EventUserUpdated, broadcaster.events[0].Type)
	})

	t.Run("self update allowed", func(t *testing.T) {
		repo := &mockUserRepository{user: existing()}
		service := NewUserService(repo, &mockBroadcaster{}, zap.NewNop())

		first := "Caroline"
		_, err := service.Update(context.Background(), traineeActor(5), 5, &models.UpdateUserRequest{FirstName: &first})

		require.NoError(t, err)
		assert.Equal(t, "Caroline", repo.updated.FirstName)
	})

	t.Run("update of another user is forbidden", func(t *testing.T) {
		repo := &mockUserRepository{user: existing()}
		service := NewUserService(repo, &mockBroadcaster{}, zap.NewNop())

		first := "Caroline"
		_, err := service.Update(context.Background(), traineeActor(3), 5, &models.UpdateUserRequest{FirstName: &first})

		assert.ErrorIs(t, err, models.ErrForbidden)
		assert.Nil(t, repo.updated)
	})

	t.Run("password change rehashes", func(t *testing.T) {
		repo := &mockUserRepository{user: existing()}
		service := NewUserService(repo, &mockBroadcaster{}, zap.NewNop())

		password := "brand-new-password"
		_, err := service.Update(context.Background(), adminActor(), 5, &models.UpdateUserRequest{Password: &password})

		require.NoError(t, err)
		require.NotNil(t, repo.updated)
		assert.NotEqual(t, "old-hash", repo.updated.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(repo.updated.PasswordHash), []byte(password)))
	})

	t.Run("short password is rejected", func(t *testing.T) {
		repo := &mockUserRepository{user: existing()}
		service := NewUserService(repo, &mockBroadcaster{}, zap.NewNop())

		password := "short"
		_, err := service.Update(context.Background(), adminActor(), 5, &models.UpdateUserRequest{Password: &password})

		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Nil(t, repo.updated)
	})

	t.Run("username conflict", func(t *testing.T) {
		repo := &mockUserRepository{user: existing(), usernameExists: true}
		service := NewUserService(repo, &mockBroadcaster{}, zap.NewNop())

		username := "taken"
		_, err := service.Update(context.Background(), adminActor(), 5, &models.UpdateUserRequest{Username: &username})

		assert.ErrorIs(t, err, models.ErrConflict)
		assert.Nil(t, repo.updated)
	})

	t.Run("unchanged username skips conflict check", func(t *testing.T) {
		repo := &mockUserRepository{user: existing(), usernameExists: true}
		service := NewUserService(repo, &mockBroadcaster{}, zap.NewNop())

		username := "carol"
		_, err := service.Update(context.Background(), adminActor(), 5, &models.UpdateUserRequest{Username: &username})

		assert.NoError(t, err)
	})

	t.Run("user not found", func(t *testing.T) {
		repo := &mockUserRepository{getErr: models.ErrNotFound}
		service := NewUserService(repo, &mockBroadcaster{}, zap.NewNop())

		first := "Nobody"
		_, err := service.Update(context.Background(), adminActor(), 99, &models.UpdateUserRequest{FirstName: &first})

		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Run("admin deletes and broadcasts", func(t *testing.T) {
		repo := &mockUserRepository{}
		broadcaster := &mockBroadcaster{}
		service := NewUserService(repo, broadcaster, zap.NewNop())

		err := service.Delete(context.Background(), adminActor(), 5)

		require.NoError(t, err)
		assert.Equal(t, []int{5}, repo.deleted)

		require.Len(t, broadcaster.events, 1)
		assert.Equal(t, models.EventUserDeleted, broadcaster.events[0].Type)
		data, ok := broadcaster.events[0].Data.(models.UserEventData)
		require.True(t, ok)
		assert.Equal(t, 5, data.UserID)
		assert.Equal(t, "deleted", data.Action)
		assert.Nil(t, data.User)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		repo := &mockUserRepository{}
		broadcaster := &mockBroadcaster{}
		service := NewUserService(repo, broadcaster, zap.NewNop())

		err := service.Delete(context.Background(), traineeActor(5), 5)

		assert.ErrorIs(t, err, models.ErrForbidden)
		assert.Empty(t, repo.deleted)
		assert.Empty(t, broadcaster.events)
	})

	t.Run("not found emits no event", func(t *testing.T) {
		repo := &mockUserRepository{deleteErr: models.ErrNotFound}
		broadcaster := &mockBroadcaster{}
		service := NewUserService(repo, broadcaster, zap.NewNop())

		err := service.Delete(context.Background(), adminActor(), 99)

		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Empty(t, broadcaster.events)
	})
}
