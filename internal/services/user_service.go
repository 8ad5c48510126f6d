package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/traininghub/training-api/internal/auth"
	"github.com/traininghub/training-api/internal/models"
)

// UserRepository is the interface that wraps methods for users table data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user; its ID is set on success.
	//
	// If some error occurs during user creation, the error will be returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByID retrieves a user by ID.
	//
	// "userID" parameter is used to retrieve a user by ID.
	//
	// If user with such ID does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// Method GetAll retrieves a paginated list of users.
	//
	// "page" parameter is used for pagination (starting from 1).
	// "count" parameter is used for page size.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	GetAll(ctx context.Context, page, count int) ([]models.User, error)
	// Method Update writes all mutable user fields.
	//
	// "user" parameter carries the full desired state of the row.
	//
	// If some error occurs during user update, the error will be returned.
	Update(ctx context.Context, user *models.User) error
	// Method Delete deletes a user by ID.
	//
	// "userID" parameter is used to identify the user to delete.
	//
	// If user with such ID does not exist, models.ErrNotFound will be returned.
	Delete(ctx context.Context, userID int) error
	// Method ExistsByUsername checks if a user with such username exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// Broadcaster delivers a change event to all connected real-time clients.
// Delivery is fire-and-forget relative to the mutation that produced the
// event: failures are handled inside the broadcaster and never surface here.
type Broadcaster interface {
	Broadcast(event models.ChangeEvent)
}

// userService implements user CRUD with authorization and change broadcasting
type userService struct {
	userRepo    UserRepository
	broadcaster Broadcaster
	logger      *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository, broadcaster Broadcaster, logger *zap.Logger) *userService {
	return &userService{
		userRepo:    userRepo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const minPasswordLength = 8

// List retrieves a paginated list of users
func (s *userService) List(ctx context.Context, actor *models.User, page, count int) ([]models.User, error) {
	if err := auth.Authorize(actor.Role, actor.ID, auth.ActionListUsers, nil); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if count < 1 {
		count = 100
	}

	return s.userRepo.GetAll(ctx, page, count)
}

// Get retrieves one user by ID
func (s *userService) Get(ctx context.Context, actor *models.User, userID int) (*models.User, error) {
	if err := auth.Authorize(actor.Role, actor.ID, auth.ActionReadUser, &userID); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, userID)
}

// Create validates and creates a new user, then broadcasts the change
func (s *userService) Create(ctx context.Context, actor *models.User, req *models.CreateUserRequest) (*models.User, error) {
	if err := auth.Authorize(actor.Role, actor.ID, auth.ActionCreateUser, nil); err != nil {
		return nil, err
	}

	normalizedEmail := strings.TrimSpace(strings.ToLower(req.Email))
	normalizedUsername := strings.TrimSpace(req.Username)

	if err := validateNewUser(normalizedUsername, normalizedEmail, req.Password, req.Role, req.FirstName, req.LastName); err != nil {
		return nil, err
	}

	// Uniqueness pre-checks so a duplicate performs no write
	usernameExists, err := s.userRepo.ExistsByUsername(ctx, normalizedUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if usernameExists {
		return nil, fmt.Errorf("username %w", models.ErrConflict)
	}

	emailExists, err := s.userRepo.ExistsByEmail(ctx, normalizedEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if emailExists {
		return nil, fmt.Errorf("email %w", models.ErrConflict)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	isTemporary := true
	if req.IsTemporaryPassword != nil {
		isTemporary = *req.IsTemporaryPassword
	}

	user := &models.User{
		Username:            normalizedUsername,
		Email:               normalizedEmail,
		PasswordHash:        string(passwordHash),
		Role:                req.Role,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		IsTemporaryPassword: isTemporary,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Re-read the row so the response and event carry DB-managed timestamps
	created, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.broadcaster.Broadcast(models.NewUserEvent(models.EventUserCreated, "created", created))

	return created, nil
}

// Update applies a partial update to a user, then broadcasts the change
func (s *userService) Update(ctx context.Context, actor *models.User, userID int, req *models.UpdateUserRequest) (*models.User, error) {
	if err := auth.Authorize(actor.Role, actor.ID, auth.ActionUpdateUser, &userID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: username cannot be empty", models.ErrValidation)
		}
		if username != user.Username {
			exists, err := s.userRepo.ExistsByUsername(ctx, username)
			if err != nil {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
			if exists {
				return nil, fmt.Errorf("username %w", models.ErrConflict)
			}
			user.Username = username
		}
	}

	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		if !emailRegex.MatchString(email) {
			return nil, fmt.Errorf("%w: invalid email format", models.ErrValidation)
		}
		if email != user.Email {
			exists, err := s.userRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if exists {
				return nil, fmt.Errorf("email %w", models.ErrConflict)
			}
			user.Email = email
		}
	}

	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, fmt.Errorf("%w: invalid role %q", models.ErrValidation, *req.Role)
		}
		user.Role = *req.Role
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if req.Password != nil {
		if len(*req.Password) < minPasswordLength {
			return nil, fmt.Errorf("%w: password must be at least %d characters", models.ErrValidation, minPasswordLength)
		}
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(passwordHash)
	}

	if req.IsTemporaryPassword != nil {
		user.IsTemporaryPassword = *req.IsTemporaryPassword
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	updated, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.broadcaster.Broadcast(models.NewUserEvent(models.EventUserUpdated, "updated", updated))

	return updated, nil
}

// Delete removes a user, then broadcasts the change
func (s *userService) Delete(ctx context.Context, actor *models.User, userID int) error {
	if err := auth.Authorize(actor.Role, actor.ID, auth.ActionDeleteUser, &userID); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	s.broadcaster.Broadcast(models.NewUserDeletedEvent(userID))

	return nil
}

// validateNewUser checks the shape of a user creation request
func validateNewUser(username, email, password string, role models.Role, firstName, lastName string) error {
	if username == "" {
		return fmt.Errorf("%w: username cannot be empty", models.ErrValidation)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", models.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", models.ErrValidation, minPasswordLength)
	}
	if !role.Valid() {
		return fmt.Errorf("%w: invalid role %q", models.ErrValidation, role)
	}
	if firstName == "" || lastName == "" {
		return fmt.Errorf("%w: first_name and last_name are required", models.ErrValidation)
	}
	return nil
}
