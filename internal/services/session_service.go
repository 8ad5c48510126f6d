package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/traininghub/training-api/internal/auth"
	"github.com/traininghub/training-api/internal/models"
)

// SessionRepository is the interface that wraps methods for sessions table data access
type SessionRepository interface {
	// Method Create inserts a new training session into the database.
	//
	// "session" parameter is used to create a new session; its ID is set on success.
	//
	// If some error occurs during session creation, the error will be returned.
	Create(ctx context.Context, session *models.Session) error
	// Method GetByID retrieves a training session by ID.
	//
	// "sessionID" parameter is used to retrieve a session by ID.
	//
	// If session with such ID does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, sessionID int) (*models.Session, error)
	// Method GetAll retrieves a paginated list of training sessions.
	//
	// "page" parameter is used for pagination (starting from 1).
	// "count" parameter is used for page size.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	GetAll(ctx context.Context, page, count int) ([]models.Session, error)
	// Method Update writes all mutable session fields.
	//
	// "session" parameter carries the full desired state of the row.
	//
	// If some error occurs during session update, the error will be returned.
	Update(ctx context.Context, session *models.Session) error
	// Method Delete deletes a training session by ID.
	//
	// "sessionID" parameter is used to identify the session to delete.
	//
	// If session with such ID does not exist, models.ErrNotFound will be returned.
	Delete(ctx context.Context, sessionID int) error
}

// ParticipantRepository resolves trainer/trainee references to user records
type ParticipantRepository interface {
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
}

// sessionService implements training session CRUD with authorization and
// change broadcasting
type sessionService struct {
	sessionRepo SessionRepository
	userRepo    ParticipantRepository
	broadcaster Broadcaster
	logger      *zap.Logger
}

// NewSessionService creates a new training session service
func NewSessionService(sessionRepo SessionRepository, userRepo ParticipantRepository, broadcaster Broadcaster, logger *zap.Logger) *sessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// List retrieves a paginated list of training sessions
func (s *sessionService) List(ctx context.Context, actor *models.User, page, count int) ([]models.Session, error) {
	if err := auth.Authorize(actor.Role, actor.ID, auth.ActionListSessions, nil); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if count < 1 {
		count = 100
	}

	return s.sessionRepo.GetAll(ctx, page, count)
}

// Get retrieves one training session by ID
func (s *sessionService) Get(ctx context.Context, actor *models.User, sessionID int) (*models.Session, error) {
	if err := auth.Authorize(actor.Role, actor.ID, auth.ActionReadSession, nil); err != nil {
		return nil, err
	}

	return s.sessionRepo.GetByID(ctx, sessionID)
}

// Create validates and creates a new training session, then broadcasts the change
func (s *sessionService) Create(ctx context.Context, actor *models.User, req *models.CreateSessionRequest) (*models.Session, error) {
	if err := auth.Authorize(actor.Role, actor.ID, auth.ActionCreateSession, nil); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", models.ErrValidation)
	}
	if req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration_minutes must be positive", models.ErrValidation)
	}

	status := models.StatusScheduled
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q", models.ErrValidation, *req.Status)
		}
		status = *req.Status
	}

	if err := s.validateParticipants(ctx, req.TrainerID, req.TraineeID); err != nil {
		return nil, err
	}

	session := &models.Session{
		Title:           title,
		Description:     req.Description,
		TrainerID:       req.TrainerID,
		TraineeID:       req.TraineeID,
		ScheduledDate:   req.ScheduledDate,
		DurationMinutes: req.DurationMinutes,
		Status:          status,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	// Re-read the row so the response and event carry DB-managed timestamps
	created, err := s.sessionRepo.GetByID(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	s.broadcaster.Broadcast(models.NewSessionEvent(models.EventSessionCreated, created))

	return created, nil
}

// Update applies a partial update to a training session, then broadcasts the change
func (s *sessionService) Update(ctx context.Context, actor *models.User, sessionID int, req *models.UpdateSessionRequest) (*models.Session, error) {
	if err := auth.Authorize(actor.Role, actor.ID, auth.ActionUpdateSession, nil); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", models.ErrValidation)
		}
		session.Title = title
	}

	if req.Description != nil {
		session.Description = req.Description
	}

	trainerID := session.TrainerID
	traineeID := session.TraineeID
	if req.TrainerID != nil {
		trainerID = *req.TrainerID
	}
	if req.TraineeID != nil {
		traineeID = *req.TraineeID
	}
	if trainerID != session.TrainerID || traineeID != session.TraineeID {
		if err := s.validateParticipants(ctx, trainerID, traineeID); err != nil {
			return nil, err
		}
		session.TrainerID = trainerID
		session.TraineeID = traineeID
	}

	if req.ScheduledDate != nil {
		session.ScheduledDate = *req.ScheduledDate
	}

	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, fmt.Errorf("%w: duration_minutes must be positive", models.ErrValidation)
		}
		session.DurationMinutes = *req.DurationMinutes
	}

	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q", models.ErrValidation, *req.Status)
		}
		session.Status = *req.Status
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	updated, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.broadcaster.Broadcast(models.NewSessionEvent(models.EventSessionUpdated, updated))

	return updated, nil
}

// Delete removes a training session, then broadcasts the change
func (s *sessionService) Delete(ctx context.Context, actor *models.User, sessionID int) error {
	if err := auth.Authorize(actor.Role, actor.ID, auth.ActionDeleteSession, nil); err != nil {
		return err
	}

	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return err
	}

	s.broadcaster.Broadcast(models.NewSessionDeletedEvent(sessionID))

	return nil
}

// validateParticipants checks that the trainer reference points to a user
// allowed to run sessions and that the trainee exists
func (s *sessionService) validateParticipants(ctx context.Context, trainerID, traineeID int) error {
	trainer, err := s.userRepo.GetByID(ctx, trainerID)
	if err != nil {
		return fmt.Errorf("%w: trainer_id does not reference an existing user", models.ErrValidation)
	}
	if trainer.Role != models.RoleTrainer && trainer.Role != models.RoleAdmin {
		return fmt.Errorf("%w: trainer_id must reference a trainer or admin", models.ErrValidation)
	}

	if _, err := s.userRepo.GetByID(ctx, traineeID); err != nil {
		return fmt.Errorf("%w: trainee_id does not reference an existing user", models.ErrValidation)
	}

	return nil
}
