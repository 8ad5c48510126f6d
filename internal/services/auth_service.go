package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/traininghub/training-api/internal/auth"
	"github.com/traininghub/training-api/internal/models"
)

// AuthUserRepository is the interface that wraps user lookups needed for authentication
type AuthUserRepository interface {
	// Method GetByUsername retrieves a user by username.
	//
	// "username" parameter is used to retrieve a user by username.
	//
	// If user with such username does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// authService implements login
type authService struct {
	userRepo       AuthUserRepository
	tokenGenerator *auth.TokenGenerator
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo AuthUserRepository, tokenGenerator *auth.TokenGenerator, logger *zap.Logger) *authService {
	return &authService{
		userRepo:       userRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
	}
}

// Login authenticates a user by username and password and issues an access
// token. Bad credentials are indistinguishable from an unknown username.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", models.ErrValidation)
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", models.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", models.ErrUnauthenticated)
	}

	accessToken, err := s.tokenGenerator.GenerateToken(user.Username)
	if err != nil {
		s.logger.Error("failed to generate access token", zap.Error(err))
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &models.LoginResponse{
		AccessToken:         accessToken,
		TokenType:           "bearer",
		User:                user,
		ForcePasswordChange: user.IsTemporaryPassword,
	}, nil
}
