// Package auth provides token issuance/verification, the authorization
// policy, and the authentication middleware.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/traininghub/training-api/internal/models"
)

// TokenGenerator handles JWT access token generation and validation.
// Tokens are bound to a username; the caller re-resolves the username to a
// current user record, so deleting a user implicitly revokes its tokens.
type TokenGenerator struct {
	secret            string
	accessTokenExpiry time.Duration
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, accessExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:            secret,
		accessTokenExpiry: accessExpiry,
	}
}

// GenerateToken creates a signed access token with the username as subject
func (tg *TokenGenerator) GenerateToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"exp": now.Add(tg.accessTokenExpiry).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates an access token and returns the embedded username.
// A bad signature, an expired token, or a missing subject all yield
// models.ErrInvalidToken.
func (tg *TokenGenerator) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tg.secret), nil
	})

	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", models.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: unexpected claims type", models.ErrInvalidToken)
	}

	username, ok := claims["sub"].(string)
	if !ok || username == "" {
		return "", fmt.Errorf("%w: subject not found in token", models.ErrInvalidToken)
	}

	return username, nil
}
