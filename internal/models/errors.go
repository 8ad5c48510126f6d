package models

import "errors"

// Error taxonomy for the whole service. Services wrap these with %w and
// handlers map them to HTTP statuses in one place.
var (
	// ErrUnauthenticated means the request carries no usable credentials
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidToken means the bearer token failed signature, expiry or shape checks
	ErrInvalidToken = errors.New("invalid token")
	// ErrForbidden means the authenticated actor is not allowed to perform the action
	ErrForbidden = errors.New("not authorized")
	// ErrNotFound means the target entity does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness constraint would be violated
	ErrConflict = errors.New("already exists")
	// ErrValidation means the input shape is malformed
	ErrValidation = errors.New("invalid input")
	// ErrUnsupportedFormat means an unknown report format was requested
	ErrUnsupportedFormat = errors.New("unsupported format")
)
