package domain

import "errors"

// Closed set of domain errors. Handlers never branch on error strings;
// the API layer maps each sentinel to a deterministic HTTP status in
// internal/api/error_handler.go.
var (
	ErrValidation         = errors.New("invalid input")
	ErrDuplicateUser      = errors.New("username or email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrForbidden          = errors.New("access forbidden")
)
