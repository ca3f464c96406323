package ports

import (
	"context"
	"time"

	"github.com/socialblog/blogging-system/internal/core/domain"
)

// UserRepository is the credential store: persisted user records together
// with the refresh and reset token state the auth flow hangs off them.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByRefreshToken(ctx context.Context, token string) (*domain.User, error)
	FindByResetToken(ctx context.Context, token string) (*domain.User, error)

	// UpdateRefreshToken overwrites the stored refresh token; an empty
	// value clears it (logout).
	UpdateRefreshToken(ctx context.Context, userID, token string) error

	// UpdateResetToken stores a password-reset token with its absolute expiry.
	UpdateResetToken(ctx context.Context, userID, token string, expiry time.Time) error

	// UpdatePassword replaces the password hash and clears any reset token.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	UpdateProfile(ctx context.Context, userID string, name, avatar *string) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
}
