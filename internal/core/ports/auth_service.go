package ports

import (
	"context"

	"github.com/socialblog/blogging-system/internal/core/domain"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Name     string
}

// LoginResult carries both credential artifacts minted on login. The
// access token goes into the response body, the refresh token into the
// HTTP-only cookie.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

type UpdateProfileInput struct {
	Name   *string
	Avatar *string
}

// AuthService orchestrates the authentication lifecycle against the
// credential store and the token issuer.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error

	Profile(ctx context.Context, userID string) (domain.Profile, error)
	UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (domain.Profile, error)
	DeleteAccount(ctx context.Context, userID string) error
}
