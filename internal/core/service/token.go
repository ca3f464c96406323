package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultAccessTokenTTL = 15 * time.Minute

	// opaqueTokenBytes is the entropy of refresh and reset tokens before
	// hex encoding.
	opaqueTokenBytes = 64
)

// TokenIssuer produces the two credential artifacts: short-lived signed
// access tokens and opaque high-entropy refresh/reset tokens.
type TokenIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

// NewTokenIssuer builds a TokenIssuer. A missing secret is a configuration
// error and must abort startup; it is never a per-request condition.
func NewTokenIssuer(secret string, accessTTL time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("token issuer: signing secret is required")
	}
	if accessTTL <= 0 {
		accessTTL = defaultAccessTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), accessTTL: accessTTL}, nil
}

// AccessTokenTTL returns the configured access token validity window.
func (t *TokenIssuer) AccessTokenTTL() time.Duration {
	return t.accessTTL
}

// IssueAccessToken signs an HS256 JWT carrying the user id, valid for the
// configured window.
func (t *TokenIssuer) IssueAccessToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(t.accessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// IssueRefreshToken generates an opaque random token. It has no relation
// to any user until the caller persists it on a record.
func (t *TokenIssuer) IssueRefreshToken() (string, error) {
	return randomToken()
}

// IssueResetToken generates an opaque random token for the password reset
// flow.
func (t *TokenIssuer) IssueResetToken() (string, error) {
	return randomToken()
}

func randomToken() (string, error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("opaque token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
