package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewTokenIssuer_RequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer("", time.Minute); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestNewTokenIssuer_DefaultTTL(t *testing.T) {
	issuer, err := NewTokenIssuer("secret", 0)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	if issuer.AccessTokenTTL() != 15*time.Minute {
		t.Fatalf("expected 15m default TTL, got %v", issuer.AccessTokenTTL())
	}
}

func TestTokenIssuer_IssueAccessToken(t *testing.T) {
	issuer, err := NewTokenIssuer("secret", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	signed, err := issuer.IssueAccessToken("user_1")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["id"] != "user_1" {
		t.Fatalf("expected id claim user_1, got %v", claims["id"])
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		t.Fatalf("exp claim: %v", err)
	}
	ttl := time.Until(exp.Time)
	if ttl <= 14*time.Minute || ttl > 15*time.Minute {
		t.Fatalf("expected ~15m validity, got %v", ttl)
	}
}

func TestTokenIssuer_IssueAccessToken_WrongSecretRejected(t *testing.T) {
	issuer, _ := NewTokenIssuer("secret", time.Minute)
	signed, _ := issuer.IssueAccessToken("user_1")

	_, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	})
	if err == nil {
		t.Fatalf("expected signature verification failure")
	}
}

func TestTokenIssuer_IssueRefreshToken(t *testing.T) {
	issuer, _ := NewTokenIssuer("secret", time.Minute)

	first, err := issuer.IssueRefreshToken()
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}
	// 64 bytes of entropy, hex-encoded.
	if len(first) != 128 {
		t.Fatalf("expected 128 hex chars, got %d", len(first))
	}

	second, _ := issuer.IssueRefreshToken()
	if first == second {
		t.Fatalf("expected distinct tokens")
	}
}
