package middleware

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/socialblog/blogging-system/internal/core/domain"
)

// UserIDKey is the echo context key under which the authenticated user id
// is stored.
const UserIDKey = "user_id"

// VerifyAccessToken validates the Bearer access token and injects the user
// id into the request context. An expired token and a token with a bad
// signature are distinct failures: the client's session manager retries
// only on the former.
func VerifyAccessToken(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return domain.ErrMissingToken
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return domain.ErrMissingToken
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					return domain.ErrTokenExpired
				}
				return domain.ErrInvalidToken
			}
			if !tkn.Valid {
				return domain.ErrInvalidToken
			}

			userID, _ := claims["id"].(string)
			if userID == "" {
				return domain.ErrInvalidToken
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}
