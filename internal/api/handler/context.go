package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/socialblog/blogging-system/internal/api/middleware"
	"github.com/socialblog/blogging-system/internal/core/domain"
)

// ctxUserID extracts the user id injected by the VerifyAccessToken
// middleware. Its presence proves the middleware ran; an empty value on a
// protected route means the route is wired wrong, and the request is
// rejected rather than served anonymously.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.UserIDKey).(string)
	if userID == "" {
		return "", domain.ErrMissingToken
	}
	return userID, nil
}

// viewerKey identifies the viewer for view dedup: the authenticated user
// id when present, otherwise the client address.
func viewerKey(c echo.Context) string {
	if userID, _ := c.Get(middleware.UserIDKey).(string); userID != "" {
		return userID
	}
	return c.RealIP()
}
