package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/socialblog/blogging-system/internal/core/domain"
	"github.com/socialblog/blogging-system/internal/core/ports"
)

// refreshCookieName is the cookie carrying the opaque refresh token.
const refreshCookieName = "jwt"

// AuthHandler exposes the authentication lifecycle over HTTP. The refresh
// token travels only in an HTTP-only cookie; the access token only in
// response bodies and Authorization headers.
type AuthHandler struct {
	authService  ports.AuthService
	cookieMaxAge time.Duration
	cookieSecure bool
}

func NewAuthHandler(authService ports.AuthService, cookieMaxAge time.Duration, cookieSecure bool) *AuthHandler {
	if cookieMaxAge <= 0 {
		cookieMaxAge = 24 * time.Hour
	}
	return &AuthHandler{
		authService:  authService,
		cookieMaxAge: cookieMaxAge,
		cookieSecure: cookieSecure,
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"omitempty,max=100"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	ResetToken  string `json:"resetToken"  validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type updateProfileRequest struct {
	Name   *string `json:"name"   validate:"omitempty,max=100"`
	Avatar *string `json:"avatar" validate:"omitempty,max=500"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type resetTokenResponse struct {
	ResetToken string `json:"resetToken"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{Success: true, Message: "user registered"})
}

// Login authenticates a user. The access token goes into the body, the
// refresh token into the HTTP-only cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  accessTokenResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.refreshCookie(result.RefreshToken, h.cookieMaxAge))
	return c.JSON(http.StatusOK, accessTokenResponse{AccessToken: result.AccessToken})
}

// Refresh exchanges the refresh cookie for a new access token.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  accessTokenResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /auth/refresh [get]
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return domain.ErrMissingToken
	}

	accessToken, err := h.authService.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, accessTokenResponse{AccessToken: accessToken})
}

// Logout clears the stored refresh token and the cookie. Always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Success      204  "no session to clear"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
		return err
	}

	c.SetCookie(h.refreshCookie("", -time.Second))
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "logged out"})
}

// ForgotPassword issues a password-reset token. The token is returned in
// the response body; out-of-band delivery is deliberately not implemented.
//
// @Summary      Request a password reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  resetTokenResponse
// @Failure      404   {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.authService.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resetTokenResponse{ResetToken: token})
}

// ResetPassword consumes a reset token and sets the new password.
//
// @Summary      Reset the password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.ResetToken, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "password reset"})
}

// Profile returns the authenticated user's profile.
//
// @Summary      Get own profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates the authenticated user's display name and avatar.
//
// @Summary      Update own profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  domain.Profile
// @Failure      401   {object}  map[string]string
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.authService.UpdateProfile(c.Request().Context(), userID, ports.UpdateProfileInput{
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profile)
}

// DeleteProfile deletes the authenticated user's account and ends the
// session.
//
// @Summary      Delete own account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/profile [delete]
func (h *AuthHandler) DeleteProfile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.authService.DeleteAccount(c.Request().Context(), userID); err != nil {
		return err
	}

	c.SetCookie(h.refreshCookie("", -time.Second))
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "account deleted"})
}

func (h *AuthHandler) refreshCookie(value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
