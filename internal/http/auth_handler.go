package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/service"
)

// AuthHandler exposes registration, login, and account endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// sessionResponse pairs the account with its issued tokens.
type sessionResponse struct {
	User   *models.User         `json:"user"`
	Tokens *service.Credentials `json:"tokens"`
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var in service.RegisterInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, domain.Validationf("invalid request body"))
	}

	user, creds, err := h.auth.Register(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, sessionResponse{User: user, Tokens: creds})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var in loginRequest
	if err := c.Bind(&in); err != nil {
		return respondError(c, domain.Validationf("invalid request body"))
	}

	user, creds, err := h.auth.Login(c.Request().Context(), in.Email, in.Password)
	if err != nil {
		return respondAuthError(c, err)
	}
	return respond(c, http.StatusOK, sessionResponse{User: user, Tokens: creds})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var in refreshRequest
	if err := c.Bind(&in); err != nil {
		return respondError(c, domain.Validationf("invalid request body"))
	}

	creds, err := h.auth.Refresh(c.Request().Context(), in.RefreshToken)
	if err != nil {
		return respondAuthError(c, err)
	}
	return respond(c, http.StatusOK, creds)
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	var in refreshRequest
	if err := c.Bind(&in); err != nil {
		return respondError(c, domain.Validationf("invalid request body"))
	}

	if err := h.auth.Logout(c.Request().Context(), in.RefreshToken); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, http.StatusOK, "logged out")
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.auth.GetMe(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/v1/auth/me.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var in service.UpdateProfileInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, domain.Validationf("invalid request body"))
	}

	user, err := h.auth.UpdateProfile(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword handles PUT /api/v1/auth/password.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var in changePasswordRequest
	if err := c.Bind(&in); err != nil {
		return respondError(c, domain.Validationf("invalid request body"))
	}

	if err := h.auth.ChangePassword(c.Request().Context(), in.CurrentPassword, in.NewPassword); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, http.StatusOK, "password changed")
}
