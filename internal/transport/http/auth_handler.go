package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yathrananda/admin-console/internal/service"
	"github.com/yathrananda/admin-console/internal/util"
)

type AuthRoutesConfig struct {
	SecureCookie       bool
	LoginRatePerMinute int
}

type AuthHandler struct {
	auth   *service.AuthService
	secure bool
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService, cfg AuthRoutesConfig) {
	h := &AuthHandler{auth: auth, secure: cfg.SecureCookie}
	e.POST("/api/auth/login", h.login, LoginRateLimiter(cfg.LoginRatePerMinute))
	e.POST("/api/auth/logout", h.logout)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Username and password are required"))
	}

	token, expiresAt, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrCredentialsRequired):
		return c.JSON(http.StatusBadRequest, util.Error("Username and password are required"))
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, util.Error("Invalid username or password"))
	case err != nil:
		c.Logger().Errorf("issue session: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("Internal server error"))
	}

	c.SetCookie(h.sessionCookie(token, expiresAt, int(h.auth.SessionTTL().Seconds())))
	return c.JSON(http.StatusOK, util.Success())
}

func (h *AuthHandler) logout(c echo.Context) error {
	c.SetCookie(h.sessionCookie("", time.Unix(0, 0), -1))
	return c.JSON(http.StatusOK, util.Success())
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
