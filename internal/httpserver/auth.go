package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mirskikh/inkwell/internal/logging"
	authmw "github.com/mirskikh/inkwell/internal/middleware/auth"
	"github.com/mirskikh/inkwell/internal/service"
	"github.com/mirskikh/inkwell/internal/session"
)

type AuthHTTP struct {
	Svc    *service.AuthService
	Secure bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid name, email or password")
		case errors.Is(err, service.ErrConflict):
			return echo.NewHTTPError(http.StatusBadRequest, "email already registered")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
	}

	session.SetSessionCookies(c, res.Tokens.AccessToken, res.Tokens.AccessExp, res.Tokens.RefreshToken, res.Tokens.RefreshExp, h.Secure)
	return c.JSON(http.StatusOK, echo.Map{"user": res.User})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
		case errors.Is(err, service.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	session.SetSessionCookies(c, res.Tokens.AccessToken, res.Tokens.AccessExp, res.Tokens.RefreshToken, res.Tokens.RefreshExp, h.Secure)
	return c.JSON(http.StatusOK, echo.Map{"user": res.User})
}

// Refresh rotates the session. Any token problem clears both cookies so the
// client re-authenticates instead of retrying forever.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	raw, ok := session.ReadRefreshToken(c)
	if !ok {
		session.ClearSessionCookies(c, h.Secure)
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	res, err := h.Svc.Refresh(ctx, raw)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			session.ClearSessionCookies(c, h.Secure)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		}
		l.Error("refresh_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "refresh failed")
	}

	session.SetSessionCookies(c, res.Tokens.AccessToken, res.Tokens.AccessExp, res.Tokens.RefreshToken, res.Tokens.RefreshExp, h.Secure)
	return c.JSON(http.StatusOK, echo.Map{"user": res.User})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if raw, ok := session.ReadRefreshToken(c); ok {
		if err := h.Svc.Logout(ctx, raw); err != nil {
			l.Error("logout_error", "reason", "cannot revoke refresh token", "error", err)
		}
	}

	session.ClearSessionCookies(c, h.Secure)
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHTTP) Me(c echo.Context) error {
	user := authmw.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}
