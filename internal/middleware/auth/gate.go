package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mirskikh/inkwell/internal/logging"
	"github.com/mirskikh/inkwell/internal/models"
	"github.com/mirskikh/inkwell/internal/repo"
	"github.com/mirskikh/inkwell/internal/session"
	"github.com/mirskikh/inkwell/internal/tokens"
)

const userContextKey = "current_user"

// Gate is the authorization layer behind the cookie presence check: it
// verifies the access token and re-fetches the user row, so the stored role
// (not the minted one) decides every request.
type Gate struct {
	Repo   *repo.GormRepo
	Signer *tokens.Signer
	Secure bool
}

// RequireAuth fails with 401 when there is no valid session and 403 when the
// session's role is not in the allow list. ADMIN passes any list.
func (g *Gate) RequireAuth(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := session.ReadAccessToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}

			claims, err := g.Signer.VerifyAccess(raw)
			if err != nil {
				session.ClearSessionCookies(c, g.Secure)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			id, err := claims.UserID()
			if err != nil {
				session.ClearSessionCookies(c, g.Secure)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			user, err := g.Repo.GetUserByID(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					session.ClearSessionCookies(c, g.Secure)
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
				}
				// transient persistence failure: keep the session intact
				logging.FromContext(c.Request().Context()).Error("auth_gate_error", "status", 500, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "cannot load user")
			}

			if len(roles) > 0 && user.Role != models.RoleAdmin && !roleAllowed(user.Role, roles) {
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

func roleAllowed(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// CurrentUser returns the user loaded by RequireAuth, nil outside the gate.
func CurrentUser(c echo.Context) *models.User {
	if u, ok := c.Get(userContextKey).(*models.User); ok {
		return u
	}
	return nil
}
