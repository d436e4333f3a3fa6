package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mirskikh/inkwell/internal/session"
)

// Gatekeeper guards the admin page surface with a cookie *presence* check
// only. It never verifies the signature; the Gate does that inside each API
// handler.
func Gatekeeper(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// the login page must stay reachable or we redirect forever
			if strings.HasPrefix(c.Request().URL.Path, loginPath) {
				return next(c)
			}
			if _, ok := session.ReadAccessToken(c); !ok {
				return c.Redirect(http.StatusFound, loginPath)
			}
			return next(c)
		}
	}
}
