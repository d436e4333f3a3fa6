package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

func CreateCookie(name, value, path string, exp time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func DeleteCookie(name, path string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetSessionCookies writes both cookies on the same response that carries the
// success payload. Cookie expiry mirrors token expiry on purpose: the session
// survives browser restarts exactly as long as the tokens remain valid.
func SetSessionCookies(c echo.Context, accessToken string, accessExp time.Time, refreshToken string, refreshExp time.Time, secure bool) {
	c.SetCookie(CreateCookie(AccessCookie, accessToken, "/", accessExp, secure))
	c.SetCookie(CreateCookie(RefreshCookie, refreshToken, "/", refreshExp, secure))
}

func ClearSessionCookies(c echo.Context, secure bool) {
	c.SetCookie(DeleteCookie(AccessCookie, "/", secure))
	c.SetCookie(DeleteCookie(RefreshCookie, "/", secure))
}

func ReadAccessToken(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(AccessCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func ReadRefreshToken(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(RefreshCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
