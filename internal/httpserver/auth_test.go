package httpserver

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirskikh/inkwell/internal/models"
	"github.com/mirskikh/inkwell/internal/session"
)

func TestRegister_SetsCookiesAndForcesWriter(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register",
		`{"name":"New Writer","email":"new@example.com","password":"Secret123","role":"ADMIN"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeJSON(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, string(models.RoleWriter), user["role"])
	assert.NotContains(t, user, "PasswordHash")

	cookies := rec.Result().Cookies()
	access := cookieByName(cookies, session.AccessCookie)
	refresh := cookieByName(cookies, session.RefreshCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.NotEmpty(t, access.Value)
	assert.NotEmpty(t, refresh.Value)
	assert.True(t, access.HttpOnly)
	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, "/", access.Path)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "taken@example.com", models.RoleWriter)

	rec := env.do(t, http.MethodPost, "/api/auth/register",
		`{"name":"X","email":"taken@example.com","password":"Secret123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_ThenMe_ReturnsSameUser(t *testing.T) {
	env := newTestEnv(t)
	seeded := env.seedUser(t, "w@example.com", models.RoleWriter)

	cookies := env.login(t, "w@example.com")

	rec := env.do(t, http.MethodGet, "/api/auth/me", "", sessionOnly(cookies)...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeJSON(t, rec)
	user := body["user"].(map[string]any)
	assert.EqualValues(t, seeded.ID, user["id"])
	assert.Equal(t, "w@example.com", user["email"])
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "w@example.com", models.RoleWriter)

	rec := env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"w@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_WithoutSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_RotatesSession(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "w@example.com", models.RoleWriter)

	cookies := env.login(t, "w@example.com")
	oldRefresh := cookieByName(cookies, session.RefreshCookie)
	require.NotNil(t, oldRefresh)

	rec := env.do(t, http.MethodPost, "/api/auth/refresh", "", sessionOnly(cookies)...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	fresh := rec.Result().Cookies()
	newRefresh := cookieByName(fresh, session.RefreshCookie)
	require.NotNil(t, newRefresh)
	assert.NotEqual(t, oldRefresh.Value, newRefresh.Value)

	// the rotated-out token cannot be replayed
	rec = env.do(t, http.MethodPost, "/api/auth/refresh", "", oldRefresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// but the fresh one works
	rec = env.do(t, http.MethodPost, "/api/auth/refresh", "", sessionOnly(fresh)...)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRefresh_InvalidTokenClearsCookies(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/refresh", "", &http.Cookie{
		Name:  session.RefreshCookie,
		Value: "garbage",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	cleared := rec.Result().Cookies()
	access := cookieByName(cleared, session.AccessCookie)
	refresh := cookieByName(cleared, session.RefreshCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.Empty(t, access.Value)
	assert.Empty(t, refresh.Value)
	assert.True(t, refresh.Expires.Before(time.Now()))
}

func TestRefresh_ExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "w@example.com", models.RoleWriter)

	expired := *env.signer
	expired.RefreshTTL = -time.Minute
	tok, _, _, err := expired.SignRefresh(user)
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/auth/refresh", "", &http.Cookie{
		Name:  session.RefreshCookie,
		Value: tok,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_MissingCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_RevokesAndRedirects(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "w@example.com", models.RoleWriter)

	cookies := env.login(t, "w@example.com")

	rec := env.do(t, http.MethodPost, "/api/auth/logout", "", sessionOnly(cookies)...)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cleared := rec.Result().Cookies()
	assert.Empty(t, cookieByName(cleared, session.AccessCookie).Value)
	assert.Empty(t, cookieByName(cleared, session.RefreshCookie).Value)

	// the revoked refresh token is dead
	rec = env.do(t, http.MethodPost, "/api/auth/refresh", "", sessionOnly(cookies)...)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_TamperedToken(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "w@example.com", models.RoleWriter)

	cookies := env.login(t, "w@example.com")
	access := cookieByName(cookies, session.AccessCookie)
	require.NotNil(t, access)

	tampered := &http.Cookie{Name: session.AccessCookie, Value: access.Value + "x"}
	rec := env.do(t, http.MethodGet, "/api/auth/me", "", tampered)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_PersistenceFailureKeepsSession(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "w@example.com", models.RoleWriter)
	cookies := env.login(t, "w@example.com")

	require.NoError(t, env.repo.DB.Exec("DROP TABLE users").Error)

	rec := env.do(t, http.MethodGet, "/api/auth/me", "", sessionOnly(cookies)...)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// a backend failure is not a logout: cookies stay untouched
	assert.Nil(t, cookieByName(rec.Result().Cookies(), session.AccessCookie))
	assert.Nil(t, cookieByName(rec.Result().Cookies(), session.RefreshCookie))
}

func TestRequireAuth_DeletedUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "w@example.com", models.RoleWriter)

	cookies := env.login(t, "w@example.com")
	require.NoError(t, env.repo.DeleteUser(context.Background(), user.ID))

	rec := env.do(t, http.MethodGet, "/api/auth/me", "", sessionOnly(cookies)...)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
