package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mirskikh/inkwell/internal/events"
	"github.com/mirskikh/inkwell/internal/hash"
	authmw "github.com/mirskikh/inkwell/internal/middleware/auth"
	"github.com/mirskikh/inkwell/internal/models"
	"github.com/mirskikh/inkwell/internal/repo"
	"github.com/mirskikh/inkwell/internal/search"
	"github.com/mirskikh/inkwell/internal/service"
	"github.com/mirskikh/inkwell/internal/session"
	"github.com/mirskikh/inkwell/internal/tokens"
)

const testPassword = "Secret123"

type testEnv struct {
	e      *echo.Echo
	repo   *repo.GormRepo
	signer *tokens.Signer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Post{},
		&models.Category{},
		&models.Image{},
		&models.Setting{},
		&models.ContactMessage{},
	))

	r := repo.New(db)
	signer := &tokens.Signer{
		AccessSecret:  []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	}
	producer := &events.Producer{}
	index := &search.PostIndex{}

	authSvc := &service.AuthService{Repo: r, Signer: signer, Producer: producer}
	postSvc := &service.PostService{Repo: r, Index: index, Producer: producer}
	userSvc := &service.UserService{Repo: r}
	catSvc := &service.CategoryService{Repo: r}
	imgSvc := &service.ImageService{Repo: r, UploadDir: t.TempDir()}
	setSvc := &service.SettingService{Repo: r}
	conSvc := &service.ContactService{Repo: r, Producer: producer}

	e := echo.New()
	Register(e, &Deps{
		Gate:    &authmw.Gate{Repo: r, Signer: signer},
		Auth:    &AuthHTTP{Svc: authSvc},
		Posts:   &PostHTTP{Svc: postSvc},
		Users:   &UserHTTP{Svc: userSvc},
		Cats:    &CategoryHTTP{Svc: catSvc},
		Images:  &ImageHTTP{Svc: imgSvc},
		Setting: &SettingHTTP{Svc: setSvc},
		Contact: &ContactHTTP{Svc: conSvc},
		Public:  &PublicHTTP{Posts: postSvc, Categories: catSvc, Settings: setSvc},
	})

	return &testEnv{e: e, repo: r, signer: signer}
}

func (env *testEnv) seedUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword(testPassword)
	require.NoError(t, err)

	u := &models.User{Name: "Test " + string(role), Email: email, PasswordHash: pwHash, Role: role}
	require.NoError(t, env.repo.CreateUser(context.Background(), u))
	return u
}

func (env *testEnv) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// login runs the real login flow and returns the session cookies it produced.
func (env *testEnv) login(t *testing.T, email string) []*http.Cookie {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"`+email+`","password":"`+testPassword+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func sessionOnly(cookies []*http.Cookie) []*http.Cookie {
	var out []*http.Cookie
	for _, c := range cookies {
		if (c.Name == session.AccessCookie || c.Name == session.RefreshCookie) && c.Value != "" {
			out = append(out, c)
		}
	}
	return out
}
