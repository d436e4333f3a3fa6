package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirskikh/inkwell/internal/models"
)

func newTestSigner() *Signer {
	return &Signer{
		AccessSecret:  []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	}
}

func testUser() *models.User {
	return &models.User{ID: 42, Email: "writer@example.com", Role: models.RoleWriter}
}

func TestSigner_SignAccess_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	token, exp, err := s.SignAccess(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(s.AccessTTL), exp, 2*time.Second)

	claims, err := s.VerifyAccess(token)
	require.NoError(t, err)

	assert.Equal(t, "writer@example.com", claims.Email)
	assert.Equal(t, string(models.RoleWriter), claims.Role)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestSigner_SignRefresh_HasUniqueJTI(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	t1, jti1, _, err := s.SignRefresh(testUser())
	require.NoError(t, err)
	t2, jti2, _, err := s.SignRefresh(testUser())
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
	assert.NotEqual(t, jti1, jti2)

	claims, err := s.VerifyRefresh(t1)
	require.NoError(t, err)
	assert.Equal(t, jti1, claims.ID)
}

func TestSigner_Verify_RejectsCrossClassTokens(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	access, _, err := s.SignAccess(testUser())
	require.NoError(t, err)
	refresh, _, _, err := s.SignRefresh(testUser())
	require.NoError(t, err)

	_, err = s.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSigner_Verify_RejectsTamperedAndExpired(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	token, _, err := s.SignAccess(testUser())
	require.NoError(t, err)

	_, err = s.VerifyAccess(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.VerifyAccess("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := &Signer{
		AccessSecret:  s.AccessSecret,
		RefreshSecret: s.RefreshSecret,
		AccessTTL:     -time.Minute,
		RefreshTTL:    -time.Minute,
	}
	tok, _, err := expired.SignAccess(testUser())
	require.NoError(t, err)
	_, err = s.VerifyAccess(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSha256Hex_Deterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Sha256Hex("abc"), Sha256Hex("abc"))
	assert.NotEqual(t, Sha256Hex("abc"), Sha256Hex("abd"))
	assert.Len(t, Sha256Hex("abc"), 64)
}
