package repo

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mirskikh/inkwell/internal/models"
)

func initTestRepo(t *testing.T) *GormRepo {
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

	return New(db)
}

func TestRefreshLedger_IssueAndValidate(t *testing.T) {
	r := initTestRepo(t)
	ctx := context.Background()

	exp := time.Now().Add(time.Hour)
	require.NoError(t, r.IssueRefresh(ctx, "hash-1", "jti-1", 1, exp))

	row, err := r.ValidateRefresh(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), row.UserID)
	assert.Equal(t, "jti-1", row.JTI)
	assert.Equal(t, exp.Unix(), row.ExpiresAt)

	_, err = r.ValidateRefresh(ctx, "unknown")
	assert.ErrorIs(t, err, ErrRefreshNotFound)
}

func TestRefreshLedger_Rotate_OldTokenNeverValidTwice(t *testing.T) {
	r := initTestRepo(t)
	ctx := context.Background()

	exp := time.Now().Add(time.Hour)
	require.NoError(t, r.IssueRefresh(ctx, "old", "jti-old", 1, exp))

	require.NoError(t, r.RotateRefresh(ctx, "old", "new", "jti-new", 1, exp))

	_, err := r.ValidateRefresh(ctx, "old")
	assert.ErrorIs(t, err, ErrRefreshNotFound)

	row, err := r.ValidateRefresh(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "jti-new", row.JTI)
}

func TestRefreshLedger_Rotate_MissingOldFailsClosed(t *testing.T) {
	r := initTestRepo(t)
	ctx := context.Background()

	err := r.RotateRefresh(ctx, "never-issued", "new", "jti-new", 1, time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrRefreshNotFound)

	// the failed rotation must not leave the new token behind
	_, err = r.ValidateRefresh(ctx, "new")
	assert.ErrorIs(t, err, ErrRefreshNotFound)
}

func TestRefreshLedger_Rotate_SecondRotationOfSameTokenLoses(t *testing.T) {
	r := initTestRepo(t)
	ctx := context.Background()

	exp := time.Now().Add(time.Hour)
	require.NoError(t, r.IssueRefresh(ctx, "shared", "jti-0", 1, exp))

	require.NoError(t, r.RotateRefresh(ctx, "shared", "winner", "jti-1", 1, exp))
	err := r.RotateRefresh(ctx, "shared", "loser", "jti-2", 1, exp)
	assert.ErrorIs(t, err, ErrRefreshNotFound)

	_, err = r.ValidateRefresh(ctx, "winner")
	assert.NoError(t, err)
	_, err = r.ValidateRefresh(ctx, "loser")
	assert.ErrorIs(t, err, ErrRefreshNotFound)
}

func TestRefreshLedger_RevokeAndPurge(t *testing.T) {
	r := initTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.IssueRefresh(ctx, "live", "jti-live", 1, time.Now().Add(time.Hour)))
	require.NoError(t, r.IssueRefresh(ctx, "stale", "jti-stale", 1, time.Now().Add(-time.Hour)))

	require.NoError(t, r.RevokeRefresh(ctx, "live"))
	_, err := r.ValidateRefresh(ctx, "live")
	assert.ErrorIs(t, err, ErrRefreshNotFound)

	// revoking an unknown token is a no-op, not an error
	require.NoError(t, r.RevokeRefresh(ctx, "live"))

	require.NoError(t, r.PurgeExpiredRefresh(ctx, time.Now()))
	_, err = r.ValidateRefresh(ctx, "stale")
	assert.ErrorIs(t, err, ErrRefreshNotFound)
}

func TestDeleteUser_DropsRefreshTokens(t *testing.T) {
	r := initTestRepo(t)
	ctx := context.Background()

	user := models.User{Name: "w", Email: "w@example.com", PasswordHash: "x", Role: models.RoleWriter}
	require.NoError(t, r.CreateUser(ctx, &user))
	require.NoError(t, r.IssueRefresh(ctx, "h", "j", user.ID, time.Now().Add(time.Hour)))

	require.NoError(t, r.DeleteUser(ctx, user.ID))

	_, err := r.ValidateRefresh(ctx, "h")
	assert.ErrorIs(t, err, ErrRefreshNotFound)
}
