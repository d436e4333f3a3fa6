package db

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mirskikh/inkwell/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func countAdmins(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&n).Error)
	return n
}

func TestEnsureAdmin_CreatesOnce(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, EnsureAdmin(ctx, db, "Boss", "admin@example.com", "Secret123"))
	assert.EqualValues(t, 1, countAdmins(t, db))

	// re-running with different credentials must not mint a second admin
	require.NoError(t, EnsureAdmin(ctx, db, "Other", "other@example.com", "Secret456"))
	assert.EqualValues(t, 1, countAdmins(t, db))

	var admin models.User
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).First(&admin).Error)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.NotEqual(t, "Secret123", admin.PasswordHash)
}

func TestEnsureAdmin_MissingCredentials(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := EnsureAdmin(ctx, db, "Boss", "", "")
	assert.Error(t, err)
	assert.EqualValues(t, 0, countAdmins(t, db))
}

func TestEnsureAdmin_ExistingAdminSkipsCredentialCheck(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, EnsureAdmin(ctx, db, "Boss", "admin@example.com", "Secret123"))

	// with an admin in place, empty env vars are fine
	require.NoError(t, EnsureAdmin(ctx, db, "", "", ""))
	assert.EqualValues(t, 1, countAdmins(t, db))
}
