package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mirskikh/inkwell/internal/hash"
	"github.com/mirskikh/inkwell/internal/models"
)

// EnsureAdmin creates the bootstrap ADMIN account once. Any existing ADMIN
// row, whatever its email, makes this a no-op, so re-running the binary never
// produces a second admin.
func EnsureAdmin(ctx context.Context, db *gorm.DB, name, email, password string) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	if email == "" || password == "" {
		return fmt.Errorf("no admin exists and ADMIN_EMAIL/ADMIN_PASSWORD are not set")
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}
