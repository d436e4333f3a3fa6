package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mirskikh/inkwell/internal/models"
)

var ErrRefreshNotFound = errors.New("refresh token not found")

// IssueRefresh inserts a ledger row. Token is the sha256 hex of the raw token.
func (r *GormRepo) IssueRefresh(ctx context.Context, tokenHash, jti string, userID uint, expiresAt time.Time) error {
	row := models.RefreshToken{
		Token:     tokenHash,
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt.Unix(),
	}
	return r.DB.WithContext(ctx).Create(&row).Error
}

// ValidateRefresh looks the hash up; callers still check expiry and signature.
func (r *GormRepo) ValidateRefresh(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var row models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("token = ?", tokenHash).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshNotFound
		}
		return nil, err
	}
	return &row, nil
}

// RotateRefresh atomically replaces the consumed ledger row with the new one.
// If the old row is gone (already rotated or forged) the transaction fails
// closed; of two concurrent rotations of the same token at most one wins.
func (r *GormRepo) RotateRefresh(ctx context.Context, oldHash, newHash, newJTI string, userID uint, newExpiresAt time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("token = ?", oldHash).Delete(&models.RefreshToken{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRefreshNotFound
		}

		row := models.RefreshToken{
			Token:     newHash,
			JTI:       newJTI,
			UserID:    userID,
			ExpiresAt: newExpiresAt.Unix(),
		}
		return tx.Create(&row).Error
	})
}

func (r *GormRepo) RevokeRefresh(ctx context.Context, tokenHash string) error {
	return r.DB.WithContext(ctx).Where("token = ?", tokenHash).Delete(&models.RefreshToken{}).Error
}

func (r *GormRepo) PurgeExpiredRefresh(ctx context.Context, now time.Time) error {
	return r.DB.WithContext(ctx).Where("expires_at < ?", now.Unix()).Delete(&models.RefreshToken{}).Error
}
