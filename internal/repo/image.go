package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mirskikh/inkwell/internal/models"
)

func (r *GormRepo) CreateImage(ctx context.Context, img *models.Image) error {
	return r.DB.WithContext(ctx).Create(img).Error
}

func (r *GormRepo) GetImage(ctx context.Context, id uint) (*models.Image, error) {
	var img models.Image
	if err := r.DB.WithContext(ctx).First(&img, id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *GormRepo) GetImages(ctx context.Context, offset, limit int) (int64, []models.Image, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Image{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Image
	if err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) DeleteImage(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Image{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
