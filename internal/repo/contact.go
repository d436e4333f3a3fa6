package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mirskikh/inkwell/internal/models"
)

func (r *GormRepo) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	return r.DB.WithContext(ctx).Create(msg).Error
}

func (r *GormRepo) GetContactMessages(ctx context.Context, offset, limit int) (int64, []models.ContactMessage, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.ContactMessage{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.ContactMessage
	if err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) MarkContactMessageRead(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&models.ContactMessage{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteContactMessage(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.ContactMessage{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
