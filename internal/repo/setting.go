package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mirskikh/inkwell/internal/models"
)

func (r *GormRepo) GetSettings(ctx context.Context) ([]models.Setting, error) {
	var items []models.Setting
	if err := r.DB.WithContext(ctx).Order("key ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertSettings writes all key/value pairs in one transaction.
func (r *GormRepo) UpsertSettings(ctx context.Context, values map[string]string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			row := models.Setting{Key: key, Value: value}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value"}),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
