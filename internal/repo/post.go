package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mirskikh/inkwell/internal/models"
)

type PostFilter struct {
	AuthorID   uint
	CategoryID uint
	Status     models.PostStatus
}

func (f PostFilter) apply(tx *gorm.DB) *gorm.DB {
	if f.AuthorID != 0 {
		tx = tx.Where("author_id = ?", f.AuthorID)
	}
	if f.CategoryID != 0 {
		tx = tx.Where("category_id = ?", f.CategoryID)
	}
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	return tx
}

func (r *GormRepo) CreatePost(ctx context.Context, p *models.Post) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.DB.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormRepo) GetPostBySlug(ctx context.Context, slug string, status models.PostStatus) (*models.Post, error) {
	var post models.Post
	tx := r.DB.WithContext(ctx).Where("slug = ?", slug)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	if err := tx.First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormRepo) GetPosts(ctx context.Context, f PostFilter, offset, limit int) (int64, []models.Post, error) {
	var total int64
	if err := f.apply(r.DB.WithContext(ctx).Model(&models.Post{})).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Post
	if err := f.apply(r.DB.WithContext(ctx).Model(&models.Post{})).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetPostsByIDs(ctx context.Context, ids []uint) ([]models.Post, error) {
	if len(ids) == 0 {
		return []models.Post{}, nil
	}
	var items []models.Post
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SearchPosts is the LIKE fallback used when no search backend is configured.
func (r *GormRepo) SearchPosts(ctx context.Context, q string, offset, limit int) (int64, []models.Post, error) {
	pattern := "%" + q + "%"
	base := func() *gorm.DB {
		return r.DB.WithContext(ctx).Model(&models.Post{}).
			Where("status = ?", models.StatusPublished).
			Where("title LIKE ? OR excerpt LIKE ? OR content LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Post
	if err := base().
		Order("published_at DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) SavePost(ctx context.Context, p *models.Post) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *GormRepo) DeletePost(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
