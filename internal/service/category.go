package service

import (
	"context"
	"strings"

	"github.com/mirskikh/inkwell/internal/models"
	"github.com/mirskikh/inkwell/internal/repo"
)

type CategoryService struct {
	Repo *repo.GormRepo
}

type CategoryInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.Repo.GetCategories(ctx)
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrValidation
	}
	slug := in.Slug
	if slug == "" {
		slug = Slugify(name)
	}

	cat := models.Category{Name: name, Slug: slug}
	if err := s.Repo.CreateCategory(ctx, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	cat, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		cat.Name = name
	}
	if in.Slug != "" {
		cat.Slug = in.Slug
	}

	if err := s.Repo.SaveCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.Repo.DeleteCategory(ctx, id)
}
