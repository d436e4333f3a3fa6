package service

import (
	"context"

	"github.com/mirskikh/inkwell/internal/repo"
)

type SettingService struct {
	Repo *repo.GormRepo
}

func (s *SettingService) GetAll(ctx context.Context) (map[string]string, error) {
	items, err := s.Repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(items))
	for _, it := range items {
		out[it.Key] = it.Value
	}
	return out, nil
}

func (s *SettingService) Update(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return ErrValidation
	}
	for k := range values {
		if k == "" {
			return ErrValidation
		}
	}
	return s.Repo.UpsertSettings(ctx, values)
}
