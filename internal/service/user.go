package service

import (
	"context"
	"errors"
	"strings"

	"github.com/mirskikh/inkwell/internal/hash"
	"github.com/mirskikh/inkwell/internal/logging"
	"github.com/mirskikh/inkwell/internal/models"
	"github.com/mirskikh/inkwell/internal/repo"
)

type UserService struct {
	Repo *repo.GormRepo
}

type CreateUserInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	Bio      string      `json:"bio"`
}

type UpdateUserInput struct {
	Name *string      `json:"name"`
	Role *models.Role `json:"role"`
	Bio  *string      `json:"bio"`
}

type UpdateProfileInput struct {
	Name     *string `json:"name"`
	Bio      *string `json:"bio"`
	ImageURL *string `json:"image_url"`
	Password *string `json:"password"`
}

func (s *UserService) List(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	return s.Repo.GetUsers(ctx, offset, limit)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.Repo.GetUserByID(ctx, id)
}

// Create is the management path: only WRITER and EDITOR accounts can be
// minted here, never a second ADMIN.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.create")

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Name == "" || in.Email == "" || !strings.Contains(in.Email, "@") || len(in.Password) < 6 {
		return nil, ErrValidation
	}
	if in.Role != models.RoleWriter && in.Role != models.RoleEditor {
		l.Warn("user_create_denied", "status", 403, "reason", "role not allowed", "role", in.Role)
		return nil, ErrForbidden
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: pwHash,
		Role:         in.Role,
		Bio:          in.Bio,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			return nil, ErrConflict
		}
		return nil, err
	}

	l.Info("user_created", "user_id", user.ID, "role", user.Role)
	return &user, nil
}

// Update refuses to touch ADMIN rows and to grant the ADMIN role: the
// bootstrap admin is immutable through the management API.
func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.update", "user_id", id)

	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleAdmin {
		l.Warn("user_update_denied", "status", 403, "reason", "admin immutable")
		return nil, ErrForbidden
	}

	if in.Role != nil {
		if *in.Role != models.RoleWriter && *in.Role != models.RoleEditor {
			l.Warn("user_update_denied", "status", 403, "reason", "role not allowed", "role", *in.Role)
			return nil, ErrForbidden
		}
		user.Role = *in.Role
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	l.Info("user_updated", "role", user.Role)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "user.delete", "user_id", id)

	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		l.Warn("user_delete_denied", "status", 403, "reason", "admin immutable")
		return ErrForbidden
	}

	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	l.Info("user_deleted")
	return nil
}

// UpdateProfile is self-service: any role may change own name, bio, avatar
// and password. Role is deliberately not reachable from here.
func (s *UserService) UpdateProfile(ctx context.Context, actor *models.User, in UpdateProfileInput) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.ImageURL != nil {
		user.ImageURL = *in.ImageURL
	}
	if in.Password != nil {
		if len(*in.Password) < 6 {
			return nil, ErrValidation
		}
		pwHash, err := hash.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = pwHash
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
