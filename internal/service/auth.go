package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mirskikh/inkwell/internal/events"
	"github.com/mirskikh/inkwell/internal/hash"
	"github.com/mirskikh/inkwell/internal/logging"
	"github.com/mirskikh/inkwell/internal/models"
	"github.com/mirskikh/inkwell/internal/repo"
	"github.com/mirskikh/inkwell/internal/tokens"
)

type AuthService struct {
	Repo     *repo.GormRepo
	Signer   *tokens.Signer
	Producer Publisher
}

type SessionTokens struct {
	AccessToken  string
	AccessExp    time.Time
	RefreshToken string
	RefreshExp   time.Time
}

type LoginResult struct {
	User   *models.User
	Tokens SessionTokens
}

func (s *AuthService) issueSession(ctx context.Context, user *models.User) (SessionTokens, error) {
	accessToken, accessExp, err := s.Signer.SignAccess(user)
	if err != nil {
		return SessionTokens{}, err
	}

	refreshToken, jti, refreshExp, err := s.Signer.SignRefresh(user)
	if err != nil {
		return SessionTokens{}, err
	}

	if err := s.Repo.IssueRefresh(ctx, tokens.Sha256Hex(refreshToken), jti, user.ID, refreshExp); err != nil {
		return SessionTokens{}, err
	}

	return SessionTokens{
		AccessToken:  accessToken,
		AccessExp:    accessExp,
		RefreshToken: refreshToken,
		RefreshExp:   refreshExp,
	}, nil
}

// Register creates a WRITER account. The role is forced server-side, whatever
// the request claimed.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || !strings.Contains(email, "@") || len(password) < 6 {
		return nil, ErrValidation
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleWriter,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			l.Warn("register_failed", "status", 400, "reason", "email taken")
			return nil, ErrConflict
		}
		l.Error("register_failed", "status", 500, "error", err)
		return nil, err
	}

	toks, err := s.issueSession(ctx, &user)
	if err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return nil, err
	}

	if err := s.Producer.Publish(ctx, fmt.Sprint(user.ID), map[string]any{
		"type":    events.TypeUserRegistered,
		"user_id": user.ID,
		"email":   user.Email,
	}); err != nil {
		l.Error("event_publish_failed", "type", events.TypeUserRegistered, "error", err)
	}

	l.Info("register_successful", "user_id", user.ID)
	return &LoginResult{User: &user, Tokens: toks}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	toks, err := s.issueSession(ctx, user)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if err := s.Producer.Publish(ctx, fmt.Sprint(user.ID), map[string]any{
		"type":    events.TypeUserLoggedIn,
		"user_id": user.ID,
	}); err != nil {
		l.Error("event_publish_failed", "type", events.TypeUserLoggedIn, "error", err)
	}

	l.Info("login_successful", "user_id", user.ID)
	return &LoginResult{User: user, Tokens: toks}, nil
}

// Refresh rotates the ledger entry and reissues both tokens. Every failure
// collapses to ErrInvalidRefreshToken so the handler clears cookies and
// returns 401, never 500, for token-shaped problems.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Signer.VerifyRefresh(refreshToken)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "bad signature or expired")
		return nil, ErrInvalidRefreshToken
	}

	oldHash := tokens.Sha256Hex(refreshToken)
	row, err := s.Repo.ValidateRefresh(ctx, oldHash)
	if err != nil {
		if errors.Is(err, repo.ErrRefreshNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "not in ledger")
			return nil, ErrInvalidRefreshToken
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}
	if time.Now().Unix() > row.ExpiresAt {
		// expired rows are dead weight, drop eagerly
		_ = s.Repo.RevokeRefresh(ctx, oldHash)
		l.Warn("refresh_failed", "status", 401, "reason", "ledger entry expired")
		return nil, ErrInvalidRefreshToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = s.Repo.RevokeRefresh(ctx, oldHash)
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	accessToken, accessExp, err := s.Signer.SignAccess(user)
	if err != nil {
		return nil, err
	}
	newRefresh, jti, refreshExp, err := s.Signer.SignRefresh(user)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.RotateRefresh(ctx, oldHash, tokens.Sha256Hex(newRefresh), jti, user.ID, refreshExp); err != nil {
		if errors.Is(err, repo.ErrRefreshNotFound) {
			// lost the race to a concurrent rotation, fail closed
			l.Warn("refresh_failed", "status", 401, "reason", "token already rotated")
			return nil, ErrInvalidRefreshToken
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	l.Info("refresh_successful", "user_id", user.ID)
	return &LoginResult{
		User: user,
		Tokens: SessionTokens{
			AccessToken:  accessToken,
			AccessExp:    accessExp,
			RefreshToken: newRefresh,
			RefreshExp:   refreshExp,
		},
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.Repo.RevokeRefresh(ctx, tokens.Sha256Hex(refreshToken))
}
