package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mirskikh/inkwell/internal/authz"
	"github.com/mirskikh/inkwell/internal/events"
	"github.com/mirskikh/inkwell/internal/logging"
	"github.com/mirskikh/inkwell/internal/models"
	"github.com/mirskikh/inkwell/internal/repo"
	"github.com/mirskikh/inkwell/internal/search"
)

type PostService struct {
	Repo     *repo.GormRepo
	Index    *search.PostIndex
	Producer Publisher
}

type PostInput struct {
	Title      string            `json:"title"`
	Slug       string            `json:"slug"`
	Excerpt    string            `json:"excerpt"`
	Content    string            `json:"content"`
	CoverURL   string            `json:"cover_url"`
	Status     models.PostStatus `json:"status"`
	CategoryID uint              `json:"category_id"`
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Create applies the status-transition gate before anything is persisted:
// a WRITER sending status=PUBLISHED gets ErrForbidden whatever else the
// payload contains.
func (s *PostService) Create(ctx context.Context, actor *models.User, in PostInput) (*models.Post, error) {
	l := logging.FromContext(ctx).With("svc", "post.create", "user_id", actor.ID)

	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrValidation
	}
	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !status.Valid() {
		return nil, ErrValidation
	}
	if !authz.CanTransitionStatus(actor.Role, models.StatusDraft, status) {
		l.Warn("post_create_denied", "status", 403, "reason", "role cannot set status", "target", status)
		return nil, ErrForbidden
	}

	slug := in.Slug
	if slug == "" {
		slug = Slugify(in.Title)
	}

	post := models.Post{
		Title:      in.Title,
		Slug:       slug,
		Excerpt:    in.Excerpt,
		Content:    in.Content,
		CoverURL:   in.CoverURL,
		Status:     status,
		AuthorID:   actor.ID,
		CategoryID: in.CategoryID,
	}
	if status == models.StatusPublished {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	if err := s.Repo.CreatePost(ctx, &post); err != nil {
		l.Error("post_create_failed", "status", 500, "error", err)
		return nil, err
	}

	if post.Status == models.StatusPublished {
		s.afterPublish(ctx, &post)
	}

	l.Info("post_created", "post_id", post.ID, "post_status", post.Status)
	return &post, nil
}

// Update enforces both gates in order: ownership for writers, then the
// status-transition rule.
func (s *PostService) Update(ctx context.Context, actor *models.User, id uint, in PostInput) (*models.Post, error) {
	l := logging.FromContext(ctx).With("svc", "post.update", "user_id", actor.ID, "post_id", id)

	post, err := s.Repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessPost(actor, post) {
		l.Warn("post_update_denied", "status", 403, "reason", "not the author")
		return nil, ErrForbidden
	}

	wasPublished := post.Status == models.StatusPublished

	if in.Status != "" {
		// the gate runs even when the status is unchanged: a writer sending
		// PUBLISHED on an already published post is still denied
		if !authz.CanTransitionStatus(actor.Role, post.Status, in.Status) {
			l.Warn("post_update_denied", "status", 403, "reason", "role cannot set status", "target", in.Status)
			return nil, ErrForbidden
		}
		post.Status = in.Status
		if in.Status == models.StatusPublished && post.PublishedAt == nil {
			now := time.Now().UTC()
			post.PublishedAt = &now
		}
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Slug != "" {
		post.Slug = in.Slug
	}
	if in.Excerpt != "" {
		post.Excerpt = in.Excerpt
	}
	if in.Content != "" {
		post.Content = in.Content
	}
	if in.CoverURL != "" {
		post.CoverURL = in.CoverURL
	}
	if in.CategoryID != 0 {
		post.CategoryID = in.CategoryID
	}

	if err := s.Repo.SavePost(ctx, post); err != nil {
		l.Error("post_update_failed", "status", 500, "error", err)
		return nil, err
	}

	nowPublished := post.Status == models.StatusPublished
	switch {
	case nowPublished && !wasPublished:
		s.afterPublish(ctx, post)
	case nowPublished:
		// content edit of a live post: re-index, no new publish event
		if err := s.Index.IndexPost(ctx, post); err != nil {
			l.Error("search_index_failed", "post_id", post.ID, "error", err)
		}
	case wasPublished:
		if err := s.Index.DeletePost(ctx, post.ID); err != nil {
			l.Error("search_deindex_failed", "error", err)
		}
	}

	l.Info("post_updated", "post_status", post.Status)
	return post, nil
}

func (s *PostService) Get(ctx context.Context, actor *models.User, id uint) (*models.Post, error) {
	post, err := s.Repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessPost(actor, post) {
		return nil, ErrForbidden
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, actor *models.User, id uint) error {
	l := logging.FromContext(ctx).With("svc", "post.delete", "user_id", actor.ID, "post_id", id)

	post, err := s.Repo.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanAccessPost(actor, post) {
		l.Warn("post_delete_denied", "status", 403, "reason", "not the author")
		return ErrForbidden
	}

	if err := s.Repo.DeletePost(ctx, id); err != nil {
		return err
	}
	if post.Status == models.StatusPublished {
		if err := s.Index.DeletePost(ctx, id); err != nil {
			l.Error("search_deindex_failed", "error", err)
		}
	}
	l.Info("post_deleted")
	return nil
}

// List scopes writers to their own posts regardless of requested filter.
func (s *PostService) List(ctx context.Context, actor *models.User, f repo.PostFilter, offset, limit int) (int64, []models.Post, error) {
	if !authz.Can(actor.Role, authz.PermEditAllPosts) {
		f.AuthorID = actor.ID
	}
	return s.Repo.GetPosts(ctx, f, offset, limit)
}

func (s *PostService) ListPublished(ctx context.Context, categoryID uint, offset, limit int) (int64, []models.Post, error) {
	return s.Repo.GetPosts(ctx, repo.PostFilter{Status: models.StatusPublished, CategoryID: categoryID}, offset, limit)
}

func (s *PostService) GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.Repo.GetPostBySlug(ctx, slug, models.StatusPublished)
}

// SearchPublished prefers the search backend and falls back to the database
// when none is configured.
func (s *PostService) SearchPublished(ctx context.Context, q string, offset, limit int) (int64, []models.Post, error) {
	total, ids, err := s.Index.Search(ctx, q, offset, limit)
	if err != nil {
		if errors.Is(err, search.ErrUnavailable) {
			return s.Repo.SearchPosts(ctx, q, offset, limit)
		}
		return 0, nil, err
	}

	items, err := s.Repo.GetPostsByIDs(ctx, ids)
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (s *PostService) afterPublish(ctx context.Context, post *models.Post) {
	l := logging.FromContext(ctx)
	if err := s.Index.IndexPost(ctx, post); err != nil {
		l.Error("search_index_failed", "post_id", post.ID, "error", err)
	}
	if err := s.Producer.Publish(ctx, fmt.Sprint(post.ID), map[string]any{
		"type":      events.TypePostPublished,
		"post_id":   post.ID,
		"slug":      post.Slug,
		"author_id": post.AuthorID,
	}); err != nil {
		l.Error("event_publish_failed", "type", events.TypePostPublished, "error", err)
	}
}
