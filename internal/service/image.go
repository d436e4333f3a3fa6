package service

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mirskikh/inkwell/internal/authz"
	"github.com/mirskikh/inkwell/internal/logging"
	"github.com/mirskikh/inkwell/internal/models"
	"github.com/mirskikh/inkwell/internal/repo"
)

const maxImageSize = 10 << 20 // 10 MiB

var allowedImageTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

type ImageService struct {
	Repo      *repo.GormRepo
	UploadDir string
}

// Upload stores the file under a uuid name and persists a metadata row. The
// original filename is kept only as display metadata.
func (s *ImageService) Upload(ctx context.Context, actor *models.User, fh *multipart.FileHeader) (*models.Image, error) {
	l := logging.FromContext(ctx).With("svc", "image.upload", "user_id", actor.ID)

	if fh.Size <= 0 || fh.Size > maxImageSize {
		return nil, ErrValidation
	}
	contentType := fh.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		l.Warn("image_upload_rejected", "status", 400, "reason", "unsupported type", "content_type", contentType)
		return nil, ErrValidation
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if err := os.MkdirAll(s.UploadDir, 0o755); err != nil {
		return nil, err
	}

	stored := uuid.NewString() + ext
	dstPath := filepath.Join(s.UploadDir, stored)
	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return nil, err
	}

	img := models.Image{
		FileName:    filepath.Base(fh.Filename),
		URL:         "/uploads/" + stored,
		UploaderID:  actor.ID,
		Size:        fh.Size,
		ContentType: contentType,
	}
	if err := s.Repo.CreateImage(ctx, &img); err != nil {
		os.Remove(dstPath)
		return nil, err
	}

	l.Info("image_uploaded", "image_id", img.ID, "size", img.Size)
	return &img, nil
}

func (s *ImageService) List(ctx context.Context, offset, limit int) (int64, []models.Image, error) {
	return s.Repo.GetImages(ctx, offset, limit)
}

// Delete lets editors and admins remove any image, writers only their own.
func (s *ImageService) Delete(ctx context.Context, actor *models.User, id uint) error {
	l := logging.FromContext(ctx).With("svc", "image.delete", "user_id", actor.ID, "image_id", id)

	img, err := s.Repo.GetImage(ctx, id)
	if err != nil {
		return err
	}
	if !authz.Can(actor.Role, authz.PermEditAllPosts) && img.UploaderID != actor.ID {
		l.Warn("image_delete_denied", "status", 403, "reason", "not the uploader")
		return ErrForbidden
	}

	if err := s.Repo.DeleteImage(ctx, id); err != nil {
		return err
	}

	stored := strings.TrimPrefix(img.URL, "/uploads/")
	if err := os.Remove(filepath.Join(s.UploadDir, stored)); err != nil && !os.IsNotExist(err) {
		l.Error("image_file_remove_failed", "error", err)
	}
	l.Info("image_deleted")
	return nil
}
