package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mirskikh/inkwell/internal/logging"
	authmw "github.com/mirskikh/inkwell/internal/middleware/auth"
	"github.com/mirskikh/inkwell/internal/service"
	"github.com/mirskikh/inkwell/internal/util"
)

type ImageHTTP struct {
	Svc *service.ImageService
}

func (h *ImageHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "image.upload")

	fh, err := c.FormFile("file")
	if err != nil {
		l.Warn("image_upload_error", "status", 400, "reason", "no file", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "file field is required")
	}

	img, err := h.Svc.Upload(ctx, authmw.CurrentUser(c), fh)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "unsupported or oversized file")
		}
		l.Error("image_upload_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot store image")
	}
	return c.JSON(http.StatusOK, img)
}

func (h *ImageHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "image.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.List(ctx, offset, limit)
	if err != nil {
		l.Error("image_list_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list images")
	}
	return c.JSON(http.StatusOK, paginated(items, page, limit, offset, total))
}

func (h *ImageHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "image.delete")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, authmw.CurrentUser(c), id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "image not found")
		case errors.Is(err, service.ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "not your image")
		}
		l.Error("image_delete_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete image")
	}
	return c.NoContent(http.StatusNoContent)
}
