package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mirskikh/inkwell/internal/logging"
	authmw "github.com/mirskikh/inkwell/internal/middleware/auth"
	"github.com/mirskikh/inkwell/internal/models"
	"github.com/mirskikh/inkwell/internal/repo"
	"github.com/mirskikh/inkwell/internal/service"
	"github.com/mirskikh/inkwell/internal/util"
)

type PostHTTP struct {
	Svc *service.PostService
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is not a number")
	}
	return uint(id), nil
}

func (h *PostHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.list")

	user := authmw.CurrentUser(c)
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var f repo.PostFilter
	if v := c.QueryParam("status"); v != "" {
		f.Status = models.PostStatus(v)
	}
	if v := util.ParseIntDefault(c.QueryParam("category"), 0); v > 0 {
		f.CategoryID = uint(v)
	}

	total, items, err := h.Svc.List(ctx, user, f, offset, limit)
	if err != nil {
		l.Error("post_list_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list posts")
	}

	return c.JSON(http.StatusOK, paginated(items, page, limit, offset, total))
}

func (h *PostHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.create")

	var req service.PostInput
	if err := c.Bind(&req); err != nil {
		l.Warn("post_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	post, err := h.Svc.Create(ctx, authmw.CurrentUser(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		case errors.Is(err, service.ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "not allowed to set this status")
		}
		l.Error("post_create_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create post")
	}

	return c.JSON(http.StatusOK, post)
}

func (h *PostHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}

	post, err := h.Svc.Get(ctx, authmw.CurrentUser(c), id)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		case errors.Is(err, service.ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "not your post")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get post")
	}
	return c.JSON(http.StatusOK, post)
}

func (h *PostHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.update")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req service.PostInput
	if err := c.Bind(&req); err != nil {
		l.Warn("post_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	post, err := h.Svc.Update(ctx, authmw.CurrentUser(c), id, req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		case errors.Is(err, service.ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "not allowed")
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		l.Error("post_update_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update post")
	}
	return c.JSON(http.StatusOK, post)
}

func (h *PostHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.delete")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, authmw.CurrentUser(c), id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		case errors.Is(err, service.ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "not allowed")
		}
		l.Error("post_delete_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete post")
	}
	return c.NoContent(http.StatusNoContent)
}
