package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mirskikh/inkwell/internal/logging"
	"github.com/mirskikh/inkwell/internal/service"
	"github.com/mirskikh/inkwell/internal/util"
)

// PublicHTTP serves the reader-facing blog API: published posts only, no
// session required.
type PublicHTTP struct {
	Posts      *service.PostService
	Categories *service.CategoryService
	Settings   *service.SettingService
}

func (h *PublicHTTP) ListPosts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "public.posts")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)
	categoryID := uint(util.ParseIntDefault(c.QueryParam("category"), 0))

	total, items, err := h.Posts.ListPublished(ctx, categoryID, offset, limit)
	if err != nil {
		l.Error("public_posts_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list posts")
	}
	return c.JSON(http.StatusOK, paginated(items, page, limit, offset, total))
}

func (h *PublicHTTP) GetPost(c echo.Context) error {
	ctx := c.Request().Context()

	post, err := h.Posts.GetPublishedBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		logging.FromContext(ctx).Error("public_post_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get post")
	}
	return c.JSON(http.StatusOK, post)
}

func (h *PublicHTTP) SearchPosts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "public.search")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Posts.SearchPublished(ctx, q, offset, limit)
	if err != nil {
		l.Error("public_search_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	return c.JSON(http.StatusOK, paginated(items, page, limit, offset, total))
}

func (h *PublicHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.Categories.List(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("public_categories_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list categories")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *PublicHTTP) GetSettings(c echo.Context) error {
	ctx := c.Request().Context()

	values, err := h.Settings.GetAll(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("public_settings_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load settings")
	}
	return c.JSON(http.StatusOK, values)
}
