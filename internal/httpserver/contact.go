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

type ContactHTTP struct {
	Svc *service.ContactService
}

func (h *ContactHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.submit")

	var req service.ContactInput
	if err := c.Bind(&req); err != nil {
		l.Warn("contact_submit_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	msg, err := h.Svc.Submit(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "name, email and body are required")
		}
		l.Error("contact_submit_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save message")
	}
	return c.JSON(http.StatusOK, msg)
}

func (h *ContactHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.List(ctx, offset, limit)
	if err != nil {
		l.Error("contact_list_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list messages")
	}
	return c.JSON(http.StatusOK, paginated(items, page, limit, offset, total))
}

func (h *ContactHTTP) MarkRead(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.MarkRead(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "message not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update message")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ContactHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "message not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete message")
	}
	return c.NoContent(http.StatusNoContent)
}
