package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mirskikh/inkwell/internal/logging"
	"github.com/mirskikh/inkwell/internal/service"
)

type SettingHTTP struct {
	Svc *service.SettingService
}

func (h *SettingHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	values, err := h.Svc.GetAll(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("settings_get_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load settings")
	}
	return c.JSON(http.StatusOK, values)
}

func (h *SettingHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.update")

	var req map[string]string
	if err := c.Bind(&req); err != nil {
		l.Warn("settings_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Update(ctx, req); err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "empty settings payload")
		}
		l.Error("settings_update_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save settings")
	}

	values, err := h.Svc.GetAll(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load settings")
	}
	return c.JSON(http.StatusOK, values)
}
