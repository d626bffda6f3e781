package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stock-analyse/internal/dto"
)

func (h *HttpAPIHandler) SetupAlerts(base *echo.Group) {
	group := base.Group("/alerts")
	group.POST("", h.createAlert)
	group.GET("", h.listAlerts)
	group.PUT("/:id", h.updateAlert)
	group.DELETE("/:id", h.deleteAlert)
}

func (h *HttpAPIHandler) createAlert(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.CreatePriceAlertRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return writeError(c, err)
	}

	alert, err := h.service.AlertService.Create(ctx, *req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, alert)
}

func (h *HttpAPIHandler) listAlerts(c echo.Context) error {
	ctx := c.Request().Context()

	param := dto.GetPriceAlertsParam{Symbol: c.QueryParam("symbol")}
	if raw := c.QueryParam("is_active"); raw != "" {
		active := raw == "true"
		param.IsActive = &active
	}

	alerts, err := h.service.AlertService.Get(ctx, param)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, alerts)
}

func (h *HttpAPIHandler) updateAlert(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	req := new(dto.UpdatePriceAlertRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return writeError(c, err)
	}

	alert, err := h.service.AlertService.Update(ctx, id, *req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, alert)
}

func (h *HttpAPIHandler) deleteAlert(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.service.AlertService.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "price alert deleted"})
}
