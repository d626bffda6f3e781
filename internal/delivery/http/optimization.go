package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stock-analyse/internal/dto"
)

func (h *HttpAPIHandler) SetupOptimization(base *echo.Group) {
	group := base.Group("/optimizations")
	group.POST("", h.runOptimization)
	group.POST("/batch", h.runBatchOptimization)
	group.POST("/apply", h.applyOptimization)
	group.GET("", h.listOptimizations)
	group.GET("/:id", h.getOptimization)
}

func (h *HttpAPIHandler) runOptimization(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.OptimizationRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return writeError(c, err)
	}

	resp, err := h.service.OptimizationService.Optimize(ctx, *req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *HttpAPIHandler) runBatchOptimization(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.BatchOptimizationRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return writeError(c, err)
	}

	resp, err := h.service.OptimizationService.BatchOptimize(ctx, *req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *HttpAPIHandler) applyOptimization(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.ApplyOptimizationRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return writeError(c, err)
	}

	strategy, err := h.service.OptimizationService.ApplyOptimalParameters(ctx, *req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, strategy)
}

func (h *HttpAPIHandler) listOptimizations(c echo.Context) error {
	ctx := c.Request().Context()

	param := dto.GetOptimizationsParam{}
	if raw := c.QueryParam("strategy_id"); raw != "" {
		id, err := parseUintQuery(raw)
		if err != nil {
			return writeError(c, err)
		}
		param.StrategyID = &id
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := parseIntQuery(raw)
		if err != nil {
			return writeError(c, err)
		}
		param.Limit = limit
	}

	results, err := h.service.OptimizationService.History(ctx, param)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, results)
}

func (h *HttpAPIHandler) getOptimization(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	result, err := h.service.OptimizationService.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
