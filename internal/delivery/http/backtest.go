package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stock-analyse/internal/dto"
)

func (h *HttpAPIHandler) SetupBacktest(base *echo.Group) {
	group := base.Group("/backtests")
	group.POST("", h.runBacktest)
	group.POST("/batch", h.runBatchBacktest)
	group.GET("", h.listBacktestResults)
	group.GET("/:id", h.getBacktestResult)
	group.DELETE("/:id", h.deleteBacktestResult)
}

func (h *HttpAPIHandler) runBacktest(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.BacktestRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return writeError(c, err)
	}

	result, err := h.service.BacktestService.RunBacktest(ctx, *req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) runBatchBacktest(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.BacktestRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return writeError(c, err)
	}

	result, err := h.service.BacktestService.RunBatchBacktest(ctx, *req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) listBacktestResults(c echo.Context) error {
	ctx := c.Request().Context()

	param := dto.GetBacktestResultsParam{}
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

	results, err := h.service.BacktestService.GetResults(ctx, param)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, results)
}

func (h *HttpAPIHandler) getBacktestResult(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	result, err := h.service.BacktestService.GetResultByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) deleteBacktestResult(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.service.BacktestService.DeleteResult(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "backtest result deleted"})
}
