package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stock-analyse/internal/dto"
	"stock-analyse/internal/model"
)

func (h *HttpAPIHandler) SetupStrategies(base *echo.Group) {
	group := base.Group("/strategies")
	group.POST("", h.createStrategy)
	group.GET("", h.listStrategies)
	group.GET("/:id", h.getStrategy)
	group.PUT("/:id", h.updateStrategy)
	group.DELETE("/:id", h.deleteStrategy)
	group.POST("/:id/run", h.runStrategy)

	signals := base.Group("/signals")
	signals.GET("", h.listSignals)
	signals.POST("/execute", h.executeSignal)
}

func (h *HttpAPIHandler) createStrategy(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.CreateStrategyRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return writeError(c, err)
	}

	strategy, err := h.service.StrategyService.Create(ctx, *req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, strategy)
}

func (h *HttpAPIHandler) listStrategies(c echo.Context) error {
	ctx := c.Request().Context()

	param := dto.GetStrategiesParam{}
	if raw := c.QueryParam("is_active"); raw != "" {
		active := raw == "true"
		param.IsActive = &active
	}
	if raw := c.QueryParam("family"); raw != "" {
		family := model.StrategyFamily(raw)
		param.Family = &family
	}

	strategies, err := h.service.StrategyService.Get(ctx, param)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, strategies)
}

func (h *HttpAPIHandler) getStrategy(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	strategy, err := h.service.StrategyService.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, strategy)
}

func (h *HttpAPIHandler) updateStrategy(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	req := new(dto.UpdateStrategyRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return writeError(c, err)
	}

	strategy, err := h.service.StrategyService.Update(ctx, id, *req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, strategy)
}

func (h *HttpAPIHandler) deleteStrategy(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.service.StrategyService.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "strategy deleted"})
}

func (h *HttpAPIHandler) runStrategy(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	req := new(dto.RunStrategyRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return writeError(c, err)
	}

	resp, err := h.service.StrategyService.RunStrategy(ctx, id, *req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *HttpAPIHandler) listSignals(c echo.Context) error {
	ctx := c.Request().Context()

	param := dto.GetSignalsParam{Symbol: c.QueryParam("symbol")}
	if raw := c.QueryParam("strategy_id"); raw != "" {
		id, err := parseUintQuery(raw)
		if err != nil {
			return writeError(c, err)
		}
		param.StrategyID = &id
	}
	if raw := c.QueryParam("is_executed"); raw != "" {
		executed := raw == "true"
		param.IsExecuted = &executed
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := parseIntQuery(raw)
		if err != nil {
			return writeError(c, err)
		}
		param.Limit = limit
	}

	signals, err := h.service.StrategyService.GetSignals(ctx, param)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, signals)
}

func (h *HttpAPIHandler) executeSignal(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.ExecuteSignalRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return writeError(c, err)
	}

	trade, err := h.service.StrategyService.ExecuteSignal(ctx, *req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, trade)
}
