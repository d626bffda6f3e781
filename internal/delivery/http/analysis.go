package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stock-analyse/internal/dto"
)

func (h *HttpAPIHandler) SetupAnalysis(base *echo.Group) {
	group := base.Group("/analysis")
	group.POST("", h.analyzeStock)

	prompts := base.Group("/prompts")
	prompts.POST("", h.createPrompt)
	prompts.GET("", h.listPrompts)
	prompts.DELETE("/:id", h.deletePrompt)
}

func (h *HttpAPIHandler) analyzeStock(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.AnalyzeStockRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return writeError(c, err)
	}

	result, err := h.service.AnalysisService.AnalyzeStock(ctx, *req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) createPrompt(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.CreateAIPromptRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return writeError(c, err)
	}

	prompt, err := h.service.AnalysisService.CreatePrompt(ctx, *req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, prompt)
}

func (h *HttpAPIHandler) listPrompts(c echo.Context) error {
	ctx := c.Request().Context()

	prompts, err := h.service.AnalysisService.GetPrompts(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, prompts)
}

func (h *HttpAPIHandler) deletePrompt(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.service.AnalysisService.DeletePrompt(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "prompt deleted"})
}
