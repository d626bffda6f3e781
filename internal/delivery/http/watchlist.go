package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stock-analyse/internal/dto"
)

func (h *HttpAPIHandler) SetupWatchlist(base *echo.Group) {
	categories := base.Group("/categories")
	categories.POST("", h.createCategory)
	categories.GET("", h.listCategories)
	categories.DELETE("/:id", h.deleteCategory)

	watchlist := base.Group("/watchlist")
	watchlist.POST("", h.addWatchlistStock)
	watchlist.GET("", h.listWatchlistStocks)
	watchlist.GET("/quotes", h.listWatchlistQuotes)
	watchlist.PUT("/:id", h.updateWatchlistStock)
	watchlist.DELETE("/:id", h.removeWatchlistStock)
}

func (h *HttpAPIHandler) createCategory(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.CreateCategoryRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return writeError(c, err)
	}

	category, err := h.service.WatchlistService.CreateCategory(ctx, *req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *HttpAPIHandler) listCategories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.service.WatchlistService.GetCategories(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *HttpAPIHandler) deleteCategory(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.service.WatchlistService.DeleteCategory(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "category deleted"})
}

func (h *HttpAPIHandler) addWatchlistStock(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.AddWatchlistStockRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return writeError(c, err)
	}

	stock, err := h.service.WatchlistService.AddStock(ctx, *req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, stock)
}

func categoryFilter(c echo.Context) (*uint, error) {
	raw := c.QueryParam("category_id")
	if raw == "" {
		return nil, nil
	}
	id, err := parseUintQuery(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (h *HttpAPIHandler) listWatchlistStocks(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, err := categoryFilter(c)
	if err != nil {
		return writeError(c, err)
	}

	stocks, err := h.service.WatchlistService.GetStocks(ctx, categoryID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, stocks)
}

func (h *HttpAPIHandler) listWatchlistQuotes(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, err := categoryFilter(c)
	if err != nil {
		return writeError(c, err)
	}

	quotes, err := h.service.WatchlistService.GetQuotes(ctx, categoryID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, quotes)
}

func (h *HttpAPIHandler) updateWatchlistStock(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	req := new(dto.UpdateWatchlistStockRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return writeError(c, err)
	}

	stock, err := h.service.WatchlistService.UpdateStock(ctx, id, *req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, stock)
}

func (h *HttpAPIHandler) removeWatchlistStock(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.service.WatchlistService.RemoveStock(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "watchlist stock removed"})
}
