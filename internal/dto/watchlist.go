package dto

type CreateCategoryRequest struct {
	Name      string `json:"name" validate:"required,max=64"`
	SortOrder int    `json:"sort_order"`
}

type AddWatchlistStockRequest struct {
	Symbol     string `json:"symbol" validate:"required,max=16"`
	Name       string `json:"name" validate:"max=128"`
	CategoryID *uint  `json:"category_id"`
	Notes      string `json:"notes"`
}

type UpdateWatchlistStockRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=128"`
	CategoryID *uint   `json:"category_id"`
	Notes      *string `json:"notes"`
}

// WatchlistQuote is one watchlist row joined with its latest price.
type WatchlistQuote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	LastPrice float64 `json:"last_price"`
	Notes     string  `json:"notes"`
}
