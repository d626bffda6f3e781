package service

import (
	"context"
	"strings"
	"time"

	"stock-analyse/internal/dto"
	"stock-analyse/internal/model"
	"stock-analyse/internal/repository"
	"stock-analyse/pkg/logger"
)

type WatchlistService interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*model.Category, error)
	GetCategories(ctx context.Context) ([]model.Category, error)
	DeleteCategory(ctx context.Context, id uint) error

	AddStock(ctx context.Context, req dto.AddWatchlistStockRequest) (*model.WatchlistStock, error)
	GetStocks(ctx context.Context, categoryID *uint) ([]model.WatchlistStock, error)
	GetQuotes(ctx context.Context, categoryID *uint) ([]dto.WatchlistQuote, error)
	UpdateStock(ctx context.Context, id uint, req dto.UpdateWatchlistStockRequest) (*model.WatchlistStock, error)
	RemoveStock(ctx context.Context, id uint) error
}

type watchlistService struct {
	log            *logger.Logger
	watchlistRepo  repository.WatchlistRepository
	marketDataRepo repository.MarketDataRepository
}

func NewWatchlistService(
	log *logger.Logger,
	watchlistRepo repository.WatchlistRepository,
	marketDataRepo repository.MarketDataRepository,
) WatchlistService {
	return &watchlistService{
		log:            log,
		watchlistRepo:  watchlistRepo,
		marketDataRepo: marketDataRepo,
	}
}

func (s *watchlistService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*model.Category, error) {
	category := &model.Category{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	}
	if err := s.watchlistRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *watchlistService) GetCategories(ctx context.Context) ([]model.Category, error) {
	return s.watchlistRepo.GetCategories(ctx)
}

func (s *watchlistService) DeleteCategory(ctx context.Context, id uint) error {
	return s.watchlistRepo.DeleteCategory(ctx, id)
}

func (s *watchlistService) AddStock(ctx context.Context, req dto.AddWatchlistStockRequest) (*model.WatchlistStock, error) {
	stock := &model.WatchlistStock{
		Symbol:     strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Notes:      req.Notes,
	}
	if err := s.watchlistRepo.AddStock(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

func (s *watchlistService) GetStocks(ctx context.Context, categoryID *uint) ([]model.WatchlistStock, error) {
	return s.watchlistRepo.GetStocks(ctx, categoryID)
}

// GetQuotes joins the watchlist with the latest known price per symbol.
// Symbols without price data still appear, with a zero price.
func (s *watchlistService) GetQuotes(ctx context.Context, categoryID *uint) ([]dto.WatchlistQuote, error) {
	stocks, err := s.watchlistRepo.GetStocks(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	quotes := make([]dto.WatchlistQuote, 0, len(stocks))
	for _, stock := range stocks {
		price, err := s.marketDataRepo.GetLatestPrice(ctx, stock.Symbol, now)
		if err != nil {
			s.log.WarnContext(ctx, "no latest price for watchlist symbol",
				logger.StringField("symbol", stock.Symbol),
				logger.ErrorField(err))
		}
		quotes = append(quotes, dto.WatchlistQuote{
			Symbol:    stock.Symbol,
			Name:      stock.Name,
			LastPrice: price,
			Notes:     stock.Notes,
		})
	}
	return quotes, nil
}

func (s *watchlistService) UpdateStock(ctx context.Context, id uint, req dto.UpdateWatchlistStockRequest) (*model.WatchlistStock, error) {
	stock, err := s.watchlistRepo.GetStockByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		stock.Name = *req.Name
	}
	if req.CategoryID != nil {
		stock.CategoryID = req.CategoryID
	}
	if req.Notes != nil {
		stock.Notes = *req.Notes
	}

	if err := s.watchlistRepo.UpdateStock(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

func (s *watchlistService) RemoveStock(ctx context.Context, id uint) error {
	return s.watchlistRepo.RemoveStock(ctx, id)
}
