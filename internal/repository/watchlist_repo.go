package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"stock-analyse/internal/model"
	"stock-analyse/pkg/utils"
)

type WatchlistRepository interface {
	CreateCategory(ctx context.Context, category *model.Category, opts ...utils.DBOption) error
	GetCategories(ctx context.Context) ([]model.Category, error)
	DeleteCategory(ctx context.Context, id uint, opts ...utils.DBOption) error

	AddStock(ctx context.Context, stock *model.WatchlistStock, opts ...utils.DBOption) error
	GetStocks(ctx context.Context, categoryID *uint) ([]model.WatchlistStock, error)
	GetStockByID(ctx context.Context, id uint) (*model.WatchlistStock, error)
	UpdateStock(ctx context.Context, stock *model.WatchlistStock, opts ...utils.DBOption) error
	RemoveStock(ctx context.Context, id uint, opts ...utils.DBOption) error
}

type watchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

func (r *watchlistRepository) CreateCategory(ctx context.Context, category *model.Category, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(category).Error
}

func (r *watchlistRepository) GetCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Preload("Stocks").
		Order("sort_order ASC, id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// DeleteCategory detaches the category's stocks before removing it so they
// fall back to uncategorized instead of disappearing.
func (r *watchlistRepository) DeleteCategory(ctx context.Context, id uint, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := tx.Model(&model.WatchlistStock{}).
		Where("category_id = ?", id).
		Update("category_id", nil).Error; err != nil {
		return err
	}
	res := tx.Delete(&model.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *watchlistRepository) AddStock(ctx context.Context, stock *model.WatchlistStock, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(stock).Error
}

func (r *watchlistRepository) GetStocks(ctx context.Context, categoryID *uint) ([]model.WatchlistStock, error) {
	var stocks []model.WatchlistStock

	query := r.db.WithContext(ctx).Order("symbol ASC")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if err := query.Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

func (r *watchlistRepository) GetStockByID(ctx context.Context, id uint) (*model.WatchlistStock, error) {
	var stock model.WatchlistStock
	if err := r.db.WithContext(ctx).First(&stock, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("watchlist stock %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &stock, nil
}

func (r *watchlistRepository) UpdateStock(ctx context.Context, stock *model.WatchlistStock, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Save(stock).Error
}

func (r *watchlistRepository) RemoveStock(ctx context.Context, id uint, opts ...utils.DBOption) error {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Delete(&model.WatchlistStock{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("watchlist stock %d: %w", id, ErrNotFound)
	}
	return nil
}
