package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock-analyse/internal/model"
	"stock-analyse/pkg/utils"
)

type PriceBarRepository interface {
	UpsertBatch(ctx context.Context, bars []model.PriceBar, opts ...utils.DBOption) error
	GetRange(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error)
	GetLatest(ctx context.Context, symbol string, asOf time.Time) (*model.PriceBar, error)
	Symbols(ctx context.Context) ([]string, error)
}

type priceBarRepository struct {
	db *gorm.DB
}

func NewPriceBarRepository(db *gorm.DB) PriceBarRepository {
	return &priceBarRepository{db: db}
}

// UpsertBatch writes bars idempotently on (symbol, trade_date) so the
// refresh job can re-fetch overlapping windows.
func (r *priceBarRepository) UpsertBatch(ctx context.Context, bars []model.PriceBar, opts ...utils.DBOption) error {
	if len(bars) == 0 {
		return nil
	}
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}, {Name: "trade_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume", "turnover"}),
		}).
		CreateInBatches(&bars, 500).Error
}

func (r *priceBarRepository) GetRange(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error) {
	var bars []model.PriceBar
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND trade_date >= ? AND trade_date <= ?", symbol, start, end).
		Order("trade_date ASC").
		Find(&bars).Error
	if err != nil {
		return nil, err
	}
	return bars, nil
}

func (r *priceBarRepository) GetLatest(ctx context.Context, symbol string, asOf time.Time) (*model.PriceBar, error) {
	var bar model.PriceBar
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND trade_date <= ?", symbol, asOf).
		Order("trade_date DESC").
		First(&bar).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &bar, nil
}

// Symbols lists every symbol with at least one cached bar.
func (r *priceBarRepository) Symbols(ctx context.Context) ([]string, error) {
	var symbols []string
	err := r.db.WithContext(ctx).
		Model(&model.PriceBar{}).
		Distinct("symbol").
		Order("symbol ASC").
		Pluck("symbol", &symbols).Error
	if err != nil {
		return nil, err
	}
	return symbols, nil
}
