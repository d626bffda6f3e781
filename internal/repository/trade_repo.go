package repository

import (
	"context"

	"gorm.io/gorm"

	"stock-analyse/internal/model"
	"stock-analyse/pkg/utils"
)

type TradeRepository interface {
	Create(ctx context.Context, trade *model.SimulatedTrade, opts ...utils.DBOption) error
	GetByStrategy(ctx context.Context, strategyID uint, limit int) ([]model.SimulatedTrade, error)
}

type tradeRepository struct {
	db *gorm.DB
}

func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{db: db}
}

func (r *tradeRepository) Create(ctx context.Context, trade *model.SimulatedTrade, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(trade).Error
}

func (r *tradeRepository) GetByStrategy(ctx context.Context, strategyID uint, limit int) ([]model.SimulatedTrade, error) {
	var trades []model.SimulatedTrade

	query := r.db.WithContext(ctx).Where("strategy_id = ?", strategyID).Order("executed_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}
