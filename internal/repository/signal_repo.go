package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"stock-analyse/internal/dto"
	"stock-analyse/internal/model"
	"stock-analyse/pkg/utils"
)

type SignalRepository interface {
	CreateBatch(ctx context.Context, signals []model.TradingSignal, opts ...utils.DBOption) error
	GetByID(ctx context.Context, id uint) (*model.TradingSignal, error)
	Get(ctx context.Context, param dto.GetSignalsParam) ([]model.TradingSignal, error)
	Update(ctx context.Context, signal *model.TradingSignal, opts ...utils.DBOption) error
}

type signalRepository struct {
	db *gorm.DB
}

func NewSignalRepository(db *gorm.DB) SignalRepository {
	return &signalRepository{db: db}
}

func (r *signalRepository) CreateBatch(ctx context.Context, signals []model.TradingSignal, opts ...utils.DBOption) error {
	if len(signals) == 0 {
		return nil
	}
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(&signals).Error
}

func (r *signalRepository) GetByID(ctx context.Context, id uint) (*model.TradingSignal, error) {
	var signal model.TradingSignal
	if err := r.db.WithContext(ctx).Preload("Strategy").First(&signal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("signal %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &signal, nil
}

func (r *signalRepository) Get(ctx context.Context, param dto.GetSignalsParam) ([]model.TradingSignal, error) {
	var signals []model.TradingSignal

	qFilter := []string{}
	qFilterParam := []interface{}{}

	if param.StrategyID != nil {
		qFilter = append(qFilter, "strategy_id = ?")
		qFilterParam = append(qFilterParam, *param.StrategyID)
	}
	if param.Symbol != "" {
		qFilter = append(qFilter, "symbol = ?")
		qFilterParam = append(qFilterParam, param.Symbol)
	}
	if param.IsExecuted != nil {
		qFilter = append(qFilter, "is_executed = ?")
		qFilterParam = append(qFilterParam, *param.IsExecuted)
	}

	query := r.db.WithContext(ctx).Order("generated_at DESC")
	if len(qFilter) > 0 {
		query = query.Where(strings.Join(qFilter, " AND "), qFilterParam...)
	}
	if param.Limit > 0 {
		query = query.Limit(param.Limit)
	}
	if err := query.Find(&signals).Error; err != nil {
		return nil, err
	}
	return signals, nil
}

func (r *signalRepository) Update(ctx context.Context, signal *model.TradingSignal, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Save(signal).Error
}
