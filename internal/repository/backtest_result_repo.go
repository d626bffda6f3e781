package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"stock-analyse/internal/dto"
	"stock-analyse/internal/model"
	"stock-analyse/pkg/utils"
)

type BacktestResultRepository interface {
	Create(ctx context.Context, result *model.BacktestResult, opts ...utils.DBOption) error
	GetByID(ctx context.Context, id uint) (*model.BacktestResult, error)
	Get(ctx context.Context, param dto.GetBacktestResultsParam) ([]model.BacktestResult, error)
	Delete(ctx context.Context, id uint, opts ...utils.DBOption) error
}

type backtestResultRepository struct {
	db *gorm.DB
}

func NewBacktestResultRepository(db *gorm.DB) BacktestResultRepository {
	return &backtestResultRepository{db: db}
}

func (r *backtestResultRepository) Create(ctx context.Context, result *model.BacktestResult, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(result).Error
}

func (r *backtestResultRepository) GetByID(ctx context.Context, id uint) (*model.BacktestResult, error) {
	var result model.BacktestResult
	if err := r.db.WithContext(ctx).Preload("Strategy").First(&result, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("backtest result %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (r *backtestResultRepository) Get(ctx context.Context, param dto.GetBacktestResultsParam) ([]model.BacktestResult, error) {
	var results []model.BacktestResult

	query := r.db.WithContext(ctx).Order("created_at DESC")
	if param.StrategyID != nil {
		query = query.Where("strategy_id = ?", *param.StrategyID)
	}
	if param.Limit > 0 {
		query = query.Limit(param.Limit)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *backtestResultRepository) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Delete(&model.BacktestResult{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("backtest result %d: %w", id, ErrNotFound)
	}
	return nil
}
