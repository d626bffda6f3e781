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

type OptimizationRepository interface {
	Create(ctx context.Context, result *model.OptimizationResult, opts ...utils.DBOption) error
	Update(ctx context.Context, result *model.OptimizationResult, opts ...utils.DBOption) error
	GetByID(ctx context.Context, id uint) (*model.OptimizationResult, error)
	Get(ctx context.Context, param dto.GetOptimizationsParam) ([]model.OptimizationResult, error)
	AddTestResult(ctx context.Context, test *model.ParameterTestResult, opts ...utils.DBOption) error
}

type optimizationRepository struct {
	db *gorm.DB
}

func NewOptimizationRepository(db *gorm.DB) OptimizationRepository {
	return &optimizationRepository{db: db}
}

func (r *optimizationRepository) Create(ctx context.Context, result *model.OptimizationResult, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(result).Error
}

func (r *optimizationRepository) Update(ctx context.Context, result *model.OptimizationResult, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Save(result).Error
}

func (r *optimizationRepository) GetByID(ctx context.Context, id uint) (*model.OptimizationResult, error) {
	var result model.OptimizationResult
	db := utils.ApplyOptions(r.db.WithContext(ctx), utils.WithPreload("TestResults"))
	if err := db.First(&result, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("optimization %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (r *optimizationRepository) Get(ctx context.Context, param dto.GetOptimizationsParam) ([]model.OptimizationResult, error) {
	var results []model.OptimizationResult

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

// AddTestResult appends one grid-cell audit row. Called concurrently from
// the optimizer's onResult callback, which serializes under its own lock.
func (r *optimizationRepository) AddTestResult(ctx context.Context, test *model.ParameterTestResult, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(test).Error
}
