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

var ErrNotFound = errors.New("record not found")

type StrategyRepository interface {
	Create(ctx context.Context, strategy *model.Strategy, opts ...utils.DBOption) error
	GetByID(ctx context.Context, id uint) (*model.Strategy, error)
	Get(ctx context.Context, param dto.GetStrategiesParam) ([]model.Strategy, error)
	Update(ctx context.Context, strategy *model.Strategy, opts ...utils.DBOption) error
	Delete(ctx context.Context, id uint, opts ...utils.DBOption) error
}

type strategyRepository struct {
	db *gorm.DB
}

func NewStrategyRepository(db *gorm.DB) StrategyRepository {
	return &strategyRepository{db: db}
}

func (r *strategyRepository) Create(ctx context.Context, strategy *model.Strategy, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(strategy).Error
}

func (r *strategyRepository) GetByID(ctx context.Context, id uint) (*model.Strategy, error) {
	var strategy model.Strategy
	if err := r.db.WithContext(ctx).First(&strategy, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("strategy %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &strategy, nil
}

func (r *strategyRepository) Get(ctx context.Context, param dto.GetStrategiesParam) ([]model.Strategy, error) {
	var strategies []model.Strategy

	qFilter := []string{}
	qFilterParam := []interface{}{}

	if param.IsActive != nil {
		qFilter = append(qFilter, "is_active = ?")
		qFilterParam = append(qFilterParam, *param.IsActive)
	}
	if param.Family != nil {
		qFilter = append(qFilter, "family = ?")
		qFilterParam = append(qFilterParam, *param.Family)
	}

	query := r.db.WithContext(ctx).Order("id ASC")
	if len(qFilter) > 0 {
		query = query.Where(strings.Join(qFilter, " AND "), qFilterParam...)
	}
	if err := query.Find(&strategies).Error; err != nil {
		return nil, err
	}
	return strategies, nil
}

func (r *strategyRepository) Update(ctx context.Context, strategy *model.Strategy, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Save(strategy).Error
}

func (r *strategyRepository) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Delete(&model.Strategy{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("strategy %d: %w", id, ErrNotFound)
	}
	return nil
}
