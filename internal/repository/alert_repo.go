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

type AlertRepository interface {
	Create(ctx context.Context, alert *model.PriceAlert, opts ...utils.DBOption) error
	GetByID(ctx context.Context, id uint) (*model.PriceAlert, error)
	Get(ctx context.Context, param dto.GetPriceAlertsParam) ([]model.PriceAlert, error)
	Update(ctx context.Context, alert *model.PriceAlert, opts ...utils.DBOption) error
	Delete(ctx context.Context, id uint, opts ...utils.DBOption) error
}

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, alert *model.PriceAlert, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(alert).Error
}

func (r *alertRepository) GetByID(ctx context.Context, id uint) (*model.PriceAlert, error) {
	var alert model.PriceAlert
	if err := r.db.WithContext(ctx).First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("price alert %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepository) Get(ctx context.Context, param dto.GetPriceAlertsParam) ([]model.PriceAlert, error) {
	var alerts []model.PriceAlert

	qFilter := []string{}
	qFilterParam := []interface{}{}

	if param.Symbol != "" {
		qFilter = append(qFilter, "symbol = ?")
		qFilterParam = append(qFilterParam, param.Symbol)
	}
	if param.IsActive != nil {
		qFilter = append(qFilter, "is_active = ?")
		qFilterParam = append(qFilterParam, *param.IsActive)
	}

	query := r.db.WithContext(ctx).Order("id ASC")
	if len(qFilter) > 0 {
		query = query.Where(strings.Join(qFilter, " AND "), qFilterParam...)
	}
	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepository) Update(ctx context.Context, alert *model.PriceAlert, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Save(alert).Error
}

func (r *alertRepository) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Delete(&model.PriceAlert{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("price alert %d: %w", id, ErrNotFound)
	}
	return nil
}
