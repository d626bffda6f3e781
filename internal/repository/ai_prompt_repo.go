package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"stock-analyse/internal/model"
	"stock-analyse/pkg/utils"
)

type AIPromptRepository interface {
	Create(ctx context.Context, prompt *model.AIPrompt, opts ...utils.DBOption) error
	GetByName(ctx context.Context, name string) (*model.AIPrompt, error)
	GetDefault(ctx context.Context) (*model.AIPrompt, error)
	GetAll(ctx context.Context) ([]model.AIPrompt, error)
	Delete(ctx context.Context, id uint, opts ...utils.DBOption) error
}

type aiPromptRepository struct {
	db *gorm.DB
}

func NewAIPromptRepository(db *gorm.DB) AIPromptRepository {
	return &aiPromptRepository{db: db}
}

// Create clears the previous default first when the new prompt claims it, so
// at most one default exists.
func (r *aiPromptRepository) Create(ctx context.Context, prompt *model.AIPrompt, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if prompt.IsDefault {
		if err := tx.Model(&model.AIPrompt{}).
			Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return err
		}
	}
	return tx.Create(prompt).Error
}

func (r *aiPromptRepository) GetByName(ctx context.Context, name string) (*model.AIPrompt, error) {
	var prompt model.AIPrompt
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&prompt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ai prompt %q: %w", name, ErrNotFound)
		}
		return nil, err
	}
	return &prompt, nil
}

func (r *aiPromptRepository) GetDefault(ctx context.Context) (*model.AIPrompt, error) {
	var prompt model.AIPrompt
	if err := r.db.WithContext(ctx).Where("is_default = ?", true).First(&prompt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("default ai prompt: %w", ErrNotFound)
		}
		return nil, err
	}
	return &prompt, nil
}

func (r *aiPromptRepository) GetAll(ctx context.Context) ([]model.AIPrompt, error) {
	var prompts []model.AIPrompt
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

func (r *aiPromptRepository) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Delete(&model.AIPrompt{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("ai prompt %d: %w", id, ErrNotFound)
	}
	return nil
}
