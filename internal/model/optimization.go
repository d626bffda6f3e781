package model

import (
	"time"

	"gorm.io/datatypes"
)

// OptimizationResult is created when a grid search starts, updated as
// combinations complete and finalized when the search ends.
type OptimizationResult struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	StrategyID          uint           `gorm:"not null;index" json:"strategy_id"`
	StartDate           time.Time      `gorm:"not null" json:"start_date"`
	EndDate             time.Time      `gorm:"not null" json:"end_date"`
	Symbols             datatypes.JSON `gorm:"type:jsonb;not null" json:"symbols"`
	Config              datatypes.JSON `gorm:"type:jsonb;not null" json:"config"`
	TotalCombinations   int            `gorm:"not null" json:"total_combinations"`
	TestedCombinations  int            `gorm:"not null" json:"tested_combinations"`
	OptimizedParameters datatypes.JSON `gorm:"type:jsonb" json:"optimized_parameters"`
	TotalReturn         float64        `json:"total_return"`
	SharpeRatio         float64        `json:"sharpe_ratio"`
	MaxDrawdown         float64        `json:"max_drawdown"`
	WinRate             float64        `json:"win_rate"`
	TotalTrades         int            `json:"total_trades"`
	DurationMs          int64          `json:"duration_ms"`
	IsApplied           bool           `gorm:"not null;default:false" json:"is_applied"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Strategy    *Strategy             `gorm:"foreignKey:StrategyID" json:"-"`
	TestResults []ParameterTestResult `gorm:"foreignKey:OptimizationResultID" json:"test_results,omitempty"`
}

func (OptimizationResult) TableName() string {
	return "optimization_results"
}

// ParameterTestResult is the audit row for one tested parameter combination.
type ParameterTestResult struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	OptimizationResultID uint           `gorm:"not null;index" json:"optimization_result_id"`
	Parameters           datatypes.JSON `gorm:"type:jsonb;not null" json:"parameters"`
	TotalReturn          float64        `json:"total_return"`
	SharpeRatio          float64        `json:"sharpe_ratio"`
	MaxDrawdown          float64        `json:"max_drawdown"`
	WinRate              float64        `json:"win_rate"`
	TotalTrades          int            `json:"total_trades"`
	CreatedAt            time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (ParameterTestResult) TableName() string {
	return "parameter_test_results"
}
