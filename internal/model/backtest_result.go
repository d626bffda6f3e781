package model

import (
	"time"

	"gorm.io/datatypes"
)

// BacktestResult is the persisted outcome of one backtest run. Immutable once
// written; DetailedResults carries the serialized trade list, capital curve
// and final positions for audit.
type BacktestResult struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	StrategyID       uint           `gorm:"not null;index" json:"strategy_id"`
	StartDate        time.Time      `gorm:"not null" json:"start_date"`
	EndDate          time.Time      `gorm:"not null" json:"end_date"`
	InitialCapital   float64        `gorm:"not null" json:"initial_capital"`
	FinalCapital     float64        `gorm:"not null" json:"final_capital"`
	TotalReturn      float64        `gorm:"not null" json:"total_return"`
	AnnualizedReturn float64        `gorm:"not null" json:"annualized_return"`
	SharpeRatio      float64        `gorm:"not null" json:"sharpe_ratio"`
	MaxDrawdown      float64        `gorm:"not null" json:"max_drawdown"`
	TotalTrades      int            `gorm:"not null" json:"total_trades"`
	WinningTrades    int            `gorm:"not null" json:"winning_trades"`
	WinRate          float64        `gorm:"not null" json:"win_rate"`
	DetailedResults  datatypes.JSON `gorm:"type:jsonb" json:"detailed_results"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`

	Strategy *Strategy `gorm:"foreignKey:StrategyID" json:"-"`
}

func (BacktestResult) TableName() string {
	return "backtest_results"
}
