package model

import "time"

type SignalType string

const (
	SignalTypeBuy  SignalType = "BUY"
	SignalTypeSell SignalType = "SELL"
)

// TradingSignal is a persisted live signal produced by running a strategy
// against the latest bars. Backtests use the in-memory equivalent in
// internal/backtest and never write rows here.
type TradingSignal struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	StrategyID  uint       `gorm:"not null;index" json:"strategy_id"`
	Symbol      string     `gorm:"type:varchar(16);not null" json:"symbol"`
	Type        SignalType `gorm:"type:varchar(8);not null" json:"type"`
	Price       float64    `gorm:"not null" json:"price"`
	Confidence  float64    `gorm:"not null" json:"confidence"`
	Reason      string     `gorm:"type:text" json:"reason"`
	GeneratedAt time.Time  `gorm:"not null" json:"generated_at"`
	IsExecuted  bool       `gorm:"not null;default:false" json:"is_executed"`
	ExecutedAt  *time.Time `json:"executed_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`

	Strategy *Strategy `gorm:"foreignKey:StrategyID" json:"-"`
}

func (TradingSignal) TableName() string {
	return "trading_signals"
}
