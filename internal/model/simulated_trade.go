package model

import "time"

type TradeType string

const (
	TradeTypeBuy  TradeType = "BUY"
	TradeTypeSell TradeType = "SELL"
)

// SimulatedTrade records one executed paper trade, either from a live
// ExecuteSignal call or serialized inside a backtest's detailed results.
type SimulatedTrade struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StrategyID uint      `gorm:"not null;index" json:"strategy_id"`
	Symbol     string    `gorm:"type:varchar(16);not null" json:"symbol"`
	Type       TradeType `gorm:"type:varchar(8);not null" json:"type"`
	Quantity   float64   `gorm:"not null" json:"quantity"`
	Price      float64   `gorm:"not null" json:"price"`
	Commission float64   `gorm:"not null" json:"commission"`
	Amount     float64   `gorm:"not null" json:"amount"`
	Notes      string    `gorm:"type:text" json:"notes"`
	ExecutedAt time.Time `gorm:"not null" json:"executed_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (SimulatedTrade) TableName() string {
	return "simulated_trades"
}
