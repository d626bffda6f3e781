package model

import "time"

// PriceBar is one cached daily bar for one symbol. Immutable once stored;
// rows are upserted by the bar-refresh job and read back by the backtest
// engine in date-ascending order.
type PriceBar struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Symbol    string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_price_bars_symbol_date" json:"symbol"`
	TradeDate time.Time `gorm:"not null;uniqueIndex:idx_price_bars_symbol_date" json:"trade_date"`
	Open      float64   `gorm:"not null" json:"open"`
	High      float64   `gorm:"not null" json:"high"`
	Low       float64   `gorm:"not null" json:"low"`
	Close     float64   `gorm:"not null" json:"close"`
	Volume    int64     `gorm:"not null" json:"volume"`
	Turnover  float64   `gorm:"not null" json:"turnover"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

func (PriceBar) TableName() string {
	return "price_bars"
}
