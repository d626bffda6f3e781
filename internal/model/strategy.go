package model

import (
	"time"

	"gorm.io/datatypes"
)

// StrategyFamily selects the signal-generation rule for a strategy. Dispatch
// is always on this tag, never on the display name.
type StrategyFamily string

const (
	StrategyFamilyMACross   StrategyFamily = "ma_cross"
	StrategyFamilyMACDCross StrategyFamily = "macd_cross"
	StrategyFamilyRSI       StrategyFamily = "rsi_threshold"
)

func (f StrategyFamily) Valid() bool {
	switch f {
	case StrategyFamilyMACross, StrategyFamilyMACDCross, StrategyFamilyRSI:
		return true
	}
	return false
}

type Strategy struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Family         StrategyFamily `gorm:"type:varchar(32);not null" json:"family"`
	Parameters     datatypes.JSON `gorm:"type:jsonb;not null" json:"parameters"`
	InitialCapital float64        `gorm:"not null" json:"initial_capital"`
	CurrentCapital float64        `gorm:"not null" json:"current_capital"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	LastRunAt      *time.Time     `json:"last_run_at"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Strategy) TableName() string {
	return "strategies"
}
