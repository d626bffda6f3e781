package model

import "time"

type AlertCondition string

const (
	AlertConditionAbove AlertCondition = "ABOVE"
	AlertConditionBelow AlertCondition = "BELOW"
)

type PriceAlert struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Symbol      string         `gorm:"type:varchar(16);not null;index" json:"symbol"`
	Condition   AlertCondition `gorm:"type:varchar(8);not null" json:"condition"`
	TargetPrice float64        `gorm:"not null" json:"target_price"`
	Message     string         `gorm:"type:text" json:"message"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	TriggeredAt *time.Time     `json:"triggered_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PriceAlert) TableName() string {
	return "price_alerts"
}
