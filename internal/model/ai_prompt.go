package model

import "time"

// AIPrompt is a named prompt template for the narrative-analysis endpoint.
// The template may reference {{symbol}}, {{price_summary}} and {{indicators}}.
type AIPrompt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(128);not null;uniqueIndex" json:"name"`
	Template  string    `gorm:"type:text;not null" json:"template"`
	IsDefault bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AIPrompt) TableName() string {
	return "ai_prompts"
}
