package model

import "time"

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"name"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Stocks []WatchlistStock `gorm:"foreignKey:CategoryID" json:"stocks,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

type WatchlistStock struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Symbol     string    `gorm:"type:varchar(16);not null;uniqueIndex" json:"symbol"`
	Name       string    `gorm:"type:varchar(128)" json:"name"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Notes      string    `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
}

func (WatchlistStock) TableName() string {
	return "watchlist_stocks"
}
