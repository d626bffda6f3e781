package dto

import "stock-analyse/internal/model"

type CreatePriceAlertRequest struct {
	Symbol      string               `json:"symbol" validate:"required,max=16"`
	Condition   model.AlertCondition `json:"condition" validate:"required,oneof=ABOVE BELOW"`
	TargetPrice float64              `json:"target_price" validate:"required,gt=0"`
	Message     string               `json:"message"`
}

type UpdatePriceAlertRequest struct {
	TargetPrice *float64 `json:"target_price" validate:"omitempty,gt=0"`
	Message     *string  `json:"message"`
	IsActive    *bool    `json:"is_active"`
}

type GetPriceAlertsParam struct {
	Symbol   string
	IsActive *bool
}
