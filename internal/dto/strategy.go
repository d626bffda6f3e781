package dto

import (
	"time"

	"stock-analyse/internal/backtest"
	"stock-analyse/internal/model"
)

type CreateStrategyRequest struct {
	Name           string                        `json:"name" validate:"required,max=255"`
	Description    string                        `json:"description"`
	Family         model.StrategyFamily          `json:"family" validate:"required"`
	Parameters     *backtest.IndicatorParameters `json:"parameters"`
	InitialCapital float64                       `json:"initial_capital" validate:"omitempty,gt=0"`
}

type UpdateStrategyRequest struct {
	Name        *string                       `json:"name" validate:"omitempty,max=255"`
	Description *string                       `json:"description"`
	Parameters  *backtest.IndicatorParameters `json:"parameters"`
	IsActive    *bool                         `json:"is_active"`
}

// RunStrategyRequest evaluates a strategy against the latest bars of the
// given symbols and persists any signals it produces.
type RunStrategyRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,dive,required"`
}

type RunStrategyResponse struct {
	Signals []model.TradingSignal `json:"signals"`
	RunAt   time.Time             `json:"run_at"`
}

// ExecuteSignalRequest turns a stored signal into a simulated trade against
// the strategy's current capital.
type ExecuteSignalRequest struct {
	SignalID uint   `json:"signal_id" validate:"required"`
	Notes    string `json:"notes"`
}

type GetStrategiesParam struct {
	IsActive *bool
	Family   *model.StrategyFamily
}

type GetSignalsParam struct {
	StrategyID *uint
	Symbol     string
	IsExecuted *bool
	Limit      int
}
