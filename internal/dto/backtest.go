package dto

import (
	"time"

	"stock-analyse/internal/backtest"
)

// BacktestRequest starts one backtest of a stored strategy over a symbol set.
// An empty symbol list falls back to the watchlist.
type BacktestRequest struct {
	StrategyID     uint      `json:"strategy_id" validate:"required"`
	Symbols        []string  `json:"symbols" validate:"omitempty,dive,required"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required"`
	InitialCapital float64   `json:"initial_capital" validate:"omitempty,gt=0"`
}

// BacktestResponse is the persisted run plus its full in-memory result.
type BacktestResponse struct {
	ID     uint             `json:"id"`
	Result *backtest.Result `json:"result"`
}

// BatchBacktestResponse carries one isolated-ledger summary per symbol plus
// aggregate statistics over the batch.
type BatchBacktestResponse struct {
	Summaries       []backtest.StockSummary `json:"summaries"`
	ProfitableCount int                     `json:"profitable_count"`
	AverageReturn   float64                 `json:"average_return"`
	BestPerformer   string                  `json:"best_performer,omitempty"`
	WorstPerformer  string                  `json:"worst_performer,omitempty"`
}

// GetBacktestResultsParam filters the stored run history.
type GetBacktestResultsParam struct {
	StrategyID *uint
	Limit      int
}
