package dto

import (
	"time"

	"stock-analyse/internal/backtest"
)

// OptimizationRequest starts a grid search for one stored strategy.
type OptimizationRequest struct {
	StrategyID     uint                    `json:"strategy_id" validate:"required"`
	Symbols        []string                `json:"symbols" validate:"required,min=1,dive,required"`
	StartDate      time.Time               `json:"start_date" validate:"required"`
	EndDate        time.Time               `json:"end_date" validate:"required"`
	InitialCapital float64                 `json:"initial_capital" validate:"omitempty,gt=0"`
	Objective      backtest.Objective      `json:"objective" validate:"required"`
	ShortPeriods   backtest.ParameterRange `json:"short_periods"`
	LongPeriods    backtest.ParameterRange `json:"long_periods"`
	RSIPeriods     backtest.ParameterRange `json:"rsi_periods"`
	Oversold       backtest.ParameterRange `json:"oversold"`
	Overbought     backtest.ParameterRange `json:"overbought"`
}

type OptimizationResponse struct {
	ID             uint                         `json:"id"`
	BestParameters backtest.IndicatorParameters `json:"best_parameters"`
	BestScore      float64                      `json:"best_score"`
	Tested         int                          `json:"tested"`
	Failed         int                          `json:"failed"`
	Partial        bool                         `json:"partial"`
	DurationMs     int64                        `json:"duration_ms"`
}

// BatchOptimizationRequest runs the same search for several strategies.
type BatchOptimizationRequest struct {
	StrategyIDs    []uint                  `json:"strategy_ids" validate:"required,min=1,dive,required"`
	Symbols        []string                `json:"symbols" validate:"required,min=1,dive,required"`
	StartDate      time.Time               `json:"start_date" validate:"required"`
	EndDate        time.Time               `json:"end_date" validate:"required"`
	InitialCapital float64                 `json:"initial_capital" validate:"omitempty,gt=0"`
	Objective      backtest.Objective      `json:"objective" validate:"required"`
	ShortPeriods   backtest.ParameterRange `json:"short_periods"`
	LongPeriods    backtest.ParameterRange `json:"long_periods"`
	RSIPeriods     backtest.ParameterRange `json:"rsi_periods"`
	Oversold       backtest.ParameterRange `json:"oversold"`
	Overbought     backtest.ParameterRange `json:"overbought"`
}

type BatchOptimizationItem struct {
	StrategyID uint                  `json:"strategy_id"`
	Result     *OptimizationResponse `json:"result,omitempty"`
	Error      string                `json:"error,omitempty"`
}

type BatchOptimizationResponse struct {
	Items []BatchOptimizationItem `json:"items"`
}

// ApplyOptimizationRequest copies a finished search's best parameters onto
// its strategy.
type ApplyOptimizationRequest struct {
	OptimizationID uint `json:"optimization_id" validate:"required"`
}

type GetOptimizationsParam struct {
	StrategyID *uint
	Limit      int
}
