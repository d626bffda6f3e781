// Package backtest implements the strategy research engine: signal
// generation from indicator state, trade simulation against a cash/position
// ledger, performance metrics and brute-force parameter optimization.
// Everything here is deterministic given the same bar data and parameters.
package backtest

import (
	"fmt"
	"time"

	"stock-analyse/internal/model"
)

// IndicatorParameters bundles every tunable knob of the three strategy
// families. Immutable for the duration of one backtest run.
type IndicatorParameters struct {
	ShortPeriod         int     `json:"shortPeriod"`
	LongPeriod          int     `json:"longPeriod"`
	FastPeriod          int     `json:"fastPeriod"`
	SlowPeriod          int     `json:"slowPeriod"`
	SignalPeriod        int     `json:"signalPeriod"`
	RSIPeriod           int     `json:"rsiPeriod"`
	OverboughtThreshold float64 `json:"overboughtThreshold"`
	OversoldThreshold   float64 `json:"oversoldThreshold"`
	BollingerPeriod     int     `json:"bollingerPeriod"`
	StdDevMultiplier    float64 `json:"standardDeviation"`
}

// DefaultParameters mirrors the seed parameters of the bundled
// moving-average strategy.
func DefaultParameters() IndicatorParameters {
	return IndicatorParameters{
		ShortPeriod:         5,
		LongPeriod:          20,
		FastPeriod:          12,
		SlowPeriod:          26,
		SignalPeriod:        9,
		RSIPeriod:           14,
		OverboughtThreshold: 70,
		OversoldThreshold:   30,
		BollingerPeriod:     20,
		StdDevMultiplier:    2,
	}
}

// Validate rejects parameter bundles that violate the structural invariants.
func (p IndicatorParameters) Validate() error {
	if p.ShortPeriod <= 0 || p.LongPeriod <= 0 || p.FastPeriod <= 0 ||
		p.SlowPeriod <= 0 || p.SignalPeriod <= 0 || p.RSIPeriod <= 0 || p.BollingerPeriod <= 0 {
		return fmt.Errorf("all indicator periods must be positive")
	}
	if p.ShortPeriod >= p.LongPeriod {
		return fmt.Errorf("short period (%d) must be less than long period (%d)", p.ShortPeriod, p.LongPeriod)
	}
	if p.FastPeriod >= p.SlowPeriod {
		return fmt.Errorf("fast period (%d) must be less than slow period (%d)", p.FastPeriod, p.SlowPeriod)
	}
	if p.OversoldThreshold >= p.OverboughtThreshold {
		return fmt.Errorf("oversold threshold (%.0f) must be less than overbought threshold (%.0f)",
			p.OversoldThreshold, p.OverboughtThreshold)
	}
	return nil
}

// Lookback returns the number of bars the slowest indicator of any family
// needs before a signal can be produced.
func (p IndicatorParameters) Lookback() int {
	lookback := p.LongPeriod
	if p.SlowPeriod > lookback {
		lookback = p.SlowPeriod
	}
	if p.SignalPeriod+p.SlowPeriod > lookback {
		lookback = p.SignalPeriod + p.SlowPeriod
	}
	if p.RSIPeriod > lookback {
		lookback = p.RSIPeriod
	}
	return lookback
}

// Signal is one in-memory trading signal for one (symbol, date). Confidence
// is a fixed constant per strategy family and is display-only.
type Signal struct {
	Symbol      string           `json:"symbol"`
	Type        model.SignalType `json:"type"`
	Price       float64          `json:"price"`
	Confidence  float64          `json:"confidence"`
	Reason      string           `json:"reason"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// Trade is one executed simulated trade inside a backtest run.
type Trade struct {
	Symbol     string          `json:"symbol"`
	Type       model.TradeType `json:"type"`
	Quantity   float64         `json:"quantity"`
	Price      float64         `json:"price"`
	Commission float64         `json:"commission"`
	Amount     float64         `json:"amount"`
	ExecutedAt time.Time       `json:"executed_at"`
}

// CapitalPoint is one point of the replayed capital curve.
type CapitalPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Result aggregates one backtest run over a shared portfolio ledger.
type Result struct {
	StartDate        time.Time          `json:"start_date"`
	EndDate          time.Time          `json:"end_date"`
	InitialCapital   float64            `json:"initial_capital"`
	FinalCapital     float64            `json:"final_capital"`
	TotalReturn      float64            `json:"total_return"`
	AnnualizedReturn float64            `json:"annualized_return"`
	SharpeRatio      float64            `json:"sharpe_ratio"`
	MaxDrawdown      float64            `json:"max_drawdown"`
	TotalTrades      int                `json:"total_trades"`
	WinningTrades    int                `json:"winning_trades"`
	WinRate          float64            `json:"win_rate"`
	Trades           []Trade            `json:"trades"`
	CapitalCurve     []CapitalPoint     `json:"capital_curve"`
	FinalPositions   map[string]float64 `json:"final_positions"`
	SkippedSymbols   []string           `json:"skipped_symbols,omitempty"`
}

// StockSummary is the outcome of one symbol's run in batch mode, where every
// symbol gets its own isolated ledger seeded with the same initial capital.
type StockSummary struct {
	Symbol string `json:"symbol"`
	Result
}

// Config carries the commission model. The buy-side floor is intentionally
// not applied on the sell side; see the simulator.
type Config struct {
	CommissionRate float64
	MinCommission  float64
}

// DefaultConfig matches the 0.03% / minimum-5 brokerage convention.
func DefaultConfig() Config {
	return Config{
		CommissionRate: 0.0003,
		MinCommission:  5,
	}
}
