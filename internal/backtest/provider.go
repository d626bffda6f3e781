package backtest

import (
	"context"
	"time"

	"stock-analyse/internal/model"
)

// MarketDataProvider supplies the historical bars the engine replays. The
// engine tolerates providers returning fewer bars than requested: partial
// history degrades indicator accuracy but never fails a run.
type MarketDataProvider interface {
	// GetDailyBars returns date-ascending daily bars for symbol in [start, end].
	GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error)

	// GetLatestPrice returns the last known close at or before asOf.
	GetLatestPrice(ctx context.Context, symbol string, asOf time.Time) (float64, error)
}
