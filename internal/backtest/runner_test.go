package backtest

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-analyse/internal/model"
	"stock-analyse/pkg/logger"
	"stock-analyse/pkg/utils"
)

// fakeProvider serves canned bar series from memory.
type fakeProvider struct {
	bars map[string][]model.PriceBar
	errs map[string]error
}

func (f *fakeProvider) GetDailyBars(_ context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error) {
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	var out []model.PriceBar
	for _, bar := range f.bars[symbol] {
		if !bar.TradeDate.Before(start) && !bar.TradeDate.After(end) {
			out = append(out, bar)
		}
	}
	return out, nil
}

func (f *fakeProvider) GetLatestPrice(_ context.Context, symbol string, _ time.Time) (float64, error) {
	bars := f.bars[symbol]
	if len(bars) == 0 {
		return 0, fmt.Errorf("no data for %s", symbol)
	}
	return bars[len(bars)-1].Close, nil
}

// barsFrom lays the closes onto consecutive trading days starting at start.
func barsFrom(symbol string, start time.Time, closes []float64) []model.PriceBar {
	date := utils.TruncateToDay(start)
	if utils.IsWeekend(date) {
		date = utils.NextTradingDay(date)
	}
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = model.PriceBar{
			Symbol:    symbol,
			TradeDate: date,
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    1000,
		}
		date = utils.NextTradingDay(date)
	}
	return bars
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func maRunConfig(symbols ...string) RunConfig {
	params := DefaultParameters()
	params.ShortPeriod = 2
	params.LongPeriod = 3
	return RunConfig{
		Symbols:        symbols,
		Family:         model.StrategyFamilyMACross,
		Parameters:     params,
		InitialCapital: 100000,
		StartDate:      day(2025, 1, 6),
		EndDate:        day(2025, 3, 31),
	}
}

// vShape declines, turns, rises, then rolls over: one golden cross into the
// rise, one death cross into the final decline.
var vShape = []float64{
	20, 19, 18, 17, 16, 15, 14, 13, 12, 11,
	12, 14, 16, 18, 20, 22, 24, 26, 28, 30,
	28, 25, 22, 19,
}

func TestRunnerRunConfigValidation(t *testing.T) {
	runner := NewRunner(&fakeProvider{}, DefaultConfig(), testLogger(t))

	tests := []struct {
		name   string
		mutate func(*RunConfig)
	}{
		{"no symbols", func(c *RunConfig) { c.Symbols = nil }},
		{"bad family", func(c *RunConfig) { c.Family = "momentum" }},
		{"zero capital", func(c *RunConfig) { c.InitialCapital = 0 }},
		{"end before start", func(c *RunConfig) { c.EndDate = c.StartDate.AddDate(0, 0, -1) }},
		{"short >= long", func(c *RunConfig) { c.Parameters.ShortPeriod = c.Parameters.LongPeriod }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := maRunConfig("600519")
			tt.mutate(&cfg)
			_, err := runner.Run(context.Background(), cfg)
			assert.Error(t, err)
		})
	}
}

func TestRunnerFlatSeriesTradesNothing(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 50
	}
	provider := &fakeProvider{bars: map[string][]model.PriceBar{
		"600519": barsFrom("600519", day(2025, 1, 6), closes),
	}}
	runner := NewRunner(provider, DefaultConfig(), testLogger(t))

	result, err := runner.Run(context.Background(), maRunConfig("600519"))
	require.NoError(t, err)
	assert.Empty(t, result.Trades)
	assert.Equal(t, 100000.0, result.FinalCapital)
	assert.Equal(t, 0.0, result.TotalReturn)
	assert.Empty(t, result.FinalPositions)
}

func TestRunnerVShapeRoundTrip(t *testing.T) {
	provider := &fakeProvider{bars: map[string][]model.PriceBar{
		"600519": barsFrom("600519", day(2025, 1, 6), vShape),
	}}
	runner := NewRunner(provider, DefaultConfig(), testLogger(t))

	result, err := runner.Run(context.Background(), maRunConfig("600519"))
	require.NoError(t, err)
	require.NotEmpty(t, result.Trades)

	first := result.Trades[0]
	assert.Equal(t, model.TradeTypeBuy, first.Type)
	assert.Greater(t, first.Quantity, 0.0)
	assert.Equal(t, 0.0, math.Mod(first.Quantity, 100))

	var sawSell bool
	for _, trade := range result.Trades {
		if trade.Type == model.TradeTypeSell {
			sawSell = true
			assert.True(t, trade.ExecutedAt.After(first.ExecutedAt))
		}
		assert.False(t, utils.IsWeekend(trade.ExecutedAt), "trade on a weekend")
	}
	assert.True(t, sawSell, "death cross never produced a sell")

	assert.Greater(t, result.FinalCapital, 0.0)
	assert.Equal(t, len(result.Trades), result.TotalTrades)
	assert.NotEmpty(t, result.CapitalCurve)
}

func TestRunnerIsDeterministic(t *testing.T) {
	provider := &fakeProvider{bars: map[string][]model.PriceBar{
		"600519": barsFrom("600519", day(2025, 1, 6), vShape),
		"000001": barsFrom("000001", day(2025, 1, 6), vShape),
	}}
	runner := NewRunner(provider, DefaultConfig(), testLogger(t))

	first, err := runner.Run(context.Background(), maRunConfig("600519", "000001"))
	require.NoError(t, err)
	second, err := runner.Run(context.Background(), maRunConfig("600519", "000001"))
	require.NoError(t, err)

	assert.Equal(t, first.Trades, second.Trades)
	assert.Equal(t, first.FinalCapital, second.FinalCapital)
	assert.Equal(t, first.CapitalCurve, second.CapitalCurve)
}

func TestRunnerSkipsFailedSymbols(t *testing.T) {
	provider := &fakeProvider{
		bars: map[string][]model.PriceBar{
			"600519": barsFrom("600519", day(2025, 1, 6), vShape),
		},
		errs: map[string]error{"BROKEN": fmt.Errorf("upstream unavailable")},
	}
	runner := NewRunner(provider, DefaultConfig(), testLogger(t))

	result, err := runner.Run(context.Background(), maRunConfig("600519", "BROKEN", "NODATA"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"BROKEN", "NODATA"}, result.SkippedSymbols)
	assert.NotEmpty(t, result.Trades)
}

func TestRunnerFailsWhenNoSymbolHasData(t *testing.T) {
	provider := &fakeProvider{errs: map[string]error{"A": fmt.Errorf("down")}}
	runner := NewRunner(provider, DefaultConfig(), testLogger(t))

	_, err := runner.Run(context.Background(), maRunConfig("A", "B"))
	assert.Error(t, err)
}

func TestRunnerHonorsCancellation(t *testing.T) {
	provider := &fakeProvider{bars: map[string][]model.PriceBar{
		"600519": barsFrom("600519", day(2025, 1, 6), vShape),
	}}
	runner := NewRunner(provider, DefaultConfig(), testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, maRunConfig("600519"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunBatchIsolatesLedgers(t *testing.T) {
	provider := &fakeProvider{bars: map[string][]model.PriceBar{
		"600519": barsFrom("600519", day(2025, 1, 6), vShape),
		"000001": barsFrom("000001", day(2025, 1, 6), vShape),
	}}
	runner := NewRunner(provider, DefaultConfig(), testLogger(t))

	summaries, err := runner.RunBatch(context.Background(), maRunConfig("600519", "000001"))
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Identical series against isolated ledgers seeded with the same
	// capital must produce identical outcomes.
	assert.Equal(t, "600519", summaries[0].Symbol)
	assert.Equal(t, "000001", summaries[1].Symbol)
	assert.Equal(t, summaries[0].FinalCapital, summaries[1].FinalCapital)
	assert.Equal(t, summaries[0].TotalReturn, summaries[1].TotalReturn)
	assert.Equal(t, 100000.0, summaries[0].InitialCapital)
}

func TestRunBatchToleratesSymbolFailure(t *testing.T) {
	provider := &fakeProvider{
		bars: map[string][]model.PriceBar{
			"600519": barsFrom("600519", day(2025, 1, 6), vShape),
		},
		errs: map[string]error{"BROKEN": fmt.Errorf("upstream unavailable")},
	}
	runner := NewRunner(provider, DefaultConfig(), testLogger(t))

	summaries, err := runner.RunBatch(context.Background(), maRunConfig("600519", "BROKEN"))
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.NotEmpty(t, summaries[0].Trades)
	assert.Empty(t, summaries[1].Trades)
	assert.Equal(t, []string{"BROKEN"}, summaries[1].SkippedSymbols)
	assert.Equal(t, 100000.0, summaries[1].FinalCapital)
}
