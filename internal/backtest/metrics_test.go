package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-analyse/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildCapitalCurve(t *testing.T) {
	trades := []Trade{
		{Symbol: "A", Type: model.TradeTypeBuy, Quantity: 100, Price: 10, Amount: 1000, Commission: 5, ExecutedAt: day(2025, 1, 6)},
		{Symbol: "A", Type: model.TradeTypeSell, Quantity: 100, Price: 12, Amount: 1200, Commission: 0.36, ExecutedAt: day(2025, 1, 10)},
	}

	curve := BuildCapitalCurve(trades, 10000)
	require.Len(t, curve, 2)

	// Buy day: cash 10000-1000-5 plus 1000 invested at cost.
	assert.Equal(t, day(2025, 1, 6), curve[0].Date)
	assert.InDelta(t, 9995, curve[0].Value, 1e-9)

	// Sell day: all cash, 10000 - 5 + 200 - 0.36.
	assert.Equal(t, day(2025, 1, 10), curve[1].Date)
	assert.InDelta(t, 10194.64, curve[1].Value, 1e-9)
}

func TestBuildCapitalCurveCollapsesSameDay(t *testing.T) {
	trades := []Trade{
		{Symbol: "A", Type: model.TradeTypeBuy, Amount: 1000, Commission: 5, ExecutedAt: day(2025, 1, 6)},
		{Symbol: "B", Type: model.TradeTypeBuy, Amount: 2000, Commission: 5, ExecutedAt: day(2025, 1, 6)},
	}

	curve := BuildCapitalCurve(trades, 10000)
	require.Len(t, curve, 1)
	assert.InDelta(t, 9990, curve[0].Value, 1e-9)

	assert.Nil(t, BuildCapitalCurve(nil, 10000))
}

func TestTotalAndAnnualizedReturn(t *testing.T) {
	assert.InDelta(t, 0.1, TotalReturn(100000, 110000), 1e-9)
	assert.InDelta(t, -0.25, TotalReturn(100000, 75000), 1e-9)
	assert.Equal(t, 0.0, TotalReturn(0, 110000))

	// 10% over exactly one compounding year.
	got := AnnualizedReturn(100000, 110000, 365.25)
	assert.InDelta(t, 0.1, got, 1e-9)

	// 10% over half a year compounds above 20%.
	got = AnnualizedReturn(100000, 110000, 365.25/2)
	assert.InDelta(t, 0.21, got, 1e-9)

	assert.Equal(t, 0.0, AnnualizedReturn(100000, 110000, 0))
	assert.Equal(t, 0.0, AnnualizedReturn(100000, 0, 365))
}

func TestSharpeRatio(t *testing.T) {
	t.Run("flat curve yields zero", func(t *testing.T) {
		curve := []CapitalPoint{
			{Date: day(2025, 1, 6), Value: 10000},
			{Date: day(2025, 1, 7), Value: 10000},
			{Date: day(2025, 1, 8), Value: 10000},
		}
		assert.Equal(t, 0.0, SharpeRatio(curve))
	})

	t.Run("steady gains score positive", func(t *testing.T) {
		curve := []CapitalPoint{
			{Date: day(2025, 1, 6), Value: 10000},
			{Date: day(2025, 1, 7), Value: 10100},
			{Date: day(2025, 1, 8), Value: 10300},
			{Date: day(2025, 1, 9), Value: 10350},
		}
		assert.Greater(t, SharpeRatio(curve), 0.0)
	})

	t.Run("too few points", func(t *testing.T) {
		assert.Equal(t, 0.0, SharpeRatio([]CapitalPoint{{Value: 10000}}))
	})
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{
			name:   "single dip from the peak",
			values: []float64{10000, 12000, 9000, 11000},
			want:   0.25,
		},
		{
			name:   "monotonic rise never draws down",
			values: []float64{10000, 10500, 11000},
			want:   0,
		},
		{
			name:   "deepest of two troughs wins",
			values: []float64{10000, 8000, 10000, 9500},
			want:   0.2,
		},
		{
			name:   "empty curve",
			values: nil,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curve := make([]CapitalPoint, len(tt.values))
			for i, v := range tt.values {
				curve[i] = CapitalPoint{Date: day(2025, 1, 6+i), Value: v}
			}
			assert.InDelta(t, tt.want, MaxDrawdown(curve), 1e-9)
		})
	}
}

func TestWinStats(t *testing.T) {
	trades := []Trade{
		{Symbol: "A", Type: model.TradeTypeBuy, Price: 10, ExecutedAt: day(2025, 1, 6)},
		{Symbol: "A", Type: model.TradeTypeSell, Price: 12, ExecutedAt: day(2025, 1, 10)}, // win
		{Symbol: "B", Type: model.TradeTypeBuy, Price: 20, ExecutedAt: day(2025, 1, 13)},
		{Symbol: "B", Type: model.TradeTypeSell, Price: 18, ExecutedAt: day(2025, 1, 17)}, // loss
		{Symbol: "A", Type: model.TradeTypeBuy, Price: 11, ExecutedAt: day(2025, 1, 20)},  // never closed
	}

	winning, total, rate := WinStats(trades)
	assert.Equal(t, 1, winning)
	assert.Equal(t, 3, total)
	assert.InDelta(t, 1.0/3.0, rate, 1e-9)
}

func TestWinStatsPairsWithNextSellOnly(t *testing.T) {
	// The first buy pairs with the 2025-01-10 sell at a lower price and
	// counts as a loss even though a later sell would have won.
	trades := []Trade{
		{Symbol: "A", Type: model.TradeTypeBuy, Price: 10, ExecutedAt: day(2025, 1, 6)},
		{Symbol: "A", Type: model.TradeTypeSell, Price: 9, ExecutedAt: day(2025, 1, 10)},
		{Symbol: "A", Type: model.TradeTypeSell, Price: 15, ExecutedAt: day(2025, 1, 14)},
	}

	winning, total, rate := WinStats(trades)
	assert.Equal(t, 0, winning)
	assert.Equal(t, 1, total)
	assert.Equal(t, 0.0, rate)

	_, _, rate = WinStats(nil)
	assert.Equal(t, 0.0, rate)
}
