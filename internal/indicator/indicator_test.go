package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMA(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		period int
		want   []float64
	}{
		{
			name:   "rolling average over ascending series",
			prices: []float64{1, 2, 3, 4, 5},
			period: 3,
			want:   []float64{2, 3, 4},
		},
		{
			name:   "period equals series length",
			prices: []float64{2, 4, 6},
			period: 3,
			want:   []float64{4},
		},
		{
			name:   "insufficient history",
			prices: []float64{1, 2},
			period: 3,
			want:   nil,
		},
		{
			name:   "non positive period",
			prices: []float64{1, 2, 3},
			period: 0,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SMA(tt.prices, tt.period)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEMA(t *testing.T) {
	// Seeded with the SMA of the first period, then smoothed with
	// k = 2/(period+1) = 0.5.
	got := EMA([]float64{1, 2, 3, 4, 5}, 3)
	assert.Equal(t, []float64{2, 3, 4}, got)

	assert.Nil(t, EMA([]float64{1, 2}, 3))
}

func TestMACD(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	got := MACD(prices, 3, 6, 4)
	assert.NotEmpty(t, got)
	for i, v := range got {
		assert.InDelta(t, v.MACD-v.Signal, v.Histogram, 1e-9, "point %d", i)
	}
	// On a linear ramp the fast EMA sits above the slow EMA once warmed up.
	last := got[len(got)-1]
	assert.Greater(t, last.MACD, 0.0)

	assert.Nil(t, MACD([]float64{1, 2, 3}, 3, 6, 4))
}

func TestRSI(t *testing.T) {
	t.Run("all gains saturates at 100", func(t *testing.T) {
		got := RSI([]float64{1, 2, 3, 4, 5}, 3)
		assert.NotEmpty(t, got)
		for _, v := range got {
			assert.Equal(t, 100.0, v)
		}
	})

	t.Run("wilder smoothing on alternating series", func(t *testing.T) {
		got := RSI([]float64{10, 11, 10, 11, 10}, 2)
		assert.Len(t, got, 3)
		assert.InDelta(t, 50.0, got[0], 1e-9)
		assert.InDelta(t, 75.0, got[1], 1e-9)
		assert.InDelta(t, 37.5, got[2], 1e-9)
	})

	t.Run("insufficient history", func(t *testing.T) {
		assert.Nil(t, RSI([]float64{10, 11}, 3))
	})
}

func TestBollingerBands(t *testing.T) {
	got := BollingerBands([]float64{1, 2, 3, 4, 5}, 3, 2)
	assert.Len(t, got, 3)

	// First window {1,2,3}: mean 2, population std sqrt(2/3).
	band := got[0]
	assert.InDelta(t, 2.0, band.Middle, 1e-9)
	assert.InDelta(t, 3.63299, band.Upper, 1e-4)
	assert.InDelta(t, 0.36701, band.Lower, 1e-4)

	assert.Nil(t, BollingerBands([]float64{1, 2}, 3, 2))
}

func TestDetectCrossover(t *testing.T) {
	tests := []struct {
		name       string
		shortMA    []float64
		longMA     []float64
		wantGolden bool
		wantDeath  bool
	}{
		{
			name:       "golden cross",
			shortMA:    []float64{1, 3},
			longMA:     []float64{2, 2},
			wantGolden: true,
		},
		{
			name:      "death cross",
			shortMA:   []float64{3, 1},
			longMA:    []float64{2, 2},
			wantDeath: true,
		},
		{
			name:       "touch then break counts as golden",
			shortMA:    []float64{2, 3},
			longMA:     []float64{2, 2},
			wantGolden: true,
		},
		{
			name:    "no cross when short stays above",
			shortMA: []float64{3, 4},
			longMA:  []float64{2, 2},
		},
		{
			name:    "too short for a comparison",
			shortMA: []float64{3},
			longMA:  []float64{2, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			golden, death := DetectCrossover(tt.shortMA, tt.longMA)
			assert.Equal(t, tt.wantGolden, golden)
			assert.Equal(t, tt.wantDeath, death)
		})
	}
}
