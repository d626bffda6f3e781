package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-analyse/internal/model"
)

func TestSignalGeneratorMACross(t *testing.T) {
	params := DefaultParameters()
	params.ShortPeriod = 2
	params.LongPeriod = 3
	gen := NewSignalGenerator(model.StrategyFamilyMACross, params)
	asOf := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)

	t.Run("upturn produces a buy", func(t *testing.T) {
		// Decline then a sharp turn: SMA2 crosses above SMA3 on the last bar.
		sig := gen.Generate("600519", []float64{20, 18, 16, 14, 20}, asOf)
		require.NotNil(t, sig)
		assert.Equal(t, model.SignalTypeBuy, sig.Type)
		assert.Equal(t, 20.0, sig.Price)
		assert.Equal(t, 0.7, sig.Confidence)
		assert.Contains(t, sig.Reason, "golden cross")
	})

	t.Run("rollover produces a sell", func(t *testing.T) {
		sig := gen.Generate("600519", []float64{14, 16, 18, 20, 14}, asOf)
		require.NotNil(t, sig)
		assert.Equal(t, model.SignalTypeSell, sig.Type)
		assert.Equal(t, 0.7, sig.Confidence)
	})

	t.Run("steady trend stays silent", func(t *testing.T) {
		assert.Nil(t, gen.Generate("600519", []float64{10, 12, 14, 16, 18}, asOf))
	})

	t.Run("insufficient history is not an error", func(t *testing.T) {
		assert.Nil(t, gen.Generate("600519", []float64{10, 12}, asOf))
	})
}

func TestSignalGeneratorRSI(t *testing.T) {
	params := DefaultParameters()
	params.RSIPeriod = 3
	gen := NewSignalGenerator(model.StrategyFamilyRSI, params)
	asOf := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)

	t.Run("relentless decline is oversold", func(t *testing.T) {
		sig := gen.Generate("600519", []float64{20, 19, 18, 17, 16, 15}, asOf)
		require.NotNil(t, sig)
		assert.Equal(t, model.SignalTypeBuy, sig.Type)
		assert.Equal(t, 0.6, sig.Confidence)
		assert.Contains(t, sig.Reason, "oversold")
	})

	t.Run("relentless rally is overbought", func(t *testing.T) {
		sig := gen.Generate("600519", []float64{15, 16, 17, 18, 19, 20}, asOf)
		require.NotNil(t, sig)
		assert.Equal(t, model.SignalTypeSell, sig.Type)
		assert.Contains(t, sig.Reason, "overbought")
	})

	t.Run("neutral band stays silent", func(t *testing.T) {
		assert.Nil(t, gen.Generate("600519", []float64{10, 11, 10, 11, 10, 11}, asOf))
	})
}

func TestSignalGeneratorMACDCross(t *testing.T) {
	params := DefaultParameters()
	params.FastPeriod = 3
	params.SlowPeriod = 6
	params.SignalPeriod = 4
	gen := NewSignalGenerator(model.StrategyFamilyMACDCross, params)
	asOf := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)

	// A long decline followed by a strong recovery drives the histogram from
	// negative through zero.
	closes := []float64{
		30, 29, 28, 27, 26, 25, 24, 23, 22, 21,
		20, 19, 18, 17, 16, 15,
		17, 19, 21, 23, 25, 27,
	}

	var sawBuy bool
	for i := params.SlowPeriod + params.SignalPeriod; i <= len(closes); i++ {
		sig := gen.Generate("600519", closes[:i], asOf)
		if sig != nil && sig.Type == model.SignalTypeBuy {
			sawBuy = true
			assert.Equal(t, 0.75, sig.Confidence)
			assert.Contains(t, sig.Reason, "MACD")
			break
		}
	}
	assert.True(t, sawBuy, "recovery never fired a MACD buy")

	assert.Nil(t, gen.Generate("600519", closes[:4], asOf))
}

func TestSignalGeneratorUnknownFamily(t *testing.T) {
	gen := NewSignalGenerator("momentum", DefaultParameters())
	assert.Nil(t, gen.Generate("600519", []float64{1, 2, 3, 4, 5}, time.Now()))
}
