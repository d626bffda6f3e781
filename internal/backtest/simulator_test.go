package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-analyse/internal/model"
)

func testSignal(symbol string, sigType model.SignalType, price float64) *Signal {
	return &Signal{
		Symbol:      symbol,
		Type:        sigType,
		Price:       price,
		GeneratedAt: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
	}
}

func TestSimulatorBuy(t *testing.T) {
	tests := []struct {
		name           string
		initialCapital float64
		price          float64
		wantQuantity   float64
		wantCommission float64
		wantApplied    bool
	}{
		{
			name:           "ten percent of cash rounded down to whole lots",
			initialCapital: 100000,
			price:          12.5,
			// 10000 / 12.5 = 800 shares, exactly 8 lots.
			wantQuantity:   800,
			wantCommission: 5, // 800*12.5*0.0003 = 3, floored to 5
			wantApplied:    true,
		},
		{
			name:           "partial lot rounds down",
			initialCapital: 100000,
			price:          34,
			// 10000 / 34 = 294.1 shares -> 2 lots.
			wantQuantity:   200,
			wantCommission: 5,
			wantApplied:    true,
		},
		{
			name:           "commission above the floor",
			initialCapital: 10000000,
			price:          10,
			// 1000000 / 10 = 100000 shares; 0.0003 * 1000000 = 300.
			wantQuantity:   100000,
			wantCommission: 300,
			wantApplied:    true,
		},
		{
			name:           "price too high for a single lot",
			initialCapital: 100000,
			price:          150,
			wantApplied:    false,
		},
		{
			name:           "zero price dropped",
			initialCapital: 100000,
			price:          0,
			wantApplied:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := NewSimulator(tt.initialCapital, DefaultConfig())
			trade, applied := sim.Apply(testSignal("600519", model.SignalTypeBuy, tt.price))

			assert.Equal(t, tt.wantApplied, applied)
			if !tt.wantApplied {
				assert.Nil(t, trade)
				assert.Equal(t, tt.initialCapital, sim.Cash())
				assert.Empty(t, sim.Trades())
				return
			}

			require.NotNil(t, trade)
			assert.Equal(t, tt.wantQuantity, trade.Quantity)
			assert.InDelta(t, tt.wantCommission, trade.Commission, 1e-9)
			assert.Equal(t, tt.wantQuantity, sim.Position("600519"))

			wantCash := tt.initialCapital - tt.wantQuantity*tt.price - tt.wantCommission
			assert.InDelta(t, wantCash, sim.Cash(), 1e-9)
		})
	}
}

func TestSimulatorSell(t *testing.T) {
	t.Run("sell without position is dropped", func(t *testing.T) {
		sim := NewSimulator(100000, DefaultConfig())
		trade, applied := sim.Apply(testSignal("600519", model.SignalTypeSell, 20))
		assert.False(t, applied)
		assert.Nil(t, trade)
		assert.Equal(t, 100000.0, sim.Cash())
	})

	t.Run("sell quantity capped at holdings", func(t *testing.T) {
		sim := NewSimulator(100000, DefaultConfig())
		_, applied := sim.Apply(testSignal("600519", model.SignalTypeBuy, 12.5))
		require.True(t, applied)
		require.Equal(t, 800.0, sim.Position("600519"))

		// At a very low price 10% of cash would size far above the 800
		// shares held; the ledger must cap at what it holds.
		trade, applied := sim.Apply(testSignal("600519", model.SignalTypeSell, 1))
		require.True(t, applied)
		assert.Equal(t, 800.0, trade.Quantity)
		assert.Equal(t, 0.0, sim.Position("600519"))
	})

	t.Run("sell commission has no minimum", func(t *testing.T) {
		sim := NewSimulator(100000, DefaultConfig())
		_, applied := sim.Apply(testSignal("600519", model.SignalTypeBuy, 12.5))
		require.True(t, applied)

		cashBefore := sim.Cash()
		trade, applied := sim.Apply(testSignal("600519", model.SignalTypeSell, 13))
		require.True(t, applied)

		// 10% of remaining cash / 13 rounds down to lots; commission is the
		// bare 0.03% with no 5 floor.
		wantCommission := trade.Amount * 0.0003
		assert.InDelta(t, wantCommission, trade.Commission, 1e-9)
		assert.Less(t, trade.Commission, 5.0)
		assert.InDelta(t, cashBefore+trade.Amount-trade.Commission, sim.Cash(), 1e-9)
	})
}

func TestSimulatorNeverOverdraws(t *testing.T) {
	sim := NewSimulator(2000, DefaultConfig())

	// 10% of 2000 is 200, below one lot at price 10, so nothing executes.
	_, applied := sim.Apply(testSignal("000001", model.SignalTypeBuy, 10))
	assert.False(t, applied)
	assert.Equal(t, 2000.0, sim.Cash())

	// Cheap enough for one lot: 100 * 1 = 100 plus the 5 floor.
	trade, applied := sim.Apply(testSignal("000001", model.SignalTypeBuy, 1))
	require.True(t, applied)
	assert.Equal(t, 100.0, trade.Quantity)
	assert.InDelta(t, 1895.0, sim.Cash(), 1e-9)
	assert.GreaterOrEqual(t, sim.Cash(), 0.0)
}

func TestSimulatorMarkToMarket(t *testing.T) {
	sim := NewSimulator(100000, DefaultConfig())
	_, applied := sim.Apply(testSignal("600519", model.SignalTypeBuy, 12.5))
	require.True(t, applied)

	final := sim.MarkToMarket(map[string]float64{"600519": 15})
	// Cash after the buy plus 800 shares at 15.
	assert.InDelta(t, sim.Cash()+800*15, final, 1e-9)

	// Valuation only: no trade is appended.
	assert.Len(t, sim.Trades(), 1)
	assert.Equal(t, 800.0, sim.Position("600519"))
}
