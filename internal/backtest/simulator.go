package backtest

import (
	"math"

	"stock-analyse/internal/model"
	"stock-analyse/pkg/common"
)

// positionFraction is the share of available cash committed per buy signal.
const positionFraction = 0.1

// Simulator is the cash/position ledger of one backtest run. It consumes
// signals in ascending date order (a hard precondition for the same symbol)
// and keeps two invariants at all times: cash >= 0 and every position >= 0.
// Not safe for concurrent use; every run owns its own instance.
type Simulator struct {
	cfg       Config
	cash      float64
	positions map[string]float64
	trades    []Trade
}

func NewSimulator(initialCapital float64, cfg Config) *Simulator {
	return &Simulator{
		cfg:       cfg,
		cash:      initialCapital,
		positions: make(map[string]float64),
	}
}

// Apply executes a signal against the ledger. A signal the ledger cannot
// honor (zero quantity, insufficient cash, nothing held to sell) is dropped:
// no trade, no state change, ok=false.
func (s *Simulator) Apply(sig *Signal) (*Trade, bool) {
	if sig == nil || sig.Price <= 0 {
		return nil, false
	}

	switch sig.Type {
	case model.SignalTypeBuy:
		return s.buy(sig)
	case model.SignalTypeSell:
		return s.sell(sig)
	default:
		return nil, false
	}
}

func (s *Simulator) buy(sig *Signal) (*Trade, bool) {
	quantity := s.tradeQuantity(sig.Price)
	if quantity <= 0 {
		return nil, false
	}

	amount := quantity * sig.Price
	commission := s.buyCommission(amount)
	if s.cash < amount+commission {
		return nil, false
	}

	s.cash -= amount + commission
	s.positions[sig.Symbol] += quantity

	trade := Trade{
		Symbol:     sig.Symbol,
		Type:       model.TradeTypeBuy,
		Quantity:   quantity,
		Price:      sig.Price,
		Commission: commission,
		Amount:     amount,
		ExecutedAt: sig.GeneratedAt,
	}
	s.trades = append(s.trades, trade)
	return &trade, true
}

func (s *Simulator) sell(sig *Signal) (*Trade, bool) {
	held := s.positions[sig.Symbol]
	if held <= 0 {
		return nil, false
	}

	quantity := math.Min(s.tradeQuantity(sig.Price), held)
	if quantity <= 0 {
		return nil, false
	}

	amount := quantity * sig.Price
	// Sell side applies the bare rate with no floor. The asymmetry against
	// the buy side is inherited from the reference brokerage model and is
	// preserved as-is.
	commission := amount * s.cfg.CommissionRate

	s.cash += amount - commission
	s.positions[sig.Symbol] = held - quantity

	trade := Trade{
		Symbol:     sig.Symbol,
		Type:       model.TradeTypeSell,
		Quantity:   quantity,
		Price:      sig.Price,
		Commission: commission,
		Amount:     amount,
		ExecutedAt: sig.GeneratedAt,
	}
	s.trades = append(s.trades, trade)
	return &trade, true
}

// tradeQuantity sizes a trade at positionFraction of available cash, rounded
// down to whole lots of 100 shares.
func (s *Simulator) tradeQuantity(price float64) float64 {
	if price <= 0 {
		return 0
	}
	lots := math.Floor(s.cash * positionFraction / price / common.LotSize)
	return math.Max(0, lots*common.LotSize)
}

func (s *Simulator) buyCommission(amount float64) float64 {
	return math.Max(s.cfg.MinCommission, amount*s.cfg.CommissionRate)
}

func (s *Simulator) Cash() float64 {
	return s.cash
}

// Position returns the quantity currently held for symbol.
func (s *Simulator) Position(symbol string) float64 {
	return s.positions[symbol]
}

// Positions returns a copy of all non-zero holdings.
func (s *Simulator) Positions() map[string]float64 {
	out := make(map[string]float64, len(s.positions))
	for symbol, qty := range s.positions {
		if qty > 0 {
			out[symbol] = qty
		}
	}
	return out
}

func (s *Simulator) Trades() []Trade {
	return s.trades
}

// MarkToMarket values open positions at the supplied last prices and returns
// final capital. Reporting only; no sell trades are recorded.
func (s *Simulator) MarkToMarket(lastPrices map[string]float64) float64 {
	final := s.cash
	for symbol, qty := range s.positions {
		if qty > 0 {
			final += qty * lastPrices[symbol]
		}
	}
	return final
}
