package backtest

import (
	"fmt"
	"time"

	"stock-analyse/internal/indicator"
	"stock-analyse/internal/model"
)

// Per-family confidence constants. Display-only, never used for sizing.
const (
	confidenceMACross   = 0.7
	confidenceMACDCross = 0.75
	confidenceRSI       = 0.6
)

// SignalGenerator turns indicator state into at most one signal per
// (symbol, date). Dispatch is on the declared strategy family.
type SignalGenerator struct {
	family model.StrategyFamily
	params IndicatorParameters
}

func NewSignalGenerator(family model.StrategyFamily, params IndicatorParameters) *SignalGenerator {
	return &SignalGenerator{family: family, params: params}
}

// Generate evaluates the strategy against the close-price history truncated
// to the current simulation date. Insufficient history is "no signal today",
// never an error.
func (g *SignalGenerator) Generate(symbol string, closes []float64, asOf time.Time) *Signal {
	switch g.family {
	case model.StrategyFamilyMACross:
		return g.maSignal(symbol, closes, asOf)
	case model.StrategyFamilyMACDCross:
		return g.macdSignal(symbol, closes, asOf)
	case model.StrategyFamilyRSI:
		return g.rsiSignal(symbol, closes, asOf)
	default:
		return nil
	}
}

func (g *SignalGenerator) maSignal(symbol string, closes []float64, asOf time.Time) *Signal {
	if len(closes) < g.params.LongPeriod+1 {
		return nil
	}

	shortMA := indicator.SMA(closes, g.params.ShortPeriod)
	longMA := indicator.SMA(closes, g.params.LongPeriod)

	golden, death := indicator.DetectCrossover(shortMA, longMA)
	if !golden && !death {
		return nil
	}

	sig := &Signal{
		Symbol:      symbol,
		Price:       closes[len(closes)-1],
		Confidence:  confidenceMACross,
		GeneratedAt: asOf,
	}
	if golden {
		sig.Type = model.SignalTypeBuy
		sig.Reason = fmt.Sprintf("MA%d golden cross above MA%d", g.params.ShortPeriod, g.params.LongPeriod)
	} else {
		sig.Type = model.SignalTypeSell
		sig.Reason = fmt.Sprintf("MA%d death cross below MA%d", g.params.ShortPeriod, g.params.LongPeriod)
	}
	return sig
}

func (g *SignalGenerator) macdSignal(symbol string, closes []float64, asOf time.Time) *Signal {
	macd := indicator.MACD(closes, g.params.FastPeriod, g.params.SlowPeriod, g.params.SignalPeriod)
	if len(macd) < 2 {
		return nil
	}

	prev := macd[len(macd)-2]
	curr := macd[len(macd)-1]

	crossedUp := prev.Histogram <= 0 && curr.Histogram > 0
	crossedDown := prev.Histogram >= 0 && curr.Histogram < 0
	if !crossedUp && !crossedDown {
		return nil
	}

	sig := &Signal{
		Symbol:      symbol,
		Price:       closes[len(closes)-1],
		Confidence:  confidenceMACDCross,
		GeneratedAt: asOf,
	}
	if crossedUp {
		sig.Type = model.SignalTypeBuy
		sig.Reason = "MACD histogram crossed above zero"
	} else {
		sig.Type = model.SignalTypeSell
		sig.Reason = "MACD histogram crossed below zero"
	}
	return sig
}

func (g *SignalGenerator) rsiSignal(symbol string, closes []float64, asOf time.Time) *Signal {
	rsi := indicator.RSI(closes, g.params.RSIPeriod)
	if len(rsi) == 0 {
		return nil
	}

	current := rsi[len(rsi)-1]
	sig := &Signal{
		Symbol:      symbol,
		Price:       closes[len(closes)-1],
		Confidence:  confidenceRSI,
		GeneratedAt: asOf,
	}

	switch {
	case current <= g.params.OversoldThreshold:
		sig.Type = model.SignalTypeBuy
		sig.Reason = fmt.Sprintf("RSI oversold (%.2f)", current)
	case current >= g.params.OverboughtThreshold:
		sig.Type = model.SignalTypeSell
		sig.Reason = fmt.Sprintf("RSI overbought (%.2f)", current)
	default:
		return nil
	}
	return sig
}
