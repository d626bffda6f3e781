// Package indicator implements technical indicators as pure functions over an
// ordered, date-ascending price series. There is exactly one implementation of
// each indicator: live signal generation and historical backtesting both go
// through this package, so values never diverge between the two paths.
package indicator

import "math"

// MACDValue is one point of the MACD line, its signal line and the histogram.
type MACDValue struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// BollingerBand is one point of the Bollinger channel.
type BollingerBand struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// SMA returns the simple moving average series of the trailing `period`
// values. The result has len(prices)-period+1 entries; result[i] covers
// prices[i..i+period-1]. Returns nil when there is not enough history.
func SMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return nil
	}

	result := make([]float64, 0, len(prices)-period+1)
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			result = append(result, sum/float64(period))
		}
	}
	return result
}

// EMA returns the exponential moving average series. The first value is
// seeded with the SMA of the first `period` prices; every call site shares
// this seeding so repeated runs over the same data are identical.
func EMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return nil
	}

	multiplier := 2.0 / float64(period+1)

	seed := 0.0
	for _, p := range prices[:period] {
		seed += p
	}
	seed /= float64(period)

	result := make([]float64, 0, len(prices)-period+1)
	result = append(result, seed)
	prev := seed
	for i := period; i < len(prices); i++ {
		prev = prices[i]*multiplier + prev*(1-multiplier)
		result = append(result, prev)
	}
	return result
}

// MACD computes the MACD line (fast EMA minus slow EMA), its signal line
// (EMA of the MACD line) and the histogram. Requires
// len(prices) >= max(slow, signal)+2; returns nil otherwise. The returned
// series is aligned to the dates where all three values exist.
func MACD(prices []float64, fast, slow, signal int) []MACDValue {
	if fast <= 0 || slow <= 0 || signal <= 0 || fast >= slow {
		return nil
	}
	min := slow
	if signal > min {
		min = signal
	}
	if len(prices) < min+2 {
		return nil
	}

	fastEMA := EMA(prices, fast)
	slowEMA := EMA(prices, slow)
	if len(fastEMA) == 0 || len(slowEMA) == 0 {
		return nil
	}

	// Both EMA series end at the last price; align them from the tail.
	n := len(slowEMA)
	macdLine := make([]float64, n)
	offset := len(fastEMA) - n
	for i := 0; i < n; i++ {
		macdLine[i] = fastEMA[i+offset] - slowEMA[i]
	}

	signalLine := EMA(macdLine, signal)
	if len(signalLine) == 0 {
		return nil
	}

	result := make([]MACDValue, len(signalLine))
	macdOffset := len(macdLine) - len(signalLine)
	for i := range signalLine {
		m := macdLine[i+macdOffset]
		result[i] = MACDValue{
			MACD:      m,
			Signal:    signalLine[i],
			Histogram: m - signalLine[i],
		}
	}
	return result
}

// RSI computes the relative strength index using Wilder's smoothing: the
// first average gain/loss is the arithmetic mean over the first `period`
// deltas, subsequent averages are (avg*(period-1)+value)/period. RSI is 100
// when the average loss is zero.
func RSI(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period+1 {
		return nil
	}

	gains := make([]float64, 0, len(prices)-1)
	losses := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains = append(gains, change)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -change)
		}
	}

	var avgGain, avgLoss float64
	for i := 0; i < period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	result := make([]float64, 0, len(gains)-period+1)
	for i := period - 1; i < len(gains); i++ {
		if i > period-1 {
			avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
			avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)
		}

		if avgLoss == 0 {
			result = append(result, 100)
			continue
		}
		rs := avgGain / avgLoss
		result = append(result, 100-100/(1+rs))
	}
	return result
}

// BollingerBands returns the Bollinger channel: middle is the SMA, the bands
// sit stdDevMultiplier population standard deviations away from it.
func BollingerBands(prices []float64, period int, stdDevMultiplier float64) []BollingerBand {
	middle := SMA(prices, period)
	if middle == nil {
		return nil
	}

	result := make([]BollingerBand, len(middle))
	for i := range middle {
		window := prices[i : i+period]
		variance := 0.0
		for _, p := range window {
			d := p - middle[i]
			variance += d * d
		}
		variance /= float64(period)
		band := stdDevMultiplier * math.Sqrt(variance)

		result[i] = BollingerBand{
			Upper:  middle[i] + band,
			Middle: middle[i],
			Lower:  middle[i] - band,
		}
	}
	return result
}

// DetectCrossover inspects the two most recent values of each series and
// reports a golden cross (short crossed above long) or a death cross (short
// crossed below long). At most one of the two can be true.
func DetectCrossover(shortMA, longMA []float64) (goldenCross, deathCross bool) {
	if len(shortMA) < 2 || len(longMA) < 2 {
		return false, false
	}

	prevShort := shortMA[len(shortMA)-2]
	currShort := shortMA[len(shortMA)-1]
	prevLong := longMA[len(longMA)-2]
	currLong := longMA[len(longMA)-1]

	goldenCross = prevShort <= prevLong && currShort > currLong
	deathCross = prevShort >= prevLong && currShort < currLong
	return goldenCross, deathCross
}
