package backtest

import (
	"math"
	"sort"

	"stock-analyse/internal/model"
	"stock-analyse/pkg/utils"
)

const annualRiskFreeRate = 0.03

// BuildCapitalCurve replays the trade log from initial capital and records
// one point per trade date (cash plus cost basis of open positions). Days
// without a trade produce no point.
func BuildCapitalCurve(trades []Trade, initialCapital float64) []CapitalPoint {
	if len(trades) == 0 {
		return nil
	}

	sorted := make([]Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExecutedAt.Before(sorted[j].ExecutedAt)
	})

	cash := initialCapital
	invested := 0.0
	curve := make([]CapitalPoint, 0, len(sorted))

	var lastDate *CapitalPoint
	for _, trade := range sorted {
		switch trade.Type {
		case model.TradeTypeBuy:
			cash -= trade.Amount + trade.Commission
			invested += trade.Amount
		case model.TradeTypeSell:
			cash += trade.Amount - trade.Commission
			invested -= trade.Amount
			if invested < 0 {
				invested = 0
			}
		}

		day := utils.TruncateToDay(trade.ExecutedAt)
		if lastDate != nil && lastDate.Date.Equal(day) {
			lastDate.Value = cash + invested
			continue
		}
		curve = append(curve, CapitalPoint{Date: day, Value: cash + invested})
		lastDate = &curve[len(curve)-1]
	}
	return curve
}

// TotalReturn is the simple return of final over initial capital.
func TotalReturn(initialCapital, finalCapital float64) float64 {
	if initialCapital <= 0 {
		return 0
	}
	return (finalCapital - initialCapital) / initialCapital
}

// AnnualizedReturn compounds the total return over the calendar span of the
// run using a 365.25-day year.
func AnnualizedReturn(initialCapital, finalCapital, days float64) float64 {
	if initialCapital <= 0 || finalCapital <= 0 || days <= 0 {
		return 0
	}
	return math.Pow(finalCapital/initialCapital, 365.25/days) - 1
}

// SharpeRatio computes the annualized Sharpe ratio from the daily returns of
// the capital curve, against a fixed 3% annual risk-free rate. Fewer than two
// curve points, or a flat curve, yields zero.
func SharpeRatio(curve []CapitalPoint) float64 {
	if len(curve) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Value
		if prev <= 0 {
			continue
		}
		returns = append(returns, (curve[i].Value-prev)/prev)
	}
	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(returns)))
	if stdDev == 0 {
		return 0
	}

	dailyRiskFree := annualRiskFreeRate / 365
	return (mean - dailyRiskFree) / stdDev * math.Sqrt(365)
}

// MaxDrawdown is the largest peak-to-trough decline of the capital curve,
// as a positive fraction of the peak.
func MaxDrawdown(curve []CapitalPoint) float64 {
	if len(curve) == 0 {
		return 0
	}

	peak := curve[0].Value
	maxDD := 0.0
	for _, point := range curve {
		if point.Value > peak {
			peak = point.Value
		}
		if peak > 0 {
			if dd := (peak - point.Value) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// WinStats counts a buy as winning when the next later sell of the same
// symbol closed at a higher price. Buys never paired with a sell count as
// losses. Returns (winning buys, total buys, win rate).
func WinStats(trades []Trade) (winning, total int, rate float64) {
	sorted := make([]Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExecutedAt.Before(sorted[j].ExecutedAt)
	})

	for i, trade := range sorted {
		if trade.Type != model.TradeTypeBuy {
			continue
		}
		total++
		for j := i + 1; j < len(sorted); j++ {
			next := sorted[j]
			if next.Symbol != trade.Symbol || next.Type != model.TradeTypeSell {
				continue
			}
			if next.Price > trade.Price {
				winning++
			}
			break
		}
	}

	if total > 0 {
		rate = float64(winning) / float64(total)
	}
	return winning, total, rate
}

// Summarize fills the metric fields of a Result from its trades, capital
// curve and final capital.
func Summarize(result *Result) {
	result.TotalTrades = len(result.Trades)
	result.TotalReturn = TotalReturn(result.InitialCapital, result.FinalCapital)
	days := utils.CalendarDays(result.StartDate, result.EndDate)
	result.AnnualizedReturn = AnnualizedReturn(result.InitialCapital, result.FinalCapital, days)
	result.SharpeRatio = SharpeRatio(result.CapitalCurve)
	result.MaxDrawdown = MaxDrawdown(result.CapitalCurve)
	result.WinningTrades, _, result.WinRate = WinStats(result.Trades)
}
