package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"stock-analyse/internal/model"
	"stock-analyse/pkg/logger"
	"stock-analyse/pkg/utils"
)

// RunConfig describes one backtest run.
type RunConfig struct {
	Symbols        []string
	Family         model.StrategyFamily
	Parameters     IndicatorParameters
	InitialCapital float64
	StartDate      time.Time
	EndDate        time.Time
}

func (c RunConfig) validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	if !c.Family.Valid() {
		return fmt.Errorf("unknown strategy family %q", c.Family)
	}
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial capital must be positive")
	}
	if !c.EndDate.After(c.StartDate) {
		return fmt.Errorf("end date must be after start date")
	}
	return c.Parameters.Validate()
}

// symbolSeries is the prefetched bar history of one symbol, indexed for
// O(1) bar-on-date lookups during the replay.
type symbolSeries struct {
	bars    []model.PriceBar
	closes  []float64
	byDate  map[time.Time]int
	lastIdx int
}

// Runner replays strategies against historical bars. One shared ledger in
// Run, one isolated ledger per symbol in RunBatch. Deterministic given the
// same bars and parameters.
type Runner struct {
	provider MarketDataProvider
	cfg      Config
	log      *logger.Logger
}

func NewRunner(provider MarketDataProvider, cfg Config, log *logger.Logger) *Runner {
	return &Runner{provider: provider, cfg: cfg, log: log}
}

// Run executes one backtest over a single shared ledger. Symbols whose bar
// fetch fails are skipped and reported; the run errors only when no symbol
// has any data.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	series, skipped := r.prefetch(ctx, cfg)
	if len(series) == 0 {
		return nil, fmt.Errorf("no market data available for any of the requested symbols")
	}

	symbols := make([]string, 0, len(series))
	for symbol := range series {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	generator := NewSignalGenerator(cfg.Family, cfg.Parameters)
	sim := NewSimulator(cfg.InitialCapital, r.cfg)

	start := utils.TruncateToDay(cfg.StartDate)
	end := utils.TruncateToDay(cfg.EndDate)
	date := start
	if utils.IsWeekend(date) {
		date = utils.NextTradingDay(date)
	}

	for !date.After(end) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		for _, symbol := range symbols {
			s := series[symbol]
			idx, ok := s.byDate[date]
			if !ok {
				continue
			}
			sig := generator.Generate(symbol, s.closes[:idx+1], date)
			if sig == nil {
				continue
			}
			if _, applied := sim.Apply(sig); !applied {
				r.log.DebugContext(ctx, "signal dropped by ledger",
					logger.StringField("symbol", symbol),
					logger.StringField("type", string(sig.Type)))
			}
		}

		date = utils.NextTradingDay(date)
	}

	lastPrices := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		s := series[symbol]
		lastPrices[symbol] = s.bars[s.lastIdx].Close
	}

	result := &Result{
		StartDate:      start,
		EndDate:        end,
		InitialCapital: cfg.InitialCapital,
		FinalCapital:   sim.MarkToMarket(lastPrices),
		Trades:         sim.Trades(),
		FinalPositions: sim.Positions(),
		SkippedSymbols: skipped,
	}
	result.CapitalCurve = BuildCapitalCurve(result.Trades, cfg.InitialCapital)
	Summarize(result)
	return result, nil
}

// RunBatch executes one isolated run per symbol, each seeded with the full
// initial capital, and appends the per-symbol summaries in the input order.
// Symbols with no data become entries in SkippedSymbols of a zero-trade
// summary rather than failing the batch.
func (r *Runner) RunBatch(ctx context.Context, cfg RunConfig) ([]StockSummary, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	summaries := make([]StockSummary, 0, len(cfg.Symbols))
	for _, symbol := range cfg.Symbols {
		select {
		case <-ctx.Done():
			return summaries, ctx.Err()
		default:
		}

		single := cfg
		single.Symbols = []string{symbol}
		result, err := r.Run(ctx, single)
		if err != nil {
			if ctx.Err() != nil {
				return summaries, ctx.Err()
			}
			r.log.WarnContext(ctx, "batch symbol skipped",
				logger.StringField("symbol", symbol),
				logger.ErrorField(err))
			summaries = append(summaries, StockSummary{
				Symbol: symbol,
				Result: Result{
					StartDate:      utils.TruncateToDay(cfg.StartDate),
					EndDate:        utils.TruncateToDay(cfg.EndDate),
					InitialCapital: cfg.InitialCapital,
					FinalCapital:   cfg.InitialCapital,
					SkippedSymbols: []string{symbol},
				},
			})
			continue
		}
		summaries = append(summaries, StockSummary{Symbol: symbol, Result: *result})
	}
	return summaries, nil
}

// prefetch loads the full bar history per symbol once, with a lookback
// buffer ahead of the start date so indicators have warm-up history on day
// one. Failed symbols are collected, not fatal.
func (r *Runner) prefetch(ctx context.Context, cfg RunConfig) (map[string]*symbolSeries, []string) {
	lookbackDays := cfg.Parameters.Lookback() * 2
	fetchStart := cfg.StartDate.AddDate(0, 0, -lookbackDays)

	series := make(map[string]*symbolSeries, len(cfg.Symbols))
	var skipped []string

	for _, symbol := range utils.UniqueStrings(cfg.Symbols) {
		bars, err := r.provider.GetDailyBars(ctx, symbol, fetchStart, cfg.EndDate)
		if err != nil || len(bars) == 0 {
			if err != nil {
				r.log.WarnContext(ctx, "failed to load bars",
					logger.StringField("symbol", symbol),
					logger.ErrorField(err))
			}
			skipped = append(skipped, symbol)
			continue
		}

		s := &symbolSeries{
			bars:    bars,
			closes:  make([]float64, len(bars)),
			byDate:  make(map[time.Time]int, len(bars)),
			lastIdx: len(bars) - 1,
		}
		for i, bar := range bars {
			s.closes[i] = bar.Close
			s.byDate[utils.TruncateToDay(bar.TradeDate)] = i
		}
		series[symbol] = s
	}
	return series, skipped
}
