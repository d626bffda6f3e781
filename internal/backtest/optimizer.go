package backtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"stock-analyse/internal/model"
	"stock-analyse/pkg/logger"
)

// Objective selects the metric a grid search maximizes.
type Objective string

const (
	ObjectiveTotalReturn Objective = "total_return"
	ObjectiveSharpeRatio Objective = "sharpe_ratio"
	ObjectiveMaxDrawdown Objective = "max_drawdown"
	ObjectiveWinRate     Objective = "win_rate"
)

func (o Objective) Valid() bool {
	switch o {
	case ObjectiveTotalReturn, ObjectiveSharpeRatio, ObjectiveMaxDrawdown, ObjectiveWinRate:
		return true
	}
	return false
}

// score maps a result onto the objective axis, higher is better. Drawdown is
// negated so that minimizing it stays a maximization problem.
func (o Objective) score(result *Result) float64 {
	switch o {
	case ObjectiveSharpeRatio:
		return result.SharpeRatio
	case ObjectiveMaxDrawdown:
		return -result.MaxDrawdown
	case ObjectiveWinRate:
		return result.WinRate
	default:
		return result.TotalReturn
	}
}

// ParameterRange is one inclusive integer sweep axis.
type ParameterRange struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Step int `json:"step"`
}

func (r ParameterRange) values() []int {
	if r.Step <= 0 || r.Max < r.Min {
		return []int{r.Min}
	}
	var out []int
	for v := r.Min; v <= r.Max; v += r.Step {
		out = append(out, v)
	}
	return out
}

// OptimizationConfig describes one grid search. Axes left at their zero
// value are pinned to the corresponding BaseParameters field.
type OptimizationConfig struct {
	Symbols        []string             `json:"symbols"`
	Family         model.StrategyFamily `json:"family"`
	BaseParameters IndicatorParameters  `json:"base_parameters"`
	ShortPeriods   ParameterRange       `json:"short_periods"`
	LongPeriods    ParameterRange       `json:"long_periods"`
	RSIPeriods     ParameterRange       `json:"rsi_periods"`
	Oversold       ParameterRange       `json:"oversold"`
	Overbought     ParameterRange       `json:"overbought"`
	InitialCapital float64              `json:"initial_capital"`
	StartDate      time.Time            `json:"start_date"`
	EndDate        time.Time            `json:"end_date"`
	Objective      Objective            `json:"objective"`
	MaxConcurrency int                  `json:"max_concurrency"`
}

// TestedCombination is the outcome of one grid cell.
type TestedCombination struct {
	Parameters IndicatorParameters `json:"parameters"`
	Score      float64             `json:"score"`
	Result     *Result             `json:"result,omitempty"`
	Err        string              `json:"error,omitempty"`
}

// Outcome aggregates a finished (or cancelled) grid search.
type Outcome struct {
	BestParameters IndicatorParameters `json:"best_parameters"`
	BestScore      float64             `json:"best_score"`
	BestResult     *Result             `json:"best_result"`
	Tested         int                 `json:"tested"`
	Failed         int                 `json:"failed"`
	Duration       time.Duration       `json:"duration"`
	Partial        bool                `json:"partial"`
}

// Optimizer brute-forces parameter grids over the shared-ledger runner with
// bounded concurrency.
type Optimizer struct {
	runner *Runner
	log    *logger.Logger
}

func NewOptimizer(runner *Runner, log *logger.Logger) *Optimizer {
	return &Optimizer{runner: runner, log: log}
}

// GenerateCombinations expands the configured axes into concrete parameter
// bundles, dropping structurally invalid cells (short >= long, oversold >=
// overbought). Unswept fields come from BaseParameters.
func GenerateCombinations(cfg OptimizationConfig) []IndicatorParameters {
	base := cfg.BaseParameters

	shorts := rangeOrFixed(cfg.ShortPeriods, base.ShortPeriod)
	longs := rangeOrFixed(cfg.LongPeriods, base.LongPeriod)
	rsis := rangeOrFixed(cfg.RSIPeriods, base.RSIPeriod)
	oversolds := rangeOrFixed(cfg.Oversold, int(base.OversoldThreshold))
	overboughts := rangeOrFixed(cfg.Overbought, int(base.OverboughtThreshold))

	var combos []IndicatorParameters
	for _, short := range shorts {
		for _, long := range longs {
			if short >= long {
				continue
			}
			for _, rsi := range rsis {
				for _, oversold := range oversolds {
					for _, overbought := range overboughts {
						if oversold >= overbought {
							continue
						}
						params := base
						params.ShortPeriod = short
						params.LongPeriod = long
						params.RSIPeriod = rsi
						params.OversoldThreshold = float64(oversold)
						params.OverboughtThreshold = float64(overbought)
						combos = append(combos, params)
					}
				}
			}
		}
	}
	return combos
}

func rangeOrFixed(r ParameterRange, fixed int) []int {
	if r.Min == 0 && r.Max == 0 {
		return []int{fixed}
	}
	return r.values()
}

// Optimize runs the full grid. Each combination failure is tolerated and
// counted; onResult, when non-nil, is invoked under a lock for every
// finished cell so callers can persist incrementally. On context
// cancellation the outcome over the cells finished so far is returned with
// Partial set, alongside the context error.
func (o *Optimizer) Optimize(ctx context.Context, cfg OptimizationConfig, onResult func(TestedCombination)) (*Outcome, error) {
	if !cfg.Objective.Valid() {
		return nil, fmt.Errorf("unknown optimization objective %q", cfg.Objective)
	}
	combos := GenerateCombinations(cfg)
	if len(combos) == 0 {
		return nil, fmt.Errorf("parameter ranges produce no valid combinations")
	}

	concurrency := cfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	started := time.Now()
	outcome := &Outcome{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, params := range combos {
		params := params
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			result, err := o.runner.Run(gctx, RunConfig{
				Symbols:        cfg.Symbols,
				Family:         cfg.Family,
				Parameters:     params,
				InitialCapital: cfg.InitialCapital,
				StartDate:      cfg.StartDate,
				EndDate:        cfg.EndDate,
			})

			tested := TestedCombination{Parameters: params}
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				tested.Err = err.Error()
			} else {
				tested.Score = cfg.Objective.score(result)
				tested.Result = result
			}

			mu.Lock()
			defer mu.Unlock()
			outcome.Tested++
			if tested.Err != "" {
				outcome.Failed++
			} else if outcome.BestResult == nil || tested.Score > outcome.BestScore {
				outcome.BestScore = tested.Score
				outcome.BestParameters = params
				outcome.BestResult = result
			}
			if onResult != nil {
				onResult(tested)
			}
			return nil
		})
	}

	waitErr := g.Wait()
	outcome.Duration = time.Since(started)

	if ctx.Err() != nil {
		outcome.Partial = true
		o.log.WarnContext(ctx, "optimization cancelled",
			logger.IntField("tested", outcome.Tested),
			logger.IntField("total", len(combos)))
		return outcome, ctx.Err()
	}
	if waitErr != nil {
		return outcome, waitErr
	}
	if outcome.BestResult == nil {
		return outcome, fmt.Errorf("all %d parameter combinations failed", outcome.Tested)
	}
	return outcome, nil
}
