package backtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-analyse/internal/model"
)

func TestGenerateCombinations(t *testing.T) {
	cfg := OptimizationConfig{
		BaseParameters: DefaultParameters(),
		ShortPeriods:   ParameterRange{Min: 5, Max: 10, Step: 5},
		LongPeriods:    ParameterRange{Min: 20, Max: 30, Step: 10},
	}

	combos := GenerateCombinations(cfg)
	// shorts {5,10} x longs {20,30}, all satisfy short < long; unswept axes
	// pinned to the base parameters.
	require.Len(t, combos, 4)
	for _, params := range combos {
		assert.Less(t, params.ShortPeriod, params.LongPeriod)
		assert.Equal(t, 14, params.RSIPeriod)
		assert.Equal(t, 30.0, params.OversoldThreshold)
		assert.NoError(t, params.Validate())
	}
}

func TestGenerateCombinationsFiltersInvalid(t *testing.T) {
	cfg := OptimizationConfig{
		BaseParameters: DefaultParameters(),
		ShortPeriods:   ParameterRange{Min: 10, Max: 30, Step: 10},
		LongPeriods:    ParameterRange{Min: 20, Max: 30, Step: 10},
	}

	combos := GenerateCombinations(cfg)
	// {10,20}, {10,30}, {20,30} survive; short >= long cells are dropped.
	assert.Len(t, combos, 3)

	cfg.Oversold = ParameterRange{Min: 40, Max: 80, Step: 20}
	cfg.Overbought = ParameterRange{Min: 60, Max: 70, Step: 10}
	combos = GenerateCombinations(cfg)
	for _, params := range combos {
		assert.Less(t, params.OversoldThreshold, params.OverboughtThreshold)
	}
}

func TestOptimizerPicksBestByObjective(t *testing.T) {
	provider := &fakeProvider{bars: map[string][]model.PriceBar{
		"600519": barsFrom("600519", day(2025, 1, 6), vShape),
	}}
	runner := NewRunner(provider, DefaultConfig(), testLogger(t))
	opt := NewOptimizer(runner, testLogger(t))

	base := maRunConfig("600519")
	cfg := OptimizationConfig{
		Symbols:        base.Symbols,
		Family:         base.Family,
		BaseParameters: base.Parameters,
		ShortPeriods:   ParameterRange{Min: 2, Max: 4, Step: 1},
		LongPeriods:    ParameterRange{Min: 3, Max: 6, Step: 1},
		InitialCapital: base.InitialCapital,
		StartDate:      base.StartDate,
		EndDate:        base.EndDate,
		Objective:      ObjectiveTotalReturn,
		MaxConcurrency: 2,
	}

	var seen int
	outcome, err := opt.Optimize(context.Background(), cfg, func(TestedCombination) { seen++ })
	require.NoError(t, err)

	wantCombos := len(GenerateCombinations(cfg))
	assert.Equal(t, wantCombos, outcome.Tested)
	assert.Equal(t, wantCombos, seen)
	assert.Zero(t, outcome.Failed)
	assert.False(t, outcome.Partial)
	require.NotNil(t, outcome.BestResult)
	assert.InDelta(t, outcome.BestResult.TotalReturn, outcome.BestScore, 1e-9)
	assert.NoError(t, outcome.BestParameters.Validate())

	// No tested cell may beat the reported best.
	rerun, err := runner.Run(context.Background(), RunConfig{
		Symbols:        cfg.Symbols,
		Family:         cfg.Family,
		Parameters:     outcome.BestParameters,
		InitialCapital: cfg.InitialCapital,
		StartDate:      cfg.StartDate,
		EndDate:        cfg.EndDate,
	})
	require.NoError(t, err)
	assert.InDelta(t, outcome.BestScore, rerun.TotalReturn, 1e-9)
}

func TestOptimizerObjectiveScores(t *testing.T) {
	result := &Result{
		TotalReturn: 0.2,
		SharpeRatio: 1.5,
		MaxDrawdown: 0.1,
		WinRate:     0.6,
	}

	assert.Equal(t, 0.2, ObjectiveTotalReturn.score(result))
	assert.Equal(t, 1.5, ObjectiveSharpeRatio.score(result))
	assert.Equal(t, -0.1, ObjectiveMaxDrawdown.score(result))
	assert.Equal(t, 0.6, ObjectiveWinRate.score(result))

	assert.True(t, ObjectiveSharpeRatio.Valid())
	assert.False(t, Objective("alpha").Valid())
}

func TestOptimizerToleratesCombinationFailures(t *testing.T) {
	provider := &fakeProvider{bars: map[string][]model.PriceBar{
		"600519": barsFrom("600519", day(2025, 1, 6), vShape),
	}}
	runner := NewRunner(provider, DefaultConfig(), testLogger(t))
	opt := NewOptimizer(runner, testLogger(t))

	// The rsi axis sweeps into a degenerate zero period which fails
	// per-combination validation inside the runner.
	base := maRunConfig("600519")
	cfg := OptimizationConfig{
		Symbols:        base.Symbols,
		Family:         base.Family,
		BaseParameters: base.Parameters,
		RSIPeriods:     ParameterRange{Min: 0, Max: 14, Step: 14},
		InitialCapital: base.InitialCapital,
		StartDate:      base.StartDate,
		EndDate:        base.EndDate,
		Objective:      ObjectiveTotalReturn,
	}
	// Pin the MA axes to the valid short/long from the base run config.
	cfg.BaseParameters.ShortPeriod = 2
	cfg.BaseParameters.LongPeriod = 3

	outcome, err := opt.Optimize(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Tested)
	assert.Equal(t, 1, outcome.Failed)
	require.NotNil(t, outcome.BestResult)
	assert.Equal(t, 14, outcome.BestParameters.RSIPeriod)
}

func TestOptimizerRejectsBadConfig(t *testing.T) {
	runner := NewRunner(&fakeProvider{}, DefaultConfig(), testLogger(t))
	opt := NewOptimizer(runner, testLogger(t))

	_, err := opt.Optimize(context.Background(), OptimizationConfig{Objective: "alpha"}, nil)
	assert.Error(t, err)

	// short >= long everywhere leaves an empty grid.
	cfg := OptimizationConfig{
		BaseParameters: DefaultParameters(),
		ShortPeriods:   ParameterRange{Min: 30, Max: 30, Step: 1},
		LongPeriods:    ParameterRange{Min: 20, Max: 20, Step: 1},
		Objective:      ObjectiveTotalReturn,
	}
	_, err = opt.Optimize(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestOptimizerPartialOutcomeOnCancel(t *testing.T) {
	provider := &fakeProvider{bars: map[string][]model.PriceBar{
		"600519": barsFrom("600519", day(2025, 1, 6), vShape),
	}}
	runner := NewRunner(provider, DefaultConfig(), testLogger(t))
	opt := NewOptimizer(runner, testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	base := maRunConfig("600519")
	cfg := OptimizationConfig{
		Symbols:        base.Symbols,
		Family:         base.Family,
		BaseParameters: base.Parameters,
		ShortPeriods:   ParameterRange{Min: 2, Max: 4, Step: 1},
		LongPeriods:    ParameterRange{Min: 5, Max: 10, Step: 1},
		InitialCapital: base.InitialCapital,
		StartDate:      base.StartDate,
		EndDate:        base.EndDate,
		Objective:      ObjectiveSharpeRatio,
	}

	outcome, err := opt.Optimize(ctx, cfg, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, outcome)
	assert.True(t, outcome.Partial)
}

// Guards against silently widening the grid: a degenerate range produces
// exactly its bounds.
func TestParameterRangeValues(t *testing.T) {
	assert.Equal(t, []int{5, 10, 15}, ParameterRange{Min: 5, Max: 15, Step: 5}.values())
	assert.Equal(t, []int{5}, ParameterRange{Min: 5, Max: 5, Step: 5}.values())
	assert.Equal(t, []int{7}, ParameterRange{Min: 7, Max: 3, Step: 1}.values())
	assert.Equal(t, []int{7}, ParameterRange{Min: 7, Max: 9, Step: 0}.values())
}

