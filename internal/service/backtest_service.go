package service

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"stock-analyse/config"
	"stock-analyse/internal/backtest"
	"stock-analyse/internal/dto"
	"stock-analyse/internal/model"
	"stock-analyse/internal/repository"
	"stock-analyse/pkg/logger"
)

type BacktestService interface {
	RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResponse, error)
	RunBatchBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BatchBacktestResponse, error)
	GetResults(ctx context.Context, param dto.GetBacktestResultsParam) ([]model.BacktestResult, error)
	GetResultByID(ctx context.Context, id uint) (*model.BacktestResult, error)
	DeleteResult(ctx context.Context, id uint) error
}

type backtestService struct {
	cfg           *config.Config
	log           *logger.Logger
	runner        *backtest.Runner
	strategyRepo  repository.StrategyRepository
	resultRepo    repository.BacktestResultRepository
	watchlistRepo repository.WatchlistRepository
}

func NewBacktestService(
	cfg *config.Config,
	log *logger.Logger,
	runner *backtest.Runner,
	strategyRepo repository.StrategyRepository,
	resultRepo repository.BacktestResultRepository,
	watchlistRepo repository.WatchlistRepository,
) BacktestService {
	return &backtestService{
		cfg:           cfg,
		log:           log,
		runner:        runner,
		strategyRepo:  strategyRepo,
		resultRepo:    resultRepo,
		watchlistRepo: watchlistRepo,
	}
}

// runConfig resolves the request against the stored strategy: the strategy
// supplies the family and parameters, the request may override capital.
func (s *backtestService) runConfig(ctx context.Context, req dto.BacktestRequest) (backtest.RunConfig, *model.Strategy, error) {
	strategy, err := s.strategyRepo.GetByID(ctx, req.StrategyID)
	if err != nil {
		return backtest.RunConfig{}, nil, err
	}

	var params backtest.IndicatorParameters
	if err := json.Unmarshal(strategy.Parameters, &params); err != nil {
		return backtest.RunConfig{}, nil, fmt.Errorf("strategy %d has malformed parameters: %w", strategy.ID, err)
	}

	initialCapital := req.InitialCapital
	if initialCapital <= 0 {
		initialCapital = strategy.InitialCapital
	}

	symbols := req.Symbols
	if len(symbols) == 0 {
		stocks, err := s.watchlistRepo.GetStocks(ctx, nil)
		if err != nil {
			return backtest.RunConfig{}, nil, err
		}
		if len(stocks) == 0 {
			return backtest.RunConfig{}, nil, fmt.Errorf("no symbols given and watchlist is empty")
		}
		for _, stock := range stocks {
			symbols = append(symbols, stock.Symbol)
		}
	}

	return backtest.RunConfig{
		Symbols:        symbols,
		Family:         strategy.Family,
		Parameters:     params,
		InitialCapital: initialCapital,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	}, strategy, nil
}

func (s *backtestService) RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResponse, error) {
	runCfg, strategy, err := s.runConfig(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cfg.Backtest.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Backtest.Timeout)
		defer cancel()
	}

	result, err := s.runner.Run(ctx, runCfg)
	if err != nil {
		s.log.ErrorContext(ctx, "backtest run failed",
			logger.IntField("strategy_id", int(strategy.ID)),
			logger.ErrorField(err))
		return nil, err
	}

	record, err := s.persistResult(ctx, strategy.ID, result)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "backtest completed",
		logger.IntField("strategy_id", int(strategy.ID)),
		logger.IntField("total_trades", result.TotalTrades),
		logger.Field("total_return", result.TotalReturn))

	return &dto.BacktestResponse{ID: record.ID, Result: result}, nil
}

// RunBatchBacktest runs every symbol against its own isolated ledger and
// returns the per-symbol summaries without persisting them.
func (s *backtestService) RunBatchBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BatchBacktestResponse, error) {
	runCfg, _, err := s.runConfig(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cfg.Backtest.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Backtest.Timeout)
		defer cancel()
	}

	summaries, err := s.runner.RunBatch(ctx, runCfg)
	if err != nil {
		return nil, err
	}

	resp := &dto.BatchBacktestResponse{Summaries: summaries}
	for _, summary := range summaries {
		resp.AverageReturn += summary.TotalReturn
		if summary.TotalReturn > 0 {
			resp.ProfitableCount++
		}
	}
	if len(summaries) > 0 {
		resp.AverageReturn /= float64(len(summaries))
		best, worst := summaries[0], summaries[0]
		for _, summary := range summaries[1:] {
			if summary.TotalReturn > best.TotalReturn {
				best = summary
			}
			if summary.TotalReturn < worst.TotalReturn {
				worst = summary
			}
		}
		resp.BestPerformer = best.Symbol
		resp.WorstPerformer = worst.Symbol
	}
	return resp, nil
}

func (s *backtestService) persistResult(ctx context.Context, strategyID uint, result *backtest.Result) (*model.BacktestResult, error) {
	detailed, err := json.Marshal(map[string]interface{}{
		"trades":          result.Trades,
		"capital_curve":   result.CapitalCurve,
		"final_positions": result.FinalPositions,
		"skipped_symbols": result.SkippedSymbols,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize detailed results: %w", err)
	}

	record := &model.BacktestResult{
		StrategyID:       strategyID,
		StartDate:        result.StartDate,
		EndDate:          result.EndDate,
		InitialCapital:   result.InitialCapital,
		FinalCapital:     result.FinalCapital,
		TotalReturn:      result.TotalReturn,
		AnnualizedReturn: result.AnnualizedReturn,
		SharpeRatio:      result.SharpeRatio,
		MaxDrawdown:      result.MaxDrawdown,
		TotalTrades:      result.TotalTrades,
		WinningTrades:    result.WinningTrades,
		WinRate:          result.WinRate,
		DetailedResults:  datatypes.JSON(detailed),
	}
	if err := s.resultRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *backtestService) GetResults(ctx context.Context, param dto.GetBacktestResultsParam) ([]model.BacktestResult, error) {
	return s.resultRepo.Get(ctx, param)
}

func (s *backtestService) GetResultByID(ctx context.Context, id uint) (*model.BacktestResult, error) {
	return s.resultRepo.GetByID(ctx, id)
}

func (s *backtestService) DeleteResult(ctx context.Context, id uint) error {
	return s.resultRepo.Delete(ctx, id)
}
