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
	"stock-analyse/pkg/utils"
)

type OptimizationService interface {
	Optimize(ctx context.Context, req dto.OptimizationRequest) (*dto.OptimizationResponse, error)
	BatchOptimize(ctx context.Context, req dto.BatchOptimizationRequest) (*dto.BatchOptimizationResponse, error)
	ApplyOptimalParameters(ctx context.Context, req dto.ApplyOptimizationRequest) (*model.Strategy, error)
	History(ctx context.Context, param dto.GetOptimizationsParam) ([]model.OptimizationResult, error)
	GetByID(ctx context.Context, id uint) (*model.OptimizationResult, error)
}

type optimizationService struct {
	cfg              *config.Config
	log              *logger.Logger
	optimizer        *backtest.Optimizer
	strategyRepo     repository.StrategyRepository
	optimizationRepo repository.OptimizationRepository
	uow              repository.UnitOfWork
}

func NewOptimizationService(
	cfg *config.Config,
	log *logger.Logger,
	optimizer *backtest.Optimizer,
	strategyRepo repository.StrategyRepository,
	optimizationRepo repository.OptimizationRepository,
	uow repository.UnitOfWork,
) OptimizationService {
	return &optimizationService{
		cfg:              cfg,
		log:              log,
		optimizer:        optimizer,
		strategyRepo:     strategyRepo,
		optimizationRepo: optimizationRepo,
		uow:              uow,
	}
}

// Optimize creates the search record up front and persists every finished
// grid cell as it completes, so a cancelled search still leaves its partial
// audit trail behind.
func (s *optimizationService) Optimize(ctx context.Context, req dto.OptimizationRequest) (*dto.OptimizationResponse, error) {
	strategy, err := s.strategyRepo.GetByID(ctx, req.StrategyID)
	if err != nil {
		return nil, err
	}

	var baseParams backtest.IndicatorParameters
	if err := json.Unmarshal(strategy.Parameters, &baseParams); err != nil {
		return nil, fmt.Errorf("strategy %d has malformed parameters: %w", strategy.ID, err)
	}

	initialCapital := req.InitialCapital
	if initialCapital <= 0 {
		initialCapital = strategy.InitialCapital
	}

	optCfg := backtest.OptimizationConfig{
		Symbols:        req.Symbols,
		Family:         strategy.Family,
		BaseParameters: baseParams,
		ShortPeriods:   req.ShortPeriods,
		LongPeriods:    req.LongPeriods,
		RSIPeriods:     req.RSIPeriods,
		Oversold:       req.Oversold,
		Overbought:     req.Overbought,
		InitialCapital: initialCapital,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Objective:      req.Objective,
		MaxConcurrency: s.cfg.Backtest.MaxConcurrency,
	}

	combos := backtest.GenerateCombinations(optCfg)
	if len(combos) == 0 {
		return nil, fmt.Errorf("parameter ranges produce no valid combinations")
	}

	symbolsJSON, _ := json.Marshal(req.Symbols)
	configJSON, _ := json.Marshal(optCfg)

	record := &model.OptimizationResult{
		StrategyID:        strategy.ID,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Symbols:           datatypes.JSON(symbolsJSON),
		Config:            datatypes.JSON(configJSON),
		TotalCombinations: len(combos),
	}
	if err := s.optimizationRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	onResult := func(tested backtest.TestedCombination) {
		if tested.Err != "" {
			return
		}
		paramsJSON, err := json.Marshal(tested.Parameters)
		if err != nil {
			return
		}
		test := &model.ParameterTestResult{
			OptimizationResultID: record.ID,
			Parameters:           datatypes.JSON(paramsJSON),
			TotalReturn:          tested.Result.TotalReturn,
			SharpeRatio:          tested.Result.SharpeRatio,
			MaxDrawdown:          tested.Result.MaxDrawdown,
			WinRate:              tested.Result.WinRate,
			TotalTrades:          tested.Result.TotalTrades,
		}
		// Persist with a background-safe context: a cancelled search must
		// still record its finished cells.
		if err := s.optimizationRepo.AddTestResult(context.WithoutCancel(ctx), test); err != nil {
			s.log.Warn("failed to persist parameter test result", logger.ErrorField(err))
		}
	}

	outcome, optErr := s.optimizer.Optimize(ctx, optCfg, onResult)
	if outcome == nil {
		return nil, optErr
	}

	record.TestedCombinations = outcome.Tested
	record.DurationMs = outcome.Duration.Milliseconds()
	if outcome.BestResult != nil {
		bestJSON, err := json.Marshal(outcome.BestParameters)
		if err == nil {
			record.OptimizedParameters = datatypes.JSON(bestJSON)
		}
		record.TotalReturn = outcome.BestResult.TotalReturn
		record.SharpeRatio = outcome.BestResult.SharpeRatio
		record.MaxDrawdown = outcome.BestResult.MaxDrawdown
		record.WinRate = outcome.BestResult.WinRate
		record.TotalTrades = outcome.BestResult.TotalTrades
	}
	if err := s.optimizationRepo.Update(context.WithoutCancel(ctx), record); err != nil {
		s.log.Warn("failed to finalize optimization record", logger.ErrorField(err))
	}

	if optErr != nil {
		return nil, optErr
	}

	s.log.InfoContext(ctx, "optimization completed",
		logger.IntField("strategy_id", int(strategy.ID)),
		logger.IntField("tested", outcome.Tested),
		logger.IntField("failed", outcome.Failed),
		logger.Field("best_score", outcome.BestScore))

	return &dto.OptimizationResponse{
		ID:             record.ID,
		BestParameters: outcome.BestParameters,
		BestScore:      outcome.BestScore,
		Tested:         outcome.Tested,
		Failed:         outcome.Failed,
		Partial:        outcome.Partial,
		DurationMs:     record.DurationMs,
	}, nil
}

// BatchOptimize runs the same grid search against several strategies in turn.
// One failing strategy does not abort the rest; its error is reported in its
// slot of the response.
func (s *optimizationService) BatchOptimize(ctx context.Context, req dto.BatchOptimizationRequest) (*dto.BatchOptimizationResponse, error) {
	resp := &dto.BatchOptimizationResponse{
		Items: make([]dto.BatchOptimizationItem, 0, len(req.StrategyIDs)),
	}
	for _, strategyID := range req.StrategyIDs {
		if !utils.ShouldContinue(ctx, s.log) {
			return resp, ctx.Err()
		}

		item := dto.BatchOptimizationItem{StrategyID: strategyID}
		result, err := s.Optimize(ctx, dto.OptimizationRequest{
			StrategyID:     strategyID,
			Symbols:        req.Symbols,
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
			InitialCapital: req.InitialCapital,
			Objective:      req.Objective,
			ShortPeriods:   req.ShortPeriods,
			LongPeriods:    req.LongPeriods,
			RSIPeriods:     req.RSIPeriods,
			Oversold:       req.Oversold,
			Overbought:     req.Overbought,
		})
		if err != nil {
			s.log.WarnContext(ctx, "batch optimization entry failed",
				logger.IntField("strategy_id", int(strategyID)),
				logger.ErrorField(err))
			item.Error = err.Error()
		} else {
			item.Result = result
		}
		resp.Items = append(resp.Items, item)
	}
	return resp, nil
}

// ApplyOptimalParameters copies a finished search's best parameters onto its
// strategy inside one transaction and marks the search applied.
func (s *optimizationService) ApplyOptimalParameters(ctx context.Context, req dto.ApplyOptimizationRequest) (*model.Strategy, error) {
	record, err := s.optimizationRepo.GetByID(ctx, req.OptimizationID)
	if err != nil {
		return nil, err
	}
	if len(record.OptimizedParameters) == 0 {
		return nil, fmt.Errorf("optimization %d has no optimized parameters to apply", record.ID)
	}

	strategy, err := s.strategyRepo.GetByID(ctx, record.StrategyID)
	if err != nil {
		return nil, err
	}

	err = s.uow.Run(func(opts ...utils.DBOption) error {
		strategy.Parameters = record.OptimizedParameters
		if err := s.strategyRepo.Update(ctx, strategy, opts...); err != nil {
			return err
		}
		record.IsApplied = true
		return s.optimizationRepo.Update(ctx, record, opts...)
	})
	if err != nil {
		return nil, err
	}
	return strategy, nil
}

func (s *optimizationService) History(ctx context.Context, param dto.GetOptimizationsParam) ([]model.OptimizationResult, error) {
	return s.optimizationRepo.Get(ctx, param)
}

func (s *optimizationService) GetByID(ctx context.Context, id uint) (*model.OptimizationResult, error) {
	return s.optimizationRepo.GetByID(ctx, id)
}
