package service

import (
	"stock-analyse/config"
	"stock-analyse/internal/backtest"
	"stock-analyse/internal/notifier"
	"stock-analyse/internal/repository"
	"stock-analyse/pkg/cache"
	"stock-analyse/pkg/logger"
)

type Service struct {
	BacktestService     BacktestService
	OptimizationService OptimizationService
	StrategyService     StrategyService
	WatchlistService    WatchlistService
	AlertService        AlertService
	AnalysisService     AnalysisService
	SchedulerService    SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	alertNotifier notifier.Notifier,
) *Service {
	backtestCfg := backtest.Config{
		CommissionRate: cfg.Backtest.CommissionRate,
		MinCommission:  cfg.Backtest.MinCommission,
	}
	runner := backtest.NewRunner(repo.MarketDataRepo, backtestCfg, log)
	optimizer := backtest.NewOptimizer(runner, log)

	alertService := NewAlertService(cfg, log, repo.AlertRepo, repo.MarketDataRepo, alertNotifier, inmemoryCache)

	return &Service{
		BacktestService:     NewBacktestService(cfg, log, runner, repo.StrategyRepo, repo.BacktestResultRepo, repo.WatchlistRepo),
		OptimizationService: NewOptimizationService(cfg, log, optimizer, repo.StrategyRepo, repo.OptimizationRepo, repo.UnitOfWork),
		StrategyService:     NewStrategyService(cfg, log, repo.StrategyRepo, repo.SignalRepo, repo.TradeRepo, repo.MarketDataRepo, repo.UnitOfWork),
		WatchlistService:    NewWatchlistService(log, repo.WatchlistRepo, repo.MarketDataRepo),
		AlertService:        alertService,
		AnalysisService:     NewAnalysisService(log, repo.AIRepo, repo.AIPromptRepo, repo.MarketDataRepo),
		SchedulerService:    NewSchedulerService(cfg, log, alertService, repo.PriceBarRepo, repo.MarketDataRepo),
	}
}
