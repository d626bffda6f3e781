package repository

import (
	"gorm.io/gorm"

	"stock-analyse/config"
	"stock-analyse/pkg/cache"
	"stock-analyse/pkg/logger"
)

type Repository struct {
	StrategyRepo       StrategyRepository
	BacktestResultRepo BacktestResultRepository
	OptimizationRepo   OptimizationRepository
	SignalRepo         SignalRepository
	TradeRepo          TradeRepository
	PriceBarRepo       PriceBarRepository
	MarketDataRepo     MarketDataRepository
	WatchlistRepo      WatchlistRepository
	AlertRepo          AlertRepository
	AIPromptRepo       AIPromptRepository
	AIRepo             AIRepository
	UnitOfWork         UnitOfWork
}

func NewRepository(cfg *config.Config, db *gorm.DB, memCache cache.Cache, log *logger.Logger) (*Repository, error) {
	aiRepo, err := NewGeminiAIRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	priceBarRepo := NewPriceBarRepository(db)

	return &Repository{
		StrategyRepo:       NewStrategyRepository(db),
		BacktestResultRepo: NewBacktestResultRepository(db),
		OptimizationRepo:   NewOptimizationRepository(db),
		SignalRepo:         NewSignalRepository(db),
		TradeRepo:          NewTradeRepository(db),
		PriceBarRepo:       priceBarRepo,
		MarketDataRepo:     NewMarketDataRepository(cfg, priceBarRepo, memCache, log),
		WatchlistRepo:      NewWatchlistRepository(db),
		AlertRepo:          NewAlertRepository(db),
		AIPromptRepo:       NewAIPromptRepository(db),
		AIRepo:             aiRepo,
		UnitOfWork:         NewUnitOfWork(db),
	}, nil
}
