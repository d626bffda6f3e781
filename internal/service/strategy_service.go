package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gorm.io/datatypes"

	"stock-analyse/config"
	"stock-analyse/internal/backtest"
	"stock-analyse/internal/dto"
	"stock-analyse/internal/model"
	"stock-analyse/internal/repository"
	"stock-analyse/pkg/common"
	"stock-analyse/pkg/logger"
	"stock-analyse/pkg/utils"
)

type StrategyService interface {
	Create(ctx context.Context, req dto.CreateStrategyRequest) (*model.Strategy, error)
	Get(ctx context.Context, param dto.GetStrategiesParam) ([]model.Strategy, error)
	GetByID(ctx context.Context, id uint) (*model.Strategy, error)
	Update(ctx context.Context, id uint, req dto.UpdateStrategyRequest) (*model.Strategy, error)
	Delete(ctx context.Context, id uint) error

	RunStrategy(ctx context.Context, id uint, req dto.RunStrategyRequest) (*dto.RunStrategyResponse, error)
	ExecuteSignal(ctx context.Context, req dto.ExecuteSignalRequest) (*model.SimulatedTrade, error)
	GetSignals(ctx context.Context, param dto.GetSignalsParam) ([]model.TradingSignal, error)
}

type strategyService struct {
	cfg            *config.Config
	log            *logger.Logger
	strategyRepo   repository.StrategyRepository
	signalRepo     repository.SignalRepository
	tradeRepo      repository.TradeRepository
	marketDataRepo repository.MarketDataRepository
	uow            repository.UnitOfWork
}

func NewStrategyService(
	cfg *config.Config,
	log *logger.Logger,
	strategyRepo repository.StrategyRepository,
	signalRepo repository.SignalRepository,
	tradeRepo repository.TradeRepository,
	marketDataRepo repository.MarketDataRepository,
	uow repository.UnitOfWork,
) StrategyService {
	return &strategyService{
		cfg:            cfg,
		log:            log,
		strategyRepo:   strategyRepo,
		signalRepo:     signalRepo,
		tradeRepo:      tradeRepo,
		marketDataRepo: marketDataRepo,
		uow:            uow,
	}
}

func (s *strategyService) Create(ctx context.Context, req dto.CreateStrategyRequest) (*model.Strategy, error) {
	if !req.Family.Valid() {
		return nil, fmt.Errorf("unknown strategy family %q", req.Family)
	}

	params := backtest.DefaultParameters()
	if req.Parameters != nil {
		params = *req.Parameters
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	initialCapital := req.InitialCapital
	if initialCapital <= 0 {
		initialCapital = common.DefaultInitialCapital
	}

	strategy := &model.Strategy{
		Name:           req.Name,
		Description:    req.Description,
		Family:         req.Family,
		Parameters:     datatypes.JSON(paramsJSON),
		InitialCapital: initialCapital,
		CurrentCapital: initialCapital,
		IsActive:       true,
	}
	if err := s.strategyRepo.Create(ctx, strategy); err != nil {
		return nil, err
	}
	return strategy, nil
}

func (s *strategyService) Get(ctx context.Context, param dto.GetStrategiesParam) ([]model.Strategy, error) {
	return s.strategyRepo.Get(ctx, param)
}

func (s *strategyService) GetByID(ctx context.Context, id uint) (*model.Strategy, error) {
	return s.strategyRepo.GetByID(ctx, id)
}

func (s *strategyService) Update(ctx context.Context, id uint, req dto.UpdateStrategyRequest) (*model.Strategy, error) {
	strategy, err := s.strategyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		strategy.Name = *req.Name
	}
	if req.Description != nil {
		strategy.Description = *req.Description
	}
	if req.Parameters != nil {
		if err := req.Parameters.Validate(); err != nil {
			return nil, err
		}
		paramsJSON, err := json.Marshal(req.Parameters)
		if err != nil {
			return nil, err
		}
		strategy.Parameters = datatypes.JSON(paramsJSON)
	}
	if req.IsActive != nil {
		strategy.IsActive = *req.IsActive
	}

	if err := s.strategyRepo.Update(ctx, strategy); err != nil {
		return nil, err
	}
	return strategy, nil
}

func (s *strategyService) Delete(ctx context.Context, id uint) error {
	return s.strategyRepo.Delete(ctx, id)
}

// RunStrategy evaluates the strategy against the trailing bar history of
// each symbol as of today and persists whatever signals come out. Symbols
// without data are skipped.
func (s *strategyService) RunStrategy(ctx context.Context, id uint, req dto.RunStrategyRequest) (*dto.RunStrategyResponse, error) {
	strategy, err := s.strategyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strategy.IsActive {
		return nil, fmt.Errorf("strategy %d is not active", id)
	}

	var params backtest.IndicatorParameters
	if err := json.Unmarshal(strategy.Parameters, &params); err != nil {
		return nil, fmt.Errorf("strategy %d has malformed parameters: %w", strategy.ID, err)
	}

	generator := backtest.NewSignalGenerator(strategy.Family, params)
	now := utils.TruncateToDay(time.Now())
	lookbackStart := now.AddDate(0, 0, -params.Lookback()*2)

	var signals []model.TradingSignal
	for _, symbol := range req.Symbols {
		bars, err := s.marketDataRepo.GetDailyBars(ctx, symbol, lookbackStart, now)
		if err != nil {
			s.log.WarnContext(ctx, "skipping symbol without data",
				logger.StringField("symbol", symbol),
				logger.ErrorField(err))
			continue
		}
		if len(bars) == 0 {
			continue
		}

		closes := make([]float64, len(bars))
		for i, bar := range bars {
			closes[i] = bar.Close
		}

		sig := generator.Generate(symbol, closes, now)
		if sig == nil {
			continue
		}
		signals = append(signals, model.TradingSignal{
			StrategyID:  strategy.ID,
			Symbol:      sig.Symbol,
			Type:        sig.Type,
			Price:       sig.Price,
			Confidence:  sig.Confidence,
			Reason:      sig.Reason,
			GeneratedAt: sig.GeneratedAt,
		})
	}

	runAt := time.Now()
	err = s.uow.Run(func(opts ...utils.DBOption) error {
		if err := s.signalRepo.CreateBatch(ctx, signals, opts...); err != nil {
			return err
		}
		strategy.LastRunAt = &runAt
		return s.strategyRepo.Update(ctx, strategy, opts...)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "strategy run finished",
		logger.IntField("strategy_id", int(strategy.ID)),
		logger.IntField("signal_count", len(signals)))

	return &dto.RunStrategyResponse{Signals: signals, RunAt: runAt}, nil
}

// ExecuteSignal turns a pending signal into a simulated trade against the
// strategy's current capital, using the same sizing and commission rules as
// the backtest ledger.
func (s *strategyService) ExecuteSignal(ctx context.Context, req dto.ExecuteSignalRequest) (*model.SimulatedTrade, error) {
	signal, err := s.signalRepo.GetByID(ctx, req.SignalID)
	if err != nil {
		return nil, err
	}
	if signal.IsExecuted {
		return nil, fmt.Errorf("signal %d has already been executed", signal.ID)
	}

	strategy, err := s.strategyRepo.GetByID(ctx, signal.StrategyID)
	if err != nil {
		return nil, err
	}

	trade, err := s.buildTrade(ctx, strategy, signal, req.Notes)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.uow.Run(func(opts ...utils.DBOption) error {
		if err := s.tradeRepo.Create(ctx, trade, opts...); err != nil {
			return err
		}
		signal.IsExecuted = true
		signal.ExecutedAt = &now
		if err := s.signalRepo.Update(ctx, signal, opts...); err != nil {
			return err
		}
		return s.strategyRepo.Update(ctx, strategy, opts...)
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}

func (s *strategyService) buildTrade(ctx context.Context, strategy *model.Strategy, signal *model.TradingSignal, notes string) (*model.SimulatedTrade, error) {
	if signal.Price <= 0 {
		return nil, fmt.Errorf("signal %d has no valid price", signal.ID)
	}

	quantity := math.Floor(strategy.CurrentCapital*0.1/signal.Price/common.LotSize) * common.LotSize

	switch signal.Type {
	case model.SignalTypeBuy:
		if quantity <= 0 {
			return nil, fmt.Errorf("insufficient capital to buy a single lot of %s", signal.Symbol)
		}
		amount := quantity * signal.Price
		commission := math.Max(s.cfg.Backtest.MinCommission, amount*s.cfg.Backtest.CommissionRate)
		if strategy.CurrentCapital < amount+commission {
			return nil, fmt.Errorf("insufficient capital to execute signal %d", signal.ID)
		}
		strategy.CurrentCapital -= amount + commission
		return &model.SimulatedTrade{
			StrategyID: strategy.ID,
			Symbol:     signal.Symbol,
			Type:       model.TradeTypeBuy,
			Quantity:   quantity,
			Price:      signal.Price,
			Commission: commission,
			Amount:     amount,
			Notes:      notes,
			ExecutedAt: time.Now(),
		}, nil

	case model.SignalTypeSell:
		held, err := s.heldQuantity(ctx, strategy.ID, signal.Symbol)
		if err != nil {
			return nil, err
		}
		if held <= 0 {
			return nil, fmt.Errorf("no position in %s to sell", signal.Symbol)
		}
		quantity = math.Min(quantity, held)
		if quantity <= 0 {
			return nil, fmt.Errorf("sell quantity for %s rounds to zero", signal.Symbol)
		}
		amount := quantity * signal.Price
		commission := amount * s.cfg.Backtest.CommissionRate
		strategy.CurrentCapital += amount - commission
		return &model.SimulatedTrade{
			StrategyID: strategy.ID,
			Symbol:     signal.Symbol,
			Type:       model.TradeTypeSell,
			Quantity:   quantity,
			Price:      signal.Price,
			Commission: commission,
			Amount:     amount,
			Notes:      notes,
			ExecutedAt: time.Now(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown signal type %q", signal.Type)
	}
}

// heldQuantity reconstructs the open position from the trade history.
func (s *strategyService) heldQuantity(ctx context.Context, strategyID uint, symbol string) (float64, error) {
	trades, err := s.tradeRepo.GetByStrategy(ctx, strategyID, 0)
	if err != nil {
		return 0, err
	}

	var held float64
	for _, trade := range trades {
		if trade.Symbol != symbol {
			continue
		}
		switch trade.Type {
		case model.TradeTypeBuy:
			held += trade.Quantity
		case model.TradeTypeSell:
			held -= trade.Quantity
		}
	}
	return held, nil
}

func (s *strategyService) GetSignals(ctx context.Context, param dto.GetSignalsParam) ([]model.TradingSignal, error) {
	return s.signalRepo.Get(ctx, param)
}
