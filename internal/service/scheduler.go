package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"stock-analyse/config"
	"stock-analyse/internal/repository"
	"stock-analyse/pkg/logger"
	"stock-analyse/pkg/utils"
)

// SchedulerService owns the recurring jobs: the price-alert check and the
// nightly bar refresh for every symbol with cached history.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
	RefreshBars(ctx context.Context) error
}

type schedulerService struct {
	cfg            *config.Config
	log            *logger.Logger
	cron           *cron.Cron
	alertService   AlertService
	priceBarRepo   repository.PriceBarRepository
	marketDataRepo repository.MarketDataRepository
	semaphore      chan struct{}
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	alertService AlertService,
	priceBarRepo repository.PriceBarRepository,
	marketDataRepo repository.MarketDataRepository,
) SchedulerService {
	return &schedulerService{
		cfg:            cfg,
		log:            log,
		// Skip a tick instead of stacking runs when a job overruns its interval.
		cron:           cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		alertService:   alertService,
		priceBarRepo:   priceBarRepo,
		marketDataRepo: marketDataRepo,
		semaphore:      make(chan struct{}, cfg.Scheduler.MaxConcurrency),
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Scheduler.AlertCheckSpec, func() {
		if err := s.alertService.CheckAlerts(ctx); err != nil {
			s.log.ErrorContext(ctx, "alert check failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return err
	}

	_, err = s.cron.AddFunc(s.cfg.Scheduler.BarRefreshSpec, func() {
		if err := s.RefreshBars(ctx); err != nil {
			s.log.ErrorContext(ctx, "bar refresh failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("scheduler started",
		logger.StringField("alert_check_spec", s.cfg.Scheduler.AlertCheckSpec),
		logger.StringField("bar_refresh_spec", s.cfg.Scheduler.BarRefreshSpec))
	return nil
}

func (s *schedulerService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("scheduler stopped")
}

// RefreshBars pulls the trailing two weeks for every known symbol, bounded
// by the scheduler's concurrency limit. The upstream limiter spaces the
// actual requests.
func (s *schedulerService) RefreshBars(ctx context.Context) error {
	symbols, err := s.priceBarRepo.Symbols(ctx)
	if err != nil {
		return err
	}

	now := utils.TruncateToDay(time.Now())
	start := now.AddDate(0, 0, -14)

	for _, symbol := range symbols {
		if !utils.ShouldContinue(ctx, s.log) {
			return ctx.Err()
		}

		s.semaphore <- struct{}{}
		symbol := symbol
		utils.GoSafe(func() {
			defer func() { <-s.semaphore }()

			written, err := s.marketDataRepo.RefreshSymbol(ctx, symbol, start, now)
			if err != nil {
				s.log.WarnContext(ctx, "failed to refresh bars",
					logger.StringField("symbol", symbol),
					logger.ErrorField(err))
				return
			}
			s.log.DebugContext(ctx, "bars refreshed",
				logger.StringField("symbol", symbol),
				logger.IntField("bars", written))
		})
	}
	return nil
}
