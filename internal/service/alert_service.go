package service

import (
	"context"
	"fmt"
	"time"

	"stock-analyse/config"
	"stock-analyse/internal/dto"
	"stock-analyse/internal/model"
	"stock-analyse/internal/notifier"
	"stock-analyse/internal/repository"
	"stock-analyse/pkg/cache"
	"stock-analyse/pkg/common"
	"stock-analyse/pkg/logger"
	"stock-analyse/pkg/utils"
)

// firedAlertTTL suppresses repeat notifications for an alert that keeps
// matching while the user has not reset it.
const firedAlertTTL = 24 * time.Hour

type AlertService interface {
	Create(ctx context.Context, req dto.CreatePriceAlertRequest) (*model.PriceAlert, error)
	Get(ctx context.Context, param dto.GetPriceAlertsParam) ([]model.PriceAlert, error)
	Update(ctx context.Context, id uint, req dto.UpdatePriceAlertRequest) (*model.PriceAlert, error)
	Delete(ctx context.Context, id uint) error

	// CheckAlerts evaluates every active alert against the latest prices and
	// notifies on matches. Run by the scheduler.
	CheckAlerts(ctx context.Context) error
}

type alertService struct {
	cfg            *config.Config
	log            *logger.Logger
	alertRepo      repository.AlertRepository
	marketDataRepo repository.MarketDataRepository
	notifier       notifier.Notifier
	memCache       cache.Cache
}

func NewAlertService(
	cfg *config.Config,
	log *logger.Logger,
	alertRepo repository.AlertRepository,
	marketDataRepo repository.MarketDataRepository,
	alertNotifier notifier.Notifier,
	memCache cache.Cache,
) AlertService {
	return &alertService{
		cfg:            cfg,
		log:            log,
		alertRepo:      alertRepo,
		marketDataRepo: marketDataRepo,
		notifier:       alertNotifier,
		memCache:       memCache,
	}
}

func (s *alertService) Create(ctx context.Context, req dto.CreatePriceAlertRequest) (*model.PriceAlert, error) {
	alert := &model.PriceAlert{
		Symbol:      req.Symbol,
		Condition:   req.Condition,
		TargetPrice: req.TargetPrice,
		Message:     req.Message,
		IsActive:    true,
	}
	if err := s.alertRepo.Create(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (s *alertService) Get(ctx context.Context, param dto.GetPriceAlertsParam) ([]model.PriceAlert, error) {
	return s.alertRepo.Get(ctx, param)
}

func (s *alertService) Update(ctx context.Context, id uint, req dto.UpdatePriceAlertRequest) (*model.PriceAlert, error) {
	alert, err := s.alertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TargetPrice != nil {
		alert.TargetPrice = *req.TargetPrice
	}
	if req.Message != nil {
		alert.Message = *req.Message
	}
	if req.IsActive != nil {
		alert.IsActive = *req.IsActive
		if *req.IsActive {
			// Re-arming clears the fired state and the dedup entry.
			alert.TriggeredAt = nil
			s.memCache.Delete(fmt.Sprintf(common.KEY_PRICE_ALERT_FIRED, alert.ID))
		}
	}

	if err := s.alertRepo.Update(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (s *alertService) Delete(ctx context.Context, id uint) error {
	return s.alertRepo.Delete(ctx, id)
}

func (s *alertService) CheckAlerts(ctx context.Context) error {
	alerts, err := s.alertRepo.Get(ctx, dto.GetPriceAlertsParam{IsActive: utils.ToPointer(true)})
	if err != nil {
		return err
	}

	now := time.Now()
	for _, alert := range alerts {
		if !utils.ShouldContinue(ctx, s.log) {
			return ctx.Err()
		}

		price, err := s.marketDataRepo.GetLatestPrice(ctx, alert.Symbol, now)
		if err != nil {
			s.log.WarnContext(ctx, "failed to get price for alert check",
				logger.StringField("symbol", alert.Symbol),
				logger.ErrorField(err))
			continue
		}

		if !matches(alert, price) {
			continue
		}

		dedupKey := fmt.Sprintf(common.KEY_PRICE_ALERT_FIRED, alert.ID)
		if _, fired := s.memCache.Get(dedupKey); fired {
			continue
		}
		s.memCache.Set(dedupKey, true, firedAlertTTL)

		triggered := now
		alert.TriggeredAt = &triggered
		alert.IsActive = false
		if err := s.alertRepo.Update(ctx, &alert); err != nil {
			s.log.ErrorContext(ctx, "failed to mark alert as triggered",
				logger.IntField("alert_id", int(alert.ID)),
				logger.ErrorField(err))
			continue
		}

		message := alert.Message
		if message == "" {
			message = fmt.Sprintf("*%s* crossed %s %.2f (last price %.2f)",
				alert.Symbol, directionWord(alert.Condition), alert.TargetPrice, price)
		}
		if err := s.notifier.Notify(ctx, message); err != nil {
			s.log.WarnContext(ctx, "alert notification failed",
				logger.IntField("alert_id", int(alert.ID)),
				logger.ErrorField(err))
		}

		s.log.InfoContext(ctx, "price alert triggered",
			logger.IntField("alert_id", int(alert.ID)),
			logger.StringField("symbol", alert.Symbol),
			logger.Field("price", price))
	}
	return nil
}

func matches(alert model.PriceAlert, price float64) bool {
	switch alert.Condition {
	case model.AlertConditionAbove:
		return price >= alert.TargetPrice
	case model.AlertConditionBelow:
		return price <= alert.TargetPrice
	}
	return false
}

func directionWord(condition model.AlertCondition) string {
	if condition == model.AlertConditionBelow {
		return "below"
	}
	return "above"
}
