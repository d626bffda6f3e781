package repository

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"stock-analyse/config"
	"stock-analyse/internal/dto"
	"stock-analyse/internal/model"
	"stock-analyse/pkg/cache"
	"stock-analyse/pkg/common"
	"stock-analyse/pkg/httpclient"
	"stock-analyse/pkg/logger"
	"stock-analyse/pkg/utils"
)

// MarketDataRepository serves daily bars and latest prices. Reads hit the
// local bar table first; misses go upstream through a per-minute rate
// limiter and are written back, so repeated backtests over the same window
// never refetch. Implements backtest.MarketDataProvider.
type MarketDataRepository interface {
	GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error)
	GetLatestPrice(ctx context.Context, symbol string, asOf time.Time) (float64, error)
	RefreshSymbol(ctx context.Context, symbol string, start, end time.Time) (int, error)
}

type marketDataRepository struct {
	httpClient     httpclient.HTTPClient
	barRepo        PriceBarRepository
	cache          cache.Cache
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

func NewMarketDataRepository(cfg *config.Config, barRepo PriceBarRepository, memCache cache.Cache, log *logger.Logger) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.MarketData.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &marketDataRepository{
		httpClient:     httpclient.New(cfg.MarketData.BaseURL, cfg.MarketData.Timeout, ""),
		barRepo:        barRepo,
		cache:          memCache,
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

func (r *marketDataRepository) GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error) {
	bars, err := r.barRepo.GetRange(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	if len(bars) > 0 {
		return bars, nil
	}

	if _, err := r.RefreshSymbol(ctx, symbol, start, end); err != nil {
		return nil, err
	}
	return r.barRepo.GetRange(ctx, symbol, start, end)
}

func (r *marketDataRepository) GetLatestPrice(ctx context.Context, symbol string, asOf time.Time) (float64, error) {
	cacheKey := fmt.Sprintf(common.KEY_LATEST_PRICE, symbol)
	if cached, ok := r.cache.Get(cacheKey); ok {
		if price, ok := cached.(float64); ok {
			return price, nil
		}
	}

	bar, err := r.barRepo.GetLatest(ctx, symbol, asOf)
	if err != nil {
		return 0, err
	}
	if bar == nil {
		// Nothing cached locally yet; pull a short trailing window.
		if _, err := r.RefreshSymbol(ctx, symbol, asOf.AddDate(0, 0, -14), asOf); err != nil {
			return 0, err
		}
		if bar, err = r.barRepo.GetLatest(ctx, symbol, asOf); err != nil {
			return 0, err
		}
		if bar == nil {
			return 0, fmt.Errorf("no price data for symbol %s", symbol)
		}
	}

	r.cache.Set(cacheKey, bar.Close, r.cfg.MarketData.CacheExpiration)
	return bar.Close, nil
}

// RefreshSymbol fetches the window from the upstream API and upserts it into
// the bar table. Returns the number of bars written.
func (r *marketDataRepository) RefreshSymbol(ctx context.Context, symbol string, start, end time.Time) (int, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return 0, err
	}

	queryParams := map[string]string{
		"start":    start.Format(time.DateOnly),
		"end":      end.Format(time.DateOnly),
		"interval": "1d",
	}

	var payload dto.MarketDataResponse
	resp, err := r.httpClient.Get(ctx, "/daily/"+symbol, queryParams, nil, &payload)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch bars for %s: %w", symbol, err)
	}
	if !resp.IsSuccess() {
		r.logger.ErrorContext(ctx, "market data API returned non-OK status",
			logger.StringField("symbol", symbol),
			logger.IntField("status_code", resp.StatusCode))
		return 0, fmt.Errorf("market data api returned status %d for %s", resp.StatusCode, symbol)
	}

	bars := make([]model.PriceBar, 0, len(payload.Bars))
	for _, raw := range payload.Bars {
		tradeDate, err := time.Parse(time.DateOnly, raw.Date)
		if err != nil {
			r.logger.WarnContext(ctx, "skipping bar with malformed date",
				logger.StringField("symbol", symbol),
				logger.StringField("date", raw.Date))
			continue
		}
		if raw.Close <= 0 {
			continue
		}
		bars = append(bars, model.PriceBar{
			Symbol:    symbol,
			TradeDate: utils.TruncateToDay(tradeDate),
			Open:      raw.Open,
			High:      raw.High,
			Low:       raw.Low,
			Close:     raw.Close,
			Volume:    raw.Volume,
			Turnover:  raw.Turnover,
		})
	}

	if err := r.barRepo.UpsertBatch(ctx, bars); err != nil {
		return 0, err
	}
	return len(bars), nil
}
