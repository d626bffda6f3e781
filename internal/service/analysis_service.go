package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"stock-analyse/internal/dto"
	"stock-analyse/internal/indicator"
	"stock-analyse/internal/model"
	"stock-analyse/internal/repository"
	"stock-analyse/pkg/logger"
	"stock-analyse/pkg/utils"
)

const defaultAnalysisDays = 90

// defaultPromptTemplate is used when no stored prompt exists yet.
const defaultPromptTemplate = `You are an equity analyst. Given the technical snapshot below, respond with a JSON object containing the fields: trend, recommendation (BUY/SELL/HOLD), confidence (0-1) and summary.

Symbol: {{symbol}}
{{price_summary}}
{{indicators}}`

type AnalysisService interface {
	AnalyzeStock(ctx context.Context, req dto.AnalyzeStockRequest) (*dto.AIAnalysisResponse, error)

	CreatePrompt(ctx context.Context, req dto.CreateAIPromptRequest) (*model.AIPrompt, error)
	GetPrompts(ctx context.Context) ([]model.AIPrompt, error)
	DeletePrompt(ctx context.Context, id uint) error
}

type analysisService struct {
	log            *logger.Logger
	aiRepo         repository.AIRepository
	promptRepo     repository.AIPromptRepository
	marketDataRepo repository.MarketDataRepository
}

func NewAnalysisService(
	log *logger.Logger,
	aiRepo repository.AIRepository,
	promptRepo repository.AIPromptRepository,
	marketDataRepo repository.MarketDataRepository,
) AnalysisService {
	return &analysisService{
		log:            log,
		aiRepo:         aiRepo,
		promptRepo:     promptRepo,
		marketDataRepo: marketDataRepo,
	}
}

func (s *analysisService) AnalyzeStock(ctx context.Context, req dto.AnalyzeStockRequest) (*dto.AIAnalysisResponse, error) {
	days := req.Days
	if days <= 0 {
		days = defaultAnalysisDays
	}

	now := utils.TruncateToDay(time.Now())
	bars, err := s.marketDataRepo.GetDailyBars(ctx, req.Symbol, now.AddDate(0, 0, -days), now)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no price data for symbol %s", req.Symbol)
	}

	input := buildAnalysisInput(req.Symbol, bars)
	template, err := s.resolveTemplate(ctx, req.PromptName)
	if err != nil {
		return nil, err
	}

	prompt, err := renderPrompt(template, input)
	if err != nil {
		return nil, err
	}

	result, err := s.aiRepo.Analyze(ctx, prompt)
	if err != nil {
		s.log.ErrorContext(ctx, "ai analysis failed",
			logger.StringField("symbol", req.Symbol),
			logger.ErrorField(err))
		return nil, err
	}

	result.Symbol = req.Symbol
	result.MarketPrice = input.MarketPrice
	result.Timestamp = time.Now()
	return result, nil
}

func (s *analysisService) resolveTemplate(ctx context.Context, promptName string) (string, error) {
	if promptName != "" {
		prompt, err := s.promptRepo.GetByName(ctx, promptName)
		if err != nil {
			return "", err
		}
		return prompt.Template, nil
	}

	prompt, err := s.promptRepo.GetDefault(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return defaultPromptTemplate, nil
		}
		return "", err
	}
	return prompt.Template, nil
}

// buildAnalysisInput condenses the bar history into the indicator snapshot
// the prompt references.
func buildAnalysisInput(symbol string, bars []model.PriceBar) dto.AIAnalysisInput {
	closes := make([]float64, len(bars))
	high := bars[0].High
	low := bars[0].Low
	for i, bar := range bars {
		closes[i] = bar.Close
		if bar.High > high {
			high = bar.High
		}
		if bar.Low < low {
			low = bar.Low
		}
	}

	input := dto.AIAnalysisInput{
		Symbol:      symbol,
		MarketPrice: closes[len(closes)-1],
		PeriodHigh:  high,
		PeriodLow:   low,
		AsOf:        bars[len(bars)-1].TradeDate,
	}
	if closes[0] > 0 {
		input.PeriodReturn = (closes[len(closes)-1] - closes[0]) / closes[0]
	}

	if sma := indicator.SMA(closes, 20); len(sma) > 0 {
		input.SMA20 = sma[len(sma)-1]
	}
	if ema := indicator.EMA(closes, 20); len(ema) > 0 {
		input.EMA20 = ema[len(ema)-1]
	}
	if rsi := indicator.RSI(closes, 14); len(rsi) > 0 {
		input.RSI14 = rsi[len(rsi)-1]
	}
	if macd := indicator.MACD(closes, 12, 26, 9); len(macd) > 0 {
		input.MACD = macd[len(macd)-1].MACD
		input.MACDSignal = macd[len(macd)-1].Signal
	}
	if bands := indicator.BollingerBands(closes, 20, 2); len(bands) > 0 {
		input.BollUpper = bands[len(bands)-1].Upper
		input.BollLower = bands[len(bands)-1].Lower
	}
	return input
}

func renderPrompt(template string, input dto.AIAnalysisInput) (string, error) {
	indicatorsJSON, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", err
	}

	priceSummary := fmt.Sprintf("Last price %.2f, period high %.2f, period low %.2f, period return %.2f%%",
		input.MarketPrice, input.PeriodHigh, input.PeriodLow, input.PeriodReturn*100)

	replacer := strings.NewReplacer(
		"{{symbol}}", input.Symbol,
		"{{price_summary}}", priceSummary,
		"{{indicators}}", string(indicatorsJSON),
	)
	return replacer.Replace(template), nil
}

func (s *analysisService) CreatePrompt(ctx context.Context, req dto.CreateAIPromptRequest) (*model.AIPrompt, error) {
	prompt := &model.AIPrompt{
		Name:      req.Name,
		Template:  req.Template,
		IsDefault: req.IsDefault,
	}
	if err := s.promptRepo.Create(ctx, prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

func (s *analysisService) GetPrompts(ctx context.Context) ([]model.AIPrompt, error) {
	return s.promptRepo.GetAll(ctx)
}

func (s *analysisService) DeletePrompt(ctx context.Context, id uint) error {
	return s.promptRepo.Delete(ctx, id)
}
