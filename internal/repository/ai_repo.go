package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"stock-analyse/config"
	"stock-analyse/internal/dto"
	"stock-analyse/pkg/logger"
	"stock-analyse/pkg/ratelimit"
)

type AIRepository interface {
	Analyze(ctx context.Context, prompt string) (*dto.AIAnalysisResponse, error)
}

// geminiAIRepository talks to the Gemini API behind two limiters: a
// request-per-minute limiter and a token budget counted before every call.
type geminiAIRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiAIRepository{
		cfg:            cfg,
		logger:         log,
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute),
		requestLimiter: requestLimiter,
		genAiClient:    genAiClient,
	}, nil
}

func (r *geminiAIRepository) Analyze(ctx context.Context, prompt string) (*dto.AIAnalysisResponse, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}

	tokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("gemini token count",
		logger.IntField("total_tokens", int(tokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)
	if err := r.tokenLimiter.Wait(ctx, int(tokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for gemini token limit: %w", err)
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for gemini request limit: %w", err)
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	var result dto.AIAnalysisResponse
	if err := parseModelJSON(resp.Text(), &result); err != nil {
		r.logger.ErrorContext(ctx, "failed to parse gemini response", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to parse gemini response: %w", err)
	}
	return &result, nil
}

// parseModelJSON strips the markdown fence the model tends to wrap its JSON
// answer in.
func parseModelJSON(text string, dest interface{}) error {
	if text == "" {
		return fmt.Errorf("empty response from model")
	}
	text = strings.Trim(text, "`json\n`")
	return json.Unmarshal([]byte(text), dest)
}
