package dto

import "time"

// AnalyzeStockRequest asks for an AI narrative over a symbol's recent bars
// and indicator state. PromptName selects a stored template; empty uses the
// default.
type AnalyzeStockRequest struct {
	Symbol     string `json:"symbol" validate:"required,max=16"`
	PromptName string `json:"prompt_name"`
	Days       int    `json:"days" validate:"omitempty,gt=0,lte=365"`
}

// AIAnalysisResponse is the structured answer the model is asked to return.
type AIAnalysisResponse struct {
	Symbol         string    `json:"symbol"`
	MarketPrice    float64   `json:"market_price"`
	Trend          string    `json:"trend"`
	Recommendation string    `json:"recommendation"`
	Confidence     float64   `json:"confidence"`
	Summary        string    `json:"summary"`
	Timestamp      time.Time `json:"timestamp"`
}

// AIAnalysisInput is the indicator snapshot rendered into the prompt.
type AIAnalysisInput struct {
	Symbol       string    `json:"symbol"`
	MarketPrice  float64   `json:"market_price"`
	SMA20        float64   `json:"sma_20"`
	EMA20        float64   `json:"ema_20"`
	RSI14        float64   `json:"rsi_14"`
	MACD         float64   `json:"macd"`
	MACDSignal   float64   `json:"macd_signal"`
	BollUpper    float64   `json:"boll_upper"`
	BollLower    float64   `json:"boll_lower"`
	PeriodHigh   float64   `json:"period_high"`
	PeriodLow    float64   `json:"period_low"`
	PeriodReturn float64   `json:"period_return"`
	AsOf         time.Time `json:"as_of"`
}

type CreateAIPromptRequest struct {
	Name      string `json:"name" validate:"required,max=128"`
	Template  string `json:"template" validate:"required"`
	IsDefault bool   `json:"is_default"`
}
