package dto

// ErrorResponse is the uniform error envelope of the HTTP API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges mutations that return no payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// MarketDataResponse is the upstream daily-bar payload shape.
type MarketDataResponse struct {
	Symbol string `json:"symbol"`
	Bars   []struct {
		Date     string  `json:"date"`
		Open     float64 `json:"open"`
		High     float64 `json:"high"`
		Low      float64 `json:"low"`
		Close    float64 `json:"close"`
		Volume   int64   `json:"volume"`
		Turnover float64 `json:"turnover"`
	} `json:"bars"`
}
