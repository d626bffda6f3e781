package common

const (
	KEY_LATEST_PRICE      = "latest_price:%s"
	KEY_PRICE_ALERT_FIRED = "price_alert_fired:%d"
)

const (
	DefaultInitialCapital = 100000

	// Round lot size: the minimum tradable increment in this market convention.
	LotSize = 100
)
