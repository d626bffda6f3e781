package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger           `mapstructure:"logger"`
	DB         Database         `mapstructure:"database"`
	API        API              `mapstructure:"api"`
	MarketData MarketData       `mapstructure:"market_data"`
	Gemini     Gemini           `mapstructure:"gemini"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Backtest   Backtest         `mapstructure:"backtest"`
	Scheduler  Scheduler        `mapstructure:"scheduler"`
	Cache      Cache            `mapstructure:"cache"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type MarketData struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	CacheExpiration     time.Duration `mapstructure:"cache_expiration"`
}

type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
}

type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

type Backtest struct {
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	CommissionRate float64       `mapstructure:"commission_rate"`
	MinCommission  float64       `mapstructure:"min_commission"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type Scheduler struct {
	AlertCheckSpec  string `mapstructure:"alert_check_spec"`
	BarRefreshSpec  string `mapstructure:"bar_refresh_spec"`
	MaxConcurrency  int    `mapstructure:"max_concurrency"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

func Load() (*Config, error) {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("market_data.timeout", 15*time.Second)
	viper.SetDefault("market_data.max_request_per_minute", 60)
	viper.SetDefault("market_data.cache_expiration", 5*time.Minute)
	viper.SetDefault("gemini.model", "gemini-2.0-flash")
	viper.SetDefault("gemini.timeout", 60*time.Second)
	viper.SetDefault("gemini.max_request_per_minute", 10)
	viper.SetDefault("gemini.max_token_per_minute", 1000000)
	viper.SetDefault("backtest.max_concurrency", 4)
	viper.SetDefault("backtest.commission_rate", 0.0003)
	viper.SetDefault("backtest.min_commission", 5.0)
	viper.SetDefault("backtest.timeout", 10*time.Minute)
	viper.SetDefault("scheduler.alert_check_spec", "*/5 * * * *")
	viper.SetDefault("scheduler.bar_refresh_spec", "0 18 * * 1-5")
	viper.SetDefault("scheduler.max_concurrency", 2)
	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
}
