// Package config provides configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/fd1az/arbscan/internal/apperror"
)

// Volume gate modes
const (
	VolumeGateOff       = "off"
	VolumeGateStrict    = "strict"
	VolumeGateAutoLevel = "auto_level"
)

// Config holds all application configuration.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Feed         FeedConfig         `mapstructure:"feed"`
	Arbitrage    ArbitrageConfig    `mapstructure:"arbitrage"`
	Assets       AssetsConfig       `mapstructure:"assets"`
	Notification NotificationConfig `mapstructure:"notification"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
	Health       HealthConfig       `mapstructure:"health"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"` // text or json
	LogFile     string `mapstructure:"log_file"`
	LogMaxSize  int    `mapstructure:"log_max_size_mb"`
	LogBackups  int    `mapstructure:"log_max_backups"`
	LogMaxAge   int    `mapstructure:"log_max_age_days"`
}

// FeedConfig selects the scan feed.
type FeedConfig struct {
	Path     string        `mapstructure:"path"`
	Format   string        `mapstructure:"format"`
	Interval time.Duration `mapstructure:"interval"`
	Buffer   int           `mapstructure:"buffer"`
}

// FeesConfig holds the fee model constants. TransferRatio is a pointer so an
// explicit 0 is told apart from unset.
type FeesConfig struct {
	TradeRate     float64  `mapstructure:"trade_rate"`
	TransferRatio *float64 `mapstructure:"transfer_ratio"`
}

// ArbitrageConfig holds engine and scanner settings.
type ArbitrageConfig struct {
	DefaultModal       float64    `mapstructure:"default_modal"`
	Fees               FeesConfig `mapstructure:"fees"`
	Threshold          float64    `mapstructure:"threshold"`
	VolumeGate         string     `mapstructure:"volume_gate"`
	AutoLevelTolerance float64    `mapstructure:"auto_level_tolerance"`
	MaxCandidates      int        `mapstructure:"max_candidates"`
	MultiRoute         bool       `mapstructure:"multi_route"`
	Workers            int        `mapstructure:"workers"`
	TUIMode            bool       `mapstructure:"-"` // Set at runtime, not from config file
}

// ThresholdDecimal returns the signal threshold as decimal.Decimal.
func (c *ArbitrageConfig) ThresholdDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.Threshold)
}

// ChainConfig adds or overrides a chain.
type ChainConfig struct {
	Key    string `mapstructure:"key"`
	ID     uint64 `mapstructure:"id"`
	Name   string `mapstructure:"name"`
	Native string `mapstructure:"native"`
}

// TokenConfig adds a token contract to the registry.
type TokenConfig struct {
	Chain    string `mapstructure:"chain"`
	Address  string `mapstructure:"address"`
	Symbol   string `mapstructure:"symbol"`
	Name     string `mapstructure:"name"`
	Decimals uint8  `mapstructure:"decimals"`
}

// AssetsConfig holds reference data overrides.
type AssetsConfig struct {
	Stablecoins []string      `mapstructure:"stablecoins"`
	Chains      []ChainConfig `mapstructure:"chains"`
	Tokens      []TokenConfig `mapstructure:"tokens"`
}

// BreakerConfig configures a circuit breaker.
type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	Interval    time.Duration `mapstructure:"interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// TelegramConfig configures the Telegram notifier.
type TelegramConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	BaseURL       string        `mapstructure:"base_url"`
	Tokens        []string      `mapstructure:"tokens"`
	ChatID        string        `mapstructure:"chat_id"`
	RatePerMinute int           `mapstructure:"rate_per_minute"`
	Burst         int           `mapstructure:"burst"`
	MaxRetries    uint          `mapstructure:"max_retries"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Breaker       BreakerConfig `mapstructure:"breaker"`
}

// StreamConfig configures the websocket signal stream.
type StreamConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Recent  int    `mapstructure:"recent"`
}

// NotificationConfig holds signal dispatch settings.
type NotificationConfig struct {
	Nickname string         `mapstructure:"nickname"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Stream   StreamConfig   `mapstructure:"stream"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	ServiceName    string  `mapstructure:"service_name"`
	TraceProvider  string  `mapstructure:"trace_provider"`
	TraceEndpoint  string  `mapstructure:"trace_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
	OTLPEndpoint   string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string  `mapstructure:"otlp_headers"`
	PrometheusPort int     `mapstructure:"prometheus_port"`
}

// HealthConfig configures the health server.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("ARB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, apperror.New(apperror.CodeConfigurationError,
				apperror.WithContext(v.ConfigFileUsed()), apperror.WithCause(err))
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("unmarshal"), apperror.WithCause(err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("validate"), apperror.WithCause(err))
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	_ = v.BindEnv("app.name", "ARB_APP_NAME", "SERVICE_NAME")
	_ = v.BindEnv("app.environment", "ARB_ENVIRONMENT", "ENVIRONMENT")
	_ = v.BindEnv("app.log_level", "ARB_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("app.log_file", "ARB_LOG_FILE")

	// Feed
	_ = v.BindEnv("feed.path", "ARB_FEED", "ARB_FEED_PATH")

	// Arbitrage
	_ = v.BindEnv("arbitrage.default_modal", "ARB_MODAL")
	_ = v.BindEnv("arbitrage.threshold", "ARB_THRESHOLD")
	_ = v.BindEnv("arbitrage.volume_gate", "ARB_VOLUME_GATE")

	// Notification
	_ = v.BindEnv("notification.nickname", "ARB_NICKNAME")
	_ = v.BindEnv("notification.telegram.tokens", "ARB_TELEGRAM_TOKENS", "TELEGRAM_BOT_TOKENS")
	_ = v.BindEnv("notification.telegram.chat_id", "ARB_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")

	// Telemetry
	_ = v.BindEnv("telemetry.enabled", "ARB_OTEL_ENABLED", "OTEL_ENABLED")
	_ = v.BindEnv("telemetry.service_name", "ARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	_ = v.BindEnv("telemetry.otlp_endpoint", "ARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	_ = v.BindEnv("telemetry.otlp_headers", "ARB_OTEL_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "arbscan")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "text")
	v.SetDefault("app.log_max_size_mb", 50)
	v.SetDefault("app.log_max_backups", 3)
	v.SetDefault("app.log_max_age_days", 14)

	// Feed defaults
	v.SetDefault("feed.format", "")
	v.SetDefault("feed.interval", "0s")
	v.SetDefault("feed.buffer", 64)

	// Arbitrage defaults
	v.SetDefault("arbitrage.default_modal", 100)
	v.SetDefault("arbitrage.fees.trade_rate", 0.0014)
	v.SetDefault("arbitrage.fees.transfer_ratio", 0.5)
	v.SetDefault("arbitrage.threshold", 0)
	v.SetDefault("arbitrage.volume_gate", VolumeGateOff)
	v.SetDefault("arbitrage.auto_level_tolerance", 0.001)
	v.SetDefault("arbitrage.max_candidates", 3)
	v.SetDefault("arbitrage.multi_route", true)
	v.SetDefault("arbitrage.workers", 4)

	// Assets defaults
	v.SetDefault("assets.stablecoins", []string{"USDT", "USDC", "DAI"})

	// Notification defaults
	v.SetDefault("notification.telegram.enabled", false)
	v.SetDefault("notification.telegram.base_url", "https://api.telegram.org")
	v.SetDefault("notification.telegram.rate_per_minute", 20)
	v.SetDefault("notification.telegram.burst", 1)
	v.SetDefault("notification.telegram.max_retries", 3)
	v.SetDefault("notification.telegram.timeout", "10s")
	v.SetDefault("notification.telegram.breaker.max_failures", 5)
	v.SetDefault("notification.telegram.breaker.interval", "1m")
	v.SetDefault("notification.telegram.breaker.timeout", "30s")
	v.SetDefault("notification.stream.enabled", false)
	v.SetDefault("notification.stream.addr", ":8090")
	v.SetDefault("notification.stream.recent", 50)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "arbscan")
	v.SetDefault("telemetry.trace_provider", "none")
	v.SetDefault("telemetry.sample_ratio", 1.0)
	v.SetDefault("telemetry.prometheus_port", 9090)

	// Health defaults
	v.SetDefault("health.enabled", false)
	v.SetDefault("health.port", 8080)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	a := c.Arbitrage
	if a.DefaultModal <= 0 {
		return fmt.Errorf("arbitrage.default_modal must be positive")
	}
	if a.Fees.TradeRate < 0 || (a.Fees.TransferRatio != nil && *a.Fees.TransferRatio < 0) {
		return fmt.Errorf("arbitrage.fees must not be negative")
	}
	if a.Threshold < 0 {
		return fmt.Errorf("arbitrage.threshold must not be negative")
	}
	switch a.VolumeGate {
	case VolumeGateOff, VolumeGateStrict, VolumeGateAutoLevel:
	default:
		return fmt.Errorf("invalid arbitrage.volume_gate: %s", a.VolumeGate)
	}
	if a.Workers <= 0 {
		return fmt.Errorf("arbitrage.workers must be positive")
	}
	if len(c.Assets.Stablecoins) == 0 {
		return fmt.Errorf("assets.stablecoins cannot be empty")
	}
	for _, t := range c.Assets.Tokens {
		if !common.IsHexAddress(t.Address) {
			return fmt.Errorf("invalid assets.tokens address for %s: %s", t.Symbol, t.Address)
		}
	}
	if tg := c.Notification.Telegram; tg.Enabled {
		if len(tg.Tokens) == 0 || tg.ChatID == "" {
			return fmt.Errorf("notification.telegram needs tokens and chat_id when enabled")
		}
		if tg.RatePerMinute <= 0 {
			return fmt.Errorf("notification.telegram.rate_per_minute must be positive")
		}
	}
	return nil
}
