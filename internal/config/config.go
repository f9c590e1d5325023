package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Explorer  ExplorerConfig  `mapstructure:"explorer"`
	RPC       RPCConfig       `mapstructure:"rpc"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// ExplorerConfig holds block-explorer API settings.
type ExplorerConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RPCConfig holds per-chain JSON-RPC endpoint settings. URLs is keyed by
// chain name; a missing entry means the chain has no endpoint configured.
type RPCConfig struct {
	URLs    map[string]string `mapstructure:"urls"`
	Timeout time.Duration     `mapstructure:"timeout"`
}

// CacheConfig holds the cache-layer TTLs. ReportTTL is the freshness
// window; StaleRetention is how long an expired report stays resident for
// stale-while-revalidate replay.
type CacheConfig struct {
	ReportTTL       time.Duration `mapstructure:"report_ttl"`
	StaleRetention  time.Duration `mapstructure:"stale_retention"`
	IdentityTTL     time.Duration `mapstructure:"identity_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig holds the fixed-window per-IP request budget.
type RateLimitConfig struct {
	Window      time.Duration `mapstructure:"window"`
	MaxRequests int           `mapstructure:"max_requests"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "token-inspector")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("explorer.base_url", "https://api.etherscan.io/v2/api")
	v.SetDefault("explorer.api_key", "")
	v.SetDefault("explorer.timeout", "8s")
	v.SetDefault("rpc.urls", map[string]string{})
	v.SetDefault("rpc.timeout", "4s")
	v.SetDefault("cache.report_ttl", "24h")
	v.SetDefault("cache.stale_retention", "48h")
	v.SetDefault("cache.identity_ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "1h")
	v.SetDefault("rate_limit.window", "60s")
	v.SetDefault("rate_limit.max_requests", 10)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Printf("Warning: Config file not found in %s or '.', using defaults/env vars\n", configPath)
		}
	}

	v.SetEnvPrefix("TOKEN_INSPECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// URLFor returns the configured RPC endpoint for a chain name, or "".
func (c RPCConfig) URLFor(chain string) string {
	return c.URLs[chain]
}
