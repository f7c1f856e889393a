package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
)

// Catalog cache modes.
const (
	CacheNone  = "none"
	CacheRedis = "redis"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int           `env:"STOREFRONT_HTTP_PORT" envDefault:"8020"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Catalog source
	CatalogURL     string        `env:"CATALOG_URL" envDefault:"https://fakestoreapi.com/products"`
	CatalogTimeout time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s"`

	// Catalog snapshot cache
	CatalogCache    string        `env:"CATALOG_CACHE" envDefault:"none"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"24h"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	EventsEnabled        bool          `env:"EVENTS_ENABLED" envDefault:"false"`
	KafkaBrokers         []string      `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	EventsPublishTimeout time.Duration `env:"EVENTS_PUBLISH_TIMEOUT" envDefault:"500ms"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Storefront behaviour
	PriceRangeMax float64 `env:"PRICE_RANGE_MAX" envDefault:"1000"`
	EnrichSeed    uint64  `env:"ENRICH_SEED" envDefault:"0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	u, err := url.Parse(c.CatalogURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("CATALOG_URL must be an absolute http(s) URL, got %q", c.CatalogURL)
	}
	if c.CatalogTimeout <= 0 {
		return fmt.Errorf("CATALOG_TIMEOUT must be positive, got %s", c.CatalogTimeout)
	}
	switch c.CatalogCache {
	case CacheNone:
	case CacheRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CATALOG_CACHE=redis")
		}
		if c.CatalogCacheTTL <= 0 {
			return fmt.Errorf("CATALOG_CACHE_TTL must be positive, got %s", c.CatalogCacheTTL)
		}
	default:
		return fmt.Errorf("CATALOG_CACHE must be one of %q or %q, got %q", CacheNone, CacheRedis, c.CatalogCache)
	}
	if c.EventsEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when EVENTS_ENABLED=true")
	}
	if c.EventsPublishTimeout <= 0 {
		return fmt.Errorf("EVENTS_PUBLISH_TIMEOUT must be positive, got %s", c.EventsPublishTimeout)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %v", c.OTELSampleRate)
	}
	if c.PriceRangeMax <= 0 {
		return fmt.Errorf("PRICE_RANGE_MAX must be positive, got %v", c.PriceRangeMax)
	}
	return nil
}

// RedisEnabled reports whether the catalog snapshot is cached in Redis.
func (c *Config) RedisEnabled() bool {
	return c.CatalogCache == CacheRedis
}
