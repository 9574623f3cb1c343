package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	pkgconfig "github.com/RechkalovAA/weblarek/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Allowed browser origins for the session API
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// Order service
	APIOrigin string `env:"WEBLAREK_API_ORIGIN" envDefault:"https://larek-api.nomoreparties.co"`
	APIPath   string `env:"WEBLAREK_API_PATH" envDefault:"/api/weblarek"`
	CDNPath   string `env:"WEBLAREK_CDN_PATH" envDefault:"/content/weblarek"`

	// Outbound HTTP client
	HTTPClientTimeout    int `env:"HTTP_CLIENT_TIMEOUT_SECONDS" envDefault:"10"`
	HTTPClientMaxRetries int `env:"HTTP_CLIENT_MAX_RETRIES" envDefault:"2"`

	// Circuit breaker settings for the order service
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// Per-call timeouts (seconds)
	FetchTimeout  int `env:"FETCH_TIMEOUT_SECONDS" envDefault:"10"`
	SubmitTimeout int `env:"SUBMIT_TIMEOUT_SECONDS" envDefault:"15"`

	// Sessions
	MaxSessions int `env:"MAX_SESSIONS" envDefault:"1000"`

	// Kafka analytics
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Redis catalog cache
	RedisEnabled    bool   `env:"REDIS_ENABLED" envDefault:"false"`
	RedisAddr       string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass       string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	CatalogCacheTTL int    `env:"CATALOG_CACHE_TTL_MINUTES" envDefault:"60"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// APIURL is the base URL of the order service.
func (c *Config) APIURL() string {
	return strings.TrimRight(c.APIOrigin, "/") + c.APIPath
}

// CDNURL is the base URL product images are served from.
func (c *Config) CDNURL() string {
	return strings.TrimRight(c.APIOrigin, "/") + c.CDNPath
}

// CatalogCacheTTLDuration returns the catalog cache TTL.
func (c *Config) CatalogCacheTTLDuration() time.Duration {
	return time.Duration(c.CatalogCacheTTL) * time.Minute
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.APIOrigin == "" {
		return fmt.Errorf("WEBLAREK_API_ORIGIN is required")
	}
	u, err := url.ParseRequestURI(c.APIOrigin)
	if err != nil || u.Host == "" {
		return fmt.Errorf("WEBLAREK_API_ORIGIN must be an absolute URL, got %q", c.APIOrigin)
	}
	if c.HTTPClientTimeout <= 0 {
		return fmt.Errorf("HTTP_CLIENT_TIMEOUT_SECONDS must be positive, got %d", c.HTTPClientTimeout)
	}
	if c.HTTPClientMaxRetries < 0 {
		return fmt.Errorf("HTTP_CLIENT_MAX_RETRIES must not be negative, got %d", c.HTTPClientMaxRetries)
	}
	if c.FetchTimeout <= 0 || c.SubmitTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS and SUBMIT_TIMEOUT_SECONDS must be positive")
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1.0 {
		return fmt.Errorf("CB_FAILURE_RATIO must be in (0.0, 1.0], got %f", c.CBFailureRatio)
	}
	if c.MaxSessions < 0 {
		return fmt.Errorf("MAX_SESSIONS must not be negative, got %d", c.MaxSessions)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	if c.RedisEnabled && c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required when REDIS_ENABLED is set")
	}
	if c.CatalogCacheTTL <= 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL_MINUTES must be positive, got %d", c.CatalogCacheTTL)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}
