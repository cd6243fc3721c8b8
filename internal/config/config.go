package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"order-pricing-api/internal/services"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	Logging     LoggingConfig
	Pricing     PricingConfig
	HTTP        HTTPConfig
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string
	Format string // "json", "text" or empty to pick by environment
}

// PricingConfig holds pricing engine configuration
type PricingConfig struct {
	IncludeLineLevelCalculations bool
	StrictValidation             bool
	CacheSize                    int
	MaxLineItems                 int
}

// HTTPConfig holds HTTP surface limits
type HTTPConfig struct {
	RateLimitRPS    float64
	RateLimitBurst  int
	MaxRequestBytes int64
	MetricsEnabled  bool
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("PRICING_INCLUDE_LINE_LEVEL", true)
	v.SetDefault("PRICING_STRICT_VALIDATION", false)
	v.SetDefault("PRICING_CACHE_SIZE", 256)
	v.SetDefault("PRICING_MAX_LINE_ITEMS", 5000)
	v.SetDefault("RATE_LIMIT_RPS", 50.0)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("MAX_REQUEST_BYTES", 1<<20)
	v.SetDefault("METRICS_ENABLED", true)

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Pricing: PricingConfig{
			IncludeLineLevelCalculations: v.GetBool("PRICING_INCLUDE_LINE_LEVEL"),
			StrictValidation:             v.GetBool("PRICING_STRICT_VALIDATION"),
			CacheSize:                    v.GetInt("PRICING_CACHE_SIZE"),
			MaxLineItems:                 v.GetInt("PRICING_MAX_LINE_ITEMS"),
		},
		HTTP: HTTPConfig{
			RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),
			MaxRequestBytes: v.GetInt64("MAX_REQUEST_BYTES"),
			MetricsEnabled:  v.GetBool("METRICS_ENABLED"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.Pricing.CacheSize < 0 {
		return fmt.Errorf("PRICING_CACHE_SIZE must be non-negative, got %d", c.Pricing.CacheSize)
	}
	if c.Pricing.MaxLineItems < 0 {
		return fmt.Errorf("PRICING_MAX_LINE_ITEMS must be non-negative, got %d", c.Pricing.MaxLineItems)
	}
	if c.HTTP.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be non-negative, got %f", c.HTTP.RateLimitRPS)
	}
	if c.HTTP.RateLimitRPS > 0 && c.HTTP.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive when rate limiting is enabled, got %d", c.HTTP.RateLimitBurst)
	}
	if c.HTTP.MaxRequestBytes <= 0 {
		return fmt.Errorf("MAX_REQUEST_BYTES must be positive, got %d", c.HTTP.MaxRequestBytes)
	}
	switch c.Logging.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Logging.Format)
	}
	return nil
}

// IsProduction reports whether the application runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ServiceConfig converts the pricing settings into service configuration
func (c *Config) ServiceConfig() *services.ServiceConfig {
	return &services.ServiceConfig{
		Pricing: &services.PricingConfig{
			IncludeLineLevelCalculations: c.Pricing.IncludeLineLevelCalculations,
			StrictValidation:             c.Pricing.StrictValidation,
			CacheSize:                    c.Pricing.CacheSize,
			MaxLineItems:                 c.Pricing.MaxLineItems,
		},
	}
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
