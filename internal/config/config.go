package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Service
	HTTPHost       string        `env:"HTTP_HOST" default:"0.0.0.0"`
	HTTPPort       int           `env:"HTTP_PORT" default:"8000"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" default:"5s"`

	// Database
	DatabaseURL    string `env:"DATABASE_URL"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" default:"20"`

	// Where vote tallies live: postgres, redis or memory (memory keeps everything in-process)
	TallyBackend string `env:"TALLY_BACKEND" default:"postgres"`

	// Redis
	RedisURL      string `env:"REDIS_URL" default:"redis://localhost:6379/0"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CatalogCache  bool   `env:"CATALOG_CACHE" default:"true"`
	CacheTTL      int    `env:"CACHE_TTL" default:"3600"`

	// Vote rate limiting per client IP
	VoteRateLimit float64 `env:"VOTE_RATE_LIMIT" default:"5"`
	VoteRateBurst int     `env:"VOTE_RATE_BURST" default:"10"`

	// Menu import job
	MenuFeed          string `env:"MENU_FEED" default:"./database/seed/menu.json"`
	MenuImportCron    string `env:"MENU_IMPORT_CRON"`
	MenuImportWorkers int    `env:"MENU_IMPORT_WORKERS" default:"4"`

	// Development
	LogLevel    string   `env:"LOG_LEVEL" default:"info"`
	LogFormat   string   `env:"LOG_FORMAT" default:"text"`
	CORSOrigins []string `env:"CORS_ORIGINS" default:"*"`

	// Proxies allowed to set X-Forwarded-For; empty means the socket peer is the client
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// .env is optional; system env vars still apply without it
	_ = godotenv.Load(".env")

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}

	// Service
	if err := loadEnvString(&config.HTTPHost, "HTTP_HOST", "0.0.0.0"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8000); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.RequestTimeout, "REQUEST_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	// Database
	if err := loadEnvString(&config.DatabaseURL, "DATABASE_URL", ""); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.DBMaxOpenConns, "DB_MAX_OPEN_CONNS", 20); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.TallyBackend, "TALLY_BACKEND", BackendPostgres); err != nil {
		return nil, err
	}

	// Redis
	if err := loadEnvString(&config.RedisURL, "REDIS_URL", "redis://localhost:6379/0"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisPassword, "REDIS_PASSWORD", ""); err != nil {
		return nil, err
	}
	if err := loadEnvBool(&config.CatalogCache, "CATALOG_CACHE", true); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.CacheTTL, "CACHE_TTL", 3600); err != nil {
		return nil, err
	}

	// Rate limiting
	if err := loadEnvFloat(&config.VoteRateLimit, "VOTE_RATE_LIMIT", 5); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.VoteRateBurst, "VOTE_RATE_BURST", 10); err != nil {
		return nil, err
	}

	// Menu import
	if err := loadEnvString(&config.MenuFeed, "MENU_FEED", "./database/seed/menu.json"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.MenuImportCron, "MENU_IMPORT_CRON", ""); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.MenuImportWorkers, "MENU_IMPORT_WORKERS", 4); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "info"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "text"); err != nil {
		return nil, err
	}
	if err := loadEnvStringSlice(&config.CORSOrigins, "CORS_ORIGINS", []string{"*"}); err != nil {
		return nil, err
	}
	if err := loadEnvStringSlice(&config.TrustedProxies, "TRUSTED_PROXIES", nil); err != nil {
		return nil, err
	}
	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvBool(target *bool, key string, defaultValue bool) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringSlice(target *[]string, key string, defaultValue []string) error {
	if value := os.Getenv(key); value != "" {
		*target = strings.Split(value, ",")
		// Trim whitespace from each element
		for i, v := range *target {
			(*target)[i] = strings.TrimSpace(v)
		}
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}
	if c.RequestTimeout <= 0 {
		errors = append(errors, "REQUEST_TIMEOUT must be positive")
	}

	validBackends := []string{BackendPostgres, BackendRedis, BackendMemory}
	if !contains(validBackends, c.TallyBackend) {
		errors = append(errors, fmt.Sprintf("TALLY_BACKEND must be one of: %s", strings.Join(validBackends, ", ")))
	}
	if c.TallyBackend != BackendMemory && c.DatabaseURL == "" {
		errors = append(errors, "DATABASE_URL is required unless TALLY_BACKEND=memory")
	}
	if c.DBMaxOpenConns < 1 {
		errors = append(errors, "DB_MAX_OPEN_CONNS must be at least 1")
	}
	if c.CatalogCache && c.CacheTTL < 1 {
		errors = append(errors, "CACHE_TTL must be at least 1 second when CATALOG_CACHE is on")
	}
	if c.VoteRateLimit <= 0 || c.VoteRateBurst < 1 {
		errors = append(errors, "VOTE_RATE_LIMIT must be positive and VOTE_RATE_BURST at least 1")
	}
	if c.MenuImportWorkers < 1 {
		errors = append(errors, "MENU_IMPORT_WORKERS must be at least 1")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

func (c *Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// Helper function to check if slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
