package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Matching MatchingConfig `mapstructure:"matching"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxTerms       int      `mapstructure:"max_terms"`
}

// CatalogConfig holds store catalog client configuration
type CatalogConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	RetryMax            int           `mapstructure:"retry_max"`
	RatePerSecond       float64       `mapstructure:"rate_per_second"`
	Burst               int           `mapstructure:"burst"`
	MaxConcurrentStores int           `mapstructure:"max_concurrent_stores"`
	PageSize            int           `mapstructure:"page_size"`
	UserAgent           string        `mapstructure:"user_agent"`
	Stores              []StoreConfig `mapstructure:"stores"`
}

// StoreConfig describes one supermarket catalog
type StoreConfig struct {
	Name         string   `mapstructure:"name"`
	BaseURL      string   `mapstructure:"base_url"`
	Regions      []string `mapstructure:"regions"`
	SalesChannel string   `mapstructure:"sales_channel"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MatchingConfig tunes product matching and cart building
type MatchingConfig struct {
	Threshold          float64 `mapstructure:"threshold"`
	MaxAlternatives    int     `mapstructure:"max_alternatives"`
	CheapestTolerance  float64 `mapstructure:"cheapest_tolerance"`
	MaxConcurrentTerms int     `mapstructure:"max_concurrent_terms"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // "console" or "json"
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from an explicit file, or searches the
// default locations when path is empty
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/cartcompare/")
	}

	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	// CARTCOMPARE_SERVER_PORT -> server.port
	v.SetEnvPrefix("CARTCOMPARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.max_terms", 50)

	// Catalog defaults
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.retry_max", 2)
	v.SetDefault("catalog.rate_per_second", 5.0)
	v.SetDefault("catalog.burst", 10)
	v.SetDefault("catalog.max_concurrent_stores", 8)
	v.SetDefault("catalog.page_size", 20)
	v.SetDefault("catalog.user_agent", "CartCompare/1.0")
	v.SetDefault("catalog.stores", []map[string]interface{}{
		{"name": "Disco", "base_url": "https://www.disco.com.ar"},
		{"name": "Jumbo", "base_url": "https://www.jumbo.com.ar"},
		{"name": "Vea", "base_url": "https://www.vea.com.ar"},
		{"name": "Carrefour", "base_url": "https://www.carrefour.com.ar"},
		{"name": "Dia", "base_url": "https://diaonline.supermercadosdia.com.ar"},
	})

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "30m")

	// Matching defaults
	v.SetDefault("matching.threshold", 0.35)
	v.SetDefault("matching.max_alternatives", 3)
	v.SetDefault("matching.cheapest_tolerance", 0.01)
	v.SetDefault("matching.max_concurrent_terms", 8)
	v.SetDefault("matching.enable_debug_logging", false)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
}

// validate validates the configuration
func validate(config *Config) error {
	if len(config.Catalog.Stores) == 0 {
		return fmt.Errorf("at least one catalog store is required")
	}

	seen := make(map[string]bool, len(config.Catalog.Stores))
	for i, store := range config.Catalog.Stores {
		if strings.TrimSpace(store.Name) == "" {
			return fmt.Errorf("catalog store #%d has no name", i+1)
		}
		if strings.TrimSpace(store.BaseURL) == "" {
			return fmt.Errorf("catalog store %q has no base_url", store.Name)
		}
		key := strings.ToLower(store.Name)
		if seen[key] {
			return fmt.Errorf("duplicate catalog store name: %s", store.Name)
		}
		seen[key] = true
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Matching.Threshold <= 0 || config.Matching.Threshold > 1 {
		return fmt.Errorf("matching threshold must be in (0, 1], got: %v", config.Matching.Threshold)
	}

	if config.Server.MaxTerms <= 0 {
		return fmt.Errorf("server max_terms must be positive, got: %d", config.Server.MaxTerms)
	}

	return nil
}

// loadEnvFile exports ./.env without overriding variables that are already
// set. A missing file is not an error.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
