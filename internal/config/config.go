package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kapu/pokemon-catalog-go/internal/constants"
)

type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Search  SearchConfig
	Redis   RedisConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Addr string
}

// CatalogConfig points at the upstream Pokemon API. The base URL is read once
// at startup and stays fixed for the life of the process.
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SearchConfig struct {
	DebounceInterval time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Catalog: CatalogConfig{
			BaseURL: strings.TrimRight(getEnv("CATALOG_API_BASE_URL", constants.APIConfig.DefaultBaseURL), "/"),
			Timeout: time.Duration(getEnvInt("CATALOG_API_TIMEOUT_SECONDS", int(constants.APIConfig.Timeout/time.Second))) * time.Second,
		},
		Search: SearchConfig{
			DebounceInterval: time.Duration(getEnvInt("SEARCH_DEBOUNCE_MS", int(constants.SearchConfig.DebounceInterval/time.Millisecond))) * time.Millisecond,
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("CATALOG_API_BASE_URL is required")
	}
	u, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("CATALOG_API_BASE_URL must be an absolute URL, got %q", c.Catalog.BaseURL)
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("CATALOG_API_TIMEOUT_SECONDS must be positive")
	}
	if c.Search.DebounceInterval <= 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE_MS must be positive")
	}
	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required when REDIS_ENABLED is set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
