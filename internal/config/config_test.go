package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "CATALOG_API_BASE_URL", "CATALOG_API_TIMEOUT_SECONDS",
		"SEARCH_DEBOUNCE_MS", "REDIS_ENABLED", "LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:3000", cfg.Catalog.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Search.DebounceInterval)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("CATALOG_API_BASE_URL", "http://api.internal:4000/")
	t.Setenv("SEARCH_DEBOUNCE_MS", "250")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "http://api.internal:4000", cfg.Catalog.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, 250*time.Millisecond, cfg.Search.DebounceInterval)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 6380, cfg.Redis.Port)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Addr: ":8080"},
			Catalog: CatalogConfig{BaseURL: "http://localhost:3000", Timeout: time.Second},
			Search:  SearchConfig{DebounceInterval: 500 * time.Millisecond},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("relative base url", func(t *testing.T) {
		cfg := valid()
		cfg.Catalog.BaseURL = "localhost:3000/api"
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero debounce", func(t *testing.T) {
		cfg := valid()
		cfg.Search.DebounceInterval = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("redis without host", func(t *testing.T) {
		cfg := valid()
		cfg.Redis = RedisConfig{Enabled: true}
		assert.Error(t, cfg.Validate())
	})
}
