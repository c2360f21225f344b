package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kapu/pokemon-catalog-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type CacheService struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

type CacheConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   1,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return NewCacheServiceFromClient(client, cfg.KeyPrefix, logger), nil
}

// NewCacheServiceFromClient wraps an existing client without pinging it.
func NewCacheServiceFromClient(client *redis.Client, prefix string, logger *zap.Logger) *CacheService {
	return &CacheService{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

// Get decodes the cached JSON value at key into dest. found is false on a miss.
func (c *CacheService) Get(ctx context.Context, key string, dest any) (bool, error) {
	fullKey := c.prefix + key
	value, err := c.client.Get(ctx, fullKey).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", fullKey), zap.Error(err))
		return false, errors.NewCacheError("get failed", "get", fullKey, err)
	}

	if dest != nil {
		if err := json.Unmarshal(value, dest); err != nil {
			c.logger.Error("Cache unmarshal failed", zap.String("key", fullKey), zap.Error(err))
			return false, errors.NewCacheError("unmarshal failed", errors.CacheOpDecode, fullKey, err)
		}
	}

	return true, nil
}

func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	fullKey := c.prefix + key
	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", fullKey, err)
	}

	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, fullKey, jsonData, ttl).Err(); err != nil {
		c.logger.Error("Cache set failed", zap.String("key", fullKey), zap.Error(err))
		return errors.NewCacheError("set failed", "set", fullKey, err)
	}

	return nil
}

func (c *CacheService) Del(ctx context.Context, key string) error {
	fullKey := c.prefix + key
	if err := c.client.Del(ctx, fullKey).Err(); err != nil {
		c.logger.Error("Cache delete failed", zap.String("key", fullKey), zap.Error(err))
		return errors.NewCacheError("delete failed", "del", fullKey, err)
	}
	return nil
}

func (c *CacheService) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection", zap.Error(err))
		return err
	}
	c.logger.Info("Redis disconnected")
	return nil
}

func (c *CacheService) IsConnected(ctx context.Context) bool {
	return c.client.Ping(ctx).Err() == nil
}

func (c *CacheService) WaitUntilReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for Redis to be ready")
		case <-ticker.C:
			if c.IsConnected(ctx) {
				return nil
			}
		}
	}
}
