package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/kapu/pokemon-catalog-go/internal/adapter"
	"github.com/kapu/pokemon-catalog-go/internal/command"
	"github.com/kapu/pokemon-catalog-go/internal/config"
	"github.com/kapu/pokemon-catalog-go/internal/constants"
	"github.com/kapu/pokemon-catalog-go/internal/service/cache"
	"github.com/kapu/pokemon-catalog-go/internal/service/catalog"
	"github.com/kapu/pokemon-catalog-go/internal/util"
	"github.com/kapu/pokemon-catalog-go/internal/web"
	"go.uber.org/zap"
)

// Container bundles the assembled services and the HTTP server.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Catalog catalog.Fetcher
	Server  *web.Server

	httpServer *http.Server
	closers    []func()
	closeOnce  sync.Once
}

// Build assembles the catalog client, the optional Redis response cache and
// the web server. Nothing listens until Start.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Upstream API
	breaker := util.NewCircuitBreaker("catalog-api",
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.ResetTimeout,
		logger,
	)
	httpClient := &http.Client{Timeout: cfg.Catalog.Timeout}
	var fetcher catalog.Fetcher = catalog.NewClient(cfg.Catalog.BaseURL, httpClient, breaker, logger)

	// Response cache
	if cfg.Redis.Enabled {
		cacheSvc, cacheErr := cache.NewCacheService(cache.CacheConfig{
			Host:      cfg.Redis.Host,
			Port:      cfg.Redis.Port,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: constants.RedisConfig.KeyPrefix,
		}, logger)
		if cacheErr != nil {
			logger.Warn("Redis unavailable, serving without response cache", zap.Error(cacheErr))
		} else {
			if readyErr := cacheSvc.WaitUntilReady(ctx, constants.RedisConfig.ReadyTimeout); readyErr != nil {
				logger.Warn("Redis not ready yet, cache reads will fall through", zap.Error(readyErr))
			}
			closers = append(closers, func() {
				_ = cacheSvc.Close()
			})
			fetcher = catalog.NewCachedFetcher(fetcher, cacheSvc, logger)
			logger.Info("Response cache enabled")
		}
	}

	// Presentation
	renderer, err := adapter.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	server := web.NewServer(web.Dependencies{
		Catalog:          fetcher,
		Renderer:         renderer,
		Registry:         command.NewListingRegistry(logger),
		DebounceInterval: cfg.Search.DebounceInterval,
		Logger:           logger,
	})

	logger.Info("Catalog services assembled",
		zap.String("api_base_url", cfg.Catalog.BaseURL),
		zap.Duration("api_timeout", cfg.Catalog.Timeout),
		zap.Duration("debounce", cfg.Search.DebounceInterval),
		zap.Bool("redis", cfg.Redis.Enabled),
	)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Catalog: fetcher,
		Server:  server,
		httpServer: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           server.Handler(),
			ReadHeaderTimeout: constants.ServerConfig.ReadHeaderTimeout,
		},
		closers: closers,
	}, nil
}

// Handler exposes the routed HTTP handler.
func (c *Container) Handler() http.Handler {
	return c.Server.Handler()
}

// Start listens on the configured address and serves until Shutdown. It
// returns nil after a graceful shutdown.
func (c *Container) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", c.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", c.httpServer.Addr, err)
	}
	return c.Serve(ctx, ln)
}

// Serve is Start on an existing listener. Requests inherit the values of ctx
// but not its cancellation; in-flight requests are drained by Shutdown.
func (c *Container) Serve(ctx context.Context, ln net.Listener) error {
	base := context.WithoutCancel(ctx)
	c.httpServer.BaseContext = func(net.Listener) context.Context { return base }

	c.Logger.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))
	if err := c.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, disconnects live listings and releases
// the cache connection.
func (c *Container) Shutdown(ctx context.Context) error {
	var shutdownErr error
	c.closeOnce.Do(func() {
		c.Server.CloseLive()
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("http shutdown: %w", err)
		}
		for i := len(c.closers) - 1; i >= 0; i-- {
			c.closers[i]()
		}
	})
	return shutdownErr
}
