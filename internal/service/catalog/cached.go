package catalog

import (
	"context"
	"net/url"
	"time"

	"github.com/kapu/pokemon-catalog-go/internal/constants"
	"github.com/kapu/pokemon-catalog-go/internal/domain"
	"github.com/kapu/pokemon-catalog-go/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Store is the key/value backend of the response cache.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CachedFetcher puts a cache-aside layer in front of a Fetcher. Identical
// concurrent misses share one upstream call. Cache failures fall through to
// the upstream and never fail the request. Entries that no longer decode are
// evicted.
type CachedFetcher struct {
	next   Fetcher
	store  Store
	group  singleflight.Group
	logger *zap.Logger
}

func NewCachedFetcher(next Fetcher, store Store, logger *zap.Logger) *CachedFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedFetcher{
		next:   next,
		store:  store,
		logger: logger,
	}
}

func (c *CachedFetcher) ListPokemon(ctx context.Context) ([]*domain.Pokemon, error) {
	return cached(ctx, c, constants.APIPaths.Pokemon, constants.CacheTTL.PokemonList, c.next.ListPokemon)
}

func (c *CachedFetcher) GetPokemon(ctx context.Context, id string) (*domain.Pokemon, error) {
	key := constants.APIPaths.PokemonByID + url.PathEscape(id)
	return cached(ctx, c, key, constants.CacheTTL.PokemonDetail, func(ctx context.Context) (*domain.Pokemon, error) {
		return c.next.GetPokemon(ctx, id)
	})
}

func (c *CachedFetcher) SearchPokemon(ctx context.Context, query string) ([]*domain.Pokemon, error) {
	key := constants.APIPaths.Search + "?q=" + url.QueryEscape(query)
	return cached(ctx, c, key, constants.CacheTTL.Search, func(ctx context.Context) ([]*domain.Pokemon, error) {
		return c.next.SearchPokemon(ctx, query)
	})
}

func (c *CachedFetcher) FilterByType(ctx context.Context, pokemonType string) ([]*domain.Pokemon, error) {
	key := constants.APIPaths.FilterByType + "?q=" + url.QueryEscape(pokemonType)
	return cached(ctx, c, key, constants.CacheTTL.TypeFilter, func(ctx context.Context) ([]*domain.Pokemon, error) {
		return c.next.FilterByType(ctx, pokemonType)
	})
}

func (c *CachedFetcher) ListNews(ctx context.Context) ([]*domain.News, error) {
	return cached(ctx, c, constants.APIPaths.News, constants.CacheTTL.News, c.next.ListNews)
}

func cached[T any](ctx context.Context, c *CachedFetcher, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var hit T
	if found, err := c.store.Get(ctx, key, &hit); err == nil && found {
		c.logger.Debug("Catalog cache hit", zap.String("key", key))
		return hit, nil
	} else if err != nil {
		c.logger.Warn("Catalog cache read failed, using upstream", zap.String("key", key), zap.Error(err))
		if errors.IsCorruptCacheEntry(err) {
			if delErr := c.store.Del(ctx, key); delErr != nil {
				c.logger.Warn("Catalog cache evict failed", zap.String("key", key), zap.Error(delErr))
			}
		}
	}

	// Shared loads are detached from any single caller; the http client
	// timeout bounds them.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		value, err := load(loadCtx)
		if err != nil {
			return value, err
		}
		if setErr := c.store.Set(loadCtx, key, value, ttl); setErr != nil {
			c.logger.Warn("Catalog cache write failed", zap.String("key", key), zap.Error(setErr))
		}
		return value, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
	if res.Shared {
		c.logger.Debug("Catalog upstream call shared", zap.String("key", key))
	}
	if res.Err != nil {
		var zero T
		return zero, res.Err
	}
	return res.Val.(T), nil
}
