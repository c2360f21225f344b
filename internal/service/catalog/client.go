package catalog

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kapu/pokemon-catalog-go/internal/constants"
	"github.com/kapu/pokemon-catalog-go/internal/domain"
	"github.com/kapu/pokemon-catalog-go/internal/util"
	"github.com/kapu/pokemon-catalog-go/pkg/errors"
	"go.uber.org/zap"
)

// Fetcher is the read surface of the upstream Pokemon API.
type Fetcher interface {
	ListPokemon(ctx context.Context) ([]*domain.Pokemon, error)
	GetPokemon(ctx context.Context, id string) (*domain.Pokemon, error)
	SearchPokemon(ctx context.Context, query string) ([]*domain.Pokemon, error)
	FilterByType(ctx context.Context, pokemonType string) ([]*domain.Pokemon, error)
	ListNews(ctx context.Context) ([]*domain.News, error)
}

// Client issues single-attempt GET requests against a fixed base origin.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *util.CircuitBreaker
	logger     *zap.Logger
}

func NewClient(baseURL string, httpClient *http.Client, breaker *util.CircuitBreaker, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.APIConfig.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		breaker:    breaker,
		logger:     logger,
	}
}

func (c *Client) ListPokemon(ctx context.Context) ([]*domain.Pokemon, error) {
	body, err := c.get(ctx, constants.APIPaths.Pokemon, nil)
	if err != nil {
		return nil, err
	}
	return c.decodePokemonList(body, constants.APIPaths.Pokemon)
}

func (c *Client) GetPokemon(ctx context.Context, id string) (*domain.Pokemon, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.NewValidationError("pokemon id is required", "id", id)
	}

	path := constants.APIPaths.PokemonByID + url.PathEscape(id)
	body, err := c.get(ctx, path, nil)
	if err != nil {
		var api *errors.APIError
		if stderrors.As(err, &api) && api.StatusCode == http.StatusNotFound {
			return nil, errors.NewNotFoundError("pokemon", id)
		}
		return nil, err
	}

	pokemon, err := decodePokemon(body)
	if err != nil {
		return nil, errors.NewDecodeError(path, err)
	}
	if pokemon == nil {
		return nil, errors.NewNotFoundError("pokemon", id)
	}
	c.logIDMismatch(pokemon)
	return pokemon.normalize(), nil
}

func (c *Client) SearchPokemon(ctx context.Context, query string) ([]*domain.Pokemon, error) {
	params := url.Values{"q": []string{query}}
	body, err := c.get(ctx, constants.APIPaths.Search, params)
	if err != nil {
		return nil, err
	}
	return c.decodePokemonList(body, constants.APIPaths.Search)
}

func (c *Client) FilterByType(ctx context.Context, pokemonType string) ([]*domain.Pokemon, error) {
	params := url.Values{"q": []string{pokemonType}}
	body, err := c.get(ctx, constants.APIPaths.FilterByType, params)
	if err != nil {
		return nil, err
	}
	return c.decodePokemonList(body, constants.APIPaths.FilterByType)
}

func (c *Client) ListNews(ctx context.Context) ([]*domain.News, error) {
	body, err := c.get(ctx, constants.APIPaths.News, nil)
	if err != nil {
		return nil, err
	}
	news, err := decodeNewsList(body)
	if err != nil {
		return nil, errors.NewDecodeError(constants.APIPaths.News, err)
	}
	return news, nil
}

func (c *Client) decodePokemonList(body []byte, path string) ([]*domain.Pokemon, error) {
	raws, err := decodePokemonList(body)
	if err != nil {
		return nil, errors.NewDecodeError(path, err)
	}
	result := make([]*domain.Pokemon, 0, len(raws))
	for _, raw := range raws {
		c.logIDMismatch(raw)
		result = append(result, raw.normalize())
	}
	return result, nil
}

func (c *Client) logIDMismatch(raw *pokemonRaw) {
	if raw.ID != "" && raw.MongoID != "" && raw.ID != raw.MongoID {
		c.logger.Debug("Pokemon carries both id and _id, using id",
			zap.String("id", string(raw.ID)),
			zap.String("_id", string(raw.MongoID)),
		)
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	if c.breaker != nil && !c.breaker.Allow() {
		c.logger.Warn("Catalog circuit open, skipping request",
			zap.String("url", reqURL),
			zap.Duration("retry_after", c.breaker.RetryAfter()),
		)
		return nil, errors.NewAPIError("catalog API unavailable", http.StatusServiceUnavailable, map[string]any{
			"url":            reqURL,
			"retry_after_ms": c.breaker.RetryAfter().Milliseconds(),
		})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.release()
		return nil, errors.NewAPIError("failed to create request", 500, map[string]any{
			"url": reqURL,
		}).WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.APIConfig.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			c.release()
		} else {
			c.recordFailure()
		}
		c.logger.Warn("Catalog request failed", zap.String("url", reqURL), zap.Error(err))
		return nil, errors.NewAPIError("request failed", http.StatusBadGateway, map[string]any{
			"url": reqURL,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFailure()
		return nil, errors.NewAPIError("failed to read response", http.StatusBadGateway, map[string]any{
			"url": reqURL,
		}).WithCause(err)
	}

	if resp.StatusCode >= 500 {
		c.recordFailure()
	} else {
		c.recordSuccess()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Catalog API error",
			zap.String("url", reqURL),
			zap.Int("status", resp.StatusCode),
		)
		return nil, errors.NewAPIError(
			fmt.Sprintf("catalog API error: %s", resp.Status),
			resp.StatusCode,
			map[string]any{
				"url":  reqURL,
				"body": util.TruncateString(string(bytes.TrimSpace(body)), 200),
			},
		)
	}

	c.logger.Debug("Catalog request completed",
		zap.String("url", reqURL),
		zap.Int("bytes", len(body)),
	)
	return body, nil
}

func (c *Client) recordFailure() {
	if c.breaker != nil {
		c.breaker.RecordFailure()
	}
}

func (c *Client) recordSuccess() {
	if c.breaker != nil {
		c.breaker.RecordSuccess()
	}
}

func (c *Client) release() {
	if c.breaker != nil {
		c.breaker.Release()
	}
}
