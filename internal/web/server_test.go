package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/pokemon-catalog-go/internal/adapter"
	"github.com/kapu/pokemon-catalog-go/internal/domain"
	"github.com/kapu/pokemon-catalog-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCatalog struct {
	mu        sync.Mutex
	pokemon   []*domain.Pokemon
	news      []*domain.News
	byQuery   map[string][]*domain.Pokemon
	byType    map[string][]*domain.Pokemon
	listErr   error
	searchErr error
	panicOn   string
	fetches   int
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		pokemon: []*domain.Pokemon{
			{ID: "4", Name: "charmander", Image: "/img/4.png", Types: []string{"fire"}, Abilities: []string{"blaze"}},
			{ID: "5", Name: "charmeleon", Image: "/img/5.png", Types: []string{"fire"}, Abilities: []string{"blaze"}},
			{ID: "25", Name: "pikachu", Image: "/img/25.png", Types: []string{"electric"}, Abilities: []string{"static", "lightning-rod"}},
		},
		news:    []*domain.News{{ID: "n1", Title: "Catalog launched", Content: "Hello"}},
		byQuery: map[string][]*domain.Pokemon{},
		byType:  map[string][]*domain.Pokemon{},
	}
}

func (c *stubCatalog) listFetches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches
}

func (c *stubCatalog) ListPokemon(ctx context.Context) ([]*domain.Pokemon, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetches++
	if c.panicOn == "list" {
		panic("list exploded")
	}
	return c.pokemon, c.listErr
}

func (c *stubCatalog) GetPokemon(ctx context.Context, id string) (*domain.Pokemon, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.pokemon {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errors.NewNotFoundError("pokemon", id)
}

func (c *stubCatalog) SearchPokemon(ctx context.Context, query string) ([]*domain.Pokemon, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetches++
	if c.searchErr != nil {
		return nil, c.searchErr
	}
	var out []*domain.Pokemon
	for _, p := range c.pokemon {
		if strings.Contains(p.Name, query) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *stubCatalog) FilterByType(ctx context.Context, pokemonType string) ([]*domain.Pokemon, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetches++
	var out []*domain.Pokemon
	for _, p := range c.pokemon {
		for _, t := range p.Types {
			if strings.EqualFold(t, pokemonType) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (c *stubCatalog) ListNews(ctx context.Context) ([]*domain.News, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.news, nil
}

func newTestServer(t *testing.T, catalog *stubCatalog) (*Server, *httptest.Server) {
	t.Helper()
	renderer, err := adapter.NewRenderer()
	require.NoError(t, err)

	s := NewServer(Dependencies{
		Catalog:          catalog,
		Renderer:         renderer,
		DebounceInterval: 20 * time.Millisecond,
		Logger:           zap.NewNop(),
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.CloseLive()
		ts.Close()
	})
	return s, ts
}

func getDoc(t *testing.T, url string) (*http.Response, *goquery.Document) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return resp, doc
}

func TestHomePage(t *testing.T) {
	_, ts := newTestServer(t, newStubCatalog())

	resp, doc := getDoc(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))

	assert.Equal(t, 3, doc.Find(".featured-card").Length())
	pikachu := doc.Find(".featured-card").Last()
	assert.Equal(t, "pikachu", pikachu.Find(".featured-name").Text())
	assert.Equal(t, "electric", pikachu.Find(".tag").Text())
	assert.Equal(t, 1, doc.Find(".news-card").Length())
	assert.Equal(t, "Home", doc.Find(".nav-link.active").Text())
}

func TestHomePageUpstreamFailure(t *testing.T) {
	catalog := newStubCatalog()
	catalog.listErr = errors.NewAPIError("boom", http.StatusInternalServerError, nil)
	_, ts := newTestServer(t, catalog)

	resp, doc := getDoc(t, ts.URL+"/")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Failed to load home page", doc.Find(".error-banner").Text())
	assert.Equal(t, 0, doc.Find(".featured-card").Length())
}

func TestListingPage(t *testing.T) {
	_, ts := newTestServer(t, newStubCatalog())

	t.Run("full list", func(t *testing.T) {
		resp, doc := getDoc(t, ts.URL+"/pokemons")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 3, doc.Find("#grid .card").Length())
		assert.Equal(t, "Pokemons", doc.Find(".nav-link.active").Text())
	})

	t.Run("search", func(t *testing.T) {
		_, doc := getDoc(t, ts.URL+"/pokemons?q=char")
		assert.Equal(t, 2, doc.Find("#grid .card").Length())
		val, _ := doc.Find("input.search").Attr("value")
		assert.Equal(t, "char", val)
	})

	t.Run("type filter", func(t *testing.T) {
		_, doc := getDoc(t, ts.URL+"/pokemons?type=Electric")
		assert.Equal(t, 1, doc.Find("#grid .card").Length())
		assert.Equal(t, "Electric", doc.Find("option[selected]").Text())
	})

	t.Run("all types", func(t *testing.T) {
		_, doc := getDoc(t, ts.URL+"/pokemons?type=All+Types")
		assert.Equal(t, 3, doc.Find("#grid .card").Length())
	})
}

func TestListingSearchFailure(t *testing.T) {
	catalog := newStubCatalog()
	catalog.searchErr = errors.NewAPIError("boom", http.StatusServiceUnavailable, nil)
	_, ts := newTestServer(t, catalog)

	resp, doc := getDoc(t, ts.URL+"/pokemons?q=char")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Search failed", doc.Find(".error-banner").Text())
	assert.Equal(t, 0, doc.Find("#grid .card").Length())
}

func TestDetailPage(t *testing.T) {
	_, ts := newTestServer(t, newStubCatalog())

	resp, doc := getDoc(t, ts.URL+"/pokemons/25")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pikachu", doc.Find(".detail-name").Text())
	assert.Equal(t,
		"A powerful electric type Pokemon with exceptional abilities. Known for mastering the arts of static and lightning-rod.",
		doc.Find(".description").Text())

	resp, doc = getDoc(t, ts.URL+"/pokemons/9999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Pokemon not found", doc.Find(".error-banner").Text())
}

func TestAboutHealthStaticAndNotFound(t *testing.T) {
	_, ts := newTestServer(t, newStubCatalog())

	resp, doc := getDoc(t, ts.URL+"/about")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "About", doc.Find(".nav-link.active").Text())

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, "ok", health["status"])

	resp, err = http.Get(ts.URL + "/static/app.css")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), ".navbar")

	resp, doc = getDoc(t, ts.URL+"/nowhere")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Page not found", doc.Find(".error-banner").Text())
}

func TestRequestIDIsKept(t *testing.T) {
	_, ts := newTestServer(t, newStubCatalog())

	id := "0b7d2c1e-4c1f-4f39-9a59-8f6a3f0f9a11"
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/about", nil)
	req.Header.Set(requestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(requestIDHeader))
}

func TestPanicIsRecovered(t *testing.T) {
	catalog := newStubCatalog()
	catalog.panicOn = "list"
	_, ts := newTestServer(t, catalog)

	resp, err := http.Get(ts.URL + "/pokemons")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
