package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/kapu/pokemon-catalog-go/internal/domain"
	"github.com/kapu/pokemon-catalog-go/pkg/errors"
)

type fakeCatalog struct {
	mu      sync.Mutex
	calls   []string
	pokemon []*domain.Pokemon
	byQuery map[string][]*domain.Pokemon
	byType  map[string][]*domain.Pokemon
	news    []*domain.News
	listErr error
	newsErr error
	gates   map[string]chan struct{}
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		byQuery: make(map[string][]*domain.Pokemon),
		byType:  make(map[string][]*domain.Pokemon),
		gates:   make(map[string]chan struct{}),
	}
}

// gate makes the call named key block until the returned channel is closed.
func (f *fakeCatalog) gate(key string) chan struct{} {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[key] = ch
	f.mu.Unlock()
	return ch
}

func (f *fakeCatalog) enter(ctx context.Context, key string) error {
	f.mu.Lock()
	f.calls = append(f.calls, key)
	gate := f.gates[key]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (f *fakeCatalog) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeCatalog) ListPokemon(ctx context.Context) ([]*domain.Pokemon, error) {
	if err := f.enter(ctx, "list"); err != nil {
		return nil, err
	}
	return f.pokemon, f.listErr
}

func (f *fakeCatalog) GetPokemon(ctx context.Context, id string) (*domain.Pokemon, error) {
	if err := f.enter(ctx, "get:"+id); err != nil {
		return nil, err
	}
	for _, p := range f.pokemon {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errors.NewNotFoundError("pokemon", id)
}

func (f *fakeCatalog) SearchPokemon(ctx context.Context, query string) ([]*domain.Pokemon, error) {
	if err := f.enter(ctx, "search:"+query); err != nil {
		return nil, err
	}
	return f.byQuery[query], nil
}

func (f *fakeCatalog) FilterByType(ctx context.Context, pokemonType string) ([]*domain.Pokemon, error) {
	if err := f.enter(ctx, "filter:"+pokemonType); err != nil {
		return nil, err
	}
	return f.byType[pokemonType], nil
}

func (f *fakeCatalog) ListNews(ctx context.Context) ([]*domain.News, error) {
	if err := f.enter(ctx, "news"); err != nil {
		return nil, err
	}
	return f.news, f.newsErr
}

func makePokemon(n int) []*domain.Pokemon {
	out := make([]*domain.Pokemon, n)
	for i := range out {
		out[i] = &domain.Pokemon{
			ID:        fmt.Sprintf("%d", i+1),
			Name:      fmt.Sprintf("pokemon-%d", i+1),
			Image:     fmt.Sprintf("/img/%d.png", i+1),
			Types:     []string{"normal"},
			Abilities: []string{"run-away"},
		}
	}
	return out
}

func makeNews(n int) []*domain.News {
	out := make([]*domain.News, n)
	for i := range out {
		out[i] = &domain.News{ID: fmt.Sprintf("n%d", i+1), Title: fmt.Sprintf("news %d", i+1)}
	}
	return out
}
