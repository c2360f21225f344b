package view

import (
	"context"
	"strings"

	"github.com/kapu/pokemon-catalog-go/internal/constants"
	"github.com/kapu/pokemon-catalog-go/internal/domain"
	"github.com/kapu/pokemon-catalog-go/internal/util"
	"github.com/kapu/pokemon-catalog-go/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Catalog is the data source the pages read from.
type Catalog interface {
	ListPokemon(ctx context.Context) ([]*domain.Pokemon, error)
	GetPokemon(ctx context.Context, id string) (*domain.Pokemon, error)
	SearchPokemon(ctx context.Context, query string) ([]*domain.Pokemon, error)
	FilterByType(ctx context.Context, pokemonType string) ([]*domain.Pokemon, error)
	ListNews(ctx context.Context) ([]*domain.News, error)
}

// HomeData is the featured preview shown on the home page.
type HomeData struct {
	Pokemon []*domain.Pokemon
	News    []*domain.News
}

// LoadHome requests the pokemon list and the news list together and waits for
// both. Either failure fails the whole page and the other result is dropped.
func LoadHome(ctx context.Context, catalog Catalog, logger *zap.Logger) (Snapshot[HomeData], error) {
	store := NewStore[HomeData]()
	defer store.Close()
	ticket := store.Begin()

	var (
		pokemon []*domain.Pokemon
		news    []*domain.News
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		pokemon, err = catalog.ListPokemon(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		news, err = catalog.ListNews(ctx)
		return err
	})

	if err := p.Wait(); err != nil {
		logger.Warn("Home page fetch failed", zap.Error(err))
		store.Fail(ticket, constants.ErrorMessages.LoadHome)
		return store.Snapshot(), err
	}

	store.Resolve(ticket, HomeData{
		Pokemon: util.Head(pokemon, constants.HomeConfig.FeaturedPokemon),
		News:    util.Head(news, constants.HomeConfig.LatestNews),
	})
	return store.Snapshot(), nil
}

// LoadDetail requests one pokemon by id.
func LoadDetail(ctx context.Context, catalog Catalog, id string, logger *zap.Logger) (Snapshot[*domain.Pokemon], error) {
	store := NewStore[*domain.Pokemon]()
	defer store.Close()
	ticket := store.Begin()

	pokemon, err := catalog.GetPokemon(ctx, id)
	if err == nil && pokemon == nil {
		err = errors.NewNotFoundError("pokemon", id)
	}
	if err != nil {
		if errors.IsNotFound(err) {
			logger.Info("Pokemon not found", zap.String("id", id))
			store.Fail(ticket, constants.ErrorMessages.NotFound)
		} else {
			logger.Warn("Pokemon detail fetch failed", zap.String("id", id), zap.Error(err))
			store.Fail(ticket, constants.ErrorMessages.LoadDetail)
		}
		return store.Snapshot(), err
	}

	store.Resolve(ticket, pokemon)
	return store.Snapshot(), nil
}

// ListingQuery is the search box and type select of the listing page.
type ListingQuery struct {
	Query string
	Type  string
}

// Normalized trims the query and folds every "all" selection to "".
func (q ListingQuery) Normalized() ListingQuery {
	out := ListingQuery{Query: strings.TrimSpace(q.Query), Type: strings.TrimSpace(q.Type)}
	if domain.IsAllTypes(out.Type) {
		out.Type = ""
	}
	return out
}

// LoadListing renders the listing in one pass: a search when there is a
// query, else a type filter when a type is selected, else the full list.
func LoadListing(ctx context.Context, catalog Catalog, q ListingQuery, logger *zap.Logger) (Snapshot[[]*domain.Pokemon], error) {
	store := NewStore[[]*domain.Pokemon]()
	defer store.Close()
	ticket := store.Begin()

	op := listingOp(catalog, q.Normalized())
	items, err := op.run(ctx)
	if err != nil {
		logger.Warn("Listing fetch failed", zap.String("op", op.name), zap.Error(err))
		store.Fail(ticket, op.message)
		return store.Snapshot(), err
	}

	store.Resolve(ticket, items)
	return store.Snapshot(), nil
}

type fetchOp struct {
	name    string
	message string
	run     func(ctx context.Context) ([]*domain.Pokemon, error)
}

func listAllOp(catalog Catalog) fetchOp {
	return fetchOp{
		name:    "list",
		message: constants.ErrorMessages.LoadList,
		run:     catalog.ListPokemon,
	}
}

func searchOp(catalog Catalog, query string) fetchOp {
	return fetchOp{
		name:    "search",
		message: constants.ErrorMessages.Search,
		run: func(ctx context.Context) ([]*domain.Pokemon, error) {
			return catalog.SearchPokemon(ctx, query)
		},
	}
}

func filterOp(catalog Catalog, pokemonType string) fetchOp {
	return fetchOp{
		name:    "filter",
		message: constants.ErrorMessages.Filter,
		run: func(ctx context.Context) ([]*domain.Pokemon, error) {
			return catalog.FilterByType(ctx, pokemonType)
		},
	}
}

func listingOp(catalog Catalog, q ListingQuery) fetchOp {
	switch {
	case q.Query != "":
		return searchOp(catalog, q.Query)
	case q.Type != "":
		return filterOp(catalog, q.Type)
	default:
		return listAllOp(catalog)
	}
}
