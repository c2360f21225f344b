package view

import (
	"context"
	"fmt"
	"testing"

	"github.com/kapu/pokemon-catalog-go/internal/domain"
	"github.com/kapu/pokemon-catalog-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadHomeLimitsPreview(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.pokemon = makePokemon(10)
	catalog.news = makeNews(7)

	snap, err := LoadHome(context.Background(), catalog, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSuccess, snap.Status)
	assert.Len(t, snap.Data.Pokemon, 4)
	assert.Len(t, snap.Data.News, 3)
	assert.Equal(t, "pokemon-1", snap.Data.Pokemon[0].Name, "server order is kept")
	assert.ElementsMatch(t, []string{"list", "news"}, catalog.Calls())
}

func TestLoadHomeShortLists(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.pokemon = []*domain.Pokemon{{ID: "1", Name: "pikachu", Image: "/p.png", Types: []string{"electric"}}}

	snap, err := LoadHome(context.Background(), catalog, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, snap.Data.Pokemon, 1)
	assert.Equal(t, "pikachu", snap.Data.Pokemon[0].Name)
	assert.Equal(t, []string{"electric"}, snap.Data.Pokemon[0].Types)
	assert.Empty(t, snap.Data.News)
}

func TestLoadHomeEitherFailureFailsPage(t *testing.T) {
	t.Run("news fails", func(t *testing.T) {
		catalog := newFakeCatalog()
		catalog.pokemon = makePokemon(2)
		catalog.newsErr = fmt.Errorf("news down")

		snap, err := LoadHome(context.Background(), catalog, zap.NewNop())
		require.Error(t, err)
		assert.True(t, snap.Failed())
		assert.Equal(t, "Failed to load home page", snap.Err)
		assert.Empty(t, snap.Data.Pokemon, "the successful half is dropped")
	})

	t.Run("pokemon fails", func(t *testing.T) {
		catalog := newFakeCatalog()
		catalog.news = makeNews(2)
		catalog.listErr = fmt.Errorf("list down")

		snap, err := LoadHome(context.Background(), catalog, zap.NewNop())
		require.Error(t, err)
		assert.True(t, snap.Failed())
		assert.Empty(t, snap.Data.News)
	})
}

func TestLoadDetail(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.pokemon = makePokemon(3)

	snap, err := LoadDetail(context.Background(), catalog, "2", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "pokemon-2", snap.Data.Name)

	snap, err = LoadDetail(context.Background(), catalog, "does-not-exist", zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, snap.Failed())
	assert.Equal(t, "Pokemon not found", snap.Err)
	assert.Nil(t, snap.Data)
}

func TestLoadListingChoosesOperation(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.pokemon = makePokemon(5)
	catalog.byQuery["char"] = makePokemon(2)
	catalog.byType["Fire"] = makePokemon(3)

	cases := []struct {
		name  string
		query ListingQuery
		call  string
		count int
	}{
		{"full list", ListingQuery{}, "list", 5},
		{"search", ListingQuery{Query: " char "}, "search:char", 2},
		{"filter", ListingQuery{Type: "Fire"}, "filter:Fire", 3},
		{"all types", ListingQuery{Type: "All Types"}, "list", 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := len(catalog.Calls())
			snap, err := LoadListing(context.Background(), catalog, tc.query, zap.NewNop())
			require.NoError(t, err)
			assert.Len(t, snap.Data, tc.count)
			assert.Equal(t, tc.call, catalog.Calls()[before])
		})
	}
}
