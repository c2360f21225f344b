package view

import (
	"testing"

	"github.com/kapu/pokemon-catalog-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreTransitions(t *testing.T) {
	store := NewStore[[]string]()
	assert.Equal(t, domain.StatusIdle, store.Snapshot().Status)

	ticket := store.Begin()
	assert.True(t, store.Snapshot().Loading())

	require.True(t, store.Resolve(ticket, []string{"pikachu"}))
	snap := store.Snapshot()
	assert.Equal(t, domain.StatusSuccess, snap.Status)
	assert.Equal(t, []string{"pikachu"}, snap.Data)
	assert.Empty(t, snap.Err)

	ticket = store.Begin()
	require.True(t, store.Fail(ticket, "Search failed"))
	snap = store.Snapshot()
	assert.True(t, snap.Failed())
	assert.Equal(t, "Search failed", snap.Err)

	ticket = store.Begin()
	assert.Empty(t, store.Snapshot().Err, "a new request clears the previous error")
	require.True(t, store.Resolve(ticket, nil))
	assert.Empty(t, store.Snapshot().Err)
}

func TestStoreDropsStaleResponses(t *testing.T) {
	store := NewStore[string]()

	older := store.Begin()
	newer := store.Begin()

	assert.True(t, store.Resolve(newer, "charmander"))
	assert.False(t, store.Resolve(older, "bulbasaur"), "older response arrives last and is dropped")
	assert.False(t, store.Fail(older, "late failure"))

	snap := store.Snapshot()
	assert.Equal(t, "charmander", snap.Data)
	assert.Equal(t, domain.StatusSuccess, snap.Status)
	assert.Equal(t, uint64(newer), snap.Seq)
}

func TestStoreSubscribeAndClose(t *testing.T) {
	store := NewStore[int]()

	var seen []domain.Status
	unsubscribe := store.Subscribe(func(s Snapshot[int]) {
		seen = append(seen, s.Status)
	})

	ticket := store.Begin()
	store.Resolve(ticket, 1)
	assert.Equal(t, []domain.Status{domain.StatusLoading, domain.StatusSuccess}, seen)

	unsubscribe()
	store.Resolve(store.Begin(), 2)
	assert.Len(t, seen, 2)

	ticket = store.Begin()
	store.Close()
	assert.False(t, store.Resolve(ticket, 3))
	assert.False(t, store.Current(ticket))
	assert.Equal(t, Ticket(0), store.Begin())
}

func TestStoreVersionIncreases(t *testing.T) {
	store := NewStore[int]()
	v0 := store.Snapshot().Version
	ticket := store.Begin()
	v1 := store.Snapshot().Version
	store.Resolve(ticket, 5)
	v2 := store.Snapshot().Version

	assert.Less(t, v0, v1)
	assert.Less(t, v1, v2)
}
