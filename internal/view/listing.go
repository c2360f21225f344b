package view

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kapu/pokemon-catalog-go/internal/debounce"
	"github.com/kapu/pokemon-catalog-go/internal/domain"
	"go.uber.org/zap"
)

// ListingSession is the live listing page of one visitor. Search edits are
// debounced; type selections fetch immediately. Every fetch replaces the
// whole list and only the latest issued one may land.
type ListingSession struct {
	catalog   Catalog
	store     *Store[[]*domain.Pokemon]
	debouncer *debounce.Debouncer[string]
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu           sync.Mutex
	query        string
	selectedType string
	closed       bool
}

func NewListingSession(catalog Catalog, interval time.Duration, logger *zap.Logger) *ListingSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &ListingSession{
		catalog: catalog,
		store:   NewStore[[]*domain.Pokemon](),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
	s.debouncer = debounce.New(interval, s.searchIfCurrent)
	return s
}

func (s *ListingSession) Store() *Store[[]*domain.Pokemon] {
	return s.store
}

// Mount loads the full list.
func (s *ListingSession) Mount() {
	s.Restore(ListingQuery{})
}

// Restore takes over a search box and type select that were already filled
// in, e.g. from the page URL, and fetches for them without debouncing.
func (s *ListingSession) Restore(q ListingQuery) {
	if q, ok := s.adopt(q); ok {
		s.dispatch(listingOp(s.catalog, q))
	}
}

// Adopt takes over a search box and type select whose results are already on
// screen. Nothing is fetched until the next edit or reload.
func (s *ListingSession) Adopt(q ListingQuery) {
	s.adopt(q)
}

func (s *ListingSession) adopt(q ListingQuery) (ListingQuery, bool) {
	q = q.Normalized()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return q, false
	}
	s.query = q.Query
	s.selectedType = q.Type
	return q, true
}

// Search records a search box edit. A blank query skips the timer and loads
// the full list right away.
func (s *ListingSession) Search(query string) {
	query = strings.TrimSpace(query)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.query = query
	s.mu.Unlock()

	if query == "" {
		s.debouncer.Cancel()
		s.dispatch(listAllOp(s.catalog))
		return
	}
	s.debouncer.Submit(query)
}

// FilterType applies a type selection. "All Types" reloads the full list.
func (s *ListingSession) FilterType(pokemonType string) {
	pokemonType = strings.TrimSpace(pokemonType)
	if domain.IsAllTypes(pokemonType) {
		pokemonType = ""
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.selectedType = pokemonType
	s.mu.Unlock()

	if pokemonType == "" {
		s.dispatch(listAllOp(s.catalog))
		return
	}
	s.dispatch(filterOp(s.catalog, pokemonType))
}

// Reload re-issues the fetch for the current search box and type select
// without waiting for the debounce interval.
func (s *ListingSession) Reload() {
	s.debouncer.Cancel()
	s.dispatch(listingOp(s.catalog, s.Query()))
}

func (s *ListingSession) Query() ListingQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ListingQuery{Query: s.query, Type: s.selectedType}
}

// Close cancels the pending search, cancels in-flight fetches and waits for
// them to return. The store is discarded afterwards.
func (s *ListingSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.debouncer.Stop()
	s.cancel()
	s.wg.Wait()
	s.store.Close()
}

// searchIfCurrent runs a debounced search unless the search box changed after
// the timer was armed.
func (s *ListingSession) searchIfCurrent(query string) {
	s.dispatchIf(searchOp(s.catalog, query), func() bool {
		return s.query == query
	})
}

func (s *ListingSession) dispatch(op fetchOp) {
	s.dispatchIf(op, nil)
}

// dispatchIf issues op when cond, evaluated under the session lock, holds.
// The ticket is taken under the same lock so a newer edit always gets a
// newer ticket.
func (s *ListingSession) dispatchIf(op fetchOp, cond func() bool) {
	s.mu.Lock()
	if s.closed || (cond != nil && !cond()) {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	ticket := s.store.Begin()
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		if !s.store.Current(ticket) {
			s.logger.Debug("Skipped superseded listing fetch", zap.String("op", op.name))
			return
		}
		items, err := op.run(s.ctx)
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			s.logger.Warn("Listing fetch failed", zap.String("op", op.name), zap.Error(err))
			s.store.Fail(ticket, op.message)
			return
		}
		if !s.store.Resolve(ticket, items) {
			s.logger.Debug("Dropped stale listing response",
				zap.String("op", op.name),
				zap.Uint64("ticket", uint64(ticket)),
			)
		}
	}()
}
