package view

import (
	"sync"

	"github.com/kapu/pokemon-catalog-go/internal/domain"
)

// Snapshot is an immutable copy of a page's fetch state.
type Snapshot[T any] struct {
	Status  domain.Status
	Data    T
	Err     string
	Seq     uint64 // request that produced this state
	Version uint64 // bumped on every applied change
}

func (s Snapshot[T]) Loading() bool { return s.Status == domain.StatusLoading }

func (s Snapshot[T]) Failed() bool { return s.Status == domain.StatusError }

// Ticket identifies one issued request.
type Ticket uint64

type listenerEntry[T any] struct {
	id int
	fn func(Snapshot[T])
}

// Store holds the state of one page visit. Only the response to the most
// recently issued request may change it; older responses are dropped.
type Store[T any] struct {
	mu        sync.Mutex
	state     Snapshot[T]
	seq       uint64
	closed    bool
	listeners []listenerEntry[T]
	nextID    int
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		state:  Snapshot[T]{Status: domain.StatusIdle},
		nextID: 1,
	}
}

// Begin marks a new request as in flight and returns its ticket. Data from
// the previous success is kept until the new response arrives.
func (s *Store[T]) Begin() Ticket {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0
	}
	s.seq++
	s.state.Status = domain.StatusLoading
	s.state.Err = ""
	s.state.Seq = s.seq
	s.state.Version++
	ticket := Ticket(s.seq)
	snap, listeners := s.state, s.copyListeners()
	s.mu.Unlock()

	notify(listeners, snap)
	return ticket
}

// Resolve applies a successful response. It reports false when the ticket
// was superseded or the store is closed.
func (s *Store[T]) Resolve(ticket Ticket, data T) bool {
	return s.apply(ticket, func(st *Snapshot[T]) {
		st.Status = domain.StatusSuccess
		st.Data = data
		st.Err = ""
	})
}

// Fail applies an error response under the same rules as Resolve.
func (s *Store[T]) Fail(ticket Ticket, message string) bool {
	return s.apply(ticket, func(st *Snapshot[T]) {
		st.Status = domain.StatusError
		st.Err = message
	})
}

func (s *Store[T]) apply(ticket Ticket, mutate func(*Snapshot[T])) bool {
	s.mu.Lock()
	if s.closed || ticket == 0 || uint64(ticket) != s.seq {
		s.mu.Unlock()
		return false
	}
	mutate(&s.state)
	s.state.Version++
	snap, listeners := s.state, s.copyListeners()
	s.mu.Unlock()

	notify(listeners, snap)
	return true
}

// Current reports whether ticket is still the latest issued request.
func (s *Store[T]) Current(ticket Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && ticket != 0 && uint64(ticket) == s.seq
}

func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for every applied change and returns a function that
// removes it.
func (s *Store[T]) Subscribe(fn func(Snapshot[T])) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listenerEntry[T]{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, entry := range s.listeners {
			if entry.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				break
			}
		}
	}
}

// Close discards the store; later requests and responses are ignored.
func (s *Store[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listeners = nil
}

func (s *Store[T]) copyListeners() []listenerEntry[T] {
	listeners := make([]listenerEntry[T], len(s.listeners))
	copy(listeners, s.listeners)
	return listeners
}

func notify[T any](listeners []listenerEntry[T], snap Snapshot[T]) {
	for _, entry := range listeners {
		entry.fn(snap)
	}
}
