// Package yearctx holds the academic year a session is currently displaying.
//
// A Store is the single source of truth for one session: it is initialized from the
// academic year resolver, mutated only through SetSelectedYear and observed through
// Subscribe. A Provider scopes stores to sessions so that every reader of a session
// shares the same Store instance.
package yearctx

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/NathJo212/Overd-OSE-sub001/core/academic"
)

// ErrOutsideProvider is returned when a store is read or written before initialization,
// or when a session has no store.
var ErrOutsideProvider = errors.New("year context used outside provider")

type (
	// Change describes one selection mutation.
	Change struct {
		Previous int
		Selected int
	}

	// Subscriber is called synchronously after every selection change.
	Subscriber func(Change)

	// Subscription identifies a registered Subscriber.
	Subscription uint64

	Option func(*Store)

	Store struct {
		// writeMu serializes SetSelectedYear so notifications follow the order of writes.
		writeMu sync.Mutex

		mu          sync.RWMutex
		now         func() time.Time
		initialized bool
		year        int

		subsMu  sync.Mutex
		nextSub Subscription
		subs    map[Subscription]Subscriber
		order   []Subscription
	}
)

// WithClock replaces academic.NowFunc as the store's clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns an uninitialized Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		subs: make(map[Subscription]Subscriber),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return academic.NowFunc()
}

// Initialize sets the selection to the current academic year. It is a no-op once initialized.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return
	}
	s.year = academic.Year(s.clock())
	s.initialized = true
}

// Initialized reports whether Initialize has been called.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *Store) SelectedYear() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return 0, ErrOutsideProvider
	}
	return s.year, nil
}

// MustSelectedYear is like SelectedYear but panics when the store is not initialized.
func (s *Store) MustSelectedYear() int {
	year, err := s.SelectedYear()
	if err != nil {
		panic(err)
	}
	return year
}

// SetSelectedYear replaces the selection. Any year is accepted, past or future.
// Subscribers are notified once the new value is visible to readers, only if it changed,
// and before any later SetSelectedYear takes effect. Subscribers must not call SetSelectedYear.
func (s *Store) SetSelectedYear(year int) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return ErrOutsideProvider
	}
	change := Change{Previous: s.year, Selected: year}
	s.year = year
	s.mu.Unlock()

	if change.Previous != change.Selected {
		s.notify(change)
	}
	return nil
}

func (s *Store) Subscribe(fn Subscriber) Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.subs[id] = fn
	s.order = append(s.order, id)
	return id
}

func (s *Store) Unsubscribe(id Subscription) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	if _, ok := s.subs[id]; !ok {
		return
	}
	delete(s.subs, id)
	for i, sub := range s.order {
		if sub == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}

// unsubscribeAll drops every subscriber; used when the session ends.
func (s *Store) unsubscribeAll() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	s.subs = make(map[Subscription]Subscriber)
	s.order = nil
}

// Subscribers returns the number of registered subscribers.
func (s *Store) Subscribers() int {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	return len(s.subs)
}

// notify calls subscribers in subscription order, outside of any lock so that
// subscribers may read the store or unsubscribe.
func (s *Store) notify(change Change) {
	s.subsMu.Lock()
	fns := make([]Subscriber, 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.subs[id])
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}
