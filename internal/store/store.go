// Package store provides the in-memory record stores backing the fleet
// dashboard. Each store owns one slice of records and emulates a remote
// API: operations wait a configurable latency, hand out copies, and
// assign ids the way the backend it mocks would.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fleetlog/internal/core"
)

// ErrNotFound reports an id no record carries.
var ErrNotFound = errors.New("record not found")

type Store[T any] struct {
	name    string
	meta    func(*T) *core.Meta
	clone   func(T) T
	latency Latency
	now     func() time.Time

	mu     sync.Mutex
	items  []T
	lastID int
}

type Option[T any] func(*Store[T])

// WithLatency replaces the latency strategy. The default is None.
func WithLatency[T any](l Latency) Option[T] {
	return func(s *Store[T]) { s.latency = l }
}

// WithClock replaces the timestamp source, for tests.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(s *Store[T]) { s.now = now }
}

// WithClone installs a deep-copy function for record types that carry
// pointers. Without it a plain value copy is used.
func WithClone[T any](clone func(T) T) Option[T] {
	return func(s *Store[T]) { s.clone = clone }
}

// WithRecords seeds the store. Seed records keep their ids and
// timestamps as given.
func WithRecords[T any](records []T) Option[T] {
	return func(s *Store[T]) { s.items = append(s.items, records...) }
}

// New builds a store over records of type T. The meta accessor points
// the store at the identity fields embedded in T.
func New[T any](name string, meta func(*T) *core.Meta, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		name:    name,
		meta:    meta,
		clone:   func(t T) T { return t },
		latency: None{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastID = s.maxID()
	return s
}

// List returns a copy of all records in insertion order.
func (s *Store[T]) List(_ context.Context) []T {
	s.latency.Sleep(OpList)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	for i, it := range s.items {
		out[i] = s.clone(it)
	}
	return out
}

// Get returns a copy of the record with the given id.
func (s *Store[T]) Get(_ context.Context, id int) (T, error) {
	s.latency.Sleep(OpGet)
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index(id)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %d: %w", s.name, id, ErrNotFound)
	}
	return s.clone(s.items[i]), nil
}

// Create assigns the next id, stamps both timestamps and appends the
// record. Ids grow monotonically from the historical maximum and are
// never reused after a delete.
func (s *Store[T]) Create(_ context.Context, record T) T {
	s.latency.Sleep(OpCreate)
	s.mu.Lock()
	defer s.mu.Unlock()
	record = s.clone(record)
	m := s.meta(&record)
	s.lastID++
	m.ID = s.lastID
	now := s.now()
	m.CreatedAt = now
	m.UpdatedAt = now
	s.items = append(s.items, record)
	return s.clone(record)
}

// Update applies the given transform to a copy of the stored record and
// persists the result. Identity and creation time survive whatever the
// transform does; updated_at is refreshed. The transform returning an
// error leaves the record untouched.
func (s *Store[T]) Update(_ context.Context, id int, apply func(T) (T, error)) (T, error) {
	s.latency.Sleep(OpUpdate)
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	i, ok := s.index(id)
	if !ok {
		return zero, fmt.Errorf("%s %d: %w", s.name, id, ErrNotFound)
	}
	prev := *s.meta(&s.items[i])
	next, err := apply(s.clone(s.items[i]))
	if err != nil {
		return zero, err
	}
	m := s.meta(&next)
	m.ID = prev.ID
	m.CreatedAt = prev.CreatedAt
	m.UpdatedAt = s.now()
	s.items[i] = next
	return s.clone(next), nil
}

// Delete removes the record with the given id.
func (s *Store[T]) Delete(_ context.Context, id int) error {
	s.latency.Sleep(OpDelete)
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index(id)
	if !ok {
		return fmt.Errorf("%s %d: %w", s.name, id, ErrNotFound)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// Len reports the number of stored records without simulated latency.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store[T]) index(id int) (int, bool) {
	for i := range s.items {
		if s.meta(&s.items[i]).ID == id {
			return i, true
		}
	}
	return 0, false
}

func (s *Store[T]) maxID() int {
	max := 0
	for i := range s.items {
		if id := s.meta(&s.items[i]).ID; id > max {
			max = id
		}
	}
	return max
}
