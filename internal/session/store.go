// Package session keeps short-lived per-user state in memory.
package session

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Store maps a user id to a value that expires after a fixed TTL.
// Expired values are invisible to Get even before Sweep removes them.
type Store[T any] struct {
	mu    sync.Mutex
	items map[int64]entry[T]
	ttl   time.Duration
	now   func() time.Time
}

func New[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		items: make(map[int64]entry[T]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// SetClock replaces the time source. Used by tests.
func (s *Store[T]) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func (s *Store[T]) TTL() time.Duration { return s.ttl }

func (s *Store[T]) Get(userID int64) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[userID]
	if !ok || !s.now().Before(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Put stores v and restarts its TTL.
func (s *Store[T]) Put(userID int64, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[userID] = entry[T]{value: v, expiresAt: s.now().Add(s.ttl)}
}

// Take returns and removes the value in one step.
func (s *Store[T]) Take(userID int64) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[userID]
	delete(s.items, userID)
	if !ok || !s.now().Before(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Delete reports whether a live value was removed.
func (s *Store[T]) Delete(userID int64) bool {
	_, ok := s.Take(userID)
	return ok
}

// Sweep drops expired values and returns how many were removed.
func (s *Store[T]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, e := range s.items {
		if !now.Before(e.expiresAt) {
			delete(s.items, id)
			n++
		}
	}
	return n
}

// Len counts stored values, expired ones included until the next Sweep.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
