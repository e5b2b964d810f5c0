// internal/store/memory.go
//
// In-memory implementation of the round Store.
// Rounds live only as long as the process; durable history and player
// stats go to the storage package.
//
// Characteristics:
//   - Stores *round.Round objects keyed by ID in a map.
//   - Update runs the callback under the write lock, so a round is only
//     ever mutated by one request at a time.
//   - Finished rounds are dropped once they are older than the TTL.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/hangman/internal/round"
)

// ErrNotFound is returned for unknown round IDs.
var ErrNotFound = errors.New("round not found")

// Store defines the persistence interface for live rounds.
type Store interface {
	// Save adds or replaces a round.
	Save(ctx context.Context, r *round.Round) error

	// View returns the render snapshot of a round.
	View(ctx context.Context, id string) (round.View, error)

	// Update runs fn with exclusive access to the round.
	Update(ctx context.Context, id string, fn func(r *round.Round) error) error
}

type entry struct {
	round   *round.Round
	touched time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.Mutex
	rounds map[string]*entry
	ttl    time.Duration
	now    func() time.Time
}

// abandonedFactor scales the TTL for rounds that never finished.
const abandonedFactor = 12

// NewMemoryStore constructs a new in-memory Store. Finished rounds that
// have not been touched for ttl, and unfinished ones idle for
// abandonedFactor*ttl, are evicted on the next Save; ttl <= 0 keeps them
// forever.
func NewMemoryStore(ttl time.Duration) Store {
	return &memory{rounds: make(map[string]*entry), ttl: ttl, now: time.Now}
}

func (m *memory) Save(ctx context.Context, r *round.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked()
	m.rounds[r.ID] = &entry{round: r, touched: m.now()}
	return nil
}

func (m *memory) View(ctx context.Context, id string) (round.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rounds[id]
	if !ok {
		return round.View{}, ErrNotFound
	}
	return e.round.View(), nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(r *round.Round) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rounds[id]
	if !ok {
		return ErrNotFound
	}
	e.touched = m.now()
	return fn(e.round)
}

// evictLocked drops finished rounds older than the TTL and abandoned
// rounds older than abandonedFactor*TTL.
func (m *memory) evictLocked() {
	if m.ttl <= 0 {
		return
	}
	now := m.now()
	finished := now.Add(-m.ttl)
	abandoned := now.Add(-abandonedFactor * m.ttl)
	for id, e := range m.rounds {
		cutoff := abandoned
		if e.round.Over() {
			cutoff = finished
		}
		if e.touched.Before(cutoff) {
			delete(m.rounds, id)
		}
	}
}
