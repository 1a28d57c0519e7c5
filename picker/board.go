// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package picker

import (
	"sync"
	"time"
)

// Board holds one wheel per lobby. Wheels left idle for the idle TTL are
// dropped when the next new wheel is created, so the map holds at most the
// lobbies active within that window. A dropped wheel forgets its rotation
// and last outcome; settled spins are already recorded by OnSettle.
type Board struct {
	mu      sync.Mutex
	opts    []Option
	idleTTL time.Duration
	wheels  map[string]*Wheel
	closed  bool
}

// NewBoard creates wheels lazily with the given options
func NewBoard(opts ...Option) *Board {
	return &Board{
		opts:    opts,
		idleTTL: newConfig(opts).idleTTL,
		wheels:  make(map[string]*Wheel),
	}
}

// Wheel returns the lobby's wheel, creating it on first use. After Close
// it returns closed wheels that reject spins.
func (b *Board) Wheel(lobbyID string) *Wheel {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if w, ok := b.wheels[lobbyID]; ok {
		w.touch(now)
		return w
	}

	b.evictLocked(now)
	w := NewWheel(lobbyID, b.opts...)
	if b.closed {
		w.Close()
		return w
	}
	b.wheels[lobbyID] = w
	return w
}

func (b *Board) evictLocked(now time.Time) {
	for id, w := range b.wheels {
		if w.stale(now, b.idleTTL) {
			delete(b.wheels, id)
		}
	}
}

// Lookup returns an existing wheel without creating one
func (b *Board) Lookup(lobbyID string) (*Wheel, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.wheels[lobbyID]
	return w, ok
}

// Close cancels every pending spin
func (b *Board) Close() {
	b.mu.Lock()
	wheels := make([]*Wheel, 0, len(b.wheels))
	for _, w := range b.wheels {
		wheels = append(wheels, w)
	}
	b.closed = true
	b.mu.Unlock()

	for _, w := range wheels {
		w.Close()
	}
}
