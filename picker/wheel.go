// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package picker

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/danielhkuo/mealpick/models"
	"github.com/danielhkuo/mealpick/token"
)

// Segments are the fixed wheel slots, clockwise from 0 degrees
var Segments = []string{"Pizza", "Burger", "Sushi", "Salad", "Taco", "Donut", "Ramen", "Apple"}

const (
	SegmentAngle    = 45
	DefaultDuration = 5 * time.Second
	DefaultIdleTTL  = time.Hour
)

var (
	ErrSpinning     = errors.New("a spin is already in progress")
	ErrNoCandidates = errors.New("no recipes to pick from")
	ErrUnknownMode  = errors.New("unknown spin mode")
	ErrClosed       = errors.New("picker is closed")
)

type config struct {
	duration time.Duration
	idleTTL  time.Duration
	source   func(lobbyID string) rand.Source
	onSettle func(models.SpinOutcome)
}

type Option func(*config)

// WithDuration sets how long a spin takes to settle
func WithDuration(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.duration = d
		}
	}
}

// WithIdleTTL sets how long a board keeps a wheel nobody has used
func WithIdleTTL(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.idleTTL = d
		}
	}
}

// WithRand fixes the random source of a single wheel
func WithRand(src rand.Source) Option {
	return func(c *config) {
		c.source = func(string) rand.Source { return src }
	}
}

// WithSources builds one random source per lobby
func WithSources(fn func(lobbyID string) rand.Source) Option {
	return func(c *config) {
		c.source = fn
	}
}

// OnSettle is called outside the wheel lock after every settled spin
func OnSettle(fn func(models.SpinOutcome)) Option {
	return func(c *config) {
		c.onSettle = fn
	}
}

func newConfig(opts []Option) config {
	c := config{
		duration: DefaultDuration,
		idleTTL:  DefaultIdleTTL,
		source: func(string) rand.Source {
			return rand.NewPCG(rand.Uint64(), rand.Uint64())
		},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// TargetRotation adds six to eight full turns plus a stop angle in [0, 45)
func TargetRotation(current int, rng *rand.Rand) int {
	rounds := 6 + rng.IntN(3)
	return current + rounds*360 + rng.IntN(SegmentAngle)
}

// SegmentIndex maps a non-negative rotation to its wheel slot
func SegmentIndex(rotation int) int {
	return (rotation % 360) / SegmentAngle
}

// Wheel is one lobby's picker: idle until Spin, spinning until the timer
// fires, then idle again.
type Wheel struct {
	mu       sync.Mutex
	lobbyID  string
	rng      *rand.Rand
	duration time.Duration
	onSettle func(models.SpinOutcome)

	spinning  bool
	closed    bool
	mode      string
	rotation  int
	settlesAt time.Time
	snapshot  []models.Recipe
	timer     *time.Timer
	done      chan struct{}
	last      *models.SpinOutcome
	usedAt    time.Time
}

func NewWheel(lobbyID string, opts ...Option) *Wheel {
	c := newConfig(opts)
	return &Wheel{
		lobbyID:  lobbyID,
		rng:      rand.New(c.source(lobbyID)),
		duration: c.duration,
		onSettle: c.onSettle,
		usedAt:   time.Now(),
	}
}

// Spin starts a spin. In recipe mode the candidates are copied, so later
// changes to the caller's slice do not affect the outcome.
func (w *Wheel) Spin(mode string, candidates []models.Recipe) (models.SpinStateResponse, error) {
	if mode == "" {
		mode = models.SpinModeWheel
	}
	if mode != models.SpinModeWheel && mode != models.SpinModeRecipes {
		return models.SpinStateResponse{}, ErrUnknownMode
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return models.SpinStateResponse{}, ErrClosed
	}
	if w.spinning {
		return models.SpinStateResponse{}, ErrSpinning
	}
	if mode == models.SpinModeRecipes && len(candidates) == 0 {
		return models.SpinStateResponse{}, ErrNoCandidates
	}

	w.mode = mode
	w.snapshot = append([]models.Recipe(nil), candidates...)
	w.rotation = TargetRotation(w.rotation, w.rng)
	w.spinning = true
	w.settlesAt = time.Now().Add(w.duration)
	w.done = make(chan struct{})
	w.timer = time.AfterFunc(w.duration, w.settle)

	return w.stateLocked(), nil
}

func (w *Wheel) settle() {
	w.mu.Lock()
	if !w.spinning {
		w.mu.Unlock()
		return
	}

	idx := SegmentIndex(w.rotation)
	outcome := models.SpinOutcome{
		LobbyID:      w.lobbyID,
		Mode:         w.mode,
		Rotation:     w.rotation,
		SegmentIndex: idx,
		Segment:      Segments[idx],
		SettledAt:    time.Now().UTC(),
	}
	if id, err := token.GenerateID(12); err == nil {
		outcome.ID = id
	}
	if w.mode == models.SpinModeRecipes && len(w.snapshot) > 0 {
		picked := w.snapshot[w.rng.IntN(len(w.snapshot))]
		outcome.Recipe = &picked
	}

	w.last = &outcome
	w.usedAt = outcome.SettledAt
	w.stopLocked()
	cb := w.onSettle
	w.mu.Unlock()

	if cb != nil {
		cb(outcome)
	}
}

// stopLocked returns the wheel to idle and wakes waiters
func (w *Wheel) stopLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.spinning {
		w.spinning = false
		close(w.done)
	}
	w.snapshot = nil
	w.settlesAt = time.Time{}
}

// State reports the current phase and the last settled outcome
func (w *Wheel) State() models.SpinStateResponse {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Wheel) stateLocked() models.SpinStateResponse {
	state := models.SpinStateResponse{
		LobbyID:  w.lobbyID,
		State:    models.SpinStateIdle,
		Rotation: w.rotation,
	}
	if w.spinning {
		state.State = models.SpinStateSpinning
		settles := w.settlesAt
		state.SettlesAt = &settles
	}
	if w.last != nil {
		last := *w.last
		state.Last = &last
	}
	return state
}

// Wait blocks until the current spin settles or ctx ends. When idle it
// returns the state immediately.
func (w *Wheel) Wait(ctx context.Context) (models.SpinStateResponse, error) {
	w.mu.Lock()
	if !w.spinning {
		defer w.mu.Unlock()
		return w.stateLocked(), nil
	}
	done := w.done
	w.mu.Unlock()

	select {
	case <-done:
		return w.State(), nil
	case <-ctx.Done():
		return models.SpinStateResponse{}, ctx.Err()
	}
}

func (w *Wheel) touch(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.usedAt = now
}

// stale reports an idle wheel unused for at least ttl
func (w *Wheel) stale(now time.Time, ttl time.Duration) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.spinning && now.Sub(w.usedAt) >= ttl
}

// Close cancels a pending settle. The wheel refuses new spins afterwards.
func (w *Wheel) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.stopLocked()
}
