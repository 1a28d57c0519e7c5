// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package picker

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/mealpick/models"
)

const fast = 20 * time.Millisecond

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestTargetRotation_Bounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 1000; i++ {
		current := rng.IntN(10000)
		got := TargetRotation(current, rng)
		delta := got - current
		require.GreaterOrEqual(t, delta, 6*360)
		require.Less(t, delta, 8*360+SegmentAngle)
		require.Less(t, delta%360, SegmentAngle, "stop angle must be under one segment")
	}
}

func TestSegmentIndex(t *testing.T) {
	tests := []struct {
		rotation int
		want     int
	}{
		{0, 0},
		{44, 0},
		{45, 1},
		{359, 7},
		{360, 0},
		{6*360 + 30, 0},
		{7*360 + 200, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SegmentIndex(tt.rotation), "rotation %d", tt.rotation)
	}
}

func TestSpin_SettlesToIdle(t *testing.T) {
	settled := make(chan models.SpinOutcome, 1)

	w := NewWheel("abc123xyz",
		WithDuration(fast),
		WithRand(rand.NewPCG(1, 2)),
		OnSettle(func(o models.SpinOutcome) { settled <- o }),
	)

	state, err := w.Spin(models.SpinModeWheel, nil)
	require.NoError(t, err)
	assert.Equal(t, models.SpinStateSpinning, state.State)
	require.NotNil(t, state.SettlesAt)

	_, err = w.Spin(models.SpinModeWheel, nil)
	assert.ErrorIs(t, err, ErrSpinning, "trigger is ignored while spinning")

	final, err := w.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, models.SpinStateIdle, final.State)
	assert.Nil(t, final.SettlesAt)
	require.NotNil(t, final.Last)
	assert.Equal(t, Segments[SegmentIndex(state.Rotation)], final.Last.Segment)
	assert.Equal(t, state.Rotation, final.Last.Rotation)
	assert.NotEmpty(t, final.Last.ID)
	assert.Nil(t, final.Last.Recipe)

	select {
	case o := <-settled:
		assert.Equal(t, "abc123xyz", o.LobbyID)
		assert.Equal(t, final.Last.ID, o.ID)
	case <-time.After(time.Second):
		t.Fatal("settle callback never ran")
	}
}

func TestSpin_RotationAccumulates(t *testing.T) {
	w := NewWheel("abc123xyz", WithDuration(fast), WithRand(rand.NewPCG(9, 9)))

	first, err := w.Spin("", nil)
	require.NoError(t, err)
	_, err = w.Wait(waitCtx(t))
	require.NoError(t, err)

	second, err := w.Spin("", nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, second.Rotation-first.Rotation, 6*360)
}

func TestSpin_RecipeOutcomeFromSnapshot(t *testing.T) {
	candidates := []models.Recipe{
		{ID: 1, Title: "Lentil Soup"},
		{ID: 2, Title: "Veg Curry"},
		{ID: 3, Title: "Fish Tacos"},
	}

	for seed := uint64(0); seed < 20; seed++ {
		w := NewWheel("abc123xyz", WithDuration(time.Millisecond), WithRand(rand.NewPCG(seed, seed)))

		input := append([]models.Recipe{}, candidates...)
		_, err := w.Spin(models.SpinModeRecipes, input)
		require.NoError(t, err)

		// Changing the caller's slice mid-spin must not leak into the outcome
		input[0] = models.Recipe{ID: 99, Title: "Changed"}

		final, err := w.Wait(waitCtx(t))
		require.NoError(t, err)
		require.NotNil(t, final.Last.Recipe)
		assert.Contains(t, candidates, *final.Last.Recipe)
		assert.Equal(t, models.SpinModeRecipes, final.Last.Mode)
	}
}

func TestSpin_Errors(t *testing.T) {
	w := NewWheel("abc123xyz", WithDuration(fast))

	_, err := w.Spin(models.SpinModeRecipes, nil)
	assert.ErrorIs(t, err, ErrNoCandidates)

	_, err = w.Spin("dartboard", nil)
	assert.ErrorIs(t, err, ErrUnknownMode)

	assert.Equal(t, models.SpinStateIdle, w.State().State, "failed triggers leave the wheel idle")
}

func TestClose_CancelsPendingSettle(t *testing.T) {
	called := make(chan struct{}, 1)
	w := NewWheel("abc123xyz",
		WithDuration(50*time.Millisecond),
		OnSettle(func(models.SpinOutcome) { called <- struct{}{} }),
	)

	_, err := w.Spin(models.SpinModeWheel, nil)
	require.NoError(t, err)

	w.Close()
	assert.Equal(t, models.SpinStateIdle, w.State().State)

	select {
	case <-called:
		t.Fatal("settle callback ran after Close")
	case <-time.After(120 * time.Millisecond):
	}

	_, err = w.Spin(models.SpinModeWheel, nil)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestWait_ContextCanceled(t *testing.T) {
	w := NewWheel("abc123xyz", WithDuration(time.Minute))
	t.Cleanup(w.Close)

	_, err := w.Spin(models.SpinModeWheel, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = w.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, models.SpinStateSpinning, w.State().State)
}

func TestWait_Idle(t *testing.T) {
	w := NewWheel("abc123xyz")
	state, err := w.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SpinStateIdle, state.State)
	assert.Nil(t, state.Last)
}

func TestBoard(t *testing.T) {
	b := NewBoard(WithDuration(time.Minute))

	a1 := b.Wheel("lobbyaaaa1")
	a2 := b.Wheel("lobbyaaaa1")
	other := b.Wheel("lobbybbbb2")
	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, other)

	_, ok := b.Lookup("missing00")
	assert.False(t, ok)

	_, err := a1.Spin(models.SpinModeWheel, nil)
	require.NoError(t, err)

	// Spinning one lobby does not block another
	_, err = other.Spin(models.SpinModeWheel, nil)
	require.NoError(t, err)

	b.Close()
	assert.Equal(t, models.SpinStateIdle, a1.State().State)
	assert.Equal(t, models.SpinStateIdle, other.State().State)

	_, err = b.Wheel("lobbycccc3").Spin(models.SpinModeWheel, nil)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestBoard_ConcurrentTriggers(t *testing.T) {
	b := NewBoard(WithDuration(time.Minute))
	t.Cleanup(b.Close)

	var wg sync.WaitGroup
	var mu sync.Mutex
	started := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := b.Wheel("abc123xyz").Spin(models.SpinModeWheel, nil); err == nil {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, started, "exactly one concurrent trigger wins")
}

func TestBoard_PerLobbySources(t *testing.T) {
	seeded := func(lobbyID string) rand.Source {
		return rand.NewPCG(uint64(len(lobbyID)), 7)
	}

	first := NewBoard(WithDuration(time.Minute), WithSources(seeded))
	t.Cleanup(first.Close)
	second := NewBoard(WithDuration(time.Minute), WithSources(seeded))
	t.Cleanup(second.Close)

	a, err := first.Wheel("abc123xyz").Spin(models.SpinModeWheel, nil)
	require.NoError(t, err)
	b, err := second.Wheel("abc123xyz").Spin(models.SpinModeWheel, nil)
	require.NoError(t, err)

	assert.Equal(t, a.Rotation, b.Rotation, "same lobby source gives the same spin")
}

func TestBoard_EvictsIdleWheels(t *testing.T) {
	b := NewBoard(WithDuration(time.Minute), WithIdleTTL(5*time.Millisecond))
	t.Cleanup(b.Close)

	b.Wheel("quiet0001")
	_, err := b.Wheel("busy00001").Spin(models.SpinModeWheel, nil)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	b.Wheel("fresh0001")

	_, ok := b.Lookup("quiet0001")
	assert.False(t, ok, "idle wheel is dropped")
	_, ok = b.Lookup("busy00001")
	assert.True(t, ok, "spinning wheel is kept")
	_, ok = b.Lookup("fresh0001")
	assert.True(t, ok)
}
