// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "recipe:1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "recipe:1", []byte(`{"id":1}`), time.Minute))

	got, ok, err := m.Get(ctx, "recipe:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":1}`, string(got))
}

func TestMemory_CopiesValue(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf, time.Minute))
	buf[0] = 'z'

	got, _, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(got))
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), time.Hour))

	now = now.Add(2 * time.Minute)

	_, ok, _ := m.Get(ctx, "a")
	assert.False(t, ok, "entry past its TTL must not be returned")
	_, ok, _ = m.Get(ctx, "b")
	assert.True(t, ok)

	// A write sweeps anything expired
	now = now.Add(2 * time.Hour)
	require.NoError(t, m.Set(ctx, "c", []byte("3"), time.Minute))
	assert.Equal(t, 1, m.Len())
}

func TestMemory_NonPositiveTTLIsNoop(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))
	_, ok, _ := m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestNewRedis_BadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "not-a-redis-url", "mealpick:")
	assert.Error(t, err)
}

func TestCacheInterface(t *testing.T) {
	var _ Cache = NewMemory()
	var _ Cache = (*Redis)(nil)
}
