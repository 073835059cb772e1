package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestStore(t *testing.T, clock *fakeClock) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"), WithTTL(30*time.Minute), WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_PutGet(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestStore(t, clock)
	ctx := context.Background()

	key := Key("AAPL", "overview")
	_, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, key, "overview", []byte(`{"a":1}`)))
	data, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(data))

	require.NoError(t, s.Put(ctx, key, "overview", []byte(`{"a":2}`)))
	data, _, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))
}

func TestSQLiteStore_Expiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestStore(t, clock)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", "overview", []byte("x")))
	clock.t = clock.t.Add(29 * time.Minute)
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	clock.t = clock.t.Add(time.Minute)
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_Prune(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestStore(t, clock)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "old1", "overview", []byte("x")))
	require.NoError(t, s.Put(ctx, "old2", "daily", []byte("x")))
	clock.t = clock.t.Add(20 * time.Minute)
	require.NoError(t, s.Put(ctx, "fresh", "overview", []byte("y")))
	clock.t = clock.t.Add(15 * time.Minute)

	n, err := s.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, ok, err := s.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("AAPL", "overview"), Key("AAPL", "overview"))
	assert.NotEqual(t, Key("AAPL", "overview"), Key("AAPL", "daily"))
	assert.Len(t, Key("AAPL", "overview"), 32)
}

func TestNoopStore(t *testing.T) {
	s := NewNoopStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "k", "kind", []byte("x")))
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
