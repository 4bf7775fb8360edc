package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solen/mdkit/pkg/markdown"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_PutGet(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	key := Key([]byte("# hi\n"), markdown.DefaultOptions())

	_, err := c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Put(ctx, key, "<h1>hi</h1>"))
	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "<h1>hi</h1>", got)

	// Replacement overwrites.
	require.NoError(t, c.Put(ctx, key, "<h1>hi2</h1>"))
	got, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "<h1>hi2</h1>", got)
}

func TestCache_KeyDependsOnOptions(t *testing.T) {
	input := []byte("*x*\n")
	a := markdown.DefaultOptions()
	b := markdown.DefaultOptions()
	b.EmptyElementSuffix = ">"

	assert.NotEqual(t, Key(input, a), Key(input, b))
	assert.Equal(t, Key(input, a), Key(input, a))
	assert.NotEqual(t, Key([]byte("*y*\n"), a), Key(input, a))
}

func TestCache_StatsAndPrune(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	opts := markdown.DefaultOptions()
	require.NoError(t, c.Put(ctx, Key([]byte("a"), opts), "<p>a</p>"))
	require.NoError(t, c.Put(ctx, Key([]byte("b"), opts), "<p>b</p>"))

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, st.Entries)
	assert.EqualValues(t, len("<p>a</p>")+len("<p>b</p>"), st.Bytes)

	// Nothing is older than an hour.
	n, err := c.Prune(ctx, time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	// Zero keep empties the cache.
	n, err = c.Prune(ctx, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	st, err = c.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, st.Entries)
}
