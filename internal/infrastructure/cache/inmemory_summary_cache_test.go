package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemorySummaryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		c := NewInMemorySummaryCache()
		defer func() { _ = c.Close() }()

		require.NoError(t, c.Set(ctx, "k", []byte("payload"), time.Minute))

		payload, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), payload)
	})

	t.Run("miss returns nil without error", func(t *testing.T) {
		c := NewInMemorySummaryCache()
		defer func() { _ = c.Close() }()

		payload, err := c.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, payload)
	})

	t.Run("expired entries read as misses", func(t *testing.T) {
		c := NewInMemorySummaryCache()
		defer func() { _ = c.Close() }()

		require.NoError(t, c.Set(ctx, "k", []byte("payload"), -time.Second))

		payload, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Nil(t, payload)
	})

	t.Run("invalidate clears everything", func(t *testing.T) {
		c := NewInMemorySummaryCache()
		defer func() { _ = c.Close() }()

		require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
		require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))
		require.NoError(t, c.Invalidate(ctx))

		payload, err := c.Get(ctx, "a")
		require.NoError(t, err)
		assert.Nil(t, payload)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		c := NewInMemorySummaryCache()
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())
	})
}
