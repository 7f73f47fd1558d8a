package locking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/core/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	km := NewKeyedMutex(50 * time.Millisecond)
	key := uuid.New()

	require.NoError(t, km.Acquire(ctx, key))

	t.Run("held lock times out with contention", func(t *testing.T) {
		err := km.Acquire(ctx, key)
		assert.True(t, shared.IsContention(err))
	})

	km.Release(key)
	require.NoError(t, km.Acquire(ctx, key))
	km.Release(key)
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	ctx := context.Background()
	km := NewKeyedMutex(50 * time.Millisecond)

	a, b := uuid.New(), uuid.New()
	require.NoError(t, km.Acquire(ctx, a))
	require.NoError(t, km.Acquire(ctx, b))
	km.Release(a)
	km.Release(b)
}

func TestKeyedMutex_ContextCancellation(t *testing.T) {
	km := NewKeyedMutex(time.Minute)
	key := uuid.New()

	require.NoError(t, km.Acquire(context.Background(), key))
	defer km.Release(key)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := km.Acquire(ctx, key)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKeyedMutex_ReleaseUnheldPanics(t *testing.T) {
	km := NewKeyedMutex(0)
	assert.Panics(t, func() { km.Release(uuid.New()) })
}

func TestKeyedMutex_EvictsFreeEntries(t *testing.T) {
	ctx := context.Background()

	entryCount := func(km *KeyedMutex) int {
		km.mu.Lock()
		defer km.mu.Unlock()
		return len(km.locks)
	}

	t.Run("release evicts the entry", func(t *testing.T) {
		km := NewKeyedMutex(50 * time.Millisecond)
		key := uuid.New()

		require.NoError(t, km.Acquire(ctx, key))
		assert.Equal(t, 1, entryCount(km))

		km.Release(key)
		assert.Equal(t, 0, entryCount(km))
	})

	t.Run("timed out waiter leaves no entry behind", func(t *testing.T) {
		km := NewKeyedMutex(10 * time.Millisecond)
		key := uuid.New()

		require.NoError(t, km.Acquire(ctx, key))
		assert.True(t, shared.IsContention(km.Acquire(ctx, key)))
		assert.Equal(t, 1, entryCount(km))

		km.Release(key)
		assert.Equal(t, 0, entryCount(km))
	})

	t.Run("map stays empty across many keys", func(t *testing.T) {
		km := NewKeyedMutex(50 * time.Millisecond)
		for i := 0; i < 100; i++ {
			release, err := km.AcquireMany(ctx, []uuid.UUID{uuid.New(), uuid.New()})
			require.NoError(t, err)
			release()
		}
		assert.Equal(t, 0, entryCount(km))
	})

	t.Run("waiter keeps the entry alive until the holder releases", func(t *testing.T) {
		km := NewKeyedMutex(time.Second)
		key := uuid.New()

		require.NoError(t, km.Acquire(ctx, key))

		done := make(chan struct{})
		go func() {
			defer close(done)
			if assert.NoError(t, km.Acquire(ctx, key)) {
				km.Release(key)
			}
		}()

		// give the waiter time to park on the entry
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, 1, entryCount(km))

		km.Release(key)
		<-done
		assert.Equal(t, 0, entryCount(km))
	})
}

func TestKeyedMutex_AcquireMany(t *testing.T) {
	ctx := context.Background()

	t.Run("acquires and releases all keys", func(t *testing.T) {
		km := NewKeyedMutex(50 * time.Millisecond)
		keys := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

		release, err := km.AcquireMany(ctx, keys)
		require.NoError(t, err)

		for _, key := range keys {
			assert.True(t, shared.IsContention(km.Acquire(ctx, key)))
		}

		release()
		for _, key := range keys {
			require.NoError(t, km.Acquire(ctx, key))
			km.Release(key)
		}
	})

	t.Run("duplicates are collapsed", func(t *testing.T) {
		km := NewKeyedMutex(50 * time.Millisecond)
		key := uuid.New()

		release, err := km.AcquireMany(ctx, []uuid.UUID{key, key, key})
		require.NoError(t, err)
		release()

		require.NoError(t, km.Acquire(ctx, key))
		km.Release(key)
	})

	t.Run("partial failure releases what was taken", func(t *testing.T) {
		km := NewKeyedMutex(50 * time.Millisecond)
		free, held := uuid.New(), uuid.New()

		require.NoError(t, km.Acquire(ctx, held))
		defer km.Release(held)

		_, err := km.AcquireMany(ctx, []uuid.UUID{free, held})
		assert.True(t, shared.IsContention(err))

		// the free key must have been given back
		require.NoError(t, km.Acquire(ctx, free))
		km.Release(free)
	})

	t.Run("opposite orderings do not deadlock", func(t *testing.T) {
		km := NewKeyedMutex(time.Second)
		a, b := uuid.New(), uuid.New()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				release, err := km.AcquireMany(ctx, []uuid.UUID{a, b})
				if err == nil {
					release()
				}
			}()
			go func() {
				defer wg.Done()
				release, err := km.AcquireMany(ctx, []uuid.UUID{b, a})
				if err == nil {
					release()
				}
			}()
		}
		wg.Wait()
	})
}
