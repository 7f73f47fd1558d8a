// Package locking provides per-resource mutexes with bounded acquisition.
// Product and order records are independently lockable; multi-product
// operations must acquire locks in ascending identifier order, which
// AcquireMany enforces, so concurrent multi-item orders cannot deadlock.
package locking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/core/internal/domain/shared"
)

// lockEntry is the state for one key. refs counts holders plus waiters;
// the entry leaves the map when refs drops to zero, so the map only ever
// holds keys somebody is actively using.
type lockEntry struct {
	// Buffered channel of one acts as the mutex: a token in the
	// channel means the lock is free.
	ch   chan struct{}
	refs int
}

// KeyedMutex is a set of per-key mutexes. Acquisition is bounded: callers
// that cannot get the lock within the timeout receive a retryable
// CONTENTION error instead of blocking indefinitely.
type KeyedMutex struct {
	mu      sync.Mutex
	locks   map[uuid.UUID]*lockEntry
	timeout time.Duration
}

// NewKeyedMutex creates a KeyedMutex with the given acquisition timeout
func NewKeyedMutex(timeout time.Duration) *KeyedMutex {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &KeyedMutex{
		locks:   make(map[uuid.UUID]*lockEntry),
		timeout: timeout,
	}
}

// retain returns the entry for key, creating it if needed, and counts the
// caller as a user until put is called
func (k *KeyedMutex) retain(key uuid.UUID) *lockEntry {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.locks[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		e.ch <- struct{}{}
		k.locks[key] = e
	}
	e.refs++
	return e
}

// put drops one reference to key's entry, evicting it once unused
func (k *KeyedMutex) put(key uuid.UUID, e *lockEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}

// Acquire takes the lock for key, waiting at most the configured timeout.
// Returns a CONTENTION error on timeout or the context error if ctx ends
// first.
func (k *KeyedMutex) Acquire(ctx context.Context, key uuid.UUID) error {
	e := k.retain(key)

	timer := time.NewTimer(k.timeout)
	defer timer.Stop()

	select {
	case <-e.ch:
		return nil
	case <-timer.C:
		k.put(key, e)
		return shared.NewContentionError(fmt.Sprintf("Timed out acquiring lock for %s", key))
	case <-ctx.Done():
		k.put(key, e)
		return ctx.Err()
	}
}

// Release returns the lock for key. Releasing an unheld lock panics, which
// indicates a programming error in lock pairing.
func (k *KeyedMutex) Release(key uuid.UUID) {
	k.mu.Lock()
	e, ok := k.locks[key]
	k.mu.Unlock()
	if !ok {
		panic("locking: release of unheld lock " + key.String())
	}

	select {
	case e.ch <- struct{}{}:
	default:
		panic("locking: release of unheld lock " + key.String())
	}
	k.put(key, e)
}

// AcquireMany takes the locks for all keys in ascending identifier order.
// On failure, locks already taken are released and the error returned.
// Duplicate keys are collapsed. The returned release function gives the
// locks back in reverse order.
func (k *KeyedMutex) AcquireMany(ctx context.Context, keys []uuid.UUID) (func(), error) {
	sorted := dedupeSorted(keys)

	acquired := make([]uuid.UUID, 0, len(sorted))
	release := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			k.Release(acquired[i])
		}
	}

	for _, key := range sorted {
		if err := k.Acquire(ctx, key); err != nil {
			release()
			return nil, err
		}
		acquired = append(acquired, key)
	}

	return release, nil
}

// dedupeSorted returns the distinct keys in ascending order
func dedupeSorted(keys []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(keys))
	seen := make(map[uuid.UUID]bool, len(keys))
	for _, key := range keys {
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
