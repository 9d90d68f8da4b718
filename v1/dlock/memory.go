package dlock

import (
	"context"
	"sync"
	"time"

	werrors "github.com/mirkobrombin/go-warp-sync/v1/errors"
	"github.com/mirkobrombin/go-warp-sync/v1/metrics"
)

// Locker is a keyed lock shared by cooperating holders. Acquire blocks until
// the key is obtained or ctx is done. A ttl > 0 bounds how long the key may
// be held before it auto-releases.
type Locker interface {
	// Acquire blocks until the key is obtained or ctx is cancelled.
	Acquire(ctx context.Context, key string, ttl time.Duration) error
	// TryLock attempts to obtain the key without waiting. It returns true on success.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release frees the key. Releasing a key that is not held returns ErrNotHeld.
	Release(ctx context.Context, key string) error
}

type lockState struct {
	timer    *time.Timer
	released chan struct{}
}

// InMemory implements Locker using process-local state. Blocked acquirers
// wait on a per-key channel closed by Release; a TTL expiry releases the key
// the same way.
type InMemory struct {
	mu    sync.Mutex
	locks map[string]*lockState
}

// NewInMemory returns a new in-memory keyed locker.
func NewInMemory() *InMemory {
	return &InMemory{locks: make(map[string]*lockState)}
}

// TryLock implements Locker.TryLock.
func (l *InMemory) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.locks[key]; ok {
		metrics.ContentionCounter.Inc()
		return false, nil
	}
	st := &lockState{released: make(chan struct{})}
	if ttl > 0 {
		st.timer = time.AfterFunc(ttl, func() {
			_ = l.Release(context.Background(), key)
		})
	}
	l.locks[key] = st
	metrics.AcquireCounter.Inc()
	metrics.HeldGauge.Inc()
	return true, nil
}

// Acquire implements Locker.Acquire.
func (l *InMemory) Acquire(ctx context.Context, key string, ttl time.Duration) error {
	for {
		ok, err := l.TryLock(ctx, key, ttl)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		l.mu.Lock()
		st, held := l.locks[key]
		l.mu.Unlock()
		if !held {
			continue // released between TryLock and here
		}
		select {
		case <-st.released:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Release implements Locker.Release.
func (l *InMemory) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	st, ok := l.locks[key]
	if ok {
		if st.timer != nil {
			st.timer.Stop()
		}
		close(st.released)
		delete(l.locks, key)
	}
	l.mu.Unlock()
	if !ok {
		return werrors.ErrNotHeld
	}
	metrics.ReleaseCounter.Inc()
	metrics.HeldGauge.Dec()
	return nil
}
