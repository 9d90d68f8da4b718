package lock

import "sync"

// Locker is the capability every lock in this package satisfies: exclusive
// ownership obtained by Acquire and relinquished by Release. Calls must
// balance. Releasing a lock that is not held is a programming error and
// results in a panic rather than a silently corrupted locking invariant.
type Locker interface {
	// Acquire blocks the calling goroutine until exclusive ownership of the
	// lock is obtained.
	Acquire()
	// Release relinquishes ownership obtained by a prior Acquire.
	Release()
}

// Mutex is the default Locker, backed by sync.Mutex. It is not reentrant: a
// second Acquire by the owning goroutine deadlocks. The zero value is ready
// to use.
type Mutex struct {
	mu sync.Mutex
}

// NewMutex returns a new native mutex.
func NewMutex() *Mutex {
	return &Mutex{}
}

// Acquire implements Locker.Acquire.
func (m *Mutex) Acquire() { m.mu.Lock() }

// Release implements Locker.Release. Releasing an unheld Mutex raises an
// unrecoverable runtime fault.
func (m *Mutex) Release() { m.mu.Unlock() }
