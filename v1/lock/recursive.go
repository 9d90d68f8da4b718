package lock

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// Recursive is a reentrant Locker: the goroutine holding it may Acquire
// again without deadlocking, provided every Acquire is paired with a
// Release. Waiters are admitted only when the outermost Release runs.
type Recursive struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int // guarded by mu, touched only by the owner
}

// NewRecursive returns a new reentrant lock.
func NewRecursive() *Recursive {
	return &Recursive{}
}

// Acquire implements Locker.Acquire.
func (r *Recursive) Acquire() {
	id := goroutineID()
	if r.owner.Load() == id {
		r.depth++
		return
	}
	r.mu.Lock()
	r.owner.Store(id)
	r.depth = 1
}

// Release implements Locker.Release. It panics when the calling goroutine
// does not hold the lock.
func (r *Recursive) Release() {
	if r.owner.Load() != goroutineID() {
		panic("lock: Release of Recursive not held by calling goroutine")
	}
	r.depth--
	if r.depth == 0 {
		r.owner.Store(0)
		r.mu.Unlock()
	}
}

// goroutineID extracts the caller's goroutine id from the runtime stack
// header ("goroutine N [running]:"). The runtime exposes no cheaper
// supported way to identify the calling goroutine.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	id, err := strconv.ParseInt(string(fields[1]), 10, 64)
	if err != nil {
		panic("lock: cannot parse goroutine id: " + err.Error())
	}
	return id
}
