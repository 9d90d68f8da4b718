// Package lock provides the in-process mutual exclusion primitives used by
// warp-sync. The Locker capability is satisfied by a native non-reentrant
// Mutex (the default everywhere) and a Recursive variant for callers that
// need to re-enter a lock they already hold. Keyed locking across
// goroutines or nodes lives in the dlock package.
package lock
