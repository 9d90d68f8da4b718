// Package dlock provides keyed locking with in-memory and Redis
// implementations. Keys can carry an optional TTL after which a held lock
// auto-releases, avoiding deadlocks when a holder dies. The in-memory locker
// coordinates goroutines within one process; the Redis locker coordinates
// across nodes using fencing tokens so an expired holder can never release a
// successor's lock.
package dlock
