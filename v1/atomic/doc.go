// Package atomic provides a mutable value container guarded by a lock.Locker.
// Every operation acquires the container's lock on entry and releases it on
// every exit path, so concurrent callers never observe a half-applied
// mutation. The container defaults to a native non-reentrant mutex; tests
// and advanced callers may inject any Locker, such as lock.Recursive, at
// construction.
package atomic
