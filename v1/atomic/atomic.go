package atomic

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mirkobrombin/go-warp-sync/v1/lock"
)

// Atomic is a value of type T guarded by a Locker. The lock is fixed at
// construction and the container never touches the value without holding it.
//
// T is copied in and out of the container. When T carries references
// (slices, maps, pointers) callers must not retain or mutate those
// references outside a completed operation.
type Atomic[T any] struct {
	lock  lock.Locker
	value T

	loadCounter   prometheus.Counter
	storeCounter  prometheus.Counter
	mutateCounter prometheus.Counter
}

// Option configures an Atomic.
type Option[T any] func(*Atomic[T])

// WithLocker injects the Locker guarding the container. The default is a
// fresh non-reentrant lock.Mutex. Inject lock.Recursive when caller-supplied
// closures must call back into the same container.
func WithLocker[T any](l lock.Locker) Option[T] {
	return func(a *Atomic[T]) {
		a.lock = l
	}
}

// WithMetrics enables Prometheus operation counters using the provided
// registerer.
func WithMetrics[T any](reg prometheus.Registerer) Option[T] {
	return func(a *Atomic[T]) {
		a.loadCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warpsync_atomic_loads_total",
			Help: "Total number of Load and WithValue operations",
		})
		a.storeCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warpsync_atomic_stores_total",
			Help: "Total number of Store and Swap operations",
		})
		a.mutateCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warpsync_atomic_mutations_total",
			Help: "Total number of Modify operations",
		})
		reg.MustRegister(a.loadCounter, a.storeCounter, a.mutateCounter)
	}
}

// New returns an Atomic holding value.
func New[T any](value T, opts ...Option[T]) *Atomic[T] {
	a := &Atomic[T]{lock: lock.NewMutex(), value: value}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load returns a copy of the current value.
func (a *Atomic[T]) Load() T {
	a.lock.Acquire()
	defer a.lock.Release()
	if a.loadCounter != nil {
		a.loadCounter.Inc()
	}
	return a.value
}

// Store replaces the current value.
func (a *Atomic[T]) Store(value T) {
	a.Swap(value)
}

// Swap replaces the current value and returns the value it replaced. No
// concurrent operation can observe the slot holding neither the old nor the
// new value.
func (a *Atomic[T]) Swap(value T) T {
	a.lock.Acquire()
	defer a.lock.Release()
	if a.storeCounter != nil {
		a.storeCounter.Inc()
	}
	old := a.value
	a.value = value
	return old
}

// Modify invokes mutate with direct mutable access to the stored value and
// returns the pre-mutation value. An error from mutate propagates to the
// caller and the lock is still released. There is no rollback: whatever
// mutate wrote before failing stays committed.
func (a *Atomic[T]) Modify(mutate func(*T) error) (T, error) {
	return a.ModifyWith(mutate, nil)
}

// ModifyWith is Modify with a completion hook: after mutate succeeds,
// completion observes the post-mutation value while the lock is still held,
// so no concurrent operation can interleave between the mutation and the
// completion call. A nil completion is ignored. An error from completion
// propagates like an error from mutate; the mutation stays committed.
func (a *Atomic[T]) ModifyWith(mutate func(*T) error, completion func(T) error) (T, error) {
	a.lock.Acquire()
	defer a.lock.Release()
	if a.mutateCounter != nil {
		a.mutateCounter.Inc()
	}
	old := a.value
	if err := mutate(&a.value); err != nil {
		return old, err
	}
	if completion != nil {
		if err := completion(a.value); err != nil {
			return old, err
		}
	}
	return old, nil
}

// WithValue invokes view with read-only access to the current value while
// the lock is held and returns view's result. The stored value is unchanged.
// view must not call back into a's operations (it deadlocks under the
// default non-reentrant lock) and must not block: it stalls every other
// operation on the container for its duration.
func WithValue[T, R any](a *Atomic[T], view func(T) (R, error)) (R, error) {
	a.lock.Acquire()
	defer a.lock.Release()
	if a.loadCounter != nil {
		a.loadCounter.Inc()
	}
	return view(a.value)
}
