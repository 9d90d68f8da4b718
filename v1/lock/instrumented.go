package lock

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Instrumented wraps a Locker with Prometheus collectors measuring how long
// callers wait for the lock and how long they hold it. Wrap non-reentrant
// lockers only: nested acquisitions of a Recursive lock skew the hold timer.
type Instrumented struct {
	inner Locker

	acquisitions prometheus.Counter
	waitSeconds  prometheus.Histogram
	holdSeconds  prometheus.Histogram

	acquiredAt time.Time // guarded by inner
}

// NewInstrumented returns an Instrumented locker wrapping inner and registers
// its collectors on reg. name distinguishes multiple instrumented locks
// sharing one registry.
func NewInstrumented(inner Locker, name string, reg prometheus.Registerer) *Instrumented {
	labels := prometheus.Labels{"lock": name}
	l := &Instrumented{
		inner: inner,
		acquisitions: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "warpsync_lock_acquisitions_total",
			Help:        "Total number of lock acquisitions",
			ConstLabels: labels,
		}),
		waitSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "warpsync_lock_wait_seconds",
			Help:        "Time spent waiting to acquire the lock",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}),
		holdSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "warpsync_lock_hold_seconds",
			Help:        "Time the lock was held between Acquire and Release",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}),
	}
	reg.MustRegister(l.acquisitions, l.waitSeconds, l.holdSeconds)
	return l
}

// Acquire implements Locker.Acquire.
func (l *Instrumented) Acquire() {
	start := time.Now()
	l.inner.Acquire()
	l.acquisitions.Inc()
	l.waitSeconds.Observe(time.Since(start).Seconds())
	l.acquiredAt = time.Now()
}

// Release implements Locker.Release.
func (l *Instrumented) Release() {
	l.holdSeconds.Observe(time.Since(l.acquiredAt).Seconds())
	l.inner.Release()
}
