package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// AcquireCounter tracks successful keyed lock acquisitions.
	AcquireCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warpsync_dlock_acquire_total",
		Help: "Total number of successful keyed lock acquisitions",
	})
	// ReleaseCounter tracks keyed lock releases.
	ReleaseCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warpsync_dlock_release_total",
		Help: "Total number of keyed lock releases",
	})
	// ContentionCounter tracks acquisition attempts that found the key held.
	ContentionCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warpsync_dlock_contention_total",
		Help: "Total number of acquisition attempts that found the key held",
	})
	// HeldGauge reports the number of keys currently held.
	HeldGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "warpsync_dlock_held",
		Help: "Current number of keys held",
	})
)

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// RegisterCoreMetrics registers warp-sync core metrics on the provided registry.
func RegisterCoreMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AcquireCounter, ReleaseCounter, ContentionCounter, HeldGauge)
}
