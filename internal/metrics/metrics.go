// Package metrics defines the application's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the counters the services increment. Constructing it
// against an explicit Registerer keeps tests isolated — each test gets its
// own registry instead of fighting over the global default.
type Metrics struct {
	LoginsGranted      prometheus.Counter
	LoginsFailed       prometheus.Counter
	PackageCacheHits   prometheus.Counter
	PackageCacheMisses prometheus.Counter
}

// New registers the application counters with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LoginsGranted: factory.NewCounter(prometheus.CounterOpts{
			Name: "exhibit_logins_granted_total",
			Help: "Completed GitHub OAuth logins that established a session.",
		}),
		LoginsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "exhibit_logins_failed_total",
			Help: "OAuth callbacks that ended in a login failure.",
		}),
		PackageCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "exhibit_package_cache_hits_total",
			Help: "Package index reads served from the store cache.",
		}),
		PackageCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "exhibit_package_cache_misses_total",
			Help: "Package index reads that fell through to a live fetch.",
		}),
	}
}
