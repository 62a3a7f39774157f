// Package metrics holds the Prometheus collectors shared by the binaries.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "toolchain"

// Preflight groups the collectors updated by the preflight service.
type Preflight struct {
	Checks    *prometheus.CounterVec
	Duration  *prometheus.HistogramVec
	CacheHits prometheus.Counter
	Runs      prometheus.Counter
}

// NewPreflight registers the preflight collectors with reg.
// A nil reg creates unregistered collectors, which is what tests usually want.
func NewPreflight(reg prometheus.Registerer) *Preflight {
	factory := promauto.With(reg)
	return &Preflight{
		Checks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "preflight",
			Name:      "checks_total",
			Help:      "Preflight checks executed, by check name and status.",
		}, []string{"check", "status"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "preflight",
			Name:      "check_duration_seconds",
			Help:      "Time spent in a single preflight check.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"check"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "preflight",
			Name:      "cache_hits_total",
			Help:      "Preflight results served from cache.",
		}),
		Runs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "preflight",
			Name:      "runs_total",
			Help:      "Preflight runs started.",
		}),
	}
}

// Observe records one finished check.
func (m *Preflight) Observe(check, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.Checks.WithLabelValues(check, status).Inc()
	m.Duration.WithLabelValues(check).Observe(d.Seconds())
}

// HTTP groups the request collectors of the config API.
type HTTP struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

// NewHTTP registers the config API collectors with reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	factory := promauto.With(reg)
	return &HTTP{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Config API requests, by route and status code.",
		}, []string{"route", "code"}),
		Latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Config API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}
