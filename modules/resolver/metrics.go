package resolver

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zachfi/stationgo/pkg/probe"
	"github.com/zachfi/stationgo/pkg/radiobrowser"
)

const metricsNamespace = "stationgo"

// Metrics is safe to use through a nil pointer; every method is then a no-op.
type Metrics struct {
	probes          *prometheus.CounterVec
	probeDuration   prometheus.Histogram
	directory       *prometheus.CounterVec
	resolveDuration prometheus.Histogram
	stations        *prometheus.CounterVec
}

// NewMetrics registers the resolver metrics with reg. A nil reg creates
// unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		probes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "probes_total",
			Help:      "Stream liveness probes by outcome.",
		}, []string{"status"}),
		probeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "probe_duration_seconds",
			Help:      "Time spent on one liveness probe.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		directory: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "directory_requests_total",
			Help:      "Directory lookups by outcome.",
		}, []string{"outcome"}),
		resolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "resolve_duration_seconds",
			Help:      "Time spent resolving one station listing.",
			Buckets:   prometheus.ExponentialBuckets(.1, 2, 10),
		}),
		stations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "stations_resolved_total",
			Help:      "Resolved stations by whether a live URL was found.",
		}, []string{"working"}),
	}
}

func (m *Metrics) observeProbe(r probe.Result) {
	if m == nil {
		return
	}
	m.probes.WithLabelValues(string(r.Status)).Inc()
	m.probeDuration.Observe(r.Latency.Seconds())
}

func (m *Metrics) observeDirectory(r radiobrowser.Result) {
	if m == nil {
		return
	}
	outcome := "ok"
	switch {
	case r.Err != nil:
		outcome = "unavailable"
	case r.Cached:
		outcome = "cached"
	}
	m.directory.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeResolve(d time.Duration, working, total int) {
	if m == nil {
		return
	}
	m.resolveDuration.Observe(d.Seconds())
	m.stations.WithLabelValues(strconv.FormatBool(true)).Add(float64(working))
	m.stations.WithLabelValues(strconv.FormatBool(false)).Add(float64(total - working))
}
