package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"geowell/fluid"
	"geowell/well"
)

const namespace = "geowell"

// Metrics of the solve service
type Metrics struct {
	// Requests counts websocket requests by message type and status
	Requests *prometheus.CounterVec

	// RequestDuration observes the handling time of requests by message type
	RequestDuration *prometheus.HistogramVec

	// Solves counts single well solves, including those of sweeps, by status
	Solves *prometheus.CounterVec

	// Iterations observes the fixed point iterations of every segment
	Iterations prometheus.Histogram

	// Connections is the number of open websocket connections
	Connections prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of websocket requests",
		}, []string{"type", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time to handle a websocket request",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"type"}),
		Solves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Total number of well solves",
		}, []string{"status"}),
		Iterations: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "segment_iterations",
			Help:      "Fixed point iterations per well segment",
			Buckets:   prometheus.LinearBuckets(1, 2, 10),
		}),
		Connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Number of open websocket connections",
		}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordRequest records one handled request
func (m *Metrics) RecordRequest(kind string, start time.Time, err error) {
	m.Requests.WithLabelValues(kind, status(err)).Inc()
	m.RequestDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// RecordSolve records one solve; sol is nil on failure
func (m *Metrics) RecordSolve(sol *well.Solution, err error) {
	m.Solves.WithLabelValues(status(err)).Inc()
	if sol == nil {
		return
	}
	for _, seg := range sol.Segments {
		m.Iterations.Observe(float64(seg.Iterations))
	}
}

// registerCache exposes the hit and miss counters of a property cache
func registerCache(reg prometheus.Registerer, cache *fluid.Cache) {
	factory := promauto.With(reg)
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "fluid_cache",
		Name:      "hits_total",
		Help:      "Fluid property lookups served from the cache",
	}, func() float64 {
		hits, _ := cache.Stats()
		return float64(hits)
	})
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "fluid_cache",
		Name:      "misses_total",
		Help:      "Fluid property lookups evaluated by the equation of state",
	}, func() float64 {
		_, misses := cache.Stats()
		return float64(misses)
	})
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "fluid_cache",
		Name:      "entries",
		Help:      "Fluid states held by the cache",
	}, func() float64 {
		return float64(cache.Len())
	})
}
