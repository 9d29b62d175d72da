// Package metrics exports Prometheus metrics about dispatched actions.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/normstate/internal/engine"
	"github.com/roach88/normstate/internal/state"
)

// Metrics holds the dispatch collectors.
type Metrics struct {
	dispatches *prometheus.CounterVec
	errors     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	now        func() time.Time
}

// New creates the collectors and registers them with reg.
// It panics if they are already registered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "normstate",
			Name:      "dispatch_total",
			Help:      "Actions dispatched, by type and nesting depth.",
		}, []string{"type", "depth"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "normstate",
			Name:      "dispatch_errors_total",
			Help:      "Dispatches that returned an error, by type.",
		}, []string{"type"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "normstate",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent in the rest of the middleware chain and the reducer.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"owner"}),
		now: time.Now,
	}
	reg.MustRegister(m.dispatches, m.errors, m.duration)
	return m
}

// Middleware observes every dispatch reaching it, nested ones included.
func (m *Metrics) Middleware() engine.Middleware {
	return func(api engine.API, next engine.Dispatch) engine.Dispatch {
		return func(a state.Action) error {
			m.dispatches.WithLabelValues(string(a.Type), strconv.Itoa(api.Depth())).Inc()

			start := m.now()
			err := next(a)
			m.duration.WithLabelValues(a.Type.Owner()).Observe(m.now().Sub(start).Seconds())

			if err != nil {
				m.errors.WithLabelValues(string(a.Type)).Inc()
			}
			return err
		}
	}
}
