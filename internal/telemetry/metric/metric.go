// Package metric provides Prometheus metrics for tokenq.
//
// It exposes the queue depth, production and delivery counters, cancelled
// waits and take latency in Prometheus format. All recording methods are
// safe to call on a nil *Registry, so components work without metrics.
package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "tokenq"

// Operation and reason label values for cancelled waits.
const (
	OpPut  = "put"
	OpTake = "take"

	ReasonInterrupted = "interrupted"
	ReasonTimeout     = "timeout"
)

// Sizer reports the current and maximum length of a queue.
type Sizer interface {
	Len() int
	Cap() int
}

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	TokensProduced  prometheus.Counter
	TokensDelivered prometheus.Counter
	WaitsCancelled  *prometheus.CounterVec
	TakeWait        prometheus.Histogram
	ProducerRunning prometheus.Gauge
	QueueCapacity   prometheus.Gauge
}

// NewRegistry creates the application metrics on a fresh Prometheus
// registry, together with the Go runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		TokensProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tokens_produced_total",
			Help:      "Total tokens inserted into the queue by the producer",
		}),
		TokensDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tokens_delivered_total",
			Help:      "Total tokens handed to consumers",
		}),
		WaitsCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "waits_cancelled_total",
			Help:      "Blocking queue waits that ended without an element",
		}, []string{"op", "reason"}),
		TakeWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "take_wait_seconds",
			Help:      "Time consumers spent waiting for a token",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		ProducerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "producer",
			Name:      "running",
			Help:      "1 while the producer loop is running",
		}),
		QueueCapacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "queue",
			Name:      "capacity",
			Help:      "Maximum number of pending tokens",
		}),
	}

	r.registry.MustRegister(
		r.TokensProduced,
		r.TokensDelivered,
		r.WaitsCancelled,
		r.TakeWait,
		r.ProducerRunning,
		r.QueueCapacity,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// ObserveQueue exports the depth of q as a gauge sampled at scrape time and
// records its capacity. Call it once per queue.
func (r *Registry) ObserveQueue(q Sizer) {
	if r == nil {
		return
	}
	r.QueueCapacity.Set(float64(q.Cap()))
	r.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: "queue",
		Name:      "depth",
		Help:      "Tokens currently waiting in the queue",
	}, func() float64 {
		return float64(q.Len())
	}))
}

// Produced records one token inserted by the producer.
func (r *Registry) Produced() {
	if r == nil {
		return
	}
	r.TokensProduced.Inc()
}

// Delivered records one token handed to a consumer after waiting d.
func (r *Registry) Delivered(d time.Duration) {
	if r == nil {
		return
	}
	r.TokensDelivered.Inc()
	r.TakeWait.Observe(d.Seconds())
}

// Cancelled records a wait on op that ended for reason.
func (r *Registry) Cancelled(op, reason string) {
	if r == nil {
		return
	}
	r.WaitsCancelled.WithLabelValues(op, reason).Inc()
}

// SetRunning flips the producer gauge.
func (r *Registry) SetRunning(running bool) {
	if r == nil {
		return
	}
	if running {
		r.ProducerRunning.Set(1)
	} else {
		r.ProducerRunning.Set(0)
	}
}

// Gatherer returns the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		Registry: r.registry,
	})
}
