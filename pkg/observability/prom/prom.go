// Package prom implements the observability hooks with Prometheus
// collectors.
//
// A Recorder owns its own registry so short-lived CLI runs do not pick up
// the default process collectors. Runs push the registry to a Pushgateway
// when they finish.
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/matzehuels/lamina/pkg/observability"
)

// Recorder collects kernel and cache metrics.
type Recorder struct {
	reg *prometheus.Registry

	operations *prometheus.CounterVec
	running    *prometheus.GaugeVec
	duration   *prometheus.HistogramVec

	shortenMoves  prometheus.Histogram
	shortenWeight *prometheus.HistogramVec

	cacheEvents *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec
}

// New creates a Recorder with every collector registered.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lamina_operations_total",
				Help: "Kernel operations run by the pipeline",
			},
			[]string{"op", "status"},
		),
		running: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "lamina_operations_running",
				Help: "Kernel operations currently in progress",
			},
			[]string{"op"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lamina_operation_duration_seconds",
				Help:    "Wall time of kernel operations",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
			},
			[]string{"op"},
		),
		shortenMoves: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lamina_shorten_moves",
				Help:    "Moves in the conjugator found by shortening",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		shortenWeight: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lamina_shorten_weight",
				Help:    "Lamination weight before and after shortening",
				Buckets: prometheus.ExponentialBuckets(1, 4, 12),
			},
			[]string{"stage"},
		),
		cacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lamina_cache_events_total",
				Help: "Cache lookups and writes by key type",
			},
			[]string{"key_type", "event"},
		),
		cacheBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lamina_cache_written_bytes_total",
				Help: "Bytes written to the cache by key type",
			},
			[]string{"key_type"},
		),
	}
	r.reg.MustRegister(
		r.operations,
		r.running,
		r.duration,
		r.shortenMoves,
		r.shortenWeight,
		r.cacheEvents,
		r.cacheBytes,
	)
	return r
}

// Register installs r as the global kernel and cache hooks.
func (r *Recorder) Register() {
	observability.SetKernelHooks(r)
	observability.SetCacheHooks(r)
}

// Registry returns the registry holding r's collectors.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Push sends the collected metrics to the Pushgateway at url under job.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	return push.New(url, job).Gatherer(r.reg).PushContext(ctx)
}

// OnOperationStart implements observability.KernelHooks.
func (r *Recorder) OnOperationStart(ctx context.Context, op string) {
	r.running.WithLabelValues(op).Inc()
}

// OnOperationComplete implements observability.KernelHooks.
func (r *Recorder) OnOperationComplete(ctx context.Context, op string, d time.Duration, err error) {
	r.running.WithLabelValues(op).Dec()
	r.operations.WithLabelValues(op, status(err)).Inc()
	r.duration.WithLabelValues(op).Observe(d.Seconds())
}

// OnShorten implements observability.KernelHooks.
func (r *Recorder) OnShorten(ctx context.Context, before, after, moves int) {
	r.shortenMoves.Observe(float64(moves))
	r.shortenWeight.WithLabelValues("before").Observe(float64(before))
	r.shortenWeight.WithLabelValues("after").Observe(float64(after))
}

// OnCacheHit implements observability.CacheHooks.
func (r *Recorder) OnCacheHit(ctx context.Context, keyType string) {
	r.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (r *Recorder) OnCacheMiss(ctx context.Context, keyType string) {
	r.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (r *Recorder) OnCacheSet(ctx context.Context, keyType string, size int) {
	r.cacheEvents.WithLabelValues(keyType, "set").Inc()
	r.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ observability.KernelHooks = (*Recorder)(nil)
	_ observability.CacheHooks  = (*Recorder)(nil)
)
