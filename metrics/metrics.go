// Package metrics exposes Prometheus counters for registry operations
// and the standalone metrics HTTP server the binaries run next to the
// API server.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer serves the Prometheus scrape endpoint and owns the
// operation counters.
type MetricsServer struct {
	srv *http.Server

	opsTotal    *prometheus.CounterVec
	opErrors    *prometheus.CounterVec
	opDurations *prometheus.HistogramVec
}

// New creates a metrics server listening on addr. The namespace prefixes
// every metric name.
func New(namespace, addr string) (*MetricsServer, error) {
	registry := prometheus.NewRegistry()

	opsTotal := promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Registry operations processed, by operation name.",
	}, []string{"operation"})

	opErrors := promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operation_errors_total",
		Help:      "Registry operations that returned an error, by operation name.",
	}, []string{"operation"})

	opDurations := promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Registry operation latency, by operation name.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &MetricsServer{
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		opsTotal:    opsTotal,
		opErrors:    opErrors,
		opDurations: opDurations,
	}, nil
}

// RecordOperation counts one completed operation and its latency.
func (m *MetricsServer) RecordOperation(operation string, duration time.Duration, err error) {
	m.opsTotal.WithLabelValues(operation).Inc()
	m.opDurations.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.opErrors.WithLabelValues(operation).Inc()
	}
}

// ListenAndServe starts the scrape endpoint. Blocks until shutdown.
func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the scrape endpoint.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
