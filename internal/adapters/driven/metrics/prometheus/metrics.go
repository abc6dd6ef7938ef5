// Package prometheus records pipeline metrics in a Prometheus registry and
// serves them over HTTP.
package prometheus

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
	"github.com/custodia-labs/fusionqa/internal/logger"
)

// Namespace prefixes every metric name.
const Namespace = "fusionqa"

// Ensure Metrics implements the interface.
var _ driven.Metrics = (*Metrics)(nil)

// Metrics implements driven.Metrics on a private registry, so tests and
// multiple instances never collide on the global default registry.
type Metrics struct {
	registry *prometheus.Registry

	providerOutcomes *prometheus.CounterVec
	latency          *prometheus.HistogramVec
	records          *prometheus.CounterVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		providerOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "provider_calls_total",
				Help:      "Provider calls by provider and outcome status.",
			},
			[]string{"provider", "status"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of pipeline operations in seconds.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 45, 60},
			},
			[]string{"op"},
		),
		records: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "records_returned_total",
				Help:      "Fused context records by source kind.",
			},
			[]string{"kind"},
		),
	}
}

// ProviderOutcome counts one provider call.
func (m *Metrics) ProviderOutcome(provider, status string) {
	m.providerOutcomes.WithLabelValues(provider, status).Inc()
}

// ObserveLatency records the duration of an operation.
func (m *Metrics) ObserveLatency(op string, d time.Duration) {
	m.latency.WithLabelValues(op).Observe(d.Seconds())
}

// RecordsReturned adds n records of kind.
func (m *Metrics) RecordsReturned(kind string, n int) {
	if n <= 0 {
		return
	}
	m.records.WithLabelValues(kind).Add(float64(n))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Serving metrics on %s/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
