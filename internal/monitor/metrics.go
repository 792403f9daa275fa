package monitor

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	failureTotal *prometheus.CounterVec
	healthStatus prometheus.Gauge

	// Registration guard
	metricsOnce       sync.Once
	metricsRegistered bool
)

// InitMetrics initializes the Prometheus collectors. Call once at startup
// if metrics are enabled; recording functions are no-ops otherwise.
func InitMetrics() {
	metricsOnce.Do(func() {
		failureTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pqops_operation_failures_total",
				Help: "Total number of recorded operation failures",
			},
			[]string{"operation"},
		)

		healthStatus = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pqops_health_check_status",
				Help: "Result of the most recent health check (1=healthy, 0=unhealthy)",
			},
		)

		metricsRegistered = true
	})
}

func observeFailure(operation string) {
	if !metricsRegistered || failureTotal == nil {
		return
	}
	failureTotal.WithLabelValues(operation).Inc()
}

// SetHealthStatus records the outcome of a health check probe.
func SetHealthStatus(healthy bool) {
	if !metricsRegistered || healthStatus == nil {
		return
	}
	if healthy {
		healthStatus.Set(1)
		return
	}
	healthStatus.Set(0)
}
