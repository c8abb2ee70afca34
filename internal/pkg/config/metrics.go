package config

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConfigMetrics is a per-component family of Prometheus metrics tracking
// configuration load and fallback behavior. Every process (API, worker)
// builds its own instance via NewConfigMetrics with a distinct component
// name so metric names don't collide.
type ConfigMetrics struct {
	// LoadTimestamp is set to the Unix time of the most recent successful
	// config load.
	LoadTimestamp prometheus.Gauge
	// ValidationErrorsTotal counts validation failures, labeled by field.
	ValidationErrorsTotal *prometheus.CounterVec
	// FallbacksTotal counts applied fallback values, labeled by field.
	FallbacksTotal *prometheus.CounterVec
	// FallbackActive is 1 while at least one field is running on a
	// fallback value, 0 otherwise.
	FallbackActive prometheus.Gauge

	component string
}

// NewConfigMetrics registers and returns the metric family for component.
// Metric names are prefixed with component (e.g. "worker_config_load_timestamp");
// calling this twice with the same component panics on the duplicate
// registration.
func NewConfigMetrics(component string) *ConfigMetrics {
	prefixed := func(suffix string) string { return fmt.Sprintf("%s_config_%s", component, suffix) }

	return &ConfigMetrics{
		LoadTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: prefixed("load_timestamp"),
			Help: fmt.Sprintf("Unix timestamp of last %s configuration load", component),
		}),
		ValidationErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: prefixed("validation_errors_total"),
			Help: fmt.Sprintf("Total number of %s configuration validation errors", component),
		}, []string{"field"}),
		FallbacksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: prefixed("fallbacks_total"),
			Help: fmt.Sprintf("Total number of %s configuration fallback operations", component),
		}, []string{"field"}),
		FallbackActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: prefixed("fallback_active"),
			Help: fmt.Sprintf("1 if any %s configuration fallback is active, 0 otherwise", component),
		}),
		component: component,
	}
}

// RecordLoadTimestamp stamps the current time as the last config load.
func (m *ConfigMetrics) RecordLoadTimestamp() {
	m.LoadTimestamp.SetToCurrentTime()
}

// RecordValidationError increments the validation-error counter for field.
func (m *ConfigMetrics) RecordValidationError(field string) {
	m.ValidationErrorsTotal.WithLabelValues(field).Inc()
}

// RecordFallback increments the fallback counter for field. fallbackType
// is accepted for call-site readability but isn't currently used as a
// label, keeping cardinality low.
func (m *ConfigMetrics) RecordFallback(field, fallbackType string) {
	m.FallbacksTotal.WithLabelValues(field).Inc()
}

// SetFallbackActive sets whether any configuration field is currently
// running on a fallback value.
func (m *ConfigMetrics) SetFallbackActive(field string, active bool) {
	if active {
		m.FallbackActive.Set(1)
		return
	}
	m.FallbackActive.Set(0)
}
