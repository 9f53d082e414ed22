// Package metrics provides Prometheus-based metrics recording for connector operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder implements the Recorder interface using Prometheus metrics.
type PrometheusRecorder struct {
	requestsTotal   *prometheus.CounterVec
	tokensTotal     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
	probesTotal     *prometheus.CounterVec
}

// NewPrometheusRecorder creates a recorder registered on the default registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	return NewPrometheusRecorderWith(prometheus.DefaultRegisterer)
}

// NewPrometheusRecorderWith creates a recorder registered on reg.
func NewPrometheusRecorderWith(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "connector_requests_total",
				Help: "Total number of connector queries by agent, transport, and status",
			},
			[]string{"agent", "transport", "model", "status", "error_type"},
		),
		tokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "connector_tokens_total",
				Help: "Estimated tokens processed by connector queries",
			},
			[]string{"agent", "transport", "direction"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "connector_request_duration_seconds",
				Help:    "Duration of connector queries in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"agent", "transport"},
		),
		retriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "connector_retries_total",
				Help: "Total number of connector query retries",
			},
			[]string{"agent", "transport"},
		),
		probesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "connector_probes_total",
				Help: "Availability probe outcomes by agent and transport",
			},
			[]string{"agent", "transport", "result"},
		),
	}
}

// ObserveQuery records metrics for a completed connector query.
func (p *PrometheusRecorder) ObserveQuery(
	agent, transport, model string,
	promptTokens, completionTokens int,
	success bool,
	errorType string,
	duration time.Duration,
) {
	status := "success"
	if !success {
		status = "error"
	}

	p.requestsTotal.WithLabelValues(agent, transport, model, status, errorType).Inc()

	if success {
		p.tokensTotal.WithLabelValues(agent, transport, "prompt").Add(float64(promptTokens))
		p.tokensTotal.WithLabelValues(agent, transport, "completion").Add(float64(completionTokens))
	}

	p.requestDuration.WithLabelValues(agent, transport).Observe(duration.Seconds())
}

// IncRetry increments the retry counter for a connector.
func (p *PrometheusRecorder) IncRetry(agent, transport string) {
	p.retriesTotal.WithLabelValues(agent, transport).Inc()
}

// ObserveProbe records the outcome of an availability probe.
func (p *PrometheusRecorder) ObserveProbe(agent, transport string, available bool) {
	result := "available"
	if !available {
		result = "unavailable"
	}
	p.probesTotal.WithLabelValues(agent, transport, result).Inc()
}
