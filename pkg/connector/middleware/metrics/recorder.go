// Package metrics provides metrics recording for connector operations.
package metrics

import (
	"time"
)

// Recorder defines the interface for recording connector query metrics.
type Recorder interface {
	// ObserveQuery records metrics for a completed connector query.
	ObserveQuery(
		agent, transport, model string,
		promptTokens, completionTokens int,
		success bool,
		errorType string,
		duration time.Duration,
	)

	// IncRetry increments the retry counter for a connector.
	IncRetry(agent, transport string)

	// ObserveProbe records the outcome of an availability probe.
	ObserveProbe(agent, transport string, available bool)
}

// NoopRecorder implements Recorder with no-op behavior for when metrics are disabled.
type NoopRecorder struct{}

// Nop returns a no-op metrics recorder that discards all metrics.
func Nop() Recorder {
	return &NoopRecorder{}
}

// ObserveQuery does nothing in the no-op recorder.
func (n *NoopRecorder) ObserveQuery(
	_, _, _ string,
	_, _ int,
	_ bool,
	_ string,
	_ time.Duration,
) {
	// No-op
}

// IncRetry does nothing in the no-op recorder.
func (n *NoopRecorder) IncRetry(_, _ string) {
	// No-op
}

// ObserveProbe does nothing in the no-op recorder.
func (n *NoopRecorder) ObserveProbe(_, _ string, _ bool) {
	// No-op
}
