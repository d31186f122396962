package metrics

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// UpstreamMetrics records individual attempts made against the upstream API,
// including the ones that are retried.
type UpstreamMetrics interface {
	// RecordAttempt counts one attempt. statusCode is 0 for transport failures.
	RecordAttempt(ctx context.Context, statusCode int, retried bool)
}

type upstreamMetrics struct {
	attemptCounter metric.Int64Counter
}

// NewUpstreamMetrics creates an UpstreamMetrics implementation that exports
// <namespace>_upstream_attempts_total.
func NewUpstreamMetrics(meterProvider metric.MeterProvider, namespace string) (UpstreamMetrics, error) {
	meter := meterProvider.Meter(namespace)

	attemptCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_upstream_attempts_total", namespace),
		metric.WithDescription("Total number of upstream API attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream attempt counter: %w", err)
	}

	return &upstreamMetrics{attemptCounter: attemptCounter}, nil
}

// RecordAttempt increments the attempt counter with status_code and retried labels.
func (u *upstreamMetrics) RecordAttempt(ctx context.Context, statusCode int, retried bool) {
	status := "transport_error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}

	u.attemptCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("status_code", status),
			attribute.Bool("retried", retried),
		),
	)
}

// NoOpUpstreamMetrics discards attempts when metrics are disabled.
type NoOpUpstreamMetrics struct{}

// NewNoOpUpstreamMetrics creates a no-op UpstreamMetrics implementation.
func NewNoOpUpstreamMetrics() UpstreamMetrics {
	return &NoOpUpstreamMetrics{}
}

// RecordAttempt does nothing.
func (n *NoOpUpstreamMetrics) RecordAttempt(ctx context.Context, statusCode int, retried bool) {}
