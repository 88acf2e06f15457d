package gcepd

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the instruments for backend operations.
type Metrics struct {
	operationDuration metric.Float64Histogram
	operationsTotal   metric.Int64Counter
}

// NewMetrics creates and registers the backend metrics.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	operationDuration, err := meter.Float64Histogram(
		"blockplane_gcepd_operation_duration_seconds",
		metric.WithDescription("Time from submitting a provider request to its terminal state"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	operationsTotal, err := meter.Int64Counter(
		"blockplane_gcepd_operations_total",
		metric.WithDescription("Total backend operations by outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		operationDuration: operationDuration,
		operationsTotal:   operationsTotal,
	}, nil
}

// recordOperation records duration and outcome of one backend
// operation. Safe to call with metrics disabled.
func (b *backend) recordOperation(ctx context.Context, operation string, start time.Time, err *error) {
	if b.metrics == nil {
		return
	}
	status := "ok"
	if err != nil && *err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	b.metrics.operationDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	b.metrics.operationsTotal.Add(ctx, 1, attrs)
}
