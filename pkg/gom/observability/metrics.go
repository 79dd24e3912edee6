package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Operation names reported to the recorder.
const (
	OpRegister = "register"
	OpApply    = "apply"
	OpWith     = "with"
	OpRemove   = "remove"
	OpReplace  = "replace"
	OpEnsure   = "ensure"
	OpDelete   = "delete"
)

// Outcome values reported to the recorder.
const (
	OutcomeOK           = "ok"
	OutcomeNotFound     = "not_found"
	OutcomeTypeMismatch = "type_mismatch"
	OutcomeRejected     = "rejected"
)

// MetricsRecorder records store metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordOperation counts one store operation and how it ended.
	RecordOperation(ctx context.Context, op, outcome string)

	// RecordSlots adjusts the number of live slots by delta.
	RecordSlots(ctx context.Context, delta int64)

	// RecordLockHold records how long a caller closure held a slot lock.
	RecordLockHold(ctx context.Context, op string, held time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	operations metric.Int64Counter
	slots      metric.Int64UpDownCounter
	lockHold   metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("gom")

	operations, err := meter.Int64Counter("gom.registry.operations",
		metric.WithDescription("Number of registry operations by outcome"),
	)
	if err != nil {
		return nil, err
	}

	slots, err := meter.Int64UpDownCounter("gom.registry.slots",
		metric.WithDescription("Number of live registry slots"),
	)
	if err != nil {
		return nil, err
	}

	lockHold, err := meter.Float64Histogram("gom.registry.lock_hold_ms",
		metric.WithDescription("Time a caller closure held a slot lock in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		operations: operations,
		slots:      slots,
		lockHold:   lockHold,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordOperation records a store operation.
func (m *otelMetrics) RecordOperation(ctx context.Context, op, outcome string) {
	m.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}

// RecordSlots records a change in live slots.
func (m *otelMetrics) RecordSlots(ctx context.Context, delta int64) {
	if delta == 0 {
		return
	}
	m.slots.Add(ctx, delta)
}

// RecordLockHold records a lock hold duration.
func (m *otelMetrics) RecordLockHold(ctx context.Context, op string, held time.Duration) {
	m.lockHold.Record(ctx, float64(held)/float64(time.Millisecond),
		metric.WithAttributes(attribute.String("operation", op)))
}
