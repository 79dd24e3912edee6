package observability

import (
	"context"
	"time"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordOperation does nothing.
func (NoopMetrics) RecordOperation(_ context.Context, _, _ string) {}

// RecordSlots does nothing.
func (NoopMetrics) RecordSlots(_ context.Context, _ int64) {}

// RecordLockHold does nothing.
func (NoopMetrics) RecordLockHold(_ context.Context, _ string, _ time.Duration) {}
