package registry

import (
	"log/slog"
	"strings"

	"github.com/randalmurphal/gom/pkg/gom/observability"
)

// options holds store configuration.
type options struct {
	name       string
	normalizer func(string) string
	logger     *slog.Logger
	metrics    observability.MetricsRecorder
}

func defaultOptions() options {
	return options{
		metrics: observability.NoopMetrics{},
	}
}

// Option configures a Store.
type Option func(*options)

// WithNormalizer canonicalizes keys on every operation.
// If fn is nil, keys are used as-is.
func WithNormalizer(fn func(string) string) Option {
	return func(o *options) {
		o.normalizer = fn
	}
}

// WithCaseFoldLower makes keys case-insensitive by lowercasing them.
func WithCaseFoldLower() Option {
	return WithNormalizer(strings.ToLower)
}

// WithLogger enables structured logging of registrations, removals,
// type mismatches and poisoned slots.
// Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithName labels the store. Every log record it emits carries
// store=name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics.
//
// Example:
//
//	s := registry.New(registry.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}
