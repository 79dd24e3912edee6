// Package observability holds the slog helpers and OpenTelemetry
// instruments a registry.Store reports through. A store without a logger
// stays silent; one without a recorder uses NoopMetrics.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger returns logger with store=name attached, or nil for a nil
// logger. registry.WithName uses it to tell stores apart in shared logs.
func EnrichLogger(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("store", name))
}

// LogRegister logs a value registration.
// replaced is true when an existing slot was overwritten.
func LogRegister(logger *slog.Logger, key, typeName string, replaced bool) {
	if logger == nil {
		return
	}
	logger.Debug("value registered",
		slog.String("key", key),
		slog.String("type", typeName),
		slog.Bool("replaced", replaced),
	)
}

// LogRemove logs the removal of a slot.
func LogRemove(logger *slog.Logger, key, typeName string) {
	if logger == nil {
		return
	}
	logger.Debug("value removed",
		slog.String("key", key),
		slog.String("type", typeName),
	)
}

// LogTypeMismatch logs a typed access that disagreed with the stored type.
func LogTypeMismatch(logger *slog.Logger, op, key, want, got string) {
	if logger == nil {
		return
	}
	logger.Debug("type mismatch",
		slog.String("operation", op),
		slog.String("key", key),
		slog.String("want", want),
		slog.String("got", got),
	)
}

// LogRejected logs a registration refused by the store.
func LogRejected(logger *slog.Logger, key string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("registration rejected",
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}

// LogPoisoned logs a slot left poisoned by a panicking mutation.
func LogPoisoned(logger *slog.Logger, key, slotID string) {
	if logger == nil {
		return
	}
	logger.Error("slot poisoned by panic during mutation",
		slog.String("key", key),
		slog.String("slot_id", slotID),
	)
}

// LogSealed logs that a store stopped accepting registrations.
func LogSealed(logger *slog.Logger, slots int) {
	if logger == nil {
		return
	}
	logger.Info("store sealed",
		slog.Int("slots", slots),
	)
}

// LogCleared logs that every slot of a store was dropped.
func LogCleared(logger *slog.Logger, slots int) {
	if logger == nil {
		return
	}
	logger.Debug("store cleared",
		slog.Int("slots", slots),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
//
// Example:
//
//	done := TimedOperation()
//	// ... hold a lock ...
//	held := done()
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
