// Package observability provides logging, metrics, and tracing for the
// dispatcher.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds dispatch cycle context to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, cycleID, "Blog", "index")
//	enriched.Info("rendering") // includes cycle_id, controller, action
func EnrichLogger(logger *slog.Logger, cycleID, controller, action string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("cycle_id", cycleID),
		slog.String("controller", controller),
		slog.String("action", action),
	)
}

// LogDispatchStart logs the start of a dispatch cycle.
func LogDispatchStart(logger *slog.Logger, name string) {
	if logger == nil {
		return
	}
	logger.Debug("dispatch starting",
		slog.String("dispatch", name),
	)
}

// LogDispatchComplete logs a completed dispatch cycle and the phase its result went to.
func LogDispatchComplete(logger *slog.Logger, name, phase string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("dispatch completed",
		slog.String("dispatch", name),
		slog.String("phase", phase),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogDispatchError logs a failed dispatch cycle.
func LogDispatchError(logger *slog.Logger, name string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("dispatch failed",
		slog.String("dispatch", name),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogActionError logs a controller action failure.
func LogActionError(logger *slog.Logger, method string, err error) {
	if logger == nil {
		return
	}
	logger.Error("action failed",
		slog.String("method", method),
		slog.String("error", err.Error()),
	)
}

// LogJournalError logs a journal write failure (non-fatal).
func LogJournalError(logger *slog.Logger, cycleID string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("journal write failed",
		slog.String("cycle_id", cycleID),
		slog.String("error", err.Error()),
	)
}

// DurationMs converts d to fractional milliseconds for logs and histograms.
func DurationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
