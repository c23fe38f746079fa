// Package observability provides structured logging, metrics, and tracing
// for handybars rendering.
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

// EnrichLogger adds render context to a logger.
// Returns a new logger with render_id and template fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "render-123", "motd.tmpl")
//	enriched.Info("rendering") // includes render_id, template
func EnrichLogger(logger *slog.Logger, renderID, templateName string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("render_id", renderID),
		slog.String("template", templateName),
	)
}

// LogRenderStart logs the start of a render.
func LogRenderStart(logger *slog.Logger, renderID, templateName string, sizeBytes int) {
	if logger == nil {
		return
	}
	logger.Debug("render starting",
		slog.String("render_id", renderID),
		slog.String("template", templateName),
		slog.Int("size_bytes", sizeBytes),
	)
}

// LogRenderComplete logs a successful render.
func LogRenderComplete(logger *slog.Logger, renderID string, durationMs float64, placeholders, outputBytes int) {
	if logger == nil {
		return
	}
	logger.Debug("render completed",
		slog.String("render_id", renderID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("placeholders", placeholders),
		slog.Int("output_bytes", outputBytes),
	)
}

// LogRenderError logs a failed render.
func LogRenderError(logger *slog.Logger, renderID string, err error, durationMs float64, errorKind string) {
	if logger == nil {
		return
	}
	logger.Error("render failed",
		slog.String("render_id", renderID),
		slog.String("error", err.Error()),
		slog.String("error_kind", errorKind),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogTemplateRegistered logs a template added to an engine.
func LogTemplateRegistered(logger *slog.Logger, templateName string, variables int) {
	if logger == nil {
		return
	}
	logger.Debug("template registered",
		slog.String("template", templateName),
		slog.Int("variables", variables),
	)
}

// LogStoreError logs a store failure (non-fatal).
func LogStoreError(logger *slog.Logger, op, name string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("store operation failed",
		slog.String("operation", op),
		slog.String("name", name),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
