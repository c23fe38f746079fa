package handybars

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/randalmurphal/handybars/pkg/handybars/observability"
)

// DefaultTemplateName labels renders of templates that were not registered
// under a name.
const DefaultTemplateName = "inline"

// engineConfig holds Engine-wide settings.
type engineConfig struct {
	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	tracingEnabled bool
	spans          observability.SpanManager
	newID          func() string
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
		newID:   uuid.NewString,
	}
}

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

// WithLogger sets the logger for render events.
// A nil logger disables logging (the default).
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
//	engine := handybars.NewEngine(handybars.WithLogger(logger))
func WithLogger(logger *slog.Logger) EngineOption {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithMetrics enables or disables OpenTelemetry metrics.
// When enabled, the Engine records render counts, latency, errors by kind,
// output size and placeholders expanded.
//
// Uses the global OTel meter provider; configure it before creating the
// Engine.
func WithMetrics(enabled bool) EngineOption {
	return func(c *engineConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables or disables OpenTelemetry tracing.
// When enabled, each render runs in a "handybars.render" span with one
// event per resolved placeholder.
//
// Uses the global OTel tracer provider.
func WithTracing(enabled bool) EngineOption {
	return func(c *engineConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithIDGenerator sets the function used for render IDs when the caller
// does not pass WithRenderID. Default: uuid.NewString.
func WithIDGenerator(fn func() string) EngineOption {
	return func(c *engineConfig) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// renderConfig holds per-call settings.
type renderConfig struct {
	renderID     string
	templateName string
}

// RenderOption configures a single render.
type RenderOption func(*renderConfig)

// WithRenderID sets the ID used to correlate logs and spans for one render.
func WithRenderID(id string) RenderOption {
	return func(c *renderConfig) {
		c.renderID = id
	}
}

// WithTemplateName labels an inline render in logs, metrics and spans.
// Execute always uses the registered name.
func WithTemplateName(name string) RenderOption {
	return func(c *renderConfig) {
		c.templateName = name
	}
}
