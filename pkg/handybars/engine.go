package handybars

import (
	"context"
	"fmt"
	"iter"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/handybars/pkg/handybars/observability"
	"github.com/randalmurphal/handybars/pkg/handybars/registry"
)

// Engine renders templates with logging, metrics and tracing, and keeps a
// set of compiled templates by name.
//
// Output and errors are the same as Context.Render; the Engine only adds
// instrumentation. An Engine is safe for concurrent use.
//
// Example:
//
//	engine := handybars.NewEngine(
//	    handybars.WithLogger(logger),
//	    handybars.WithMetrics(true),
//	)
//	if err := engine.Register("motd", "Hello {{ user.name }}"); err != nil {
//	    return err
//	}
//	out, err := engine.Execute(ctx, "motd", data)
type Engine struct {
	cfg       engineConfig
	templates *registry.Registry[*Template]
}

// NewEngine creates an Engine.
func NewEngine(opts ...EngineOption) *Engine {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{
		cfg:       cfg,
		templates: registry.New[*Template](),
	}
}

// Register compiles tmpl and stores it under name, replacing any template
// already registered there. Syntax errors are returned and nothing is stored.
func (e *Engine) Register(name, tmpl string) error {
	t, err := Compile(tmpl)
	e.cfg.metrics.RecordCompile(context.Background(), name, err)
	if err != nil {
		return fmt.Errorf("register %q: %w", name, err)
	}
	e.templates.Set(name, t)
	observability.LogTemplateRegistered(e.cfg.logger, name, len(t.Variables()))
	return nil
}

// Template returns the compiled template registered under name.
func (e *Engine) Template(name string) (*Template, bool) {
	return e.templates.Get(name)
}

// Unregister removes name. It reports whether a template was registered.
func (e *Engine) Unregister(name string) bool {
	return e.templates.Delete(name)
}

// Templates returns the registered names in sorted order.
func (e *Engine) Templates() []string {
	return e.templates.Names()
}

// Render renders tmpl against data.
func (e *Engine) Render(ctx context.Context, data *Context, tmpl string, opts ...RenderOption) (string, error) {
	cfg := renderConfig{templateName: DefaultTemplateName}
	for _, opt := range opts {
		opt(&cfg)
	}
	return e.run(ctx, data, Tokens(tmpl), len(tmpl), cfg)
}

// Execute renders the template registered under name.
// It fails with ErrUnknownTemplate when name is not registered.
func (e *Engine) Execute(ctx context.Context, name string, data *Context, opts ...RenderOption) (string, error) {
	t, ok := e.templates.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	cfg := renderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.templateName = name
	return e.run(ctx, data, t.all(), len(t.source), cfg)
}

func (e *Engine) run(ctx context.Context, data *Context, tokens iter.Seq2[Token, error], size int, cfg renderConfig) (out string, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if cfg.renderID == "" {
		cfg.renderID = e.cfg.newID()
	}

	start := time.Now()
	observability.LogRenderStart(e.cfg.logger, cfg.renderID, cfg.templateName, size)

	spanCtx := ctx
	var onResolve func(Token)
	if e.cfg.tracingEnabled {
		var span trace.Span
		spanCtx, span = e.cfg.spans.StartRenderSpan(ctx, cfg.templateName, cfg.renderID)
		defer func() {
			e.cfg.spans.EndSpanWithError(span, err)
		}()
		onResolve = func(tok Token) {
			e.cfg.spans.AddSpanEvent(spanCtx, "placeholder.resolved",
				attribute.String("variable", tok.Variable.String()),
				attribute.Int("offset", tok.Offset),
			)
		}
	}

	var placeholders int
	out, placeholders, err = data.render(tokens, size, onResolve)
	elapsed := time.Since(start)
	durationMs := float64(elapsed.Microseconds()) / 1000
	kind := Kind(err)
	e.cfg.metrics.RecordRender(spanCtx, cfg.templateName, elapsed, placeholders, len(out), kind)

	if err != nil {
		observability.LogRenderError(e.cfg.logger, cfg.renderID, err, durationMs, kind)
		return "", err
	}
	observability.LogRenderComplete(e.cfg.logger, cfg.renderID, durationMs, placeholders, len(out))
	return out, nil
}
