package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"github.com/randalmurphal/handybars/pkg/handybars"
	"github.com/randalmurphal/handybars/pkg/handybars/observability"
	"github.com/randalmurphal/handybars/pkg/handybars/store"
)

type renderCmd struct {
	Vars dataFlags `embed:""`

	Template string `help:"Render a saved template instead of INPUT." placeholder:"NAME"`
	Output   string `help:"Write output to FILE atomically instead of stdout." short:"o" type:"path" placeholder:"FILE"`

	Input string `arg:"" optional:"" default:"-" help:"Template file or '-' for stdin."`
}

// Run executes the render command.
func (c *renderCmd) Run(ctx context.Context, a *app) error {
	data, err := c.Vars.build(ctx, a)
	if err != nil {
		return err
	}

	engine := handybars.NewEngine(handybars.WithLogger(a.logger))
	renderID := uuid.NewString()
	name := inputName(c.Input)

	var out string
	if c.Template != "" {
		name = c.Template
		err = a.withStore(func(s store.Store) error {
			tmpl, err := store.LoadTemplate(ctx, s, c.Template)
			if err != nil {
				return err
			}
			return engine.Register(c.Template, tmpl.Source())
		})
		if err != nil {
			observability.LogStoreError(a.logger, "load-template", c.Template, err)
			return err
		}
		out, err = engine.Execute(ctx, c.Template, data, handybars.WithRenderID(renderID))
	} else {
		var source string
		source, err = readInput(a, c.Input)
		if err != nil {
			return err
		}
		out, err = engine.Render(ctx, data, source,
			handybars.WithTemplateName(name),
			handybars.WithRenderID(renderID),
		)
	}
	if err != nil {
		return err
	}

	return c.write(a, observability.EnrichLogger(a.logger, renderID, name), out)
}

func (c *renderCmd) write(a *app, logger *slog.Logger, out string) error {
	if c.Output == "" {
		_, err := io.WriteString(a.streams.Out, out)
		return err
	}
	if err := atomic.WriteFile(c.Output, strings.NewReader(out)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("output written",
		slog.String("path", c.Output),
		slog.Int("bytes", len(out)),
	)
	return nil
}

type checkCmd struct {
	Input string `arg:"" optional:"" default:"-" help:"Template file or '-' for stdin."`
}

// Run executes the check command. It prints each distinct variable the
// template references, one per line, in order of first appearance.
func (c *checkCmd) Run(_ context.Context, a *app) error {
	source, err := readInput(a, c.Input)
	if err != nil {
		return err
	}
	tmpl, err := handybars.Compile(source)
	if err != nil {
		return fmt.Errorf("%s: %w", inputName(c.Input), err)
	}
	for _, v := range tmpl.Variables() {
		if _, err := fmt.Fprintln(a.streams.Out, v); err != nil {
			return err
		}
	}
	return nil
}
