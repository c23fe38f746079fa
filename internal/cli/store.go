package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/randalmurphal/handybars/pkg/handybars/observability"
	"github.com/randalmurphal/handybars/pkg/handybars/store"
)

// withStore opens the SQLite store, runs fn and closes the store.
func (a *app) withStore(fn func(store.Store) error) (err error) {
	if dir := filepath.Dir(a.storePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
	}
	s, err := store.NewSQLiteStore(a.storePath)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()
	return fn(s)
}

type saveCmd struct {
	Vars dataFlags `embed:""`

	Name string `arg:"" help:"Name of the saved context."`
}

// Run executes the save command.
func (c *saveCmd) Run(ctx context.Context, a *app) error {
	data, err := c.Vars.build(ctx, a)
	if err != nil {
		return err
	}
	done := observability.TimedOperation()
	err = a.withStore(func(s store.Store) error {
		return store.SaveContext(ctx, s, c.Name, data)
	})
	if err != nil {
		observability.LogStoreError(a.logger, "save", c.Name, err)
		return err
	}
	a.logger.Info("context saved",
		slog.String("name", c.Name),
		slog.Int("roots", data.Len()),
		slog.Float64("duration_ms", done()),
	)
	return nil
}

type saveTemplateCmd struct {
	Name  string `arg:"" help:"Name of the saved template."`
	Input string `arg:"" optional:"" default:"-" help:"Template file or '-' for stdin."`
}

// Run executes the save-template command.
func (c *saveTemplateCmd) Run(ctx context.Context, a *app) error {
	source, err := readInput(a, c.Input)
	if err != nil {
		return err
	}
	err = a.withStore(func(s store.Store) error {
		return store.SaveTemplate(ctx, s, c.Name, source)
	})
	if err != nil {
		observability.LogStoreError(a.logger, "save-template", c.Name, err)
		return err
	}
	a.logger.Info("template saved",
		slog.String("name", c.Name),
		slog.Int("size_bytes", len(source)),
	)
	return nil
}

type listCmd struct{}

// Run executes the list command. Each entry is printed as
// "namespace/name" in save order.
func (c *listCmd) Run(ctx context.Context, a *app) error {
	return a.withStore(func(s store.Store) error {
		for _, ns := range []string{store.NamespaceContexts, store.NamespaceTemplates} {
			infos, err := s.List(ctx, ns)
			if err != nil {
				return err
			}
			for _, info := range infos {
				if _, err := fmt.Fprintf(a.streams.Out, "%s/%s\n", info.Namespace, info.Name); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

type deleteCmd struct {
	Template bool   `help:"Delete a saved template instead of a context."`
	Name     string `arg:"" help:"Name to delete."`
}

// Run executes the delete command.
func (c *deleteCmd) Run(ctx context.Context, a *app) error {
	ns := store.NamespaceContexts
	if c.Template {
		ns = store.NamespaceTemplates
	}
	err := a.withStore(func(s store.Store) error {
		if _, err := s.Load(ctx, ns, c.Name); err != nil {
			return fmt.Errorf("delete %s/%s: %w", ns, c.Name, err)
		}
		return s.Delete(ctx, ns, c.Name)
	})
	if err != nil {
		observability.LogStoreError(a.logger, "delete", c.Name, err)
		return err
	}
	a.logger.Info("entry deleted", slog.String("namespace", ns), slog.String("name", c.Name))
	return nil
}
