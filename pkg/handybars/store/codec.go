package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/randalmurphal/handybars/pkg/handybars"
)

// Namespaces used by the typed helpers.
const (
	NamespaceContexts  = "contexts"
	NamespaceTemplates = "templates"
)

// SaveContext stores c as JSON under name.
func SaveContext(ctx context.Context, s Store, name string, c *handybars.Context) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode context %q: %w", name, err)
	}
	return s.Save(ctx, NamespaceContexts, name, data)
}

// LoadContext loads the context stored under name.
func LoadContext(ctx context.Context, s Store, name string) (*handybars.Context, error) {
	data, err := s.Load(ctx, NamespaceContexts, name)
	if err != nil {
		return nil, fmt.Errorf("load context %q: %w", name, err)
	}
	c := handybars.NewContext()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode context %q: %w", name, err)
	}
	return c, nil
}

// SaveTemplate compiles source and stores it under name. Templates with
// syntax errors are rejected and nothing is stored.
func SaveTemplate(ctx context.Context, s Store, name, source string) error {
	if _, err := handybars.Compile(source); err != nil {
		return fmt.Errorf("template %q: %w", name, err)
	}
	return s.Save(ctx, NamespaceTemplates, name, []byte(source))
}

// LoadTemplate loads and compiles the template stored under name.
func LoadTemplate(ctx context.Context, s Store, name string) (*handybars.Template, error) {
	data, err := s.Load(ctx, NamespaceTemplates, name)
	if err != nil {
		return nil, fmt.Errorf("load template %q: %w", name, err)
	}
	t, err := handybars.Compile(string(data))
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}
	return t, nil
}
