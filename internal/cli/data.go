package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/randalmurphal/handybars/pkg/handybars"
	"github.com/randalmurphal/handybars/pkg/handybars/config"
	"github.com/randalmurphal/handybars/pkg/handybars/store"
)

// dataFlags select the variables of a render Context.
type dataFlags struct {
	Context string   `help:"Start from a saved context." placeholder:"NAME"`
	Data    []string `help:"Load variables from a YAML or JSON file." type:"existingfile" sep:"none" placeholder:"FILE"`
	Define  []string `help:"Define a text variable." short:"D" sep:"none" placeholder:"NAME=VALUE"`
}

// build assembles the Context: saved context, then data files, then defines.
func (f *dataFlags) build(ctx context.Context, a *app) (*handybars.Context, error) {
	data := handybars.NewContext()

	if f.Context != "" {
		err := a.withStore(func(s store.Store) error {
			saved, err := store.LoadContext(ctx, s, f.Context)
			if err != nil {
				return err
			}
			data.Append(saved)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	for _, path := range f.Data {
		cfg, err := config.FromFile(path)
		if err != nil {
			return nil, fmt.Errorf("data file %s: %w", path, err)
		}
		layer, err := cfg.Context()
		if err != nil {
			return nil, fmt.Errorf("data file %s: %w", path, err)
		}
		data.Append(layer)
	}

	for _, def := range f.Define {
		v, value, err := parseDefine(def)
		if err != nil {
			return nil, err
		}
		data.Define(v, handybars.Text(value))
	}
	return data, nil
}

// parseDefine splits NAME=VALUE on the first '='. NAME must be a valid
// variable path; VALUE may contain further '=' characters.
func parseDefine(def string) (handybars.Variable, string, error) {
	name, value, ok := strings.Cut(def, "=")
	if !ok {
		return handybars.Variable{}, "", fmt.Errorf("define %q: expected NAME=VALUE", def)
	}
	v, err := handybars.Parse(name)
	if err != nil {
		return handybars.Variable{}, "", fmt.Errorf("define %q: %w", def, err)
	}
	return v, value, nil
}

// readInput reads a template from path, or from stdin when path is "" or "-".
func readInput(a *app, path string) (string, error) {
	var r io.Reader
	if path == "" || path == "-" {
		r = a.streams.In
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}

// inputName labels a template in logs.
func inputName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}
