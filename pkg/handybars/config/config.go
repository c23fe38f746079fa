package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/randalmurphal/handybars/pkg/handybars"
)

// Config wraps a decoded document.
// Accessors return defaults when a key is missing or has the wrong type.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// If data is nil, an empty Config is returned.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// String returns the string value for key, or defaultVal if missing or not a string.
func (c Config) String(key, defaultVal string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return defaultVal
}

// Any returns the raw value for key, or defaultVal if missing.
func (c Config) Any(key string, defaultVal any) any {
	v, ok := c.data[key]
	if !ok {
		return defaultVal
	}
	return v
}

// Has returns true if the key exists in the config.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Lookup walks a dotted path through nested maps.
//
//	cfg.Lookup("service.port")
func (c Config) Lookup(path string) (any, bool) {
	var current any = c.data
	for _, key := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Sub returns the nested map under key as a Config.
// It returns an empty Config when key is missing or not a map.
func (c Config) Sub(key string) Config {
	m, _ := asMap(c.data[key])
	return New(m)
}

// Keys returns the top-level keys in sorted order.
func (c Config) Keys() []string {
	return slices.Sorted(maps.Keys(c.data))
}

// Len returns the number of top-level keys.
func (c Config) Len() int {
	return len(c.data)
}

// Raw returns the underlying map.
// The returned map should not be modified.
func (c Config) Raw() map[string]any {
	return c.data
}

// Merge returns a new Config holding c overlaid with other. Nested maps
// present in both are merged recursively; any other value from other wins.
func (c Config) Merge(other Config) Config {
	return New(mergeMaps(c.data, other.data))
}

// Context converts the document into a render Context with one root per
// top-level key.
func (c Config) Context() (*handybars.Context, error) {
	ctx, err := handybars.ContextFromMap(c.data)
	if err != nil {
		return nil, fmt.Errorf("config context: %w", err)
	}
	return ctx, nil
}

func mergeMaps(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	maps.Copy(out, base)
	for k, v := range overlay {
		if existing, ok := asMap(out[k]); ok {
			if incoming, ok := asMap(v); ok {
				out[k] = mergeMaps(existing, incoming)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// asMap accepts both string-keyed maps and the map[any]any that YAML
// produces for non-string keys.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}
