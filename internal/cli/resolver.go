package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/randalmurphal/handybars/pkg/handybars/config"
)

// loadConfig is a [kong.ConfigurationLoader] for YAML and JSON files.
// JSON is read by the YAML decoder.
//
// Example config file:
//
//	log_level: debug
//	log_format: json
//	store: ./handybars.db
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug
//	--log-format=json
//	--store=./handybars.db
func loadConfig(r io.Reader) (kong.Resolver, error) {
	cfg, err := config.FromReader(r, "yaml")
	if err != nil {
		return nil, err
	}
	return resolver{cfg: cfg}, nil
}

// resolver implements [kong.Resolver] over a config document.
type resolver struct {
	cfg config.Config
}

// Validate implements [kong.Resolver].
func (resolver) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver]. Kong flags use hyphens but config
// keys may use underscores; both forms are tried.
func (r resolver) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	name := flag.Name
	if r.cfg.Has(name) {
		return flagValue(r.cfg.Any(name, nil)), nil
	}
	underscore := strings.ReplaceAll(name, "-", "_")
	if r.cfg.Has(underscore) {
		return flagValue(r.cfg.Any(underscore, nil)), nil
	}
	return nil, nil
}

// flagValue converts numbers to strings; Kong parses numeric flags from text.
func flagValue(v any) any {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return v
	}
}
