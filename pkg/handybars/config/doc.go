/*
Package config loads YAML and JSON documents into a map-backed Config.

# Overview

A Config is the decoded top level of a data or settings file. The CLI uses
it twice: --data files become the variables of a render Context, and the
--config file supplies default flag values.

# Basic Usage

	cfg, err := config.FromFile("values.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	ctx, err := cfg.Context()
	out, err := ctx.Render("{{ service.name }} listens on {{ service.port }}")

# Accessors

	name := cfg.String("name", "default") // string values only
	raw, ok := cfg.Lookup("service.port") // dotted walk through nested maps
	sub := cfg.Sub("service")             // nested map as a Config
	keys := cfg.Keys()                    // sorted top-level keys

All accessors return the default or the zero value when a key is missing or
has the wrong type.

# Layering

Merge combines documents; keys of the argument win and nested maps are
merged recursively:

	base, _ := config.FromFile("defaults.yaml")
	env, _ := config.FromFile("prod.yaml")
	cfg := base.Merge(env)

# Thread Safety

Config is safe for concurrent read access. Merge returns a new Config and
does not modify either operand.
*/
package config
