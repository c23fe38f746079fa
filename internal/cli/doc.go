// Package cli contains the command line interface for handybars.
//
// # Usage
//
//	handybars [INPUT|-] [-D NAME=VALUE]... [--data FILE]...
//
// INPUT defaults to '-' (stdin). The rendered text is written to stdout, or
// atomically to the file named by --output.
//
//	echo '{{ hello.world }}' | handybars - --define hello.world='hello world'
//	hello world
//
// # Variables
//
// The render Context is assembled in layers, later layers winning:
//
//   - --context NAME: a context saved earlier with 'handybars save'
//   - --data FILE: YAML or JSON documents, one root per top-level key
//   - -D/--define NAME=VALUE: single text values; NAME may be dotted
//
// # Stored Contexts and Templates
//
// Contexts and templates can be kept in a SQLite database (--store):
//
//	handybars save prod --data prod.yaml
//	handybars save-template motd motd.tmpl
//	handybars render --context prod --template motd
//	handybars list
//	handybars delete prod
//	handybars delete --template motd
//
// # Configuration File
//
// --config FILE loads flag defaults from YAML or JSON. Flag names with
// hyphens may be written with underscores:
//
//	log_level: debug
//	store: /var/lib/handybars/handybars.db
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
package cli
