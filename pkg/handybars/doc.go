/*
Package handybars is a minimal text template engine.

# Overview

A template is plain text with placeholders of the form {{ path }}, where
path is a dotted variable such as "user.name". Rendering replaces each
placeholder with the text the path resolves to in a Context and copies
everything else verbatim. There are no loops, conditionals, helpers or
escaping.

# Basic Usage

	ctx := handybars.NewContext().
	    WithDefine(handybars.Single("greeting"), handybars.Text("Hello")).
	    WithDefine(handybars.MustParse("user"), handybars.NewObject().
	        WithProperty("name", handybars.Text("Ada")))

	out, err := ctx.Render("{{ greeting }}, {{ user.name }}!")
	// out: "Hello, Ada!"

# Values

A Value is either Text or an *Object holding named properties. Objects can
be nested to any depth. Go values are converted with ValueOf, which maps
structs, maps and slices to Objects and scalars to Text:

	type User struct {
	    Name  string `handybars:"name"`
	    Email string `handybars:"email"`
	}
	err := ctx.DefineValueOf(handybars.Single("user"), User{Name: "Ada"})

# Errors

Rendering stops at the first problem in textual order:

  - *InvalidVariableError (ErrInvalidVariable): a malformed placeholder body
  - *UnterminatedExpressionError (ErrUnterminatedExpression): "{{" never closed
  - *MissingVariableError (ErrMissingVariable): the path does not resolve
  - *ObjectExpansionError (ErrTriedToExpandObject): the path names an Object

Use errors.Is with the sentinels or errors.As with the typed errors. Kind
returns a stable label for metrics and logs.

# Compiled Templates

Compile scans a template once and reports syntax errors up front. The
compiled Template can be rendered against many Contexts:

	t, err := handybars.Compile("Dear {{ user.name }}")
	out, err := t.Render(ctx)

# Observability

The Engine wraps rendering with structured logging (log/slog), OpenTelemetry
metrics and tracing, and keeps named templates:

	engine := handybars.NewEngine(
	    handybars.WithLogger(logger),
	    handybars.WithMetrics(true),
	    handybars.WithTracing(true),
	)
	out, err := engine.Render(ctx, data, "{{ a }}", handybars.WithTemplateName("a"))

# Thread Safety

Rendering never mutates a Context, so one Context can be rendered from many
goroutines. Define is not synchronized. Templates and Engines are safe for
concurrent use.
*/
package handybars
