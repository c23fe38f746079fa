package handybars

import (
	"fmt"
	"iter"
	"strings"
)

// Render expands every placeholder in tmpl and returns the result.
//
// The template is scanned once, left to right, and each placeholder is
// resolved as it is reached. Rendering stops at the first error in textual
// order and no partial output is returned. The Context is not modified.
//
//	ctx := handybars.NewContext().WithDefine(handybars.Single("v"), handybars.Text("X"))
//	out, err := ctx.Render("pre {{ v }} post")
//	// out: "pre X post"
func (c *Context) Render(tmpl string) (string, error) {
	out, _, err := c.render(Tokens(tmpl), len(tmpl), nil)
	return out, err
}

// MustRender is like Render but panics on error.
func (c *Context) MustRender(tmpl string) string {
	out, err := c.Render(tmpl)
	if err != nil {
		panic(fmt.Sprintf("handybars: %v", err))
	}
	return out
}

// RenderAll renders every template in tmpls.
// On error it returns nil and the first error.
func (c *Context) RenderAll(tmpls []string) ([]string, error) {
	if tmpls == nil {
		return nil, nil
	}
	results := make([]string, len(tmpls))
	for i, tmpl := range tmpls {
		out, err := c.Render(tmpl)
		if err != nil {
			return nil, err
		}
		results[i] = out
	}
	return results, nil
}

// RenderMap renders all string values of m, descending into nested
// map[string]any and []any values. Other values are copied as is.
// On error it returns nil and the first error.
//
//	out, _ := ctx.RenderMap(map[string]any{
//	    "url":  "https://{{ host }}/api",
//	    "port": 8080, // copied
//	})
func (c *Context) RenderMap(m map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		rendered, err := c.renderAny(v)
		if err != nil {
			return nil, fmt.Errorf("render %q: %w", k, err)
		}
		result[k] = rendered
	}
	return result, nil
}

func (c *Context) renderAny(v any) (any, error) {
	switch val := v.(type) {
	case string:
		return c.Render(val)
	case map[string]any:
		return c.RenderMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			rendered, err := c.renderAny(item)
			if err != nil {
				return nil, err
			}
			out[i] = rendered
		}
		return out, nil
	default:
		return v, nil
	}
}

// render resolves tokens into an output buffer sized from sizeHint. When
// onResolve is non-nil it is called after each placeholder is resolved.
// It returns the output and the number of placeholders expanded.
func (c *Context) render(tokens iter.Seq2[Token, error], sizeHint int, onResolve func(Token)) (string, int, error) {
	var b strings.Builder
	b.Grow(sizeHint)
	expanded := 0
	for tok, err := range tokens {
		if err != nil {
			return "", expanded, err
		}
		if tok.Kind == TokenText {
			b.WriteString(tok.Text)
			continue
		}
		text, err := c.Resolve(tok.Variable)
		if err != nil {
			return "", expanded, err
		}
		expanded++
		if onResolve != nil {
			onResolve(tok)
		}
		b.WriteString(text)
	}
	return b.String(), expanded, nil
}
