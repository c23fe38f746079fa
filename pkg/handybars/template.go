package handybars

import (
	"fmt"
	"iter"
)

// Template is a pre-scanned template. Syntax errors are reported by Compile;
// rendering a Template only resolves variables.
//
// A Template is immutable and safe for concurrent use.
type Template struct {
	source string
	tokens []Token
}

// Compile scans tmpl and returns the compiled Template.
// It fails with the first *InvalidVariableError or
// *UnterminatedExpressionError in the source.
func Compile(tmpl string) (*Template, error) {
	tokens, err := Tokenize(tmpl)
	if err != nil {
		return nil, err
	}
	return &Template{source: tmpl, tokens: tokens}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(tmpl string) *Template {
	t, err := Compile(tmpl)
	if err != nil {
		panic(fmt.Sprintf("handybars: %v", err))
	}
	return t
}

// Source returns the template text.
func (t *Template) Source() string {
	return t.source
}

// Tokens returns a copy of the scanned tokens.
func (t *Template) Tokens() []Token {
	out := make([]Token, len(t.tokens))
	copy(out, t.tokens)
	return out
}

// Variables returns the distinct placeholder variables in order of first
// appearance.
func (t *Template) Variables() []Variable {
	seen := make(map[Variable]struct{})
	var vars []Variable
	for _, tok := range t.tokens {
		if tok.Kind != TokenVariable {
			continue
		}
		if _, ok := seen[tok.Variable]; ok {
			continue
		}
		seen[tok.Variable] = struct{}{}
		vars = append(vars, tok.Variable)
	}
	return vars
}

// Render resolves the template against c.
func (t *Template) Render(c *Context) (string, error) {
	out, _, err := c.render(t.all(), len(t.source), nil)
	return out, err
}

func (t *Template) all() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for _, tok := range t.tokens {
			if !yield(tok, nil) {
				return
			}
		}
	}
}
