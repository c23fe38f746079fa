package handybars

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Separator joins the segments of a Variable in source form.
const Separator = "."

// Variable is a validated dotted path such as "obj.b.c".
//
// A Variable holds at least one non-empty segment. Variables are comparable
// with == and can be used as map keys; two Variables are equal when their
// segment sequences are equal. The zero Variable is not valid and is only
// produced alongside an error.
type Variable struct {
	path string
}

// Parse parses text into a Variable.
//
// Surrounding whitespace is ignored. Parse fails with an
// *InvalidVariableError (matching ErrInvalidVariable) when the text is empty,
// when any dot-separated segment is empty, or when a segment contains a
// character other than a letter, digit, combining mark, '_' or '-'.
// Segments are normalized to Unicode NFC.
func Parse(text string) (Variable, error) {
	lead := len(text) - len(strings.TrimLeftFunc(text, unicode.IsSpace))
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Variable{}, &InvalidVariableError{Input: text, Offset: lead, Reason: "empty variable"}
	}

	segStart := 0
	for i, r := range trimmed {
		if r == '.' {
			if i == segStart {
				return Variable{}, &InvalidVariableError{Input: text, Offset: lead + i, Reason: "empty variable segment"}
			}
			segStart = i + 1
			continue
		}
		if !isSegmentRune(r) {
			return Variable{}, &InvalidVariableError{
				Input:  text,
				Offset: lead + i,
				Reason: fmt.Sprintf("invalid character %q", r),
			}
		}
	}
	if segStart == len(trimmed) {
		return Variable{}, &InvalidVariableError{Input: text, Offset: lead + len(trimmed), Reason: "empty variable segment"}
	}

	return Variable{path: normalizeName(trimmed)}, nil
}

// MustParse is like Parse but panics if text is not a valid Variable.
func MustParse(text string) Variable {
	v, err := Parse(text)
	if err != nil {
		panic(fmt.Sprintf("handybars: %v", err))
	}
	return v
}

// Single constructs a one-segment Variable.
//
// The character set is not checked; names that Parse would reject simply
// cannot be written in a template. Single panics if name is empty or
// contains the separator. Use Parse for dotted paths.
func Single(name string) Variable {
	if name == "" {
		panic("handybars: cannot construct a variable with an empty string")
	}
	if strings.Contains(name, Separator) {
		panic("handybars: single cannot contain dot separator, use Parse for paths")
	}
	return Variable{path: normalizeName(name)}
}

// FromParts constructs a Variable from individual segments.
// It panics if parts is empty or any part is empty or contains the separator.
func FromParts(parts ...string) Variable {
	if len(parts) == 0 {
		panic("handybars: variable needs at least one part")
	}
	normalized := make([]string, len(parts))
	for i, p := range parts {
		if p == "" {
			panic("handybars: variable part cannot be empty")
		}
		if strings.Contains(p, Separator) {
			panic("handybars: variable part cannot contain dot separator")
		}
		normalized[i] = normalizeName(p)
	}
	return Variable{path: strings.Join(normalized, Separator)}
}

// Join returns the Variable made of v's segments followed by other's.
//
//	Single("a").Join(Single("b")) // a.b
func (v Variable) Join(other Variable) Variable {
	switch {
	case v.IsZero():
		return other
	case other.IsZero():
		return v
	}
	return Variable{path: v.path + Separator + other.path}
}

// Segments returns the path segments in order.
func (v Variable) Segments() []string {
	if v.IsZero() {
		return nil
	}
	return strings.Split(v.path, Separator)
}

// Root returns the first segment, the Context's top-level lookup key.
func (v Variable) Root() string {
	root, _, _ := strings.Cut(v.path, Separator)
	return root
}

// Len returns the length of the variable in bytes, including separators.
func (v Variable) Len() int {
	return len(v.path)
}

// IsZero reports whether v is the zero Variable.
func (v Variable) IsZero() bool {
	return v.path == ""
}

// String returns the source form of the path.
func (v Variable) String() string {
	return v.path
}

// MarshalText implements encoding.TextMarshaler.
func (v Variable) MarshalText() ([]byte, error) {
	return []byte(v.path), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
func (v *Variable) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// normalizeName returns s in Unicode NFC. Variable segments, property
// names and root names all pass through it so that lookups compare equal.
func normalizeName(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// isSegmentRune reports whether r may appear in a path segment.
func isSegmentRune(r rune) bool {
	return unicode.IsLetter(r) ||
		unicode.IsDigit(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc) ||
		r == '_' || r == '-'
}
