package handybars

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Context maps root names to values and renders templates against them.
//
//	ctx := handybars.NewContext().
//	    WithDefine(handybars.Single("a"), handybars.Text("b"))
//	out, _ := ctx.Render("{{ a }}") // "b"
//
// Rendering never mutates a Context, so concurrent renders of the same
// Context are safe. Define is not synchronized; callers that mutate a
// Context while other goroutines render it must provide their own locking.
type Context struct {
	vars map[string]Value
}

// NewContext creates a Context with no variables defined.
func NewContext() *Context {
	return &Context{vars: make(map[string]Value)}
}

// ContextFrom builds a Context by defining each pair of seq in order.
func ContextFrom(seq iter.Seq2[Variable, Value]) *Context {
	c := NewContext()
	c.Extend(seq)
	return c
}

// ContextFromMap builds a Context from decoded data such as a YAML or JSON
// document. Each top-level key becomes a root converted with ValueOf.
// Keys are normalized to NFC and otherwise used as is, like Object property
// names.
func ContextFromMap(data map[string]any) (*Context, error) {
	c := NewContext()
	for name, raw := range data {
		v, err := ValueOf(raw)
		if err != nil {
			return nil, fmt.Errorf("convert %q: %w", name, err)
		}
		c.vars[normalizeName(name)] = v
	}
	return c, nil
}

// Define maps v to value, replacing any previous definition.
//
// The Context stores a copy of value. When v has several segments, the
// intermediate objects are created as needed (any Text found on the way is
// replaced by an Object) and the last segment is set on the innermost one.
func (c *Context) Define(v Variable, value Value) {
	if v.IsZero() {
		panic("handybars: define with zero variable")
	}
	if c.vars == nil {
		c.vars = make(map[string]Value)
	}
	value = cloneValue(value)

	segs := v.Segments()
	if len(segs) == 1 {
		c.vars[segs[0]] = value
		return
	}

	parent := forceObject(c.vars, segs[0])
	for _, seg := range segs[1 : len(segs)-1] {
		parent = forceObject(parent.props, seg)
	}
	parent.props[segs[len(segs)-1]] = value
}

// WithDefine is the chaining form of Define. It mutates and returns c.
func (c *Context) WithDefine(v Variable, value Value) *Context {
	c.Define(v, value)
	return c
}

// DefineValueOf converts x with ValueOf and defines it under v.
func (c *Context) DefineValueOf(v Variable, x any) error {
	value, err := ValueOf(x)
	if err != nil {
		return fmt.Errorf("define %s: %w", v, err)
	}
	c.Define(v, value)
	return nil
}

// forceObject returns the *Object stored at m[name], replacing anything
// else with a new empty Object.
func forceObject(m map[string]Value, name string) *Object {
	if obj, ok := m[name].(*Object); ok && obj != nil {
		if obj.props == nil {
			obj.props = make(map[string]Value)
		}
		return obj
	}
	obj := NewObject()
	m[name] = obj
	return obj
}

// Lookup walks v through the Context and returns the value it names.
func (c *Context) Lookup(v Variable) (Value, bool) {
	if c == nil || v.IsZero() {
		return nil, false
	}
	segs := v.Segments()
	current, ok := c.vars[segs[0]]
	if !ok {
		return nil, false
	}
	for _, seg := range segs[1:] {
		obj, isObj := current.(*Object)
		if !isObj {
			return nil, false
		}
		current, ok = obj.Property(seg)
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Resolve returns the text that v expands to.
//
// It fails with *MissingVariableError when the root is undefined, a
// property is absent, or a segment addresses a Text value, and with
// *ObjectExpansionError when the path ends at an Object.
func (c *Context) Resolve(v Variable) (string, error) {
	value, ok := c.Lookup(v)
	if !ok {
		return "", &MissingVariableError{Variable: v}
	}
	switch val := value.(type) {
	case Text:
		return string(val), nil
	case *Object:
		return "", &ObjectExpansionError{Variable: v}
	default:
		panic(fmt.Sprintf("handybars: unexpected value type %T", value))
	}
}

// Append copies the definitions of other into c. Roots defined in both are
// taken from other.
func (c *Context) Append(other *Context) {
	if other == nil {
		return
	}
	if c.vars == nil {
		c.vars = make(map[string]Value, len(other.vars))
	}
	for name, v := range other.vars {
		c.vars[name] = cloneValue(v)
	}
}

// Merge is the chaining form of Append.
func (c *Context) Merge(other *Context) *Context {
	c.Append(other)
	return c
}

// Extend defines every pair of seq in order.
func (c *Context) Extend(seq iter.Seq2[Variable, Value]) {
	for v, value := range seq {
		c.Define(v, value)
	}
}

// Clone returns a deep copy of c.
func (c *Context) Clone() *Context {
	out := NewContext()
	out.Append(c)
	return out
}

// Len returns the number of roots.
func (c *Context) Len() int {
	if c == nil {
		return 0
	}
	return len(c.vars)
}

// Roots returns the defined root names in sorted order.
func (c *Context) Roots() []string {
	if c == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(c.vars))
}

// MarshalJSON encodes the Context as a JSON object keyed by root name.
func (c *Context) MarshalJSON() ([]byte, error) {
	if c == nil || c.vars == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c.vars)
}

// UnmarshalJSON replaces the definitions of c with a decoded JSON object.
func (c *Context) UnmarshalJSON(data []byte) error {
	var obj Object
	if err := obj.UnmarshalJSON(data); err != nil {
		return err
	}
	c.vars = obj.props
	if c.vars == nil {
		c.vars = make(map[string]Value)
	}
	return nil
}
