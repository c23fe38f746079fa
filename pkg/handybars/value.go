package handybars

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Value is either a Text leaf or an *Object.
//
// The set of implementations is closed; use a type switch over Text and
// *Object to inspect a Value.
type Value interface {
	isValue()
}

// Text is a scalar value, rendered verbatim.
type Text string

func (Text) isValue() {}

// String returns the text content.
func (t Text) String() string {
	return string(t)
}

// Object maps property names to nested values.
//
// Property names are not validated; a name that is not a valid path segment
// is stored but cannot be reached from a template. Names are normalized to
// Unicode NFC, like Variable segments.
// Objects are never rendered directly, only their Text leaves.
type Object struct {
	props map[string]Value
}

func (*Object) isValue() {}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{props: make(map[string]Value)}
}

// AddProperty sets name to value, replacing any previous value.
// A nil value is stored as Text(""). A type that satisfies Value only by
// embedding Text or *Object is converted with ValueOf.
func (o *Object) AddProperty(name string, value Value) *Object {
	if o.props == nil {
		o.props = make(map[string]Value)
	}
	o.props[normalizeName(name)] = concreteValue(value)
	return o
}

// WithProperty is the chaining form of AddProperty:
//
//	NewObject().
//	    WithProperty("name", Text("world")).
//	    WithProperty("nested", NewObject().WithProperty("x", Text("1")))
func (o *Object) WithProperty(name string, value Value) *Object {
	return o.AddProperty(name, value)
}

// Property returns the value stored under name.
func (o *Object) Property(name string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.props[normalizeName(name)]
	return v, ok
}

// Len returns the number of properties.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.props)
}

// Names returns the property names in sorted order.
func (o *Object) Names() []string {
	if o == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(o.props))
}

// MarshalJSON encodes the object as a JSON object of its properties.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil || o.props == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(o.props)
}

// UnmarshalJSON decodes a JSON object into o, replacing its properties.
func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := UnmarshalValue(data)
	if err != nil {
		return err
	}
	obj, ok := v.(*Object)
	if !ok {
		return fmt.Errorf("handybars: expected JSON object, got %s", bytes.TrimSpace(data))
	}
	o.props = obj.props
	return nil
}

// UnmarshalValue decodes JSON into a Value. Strings become Text, objects
// become *Object, and other scalars and arrays are converted as ValueOf does.
func UnmarshalValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return ValueOf(raw)
}

// AsText returns the text content of v if it is a Text.
func AsText(v Value) (string, bool) {
	t, ok := v.(Text)
	return string(t), ok
}

// AsObject returns v as an *Object if it is one.
func AsObject(v Value) (*Object, bool) {
	o, ok := v.(*Object)
	return o, ok && o != nil
}

// concreteValue returns v as a Text or a non-nil *Object.
func concreteValue(v Value) Value {
	switch val := v.(type) {
	case nil:
		return Text("")
	case Text:
		return val
	case *Object:
		if val == nil {
			return NewObject()
		}
		return val
	}
	conv, err := ValueOf(v)
	if err != nil {
		panic(fmt.Sprintf("handybars: %v", err))
	}
	return conv
}

// cloneValue deep-copies objects; Text is immutable and returned as is.
func cloneValue(v Value) Value {
	switch val := concreteValue(v).(type) {
	case Text:
		return val
	case *Object:
		out := &Object{props: make(map[string]Value, len(val.props))}
		for k, p := range val.props {
			out.props[k] = cloneValue(p)
		}
		return out
	default:
		panic(fmt.Sprintf("handybars: unexpected value type %T", v))
	}
}
