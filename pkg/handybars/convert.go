package handybars

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Valuer is implemented by types that convert themselves into a Value.
// It takes precedence over the reflective rules of ValueOf.
type Valuer interface {
	HandybarsValue() Value
}

// TagName is the struct tag consulted by ValueOf for property names.
const TagName = "handybars"

var (
	valueType         = reflect.TypeFor[Value]()
	valuerType        = reflect.TypeFor[Valuer]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	stringerType      = reflect.TypeFor[fmt.Stringer]()
)

// ValueOf converts an arbitrary Go value into a Value.
//
// Conversion rules, first match wins:
//   - Value: returned as is
//   - Valuer: HandybarsValue()
//   - encoding.TextMarshaler, fmt.Stringer: Text (enum-like types render
//     their name)
//   - strings, booleans and numbers: Text
//   - nil, nil pointers and nil interfaces: Text("")
//   - structs: Object of exported fields, named by the "handybars" tag or
//     the field name; a tag of "-" skips the field and embedded structs
//     are flattened
//   - maps: Object keyed by fmt.Sprint(key)
//   - slices and arrays: Object keyed by index ("0", "1", ...); []byte is Text
//
// Anything else fails with *UnsupportedTypeError.
func ValueOf(x any) (Value, error) {
	if x == nil {
		return Text(""), nil
	}
	return valueOf(reflect.ValueOf(x))
}

// MustValueOf is like ValueOf but panics on error.
func MustValueOf(x any) Value {
	v, err := ValueOf(x)
	if err != nil {
		panic(err)
	}
	return v
}

func valueOf(rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return Text(""), nil
	}

	if v, ok, err := viaInterface(rv); ok || err != nil {
		return v, err
	}

	switch rv.Kind() {
	case reflect.String:
		return Text(rv.String()), nil
	case reflect.Bool:
		return Text(strconv.FormatBool(rv.Bool())), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Text(strconv.FormatInt(rv.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Text(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32:
		return Text(strconv.FormatFloat(rv.Float(), 'g', -1, 32)), nil
	case reflect.Float64:
		return Text(strconv.FormatFloat(rv.Float(), 'g', -1, 64)), nil
	case reflect.Complex64, reflect.Complex128:
		return Text(fmt.Sprint(rv.Interface())), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Text(""), nil
		}
		return valueOf(rv.Elem())
	case reflect.Struct:
		obj := NewObject()
		if err := addStructFields(obj, rv); err != nil {
			return nil, err
		}
		return obj, nil
	case reflect.Map:
		obj := NewObject()
		iter := rv.MapRange()
		for iter.Next() {
			v, err := valueOf(iter.Value())
			if err != nil {
				return nil, err
			}
			obj.AddProperty(mapKey(iter.Key()), v)
		}
		return obj, nil
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 && rv.Kind() == reflect.Slice {
			return Text(rv.Bytes()), nil
		}
		obj := NewObject()
		for i := range rv.Len() {
			v, err := valueOf(rv.Index(i))
			if err != nil {
				return nil, err
			}
			obj.AddProperty(strconv.Itoa(i), v)
		}
		return obj, nil
	default:
		return nil, &UnsupportedTypeError{Type: rv.Type()}
	}
}

// viaInterface applies the interface-based rules. ok is false when none of
// them matched.
func viaInterface(rv reflect.Value) (v Value, ok bool, err error) {
	t := rv.Type()
	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return nil, false, nil
	}
	if !rv.CanInterface() {
		return nil, false, nil
	}

	// Only Text and *Object pass through; types that satisfy Value by
	// embedding one of them fall to the rules below.
	if t.Implements(valueType) {
		switch val := rv.Interface().(type) {
		case Text:
			return val, true, nil
		case *Object:
			return val, true, nil
		}
	}

	switch {
	case t.Implements(valuerType):
		return fromValuer(rv.Interface().(Valuer))
	case t.Implements(textMarshalerType):
		b, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, true, fmt.Errorf("marshal %s: %w", t, err)
		}
		return Text(b), true, nil
	case t.Implements(stringerType):
		return Text(rv.Interface().(fmt.Stringer).String()), true, nil
	}
	return nil, false, nil
}

// fromValuer converts the result of HandybarsValue to Text or *Object.
func fromValuer(x Valuer) (Value, bool, error) {
	switch val := x.HandybarsValue().(type) {
	case nil:
		return Text(""), true, nil
	case Text:
		return val, true, nil
	case *Object:
		if val == nil {
			return Text(""), true, nil
		}
		return val, true, nil
	case Valuer:
		return nil, true, &UnsupportedTypeError{Type: reflect.TypeOf(val)}
	default:
		v, err := valueOf(reflect.ValueOf(val))
		return v, true, err
	}
}

func addStructFields(obj *Object, rv reflect.Value) error {
	t := rv.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get(TagName)
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")

		if field.Anonymous && name == "" {
			fv := rv.Field(i)
			ft := field.Type
			if ft.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}
				fv, ft = fv.Elem(), ft.Elem()
			}
			if ft.Kind() == reflect.Struct && !implementsAny(ft) {
				if err := addStructFields(obj, fv); err != nil {
					return err
				}
				continue
			}
		}

		if !field.IsExported() {
			continue
		}
		if name == "" {
			name = field.Name
		}
		v, err := valueOf(rv.Field(i))
		if err != nil {
			return fmt.Errorf("field %s.%s: %w", t.Name(), field.Name, err)
		}
		obj.AddProperty(name, v)
	}
	return nil
}

// implementsAny reports whether t converts through an interface
// rule, in which case an embedded field is kept whole instead of flattened.
func implementsAny(t reflect.Type) bool {
	for _, it := range []reflect.Type{valueType, valuerType, textMarshalerType, stringerType} {
		if t.Implements(it) {
			return true
		}
	}
	return false
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}
