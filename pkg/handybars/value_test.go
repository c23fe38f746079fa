package handybars

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_Properties(t *testing.T) {
	obj := NewObject().
		WithProperty("b", Text("2")).
		WithProperty("a", Text("1")).
		WithProperty("a", Text("one"))

	assert.Equal(t, 2, obj.Len())
	assert.Equal(t, []string{"a", "b"}, obj.Names())

	v, ok := obj.Property("a")
	require.True(t, ok)
	assert.Equal(t, Text("one"), v)

	_, ok = obj.Property("missing")
	assert.False(t, ok)
}

func TestObject_NilValueStoredAsEmptyText(t *testing.T) {
	obj := NewObject().WithProperty("x", nil)
	v, ok := obj.Property("x")
	require.True(t, ok)
	assert.Equal(t, Text(""), v)
}

func TestObject_PermissiveNames(t *testing.T) {
	obj := NewObject().WithProperty("not a segment!", Text("hidden"))
	v, ok := obj.Property("not a segment!")
	require.True(t, ok)
	assert.Equal(t, Text("hidden"), v)
}

func TestObject_NilReceiver(t *testing.T) {
	var obj *Object
	assert.Equal(t, 0, obj.Len())
	assert.Nil(t, obj.Names())
	_, ok := obj.Property("a")
	assert.False(t, ok)
}

func TestObject_ZeroValueUsable(t *testing.T) {
	var obj Object
	obj.AddProperty("a", Text("1"))
	assert.Equal(t, 1, obj.Len())
}

func TestObject_JSON(t *testing.T) {
	obj := NewObject().
		WithProperty("name", Text("world")).
		WithProperty("nested", NewObject().WithProperty("x", Text("1")))

	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"world","nested":{"x":"1"}}`, string(data))

	var decoded Object
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, obj, &decoded)
}

func TestObject_UnmarshalJSON_RejectsNonObject(t *testing.T) {
	var obj Object
	err := json.Unmarshal([]byte(`"text"`), &obj)
	assert.Error(t, err)
}

func TestUnmarshalValue(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Value
	}{
		{"string", `"hi"`, Text("hi")},
		{"integer keeps form", `12345678901234567890`, Text("12345678901234567890")},
		{"float", `1.5`, Text("1.5")},
		{"bool", `true`, Text("true")},
		{"null", `null`, Text("")},
		{"array", `["a","b"]`, NewObject().WithProperty("0", Text("a")).WithProperty("1", Text("b"))},
		{"object", `{"a":{"b":"c"}}`, NewObject().WithProperty("a", NewObject().WithProperty("b", Text("c")))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnmarshalValue([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("malformed", func(t *testing.T) {
		_, err := UnmarshalValue([]byte(`{`))
		assert.Error(t, err)
	})
}

func TestAsTextAsObject(t *testing.T) {
	s, ok := AsText(Text("x"))
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = AsText(NewObject())
	assert.False(t, ok)

	obj, ok := AsObject(NewObject())
	assert.True(t, ok)
	assert.NotNil(t, obj)

	_, ok = AsObject(Text("x"))
	assert.False(t, ok)

	var nilObj *Object
	_, ok = AsObject(nilObj)
	assert.False(t, ok)
}

func TestCloneValue(t *testing.T) {
	inner := NewObject().WithProperty("c", Text("v"))
	orig := NewObject().WithProperty("b", inner)

	clone := cloneValue(orig).(*Object)
	inner.AddProperty("c", Text("changed"))

	b, _ := clone.Property("b")
	c, _ := b.(*Object).Property("c")
	assert.Equal(t, Text("v"), c)

	assert.Equal(t, Text(""), cloneValue(nil))
}
