package handybars

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color int

const (
	red color = iota
	green
)

func (c color) String() string {
	switch c {
	case red:
		return "Red"
	case green:
		return "Green"
	default:
		return "Unknown"
	}
}

type address struct {
	City string `handybars:"city"`
	Zip  string
}

type audit struct {
	CreatedBy string `handybars:"created_by"`
}

type person struct {
	audit
	Name     string   `handybars:"name"`
	Age      int      `handybars:"age"`
	Favorite color    `handybars:"favorite"`
	Address  *address `handybars:"address"`
	Secret   string   `handybars:"-"`
	Tags     []string `handybars:"tags,omitempty"`
	hidden   string
}

type badge struct{ id string }

func (b badge) HandybarsValue() Value {
	return Text("badge:" + b.id)
}

func TestValueOf_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Text("")},
		{"string", "x", Text("x")},
		{"bool", true, Text("true")},
		{"int", -42, Text("-42")},
		{"uint8", uint8(7), Text("7")},
		{"float64", 2.5, Text("2.5")},
		{"float32", float32(0.1), Text("0.1")},
		{"bytes", []byte("raw"), Text("raw")},
		{"stringer enum", green, Text("Green")},
		{"text marshaler", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), Text("2024-01-02T03:04:05Z")},
		{"valuer", badge{id: "7"}, Text("badge:7")},
		{"text value", Text("t"), Text("t")},
		{"nil pointer", (*address)(nil), Text("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueOf(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueOf_Struct(t *testing.T) {
	p := person{
		audit:    audit{CreatedBy: "admin"},
		Name:     "Ada",
		Age:      36,
		Favorite: red,
		Address:  &address{City: "London", Zip: "N1"},
		Secret:   "s3cret",
		Tags:     []string{"math"},
		hidden:   "x",
	}

	v, err := ValueOf(p)
	require.NoError(t, err)
	obj, ok := AsObject(v)
	require.True(t, ok)

	assert.Equal(t, []string{"address", "age", "created_by", "favorite", "name", "tags"}, obj.Names())

	ctx := NewContext().WithDefine(Single("p"), obj)
	out, err := ctx.Render("{{ p.name }} ({{ p.age }}) likes {{ p.favorite }}, lives in {{ p.address.city }} {{ p.address.Zip }}, tag {{ p.tags.0 }}, by {{ p.created_by }}")
	require.NoError(t, err)
	assert.Equal(t, "Ada (36) likes Red, lives in London N1, tag math, by admin", out)
}

func TestValueOf_Map(t *testing.T) {
	v, err := ValueOf(map[int]any{1: "one", 2: map[string]int{"x": 9}})
	require.NoError(t, err)

	obj := v.(*Object)
	one, _ := obj.Property("1")
	assert.Equal(t, Text("one"), one)

	two, _ := obj.Property("2")
	x, _ := two.(*Object).Property("x")
	assert.Equal(t, Text("9"), x)
}

func TestValueOf_Unsupported(t *testing.T) {
	_, err := ValueOf(make(chan int))
	var unsupported *UnsupportedTypeError
	require.True(t, errors.As(err, &unsupported))
	assert.Contains(t, err.Error(), "chan int")

	t.Run("nested field names the path", func(t *testing.T) {
		type holder struct {
			Fn func()
		}
		_, err := ValueOf(holder{Fn: func() {}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "field holder.Fn")
		assert.True(t, errors.As(err, &unsupported))
	})
}

func TestMustValueOf(t *testing.T) {
	assert.Equal(t, Text("1"), MustValueOf(1))
	assert.Panics(t, func() { MustValueOf(func() {}) })
}

// embedsText satisfies Value only through its embedded Text.
type embedsText struct{ Text }

type foreignValuer struct{}

func (foreignValuer) HandybarsValue() Value {
	return embedsText{Text("via valuer")}
}

func TestValueOf_EmbeddedValueIsConverted(t *testing.T) {
	v, err := ValueOf(embedsText{Text("x")})
	require.NoError(t, err)
	assert.Equal(t, Text("x"), v)

	v, err = ValueOf(foreignValuer{})
	require.NoError(t, err)
	assert.Equal(t, Text("via valuer"), v)
}

func TestContext_DefineEmbeddedValue(t *testing.T) {
	ctx := NewContext()
	require.NotPanics(t, func() {
		ctx.Define(Single("e"), embedsText{Text("direct")})
		ctx.Define(Single("o"), NewObject().WithProperty("p", embedsText{Text("nested")}))
	})

	out, err := ctx.Render("{{ e }} {{ o.p }}")
	require.NoError(t, err)
	assert.Equal(t, "direct nested", out)

	p, ok := ctx.Lookup(MustParse("o.p"))
	require.True(t, ok)
	assert.IsType(t, Text(""), p)
}
