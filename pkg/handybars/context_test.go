package handybars

import (
	"encoding/json"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_DefineLastWins(t *testing.T) {
	ctx := NewContext().
		WithDefine(Single("a"), Text("first")).
		WithDefine(Single("a"), Text("second"))

	assert.Equal(t, 1, ctx.Len())
	out, err := ctx.Render("{{ a }}")
	require.NoError(t, err)
	assert.Equal(t, "second", out)
}

func TestContext_DefineCopiesValue(t *testing.T) {
	obj := NewObject().WithProperty("b", Text("before"))
	ctx := NewContext().WithDefine(Single("obj"), obj)

	obj.AddProperty("b", Text("after"))

	out, err := ctx.Render("{{ obj.b }}")
	require.NoError(t, err)
	assert.Equal(t, "before", out)
}

func TestContext_DefinePath(t *testing.T) {
	t.Run("creates intermediate objects", func(t *testing.T) {
		ctx := NewContext()
		ctx.Define(MustParse("a.b.c"), Text("deep"))
		ctx.Define(MustParse("a.b.d"), Text("sibling"))

		out, err := ctx.Render("{{ a.b.c }} {{ a.b.d }}")
		require.NoError(t, err)
		assert.Equal(t, "deep sibling", out)
	})

	t.Run("replaces text on the way", func(t *testing.T) {
		ctx := NewContext().WithDefine(Single("a"), Text("leaf"))
		ctx.Define(MustParse("a.b"), Text("x"))

		out, err := ctx.Render("{{ a.b }}")
		require.NoError(t, err)
		assert.Equal(t, "x", out)
	})

	t.Run("keeps existing siblings", func(t *testing.T) {
		ctx := NewContext().WithDefine(Single("a"), NewObject().WithProperty("keep", Text("k")))
		ctx.Define(MustParse("a.new"), Text("n"))

		out, err := ctx.Render("{{ a.keep }}{{ a.new }}")
		require.NoError(t, err)
		assert.Equal(t, "kn", out)
	})
}

func TestContext_DefineZeroVariablePanics(t *testing.T) {
	assert.Panics(t, func() { NewContext().Define(Variable{}, Text("x")) })
}

func TestContext_ZeroValueUsable(t *testing.T) {
	var ctx Context
	ctx.Define(Single("a"), Text("b"))
	out, err := ctx.Render("{{ a }}")
	require.NoError(t, err)
	assert.Equal(t, "b", out)
}

func TestContext_DefineValueOf(t *testing.T) {
	ctx := NewContext()
	require.NoError(t, ctx.DefineValueOf(Single("n"), 3))
	out, err := ctx.Render("{{ n }}")
	require.NoError(t, err)
	assert.Equal(t, "3", out)

	err = ctx.DefineValueOf(Single("bad"), make(chan int))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "define bad")
}

func TestContext_Lookup(t *testing.T) {
	ctx := NewContext().WithDefine(Single("obj"), NewObject().WithProperty("b", Text("v")))

	v, ok := ctx.Lookup(MustParse("obj.b"))
	require.True(t, ok)
	assert.Equal(t, Text("v"), v)

	v, ok = ctx.Lookup(Single("obj"))
	require.True(t, ok)
	assert.IsType(t, &Object{}, v)

	_, ok = ctx.Lookup(MustParse("obj.b.c"))
	assert.False(t, ok)

	_, ok = ctx.Lookup(Variable{})
	assert.False(t, ok)

	var nilCtx *Context
	_, ok = nilCtx.Lookup(Single("obj"))
	assert.False(t, ok)
}

func TestContext_Append(t *testing.T) {
	base := NewContext().
		WithDefine(Single("a"), Text("base-a")).
		WithDefine(Single("b"), Text("base-b"))
	other := NewContext().
		WithDefine(Single("b"), Text("other-b")).
		WithDefine(Single("c"), Text("other-c"))

	base.Append(other)
	out, err := base.Render("{{a}} {{b}} {{c}}")
	require.NoError(t, err)
	assert.Equal(t, "base-a other-b other-c", out)

	assert.Equal(t, []string{"a", "b", "c"}, base.Roots())

	base.Append(nil)
	assert.Equal(t, 3, base.Len())
}

func TestContext_Merge(t *testing.T) {
	ctx := NewContext().
		WithDefine(Single("a"), Text("1")).
		Merge(NewContext().WithDefine(Single("b"), Text("2")))
	assert.Equal(t, []string{"a", "b"}, ctx.Roots())
}

func TestContext_ExtendAndFrom(t *testing.T) {
	pairs := map[Variable]Value{
		Single("x"):        Text("1"),
		MustParse("y.z"):   Text("2"),
		MustParse("y.w.v"): Text("3"),
	}

	ctx := ContextFrom(maps.All(pairs))
	out, err := ctx.Render("{{x}}{{y.z}}{{y.w.v}}")
	require.NoError(t, err)
	assert.Equal(t, "123", out)

	ctx.Extend(maps.All(map[Variable]Value{Single("x"): Text("9")}))
	out, err = ctx.Render("{{x}}")
	require.NoError(t, err)
	assert.Equal(t, "9", out)
}

func TestContextFromMap(t *testing.T) {
	ctx, err := ContextFromMap(map[string]any{
		"name": "world",
		"user": map[string]any{"id": 7, "roles": []any{"admin", "dev"}},
	})
	require.NoError(t, err)

	out, err := ctx.Render("{{ name }} {{ user.id }} {{ user.roles.1 }}")
	require.NoError(t, err)
	assert.Equal(t, "world 7 dev", out)

	_, err = ContextFromMap(map[string]any{"bad": func() {}})
	assert.ErrorContains(t, err, `convert "bad"`)
}

func TestContext_Clone(t *testing.T) {
	orig := NewContext().WithDefine(Single("a"), Text("1"))
	clone := orig.Clone()
	clone.Define(Single("a"), Text("2"))

	assert.Equal(t, "1", orig.MustRender("{{a}}"))
	assert.Equal(t, "2", clone.MustRender("{{a}}"))
}

func TestContext_JSON(t *testing.T) {
	ctx := NewContext().
		WithDefine(Single("a"), Text("1")).
		WithDefine(MustParse("b.c"), Text("2"))

	data, err := json.Marshal(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"1","b":{"c":"2"}}`, string(data))

	decoded := NewContext()
	require.NoError(t, json.Unmarshal(data, decoded))
	assert.Equal(t, "1 2", decoded.MustRender("{{a}} {{b.c}}"))

	empty, err := json.Marshal(&Context{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(empty))
}

func TestContext_DecomposedNamesReachable(t *testing.T) {
	const decomposed = "cafe\u0301"
	const composed = "caf\u00e9"

	t.Run("object property", func(t *testing.T) {
		ctx := NewContext().WithDefine(Single("obj"), NewObject().WithProperty(decomposed, Text("X")))

		out, err := ctx.Render("{{ obj." + decomposed + " }}")
		require.NoError(t, err)
		assert.Equal(t, "X", out)

		out, err = ctx.Render("{{ obj." + composed + " }}")
		require.NoError(t, err)
		assert.Equal(t, "X", out)
	})

	t.Run("root from map", func(t *testing.T) {
		ctx, err := ContextFromMap(map[string]any{decomposed: "Y"})
		require.NoError(t, err)
		assert.Equal(t, []string{composed}, ctx.Roots())

		out, err := ctx.Render("{{ " + decomposed + " }}")
		require.NoError(t, err)
		assert.Equal(t, "Y", out)
	})

	t.Run("keys from JSON", func(t *testing.T) {
		ctx := NewContext()
		require.NoError(t, json.Unmarshal([]byte(`{"cafe\u0301": {"na\u0308me": "Z"}}`), ctx))

		out, err := ctx.Render("{{ " + composed + ".n\u00e4me }}")
		require.NoError(t, err)
		assert.Equal(t, "Z", out)
	})
}
