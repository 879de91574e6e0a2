package disambiguate

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/colorgraph/internal/colors"
	"github.com/roach88/colorgraph/internal/testutil"
)

func newTestFactory(t *testing.T, opts ...FactoryOption) (*ColorGraphNodeFactory, *colors.Registry) {
	t.Helper()
	registry := colors.NewRegistry()
	opts = append([]FactoryOption{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewFactory(registry, opts...), registry
}

// sampleColors covers every shape the simplifier distinguishes.
func sampleColors(registry *colors.Registry) map[string]*colors.Color {
	gen := testutil.NewSequentialIdentityGenerator("sample")
	foo := colors.NewObject("Foo")
	bar := colors.NewObject("Bar")
	num := registry.Get(colors.Number)
	str := registry.Get(colors.String)
	nullOrVoid := registry.Get(colors.NullOrVoid)

	return map[string]*colors.Color{
		"absent":               nil,
		"unknown":              registry.Get(colors.Unknown),
		"top_object":           registry.Get(colors.TopObject),
		"number":               num,
		"number_object":        registry.Get(colors.NumberObject),
		"null_or_void":         nullOrVoid,
		"object":               foo,
		"anonymous object":     colors.NewAnonymousObject(gen, "Literal"),
		"object or null":       colors.CreateUnion(foo, nullOrVoid),
		"two objects":          colors.CreateUnion(foo, bar),
		"two objects or null":  colors.CreateUnion(foo, bar, nullOrVoid),
		"number or string":     colors.CreateUnion(num, str),
		"primitive and object": colors.CreateUnion(num, foo, nullOrVoid),
	}
}

func TestNewFactory_UnknownIsIndexZero(t *testing.T) {
	f, registry := newTestFactory(t)

	all := f.AllKnownTypes()
	require.Len(t, all, 1)
	assert.Equal(t, 0, all[0].Index())
	assert.Same(t, registry.Get(colors.Unknown), all[0].Color())
	assert.Equal(t, 1, f.Size())
}

func TestCreateNode_Idempotent(t *testing.T) {
	f, registry := newTestFactory(t)

	for name, c := range sampleColors(registry) {
		t.Run(name, func(t *testing.T) {
			first := f.CreateNode(c)
			second := f.CreateNode(c)

			assert.Same(t, first, second)
			assert.Equal(t, first.Index(), second.Index())
		})
	}
}

func TestCreateNode_LookalikeNamesGetDistinctNodes(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"normalization forms", "Caf\u00e9", "Cafe\u0301"},
		{"invalid bytes", "T\xff", "T\xfe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newTestFactory(t)

			a := f.CreateNode(colors.NewObject(tt.a))
			b := f.CreateNode(colors.NewObject(tt.b))

			assert.NotSame(t, a, b)
			assert.Equal(t, 1, a.Index())
			assert.Equal(t, 2, b.Index())
			assert.Equal(t, 3, f.Size())
		})
	}
}

func TestCreateNode_SimplificationIsDeterministicAcrossFactories(t *testing.T) {
	registry := colors.NewRegistry()
	samples := sampleColors(registry)

	f1 := NewFactory(registry, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	f2 := NewFactory(registry, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	for name, c := range samples {
		assert.True(t, f1.CreateNode(c).Color().Equal(f2.CreateNode(c).Color()), name)
	}
}

func TestCreateNode_UnknownUnification(t *testing.T) {
	f, registry := newTestFactory(t)

	absent := f.CreateNode(nil)
	unknown := f.CreateNode(registry.Get(colors.Unknown))
	nullOrVoid := f.CreateNode(registry.Get(colors.NullOrVoid))

	assert.Same(t, absent, unknown)
	assert.Same(t, absent, nullOrVoid)
	assert.Equal(t, 0, absent.Index())
	assert.Equal(t, 1, f.Size(), "no new node for unknown variants")
}

func TestCreateNode_IndexOrdering(t *testing.T) {
	f, _ := newTestFactory(t)

	a := f.CreateNode(colors.NewObject("A"))
	b := f.CreateNode(colors.NewObject("B"))
	f.CreateNode(colors.NewObject("A"))
	c := f.CreateNode(colors.NewObject("C"))

	assert.Equal(t, 1, a.Index())
	assert.Equal(t, 2, b.Index())
	assert.Equal(t, 3, c.Index())

	for i, node := range f.AllKnownTypes() {
		assert.Equal(t, i, node.Index(), "indices are gapless and in order")
	}
}

func TestCreateNode_UnknownStaysZeroWhateverTheCallOrder(t *testing.T) {
	f, _ := newTestFactory(t)

	f.CreateNode(colors.NewObject("First"))
	assert.Equal(t, 0, f.CreateNode(nil).Index())
}

func TestCreateNode_NullOrVoidStripping(t *testing.T) {
	f, registry := newTestFactory(t)
	foo := colors.NewObject("Foo")

	withNull := f.CreateNode(colors.CreateUnion(foo, registry.Get(colors.NullOrVoid)))
	plain := f.CreateNode(foo)

	assert.Same(t, plain, withNull)
	assert.Same(t, foo, plain.Color(), "object colors are never rewritten")
}

func TestCreateNode_NullOrVoidStrippingKeepsUnion(t *testing.T) {
	f, registry := newTestFactory(t)
	foo, bar := colors.NewObject("Foo"), colors.NewObject("Bar")

	withNull := f.CreateNode(colors.CreateUnion(foo, bar, registry.Get(colors.NullOrVoid)))
	plain := f.CreateNode(colors.CreateUnion(bar, foo))

	assert.Same(t, plain, withNull)
	assert.True(t, plain.Color().IsUnion())
}

func TestCreateNode_PrimitiveBoxing(t *testing.T) {
	tests := []struct {
		primitive colors.NativeColorID
		boxed     colors.NativeColorID
	}{
		{colors.Number, colors.NumberObject},
		{colors.String, colors.StringObject},
		{colors.Boolean, colors.BooleanObject},
		{colors.BigInt, colors.BigIntObject},
		{colors.Symbol, colors.SymbolObject},
	}

	for _, tt := range tests {
		t.Run(tt.primitive.String(), func(t *testing.T) {
			f, registry := newTestFactory(t)

			prim := f.CreateNode(registry.Get(tt.primitive))
			boxed := f.CreateNode(registry.Get(tt.boxed))

			assert.Same(t, boxed, prim)
			assert.Same(t, registry.Get(tt.boxed), prim.Color())
		})
	}
}

func TestCreateNode_PrimitiveBuiltOutsideRegistry(t *testing.T) {
	f, registry := newTestFactory(t)

	node := f.CreateNode(colors.NewPrimitive(colors.Number))
	assert.Same(t, registry.Get(colors.NumberObject), node.Color())
}

func TestCreateNode_UnionMembersAreSimplified(t *testing.T) {
	f, registry := newTestFactory(t)
	num, str := registry.Get(colors.Number), registry.Get(colors.String)

	node := f.CreateNode(colors.CreateUnion(num, str, registry.Get(colors.NullOrVoid)))

	want := colors.CreateUnion(registry.Get(colors.NumberObject), registry.Get(colors.StringObject))
	assert.True(t, want.Equal(node.Color()), "got %s", node.Color())
	assert.Same(t, node, f.CreateNode(want))
}

func TestCreateNode_UnionCollapsingAfterSimplification(t *testing.T) {
	f, registry := newTestFactory(t)

	// number and number_object simplify to the same color
	node := f.CreateNode(colors.CreateUnion(registry.Get(colors.Number), registry.Get(colors.NumberObject)))

	assert.Same(t, registry.Get(colors.NumberObject), node.Color())
	assert.False(t, node.Color().IsUnion())
}

func TestCreateNode_AnonymousObjectsStayDistinct(t *testing.T) {
	f, _ := newTestFactory(t)
	gen := testutil.NewSequentialIdentityGenerator("anon")

	a := f.CreateNode(colors.NewAnonymousObject(gen, "Literal"))
	b := f.CreateNode(colors.NewAnonymousObject(gen, "Literal"))

	assert.NotSame(t, a, b)
	assert.NotEqual(t, a.Index(), b.Index())
}

func TestAllKnownTypes_SnapshotStability(t *testing.T) {
	f, _ := newTestFactory(t)
	f.CreateNode(colors.NewObject("A"))

	snapshot := f.AllKnownTypes()
	require.Len(t, snapshot, 2)

	f.CreateNode(colors.NewObject("B"))
	f.CreateNode(colors.NewObject("C"))

	assert.Len(t, snapshot, 2, "earlier snapshot must not grow")
	assert.Equal(t, "A", snapshot[1].Color().String())
	assert.Len(t, f.AllKnownTypes(), 4)

	snapshot[0] = nil
	assert.NotNil(t, f.AllKnownTypes()[0], "mutating a snapshot does not touch the factory")
}

func TestEndToEndScenario(t *testing.T) {
	registry := colors.NewRegistry()
	f := NewFactory(registry, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	u := registry.Get(colors.Unknown)
	bn := registry.Get(colors.NumberObject)
	num := registry.Get(colors.Number)
	nullOrVoid := registry.Get(colors.NullOrVoid)

	n0 := f.CreateNode(nil)
	assert.Same(t, u, n0.Color())
	assert.Equal(t, 0, n0.Index())

	n1 := f.CreateNode(num)
	assert.Same(t, bn, n1.Color())
	assert.Equal(t, 1, n1.Index())

	assert.Same(t, n1, f.CreateNode(num))
	assert.Same(t, n1, f.CreateNode(colors.CreateUnion(num, nullOrVoid)))

	all := f.AllKnownTypes()
	require.Len(t, all, 2)
	assert.Same(t, n0, all[0])
	assert.Same(t, n1, all[1])
}

func TestCreateNode_MalformedPrimitivePanics(t *testing.T) {
	tests := []struct {
		name  string
		color *colors.Color
	}{
		{"two natives", colors.NewPrimitive(colors.Number, colors.String)},
		{"no natives", colors.NewPrimitive()},
		{"inside union", colors.CreateUnion(colors.NewObject("Foo"), colors.NewPrimitive(colors.Number, colors.String))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newTestFactory(t)

			var recovered any
			func() {
				defer func() { recovered = recover() }()
				f.CreateNode(tt.color)
			}()

			ie, ok := recovered.(*InvariantError)
			require.True(t, ok, "expected *InvariantError panic, got %#v", recovered)
			assert.Equal(t, ErrCodeMalformedPrimitive, ie.Code)
			assert.Contains(t, ie.Message, "to correspond to a single native color")
			assert.Equal(t, 1, f.Size(), "no node inserted on failure")
		})
	}
}

func TestCreateNode_DepthBound(t *testing.T) {
	f, _ := newTestFactory(t, WithMaxDepth(0))
	union := colors.CreateUnion(colors.NewObject("A"), colors.NewObject("B"))

	err := func() (err error) {
		defer RecoverInvariant(&err)
		f.CreateNode(union)
		return nil
	}()

	require.Error(t, err)
	assert.True(t, IsInvariantError(err))
	var ie *InvariantError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, ErrCodeDepthExceeded, ie.Code)

	// non-union colors never recurse
	assert.Equal(t, 1, f.CreateNode(colors.NewObject("A")).Index())
}

func TestWithMaxDepth_NegativeIgnored(t *testing.T) {
	f, _ := newTestFactory(t, WithMaxDepth(-1))
	assert.Equal(t, DefaultMaxDepth, f.maxDepth)
}

// stubRegistry resolves every native to a distinct named object, to check
// that the factory consults the registry it was given and nothing else.
type stubRegistry struct {
	colors map[colors.NativeColorID]*colors.Color
}

func (r *stubRegistry) Get(id colors.NativeColorID) *colors.Color {
	return r.colors[id]
}

func TestNewFactory_UsesInjectedRegistry(t *testing.T) {
	myUnknown := colors.NewObject("MyUnknown")
	myNumber := colors.NewObject("MyNumber")
	reg := &stubRegistry{colors: map[colors.NativeColorID]*colors.Color{
		colors.Unknown:      myUnknown,
		colors.NumberObject: myNumber,
	}}

	f := NewFactory(reg, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	assert.Same(t, myUnknown, f.CreateNode(nil).Color())
	assert.Same(t, myNumber, f.CreateNode(colors.NewPrimitive(colors.Number)).Color())
}

func TestNewFactory_MissingNativePanics(t *testing.T) {
	reg := &stubRegistry{colors: map[colors.NativeColorID]*colors.Color{}}

	assert.PanicsWithError(t, "MISSING_NATIVE: registry has no color for native id unknown", func() {
		NewFactory(reg)
	})
}

func TestCreateNode_LogsNodeCreation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f := NewFactory(colors.NewRegistry(), WithLogger(logger))

	buf.Reset()
	f.CreateNode(colors.NewObject("Foo"))
	assert.Contains(t, buf.String(), "color graph node created")
	assert.Contains(t, buf.String(), "index=1")
	assert.Contains(t, buf.String(), "color=Foo")

	buf.Reset()
	f.CreateNode(colors.NewObject("Foo"))
	assert.Empty(t, buf.String(), "cache hits are silent")
}

func TestRecoverInvariant_RepanicsOtherValues(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		var err error
		defer RecoverInvariant(&err)
		panic("boom")
	})
}

func TestColorGraphNode_String(t *testing.T) {
	f, _ := newTestFactory(t)
	node := f.CreateNode(colors.NewObject("Foo"))
	assert.Equal(t, "ColorGraphNode{1, Foo}", node.String())
}
