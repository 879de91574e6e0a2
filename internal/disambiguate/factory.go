package disambiguate

import (
	"log/slog"
	"slices"

	"github.com/roach88/colorgraph/internal/colors"
)

// ColorRegistry resolves native color ids to their canonical colors.
// Implemented by *colors.Registry.
type ColorRegistry interface {
	Get(id colors.NativeColorID) *colors.Color
}

// DefaultMaxDepth bounds union nesting during simplification.
// Unions built with colors.CreateUnion are flat, so only a broken color
// model can come near it.
const DefaultMaxDepth = 64

// ColorGraphNodeFactory is a factory and cache for ColorGraphNode values.
//
// NOT safe for concurrent use; see the package documentation.
type ColorGraphNodeFactory struct {
	typeIndex map[colors.ColorID]*ColorGraphNode
	nodes     []*ColorGraphNode // index order; nodes[i].index == i
	registry  ColorRegistry
	logger    *slog.Logger
	maxDepth  int
}

// FactoryOption configures a ColorGraphNodeFactory.
type FactoryOption func(*ColorGraphNodeFactory)

// WithLogger sets the logger used for node creation events.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) FactoryOption {
	return func(f *ColorGraphNodeFactory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMaxDepth sets the maximum union nesting depth accepted by CreateNode.
// Negative values are ignored. Default: DefaultMaxDepth.
func WithMaxDepth(maxDepth int) FactoryOption {
	return func(f *ColorGraphNodeFactory) {
		if maxDepth >= 0 {
			f.maxDepth = maxDepth
		}
	}
}

// NewFactory creates a factory bound to registry.
//
// The registry's unknown color is inserted eagerly as node 0, so it holds
// index 0 whatever order clients request colors in.
func NewFactory(registry ColorRegistry, opts ...FactoryOption) *ColorGraphNodeFactory {
	f := &ColorGraphNodeFactory{
		typeIndex: make(map[colors.ColorID]*ColorGraphNode),
		registry:  registry,
		logger:    slog.Default(),
		maxDepth:  DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(f)
	}

	f.insert(f.native(colors.Unknown))
	return f
}

// CreateNode returns the node known by this factory for color.
//
// For a given color and factory this always returns the same *ColorGraphNode;
// colors that simplify to the same canonical color share it. A nil color is
// treated as unknown.
//
// Panics with *InvariantError if the color model violates its contract.
func (f *ColorGraphNodeFactory) CreateNode(color *colors.Color) *ColorGraphNode {
	key := f.simplifyColor(color, 0)
	if node, ok := f.typeIndex[key.ID()]; ok {
		return node
	}
	return f.insert(key)
}

// AllKnownTypes returns every node created so far, ordered by index.
// The returned slice is a copy and does not observe later insertions.
func (f *ColorGraphNodeFactory) AllKnownTypes() []*ColorGraphNode {
	return slices.Clone(f.nodes)
}

// Size returns the number of nodes created so far, including unknown.
func (f *ColorGraphNodeFactory) Size() int {
	return len(f.nodes)
}

func (f *ColorGraphNodeFactory) insert(key *colors.Color) *ColorGraphNode {
	node := &ColorGraphNode{color: key, index: len(f.nodes)}
	f.nodes = append(f.nodes, node)
	f.typeIndex[key.ID()] = node

	f.logger.Debug("color graph node created",
		"index", node.index,
		"color", key.String(),
		"kind", key.Kind().String(),
	)
	return node
}

// simplifyColor merges colors with the same ambiguation behavior into one.
func (f *ColorGraphNodeFactory) simplifyColor(color *colors.Color, depth int) *colors.Color {
	if color == nil {
		return f.native(colors.Unknown)
	}
	if depth > f.maxDepth {
		panic(newDepthExceededError(color, f.maxDepth))
	}

	switch {
	case color.IsUnion():
		// First remove null/void, then recursively simplify what is left.
		stripped := color.SubtractNullOrVoid()
		if !stripped.IsUnion() {
			return f.simplifyColor(stripped, depth)
		}
		members := stripped.UnionMembers()
		simplified := make([]*colors.Color, len(members))
		for i, m := range members {
			simplified[i] = f.simplifyColor(m, depth+1)
		}
		return colors.CreateUnion(simplified...)
	case color.IsPrimitive():
		return f.flattenSingletonPrimitive(color)
	default:
		return color
	}
}

func (f *ColorGraphNodeFactory) flattenSingletonPrimitive(color *colors.Color) *colors.Color {
	natives := color.NativeColorIDs()
	if len(natives) != 1 {
		panic(newMalformedPrimitiveError(color))
	}
	if natives[0] == colors.NullOrVoid {
		return f.native(colors.Unknown)
	}
	return f.native(natives[0].Box())
}

func (f *ColorGraphNodeFactory) native(id colors.NativeColorID) *colors.Color {
	c := f.registry.Get(id)
	if c == nil {
		panic(newMissingNativeError(id))
	}
	return c
}
