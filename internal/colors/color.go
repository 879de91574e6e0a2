package colors

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/colorgraph/internal/ir"
)

// ColorID is the content-addressed identity of a color.
type ColorID string

// Kind is the shape of a color.
type Kind uint8

const (
	KindObject Kind = iota
	KindPrimitive
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindPrimitive:
		return "primitive"
	case KindUnion:
		return "union"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Color is an immutable type descriptor.
//
// Construct colors with NewPrimitive, NewNativeObject, NewObject,
// NewAnonymousObject or CreateUnion. The zero value is not usable.
type Color struct {
	id      ColorID
	kind    Kind
	natives []NativeColorID // sorted, unique
	members []*Color        // union only; sorted by id, unique
	name    string
}

// NewPrimitive creates a primitive color carrying the given native ids.
//
// A well-formed primitive carries exactly one primitive native id. Other
// counts are representable so that consumers can detect and reject them.
func NewPrimitive(ids ...NativeColorID) *Color {
	natives := normalizeNatives(ids)
	names := nativeNames(natives)
	return &Color{
		id:      descriptorID(ir.NewIRObject(ir.O("kind", ir.IRString("primitive")), ir.O("natives", ir.StringArray(names)))),
		kind:    KindPrimitive,
		natives: natives,
		name:    strings.Join(names, "&"),
	}
}

// NewNativeObject creates the object color for a non-primitive native id
// such as Unknown, TopObject or NumberObject.
//
// Panics if id is a primitive id: primitives are created with NewPrimitive.
func NewNativeObject(id NativeColorID) *Color {
	if id.IsPrimitive() || !id.Valid() {
		panic(fmt.Sprintf("colors: %v is not a native object color", id))
	}
	return &Color{
		id:      descriptorID(ir.NewIRObject(ir.O("kind", ir.IRString("object")), ir.O("natives", ir.StringArray([]string{id.String()})))),
		kind:    KindObject,
		natives: []NativeColorID{id},
		name:    id.String(),
	}
}

// NewObject creates a named object color. Object colors with the same name
// are the same color.
func NewObject(name string) *Color {
	return &Color{
		id:   descriptorID(ir.NewIRObject(ir.O("kind", ir.IRString("object")), ir.O("name", ir.IRString(name)))),
		kind: KindObject,
		name: name,
	}
}

// NewAnonymousObject creates an object color with a fresh identity minted by
// gen. Two anonymous objects are never the same color, even with equal
// debug names.
func NewAnonymousObject(gen IdentityGenerator, debugName string) *Color {
	return &Color{
		id: descriptorID(ir.NewIRObject(
			ir.O("kind", ir.IRString("object")),
			ir.O("name", ir.IRString(debugName)),
			ir.O("identity", ir.IRString(gen.Generate())),
		)),
		kind: KindObject,
		name: debugName,
	}
}

func descriptorID(descriptor ir.IRObject) ColorID {
	return ColorID(ir.MustColorID(descriptor))
}

func normalizeNatives(ids []NativeColorID) []NativeColorID {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func nativeNames(ids []NativeColorID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return names
}

// ID returns the content-addressed identity of c.
func (c *Color) ID() ColorID {
	return c.id
}

// Kind returns the shape of c.
func (c *Color) Kind() Kind {
	return c.kind
}

func (c *Color) IsUnion() bool     { return c.kind == KindUnion }
func (c *Color) IsPrimitive() bool { return c.kind == KindPrimitive }
func (c *Color) IsObject() bool    { return c.kind == KindObject }

// NativeColorIDs returns the native ids carried by c. For unions this is the
// union of the members' native ids.
func (c *Color) NativeColorIDs() []NativeColorID {
	return slices.Clone(c.natives)
}

// HasNativeColorID reports whether c carries id.
func (c *Color) HasNativeColorID(id NativeColorID) bool {
	_, found := slices.BinarySearch(c.natives, id)
	return found
}

// UnionMembers returns the members of a union, ordered by id.
// Returns nil for non-union colors.
func (c *Color) UnionMembers() []*Color {
	if !c.IsUnion() {
		return nil
	}
	return slices.Clone(c.members)
}

// DebugName returns the human-readable name c was created with.
func (c *Color) DebugName() string {
	return c.name
}

// Equal reports whether c and other are the same color. Two nil colors are
// equal.
func (c *Color) Equal(other *Color) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.id == other.id
}

func (c *Color) String() string {
	if c == nil {
		return "<absent>"
	}
	return c.name
}
