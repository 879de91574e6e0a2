package colors

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/colorgraph/internal/ir"
)

// CreateUnion builds the union of members.
//
// Nested unions are flattened and members are deduplicated by ColorID, so
// member order and repetition never affect the result. A single distinct
// member is returned as-is rather than wrapped.
//
// Panics if members is empty or contains nil.
func CreateUnion(members ...*Color) *Color {
	if len(members) == 0 {
		panic("colors: union requires at least one member")
	}

	byID := make(map[ColorID]*Color, len(members))
	for i, m := range members {
		if m == nil {
			panic(fmt.Sprintf("colors: union member %d is nil", i))
		}
		if m.IsUnion() {
			for _, inner := range m.members {
				byID[inner.id] = inner
			}
			continue
		}
		byID[m.id] = m
	}

	flat := make([]*Color, 0, len(byID))
	for _, m := range byID {
		flat = append(flat, m)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	slices.SortFunc(flat, func(a, b *Color) int { return strings.Compare(string(a.id), string(b.id)) })

	return newUnion(flat)
}

// newUnion assumes members are flattened, unique and sorted by id.
func newUnion(members []*Color) *Color {
	ids := make([]string, len(members))
	names := make([]string, len(members))
	var natives []NativeColorID
	for i, m := range members {
		ids[i] = string(m.id)
		names[i] = m.String()
		natives = append(natives, m.natives...)
	}
	slices.Sort(names)

	return &Color{
		id:      descriptorID(ir.NewIRObject(ir.O("kind", ir.IRString("union")), ir.O("members", ir.StringArray(ids)))),
		kind:    KindUnion,
		natives: normalizeNatives(natives),
		members: members,
		name:    "(" + strings.Join(names, "|") + ")",
	}
}

// SubtractNullOrVoid removes the null_or_void primitive from a union.
//
// If a single member remains it is returned directly. Non-union colors, and
// unions without a null_or_void member, are returned unchanged.
func (c *Color) SubtractNullOrVoid() *Color {
	if !c.IsUnion() {
		return c
	}

	kept := make([]*Color, 0, len(c.members))
	for _, m := range c.members {
		if isNullOrVoid(m) {
			continue
		}
		kept = append(kept, m)
	}

	switch len(kept) {
	case len(c.members), 0:
		return c
	case 1:
		return kept[0]
	default:
		return newUnion(kept)
	}
}

func isNullOrVoid(c *Color) bool {
	return c.IsPrimitive() && len(c.natives) == 1 && c.natives[0] == NullOrVoid
}
