package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/roach88/colorgraph/internal/colors"
	"github.com/roach88/colorgraph/internal/ir"
)

// Entry kinds accepted in a color table.
const (
	KindObject    = "object"
	KindPrimitive = "primitive"
	KindNative    = "native"
	KindUnion     = "union"
)

// ColorTable is a compiled color table: named colors in declaration order.
type ColorTable struct {
	names       []string
	colors      map[string]*colors.Color
	descriptors ir.IRObject
}

// Names returns entry names in declaration order.
func (t *ColorTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of entries.
func (t *ColorTable) Len() int {
	return len(t.names)
}

// Lookup returns the color compiled for name.
func (t *ColorTable) Lookup(name string) (*colors.Color, bool) {
	c, ok := t.colors[name]
	return c, ok
}

// MustLookup is like Lookup but panics if name is not in the table.
// Use only in tests or when the name comes from Names().
func (t *ColorTable) MustLookup(name string) *colors.Color {
	c, ok := t.colors[name]
	if !ok {
		panic(fmt.Sprintf("compiler: color %q not in table", name))
	}
	return c
}

// Digest returns the content digest of the table source. Anonymous object
// identities are minted at compile time and are not part of the digest.
func (t *ColorTable) Digest() (string, error) {
	return ir.TableDigest(t.descriptors)
}

// entrySpec mirrors one CUE table entry.
type entrySpec struct {
	Kind      string   `json:"kind"`
	Name      string   `json:"name,omitempty"`
	Natives   []string `json:"natives,omitempty"`
	Members   []string `json:"members,omitempty"`
	Anonymous bool     `json:"anonymous,omitempty"`
}

type entry struct {
	label string
	spec  entrySpec
	value cue.Value
}

// CompileColorTable compiles a CUE color table into named colors.
//
// v is the table struct itself, e.g. the value at path "color":
//
//	color: {
//	    Foo:   {kind: "object"}
//	    Maybe: {kind: "union", members: ["Foo", "null_or_void"]}
//	}
//
// Union members name either another entry or a native color id; entries
// shadow natives. Primitive and native entries carry exactly one native id.
// Anonymous objects get a fresh identity from gen.
func CompileColorTable(v cue.Value, registry *colors.Registry, gen colors.IdentityGenerator) (*ColorTable, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	entries, err := decodeEntries(v)
	if err != nil {
		return nil, err
	}

	byLabel := make(map[string]*entry, len(entries))
	for i := range entries {
		byLabel[entries[i].label] = &entries[i]
	}

	graph := newReferenceGraph()
	for _, e := range entries {
		if err := validateEntry(e, byLabel, registry); err != nil {
			return nil, err
		}
		graph.addNode(e.label)
		for _, m := range e.spec.Members {
			if _, ok := byLabel[m]; ok {
				graph.addEdge(e.label, m)
			}
		}
	}

	if cycles := findReferenceCycles(graph); len(cycles) > 0 {
		cycleErr := newCycleError(cycles[0])
		cycleErr.Pos = byLabel[cycles[0][0]].value.Pos()
		return nil, cycleErr
	}

	c := &tableCompiler{
		byLabel:  byLabel,
		registry: registry,
		gen:      gen,
		resolved: make(map[string]*colors.Color, len(entries)),
	}

	table := &ColorTable{
		names:       make([]string, 0, len(entries)),
		colors:      make(map[string]*colors.Color, len(entries)),
		descriptors: make(ir.IRObject, len(entries)),
	}
	for _, e := range entries {
		table.names = append(table.names, e.label)
		table.colors[e.label] = c.resolve(e.label)
		table.descriptors[e.label] = e.spec.descriptor()
	}

	return table, nil
}

func decodeEntries(v cue.Value) ([]entry, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var entries []entry
	for iter.Next() {
		ev := iter.Value()
		var spec entrySpec
		if err := ev.Decode(&spec); err != nil {
			return nil, formatCUEError(err)
		}
		entries = append(entries, entry{label: iter.Label(), spec: spec, value: ev})
	}
	return entries, nil
}

func validateEntry(e entry, byLabel map[string]*entry, registry *colors.Registry) error {
	fail := func(field, msg string) error {
		return &CompileError{
			Field:   field,
			Message: fmt.Sprintf("%s: %s", e.label, msg),
			Pos:     fieldPos(e.value, field),
		}
	}

	switch e.spec.Kind {
	case KindObject:
		if len(e.spec.Natives) > 0 || len(e.spec.Members) > 0 {
			return fail("kind", "object entries take neither natives nor members")
		}
	case KindPrimitive, KindNative:
		if len(e.spec.Natives) != 1 {
			return fail("natives", fmt.Sprintf("%s entries need exactly one native, found %d", e.spec.Kind, len(e.spec.Natives)))
		}
		id, ok := colors.ParseNativeColorID(e.spec.Natives[0])
		if !ok {
			return fail("natives", fmt.Sprintf("unknown native color %q", e.spec.Natives[0]))
		}
		if e.spec.Kind == KindPrimitive && !id.IsPrimitive() {
			return fail("natives", fmt.Sprintf("%q is not a primitive native (use kind %q)", id, KindNative))
		}
	case KindUnion:
		if len(e.spec.Members) == 0 {
			return fail("members", "union entries need at least one member")
		}
		for _, m := range e.spec.Members {
			if _, ok := byLabel[m]; ok {
				continue
			}
			if _, ok := registry.Lookup(m); !ok {
				return fail("members", fmt.Sprintf("unknown member %q", m))
			}
		}
	case "":
		return fail("kind", "kind is required")
	default:
		return fail("kind", fmt.Sprintf("unknown kind %q (want object, primitive, native or union)", e.spec.Kind))
	}

	if e.spec.Anonymous && e.spec.Kind != KindObject {
		return fail("anonymous", "only object entries can be anonymous")
	}
	return nil
}

func fieldPos(v cue.Value, field string) token.Pos {
	if fv := v.LookupPath(cue.ParsePath(field)); fv.Exists() {
		return fv.Pos()
	}
	return v.Pos()
}

// descriptor is the digest input for an entry.
func (s entrySpec) descriptor() ir.IRObject {
	obj := ir.NewIRObject(ir.O("kind", ir.IRString(s.Kind)))
	if s.Name != "" {
		obj["name"] = ir.IRString(s.Name)
	}
	if len(s.Natives) > 0 {
		obj["natives"] = ir.StringArray(s.Natives)
	}
	if len(s.Members) > 0 {
		obj["members"] = ir.StringArray(s.Members)
	}
	if s.Anonymous {
		obj["anonymous"] = ir.IRBool(true)
	}
	return obj
}

// tableCompiler resolves validated, acyclic entries to colors.
type tableCompiler struct {
	byLabel  map[string]*entry
	registry *colors.Registry
	gen      colors.IdentityGenerator
	resolved map[string]*colors.Color
}

func (c *tableCompiler) resolve(label string) *colors.Color {
	if color, ok := c.resolved[label]; ok {
		return color
	}

	e := c.byLabel[label]
	name := e.spec.Name
	if name == "" {
		name = label
	}

	var color *colors.Color
	switch e.spec.Kind {
	case KindObject:
		if e.spec.Anonymous {
			color = colors.NewAnonymousObject(c.gen, name)
		} else {
			color = colors.NewObject(name)
		}
	case KindPrimitive, KindNative:
		color, _ = c.registry.Lookup(e.spec.Natives[0])
	case KindUnion:
		members := make([]*colors.Color, len(e.spec.Members))
		for i, m := range e.spec.Members {
			members[i] = c.resolveMember(m)
		}
		color = colors.CreateUnion(members...)
	}

	c.resolved[label] = color
	return color
}

func (c *tableCompiler) resolveMember(ref string) *colors.Color {
	if _, ok := c.byLabel[ref]; ok {
		return c.resolve(ref)
	}
	color, _ := c.registry.Lookup(ref)
	return color
}
